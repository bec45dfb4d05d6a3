package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/vocaboli/api/internal/cache"
	"github.com/vocaboli/api/internal/config"
	"github.com/vocaboli/api/internal/database"
	"github.com/vocaboli/api/internal/model"
	"github.com/vocaboli/api/internal/repository"
	"github.com/vocaboli/api/internal/vocab"
)

type batchWriter interface {
	UpsertBatch(ctx context.Context, rows []model.Vocabolo) (int, error)
}

func main() {
	filePath := flag.String("file", "data/vocaboli.json", "Path to a JSON array of entries")
	batchSize := flag.Int("batch", 500, "Entries per transaction")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(config.Load(), *filePath, *batchSize); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, filePath string, batchSize int) error {
	log.Printf("Seeding vocaboli from %s", filePath)

	entries, err := loadEntries(filePath)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}
	log.Printf("Loaded %d entries from file", len(entries))

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	ctx := context.Background()
	repo := repository.NewVocaboliRepository(db)
	upserted, skipped, err := seed(ctx, repo, entries, batchSize)
	if upserted > 0 {
		bumpCacheGeneration(ctx, cfg.RedisURL)
	}
	if err != nil {
		return fmt.Errorf("seeding stopped after %d entries: %w", upserted, err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("Seeding complete. Upserted: %d, Skipped: %d, Stored: %d", upserted, skipped, total)
	return nil
}

// bumpCacheGeneration makes running API servers stop serving dictionaries
// cached before the seed.
func bumpCacheGeneration(ctx context.Context, redisURL string) {
	if redisURL == "" {
		return
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: could not reach Redis to refresh the cache: %v", err)
		return
	}
	defer redisCache.Close()
	if err := redisCache.BumpGeneration(ctx); err != nil {
		log.Printf("Warning: could not refresh the cache: %v", err)
	}
}

func loadEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%s: expected a JSON array of entries: %w", path, err)
	}
	return entries, nil
}

// seed writes entries in batches, one transaction per batch. A failing batch
// stops the run; earlier batches stay committed.
func seed(ctx context.Context, w batchWriter, entries []json.RawMessage, batchSize int) (upserted, skipped int, err error) {
	if batchSize < 1 {
		batchSize = 1
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}

		rows, batchSkipped, err := vocab.ParseBatch(entries[i:end])
		if err != nil {
			return upserted, skipped, fmt.Errorf("batch starting at entry %d: %w", i+1, err)
		}

		n, err := w.UpsertBatch(ctx, rows)
		if err != nil {
			return upserted, skipped, fmt.Errorf("batch starting at entry %d: %w", i+1, err)
		}
		upserted += n
		skipped += batchSkipped

		log.Printf("Progress: %d/%d entries processed", end, len(entries))
	}

	return upserted, skipped, nil
}
