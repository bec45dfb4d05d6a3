package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vocaboli/api/internal/cache"
	"github.com/vocaboli/api/internal/config"
	"github.com/vocaboli/api/internal/database"
	"github.com/vocaboli/api/internal/handler"
	"github.com/vocaboli/api/internal/middleware"
	"github.com/vocaboli/api/internal/repository"
	"github.com/vocaboli/api/internal/web"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	log.Println("Database and table 'vocaboli' ready")

	if cfg.InsertKey == "" {
		log.Println("Warning: INSERT_KEY is not set, bulk writes will be refused")
	}

	// Redis is optional; without it every read goes to PostgreSQL.
	var dictCache handler.Cache
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v", err)
		} else {
			dictCache = redisCache
		}
	}

	repo := repository.NewVocaboliRepository(db)
	r := newRouter(
		handler.NewVocaboliHandler(repo, dictCache, cfg),
		handler.NewExportHandler(repo),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("API server starting on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Shutting down (%s)", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
		}
	}

	if redisCache != nil {
		_ = redisCache.Close()
	}
	if err := database.Close(db); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
	log.Println("Shutdown complete")
}

func newRouter(vocaboliHandler *handler.VocaboliHandler, exportHandler *handler.ExportHandler) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Front-end
	r.GET("/", web.Index)
	r.StaticFS("/static", web.Static())

	api := r.Group("/api")
	{
		api.GET("/vocaboli", vocaboliHandler.List)
		api.GET("/vocaboli/export", exportHandler.Export)
		api.POST("/add_vocaboli_bulk", vocaboliHandler.AddBulk)
	}

	return r
}
