package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vocaboli/api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectTimeout is applied to the DSN unless it already sets connect_timeout.
const ConnectTimeout = 15 * time.Second

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")

const createVocaboliTable = `
CREATE TABLE IF NOT EXISTS vocaboli (
	id SERIAL PRIMARY KEY,
	parola VARCHAR(255) UNIQUE NOT NULL,
	definizione TEXT,
	pos VARCHAR(50),
	espressione TEXT,
	sinonimi TEXT[],
	contrari TEXT[],
	note TEXT
)`

func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	logLevel := logger.Warn
	if cfg.GinMode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(WithConnectTimeout(cfg.DatabaseURL)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the vocaboli table if it does not exist yet. It never alters
// or drops an existing table.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(createVocaboliTable).Error; err != nil {
		return fmt.Errorf("create vocaboli table: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithConnectTimeout adds connect_timeout to both URL and key=value DSNs.
func WithConnectTimeout(dsn string) string {
	if strings.Contains(dsn, "connect_timeout") {
		return dsn
	}
	seconds := fmt.Sprintf("%d", int(ConnectTimeout.Seconds()))

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("connect_timeout", seconds)
		u.RawQuery = q.Encode()
		return u.String()
	}

	return strings.TrimSpace(dsn) + " connect_timeout=" + seconds
}
