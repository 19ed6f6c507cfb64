package database

import (
	"fmt"
	"net/url"
	"strings"

	"desguace/internal/logger"
	"desguace/internal/models"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string, log *logger.Logger, logLevel string) (*Database, error) {
	var dialector gorm.Dialector

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	} else {
		// PostgreSQL for production
		dsn, err := postgresDSN(databaseURL)
		if err != nil {
			return nil, err
		}
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(log, logger.GormLevel(logLevel)),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &Database{DB: db}, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}

// postgresDSN turns a connection URL into a libpq key/value DSN. The
// Prisma-style "schema" query parameter is not understood by libpq and is
// translated to search_path.
func postgresDSN(databaseURL string) (string, error) {
	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return databaseURL, nil
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	q := u.Query()
	schema := q.Get("schema")
	q.Del("schema")
	u.RawQuery = q.Encode()

	dsn, err := pq.ParseURL(u.String())
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	if schema != "" {
		dsn += " search_path=" + schema
	}
	return dsn, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
