package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/config"
)

// DBClient holds the PostgreSQL connection pool.
type DBClient struct {
	db  *sql.DB
	log *zap.Logger
}

// DSN renders the lib/pq connection string for cfg.
func DSN(cfg config.PostgresConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// NewPostgresClient opens and pings the database. Lambdas keep the pool small
// since every warm container holds its own.
func NewPostgresClient(cfg config.PostgresConfig, log *zap.Logger) (*DBClient, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))
	return &DBClient{db: db, log: log}, nil
}

// NewFromDB wraps an existing pool, e.g. one opened by sqlmock.
func NewFromDB(db *sql.DB, log *zap.Logger) *DBClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &DBClient{db: db, log: log}
}

// Migrate runs each statement in one transaction. Statements must be
// idempotent since every cold start applies them.
func (c *DBClient) Migrate(ctx context.Context, stmts ...string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	c.log.Debug("migrations applied", zap.Int("statements", len(stmts)))
	return nil
}

// Close closes the pool.
func (c *DBClient) Close() {
	if c.db != nil {
		c.db.Close()
		c.log.Info("PostgreSQL connection closed")
	}
}

// GetDB returns the underlying *sql.DB instance.
func (c *DBClient) GetDB() *sql.DB {
	return c.db
}
