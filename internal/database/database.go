package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/config"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// Close terminates the database connection.
	Close() error

	DB() *sql.DB
}

type service struct {
	db     *sql.DB
	name   string
	logger *slog.Logger
}

// DSN builds the pgx connection string from the BLUEPRINT_DB_* settings.
func DSN(cfg *config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort),
		Path:   cfg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	if cfg.DBSchema != "" {
		q.Set("search_path", cfg.DBSchema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func New(cfg *config.Config, logger *slog.Logger) (Service, error) {
	return Open(DSN(cfg), cfg.DBName, logger)
}

// Open connects with an explicit DSN; tests use it against a container.
func Open(dsn, name string, logger *slog.Logger) (Service, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &service{db: db, name: name, logger: logger}, nil
}

func (s *service) DB() *sql.DB {
	return s.db
}

// Health checks the health of the database connection by pinging the database.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.OpenConnections > 8 {
		stats["message"] = "The database is experiencing heavy load."
	}

	return stats
}

func (s *service) Close() error {
	if s.logger != nil {
		s.logger.Info("disconnected from database", slog.String("database", s.name))
	}
	return s.db.Close()
}
