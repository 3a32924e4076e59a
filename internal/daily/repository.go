package daily

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/database"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
)

// PostgresStore keeps the record as one row of daily_verse_cache.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dbService database.Service) *PostgresStore {
	return &PostgresStore{db: dbService.DB()}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS daily_verse_cache (
			cache_key  TEXT PRIMARY KEY,
			day        TEXT NOT NULL,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return errorsx.Wrap(fmt.Errorf("create daily_verse_cache: %w", err), errorsx.ReasonStorage)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Entry, error) {
	query := `
		SELECT day, payload
		FROM daily_verse_cache
		WHERE cache_key = $1
	`

	var (
		day     string
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, query, cacheKey).Scan(&day, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, errorsx.Wrap(fmt.Errorf("load daily cache: %w", err), errorsx.ReasonStorage)
	}

	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("decode daily cache row: %w", err), errorsx.ReasonStorage)
	}
	entry.Day = day
	return &entry, nil
}

func (s *PostgresStore) Save(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return errorsx.Wrap(fmt.Errorf("encode daily cache: %w", err), errorsx.ReasonStorage)
	}

	query := `
		INSERT INTO daily_verse_cache (cache_key, day, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (cache_key)
		DO UPDATE SET day = EXCLUDED.day, payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, cacheKey, entry.Day, payload); err != nil {
		return errorsx.Wrap(fmt.Errorf("save daily cache: %w", err), errorsx.ReasonStorage)
	}
	return nil
}
