package sources

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"litsieve/internal/logging"
)

const (
	cacheBusyAttempts       = 5
	cacheBusyInitialBackoff = 10 * time.Millisecond
	cacheBusyMaxBackoff     = 200 * time.Millisecond
	defaultCacheTTL         = 14 * 24 * time.Hour
)

const harvestSchema = `
CREATE TABLE IF NOT EXISTS harvest (
    source      TEXT NOT NULL,
    identifier  TEXT NOT NULL,
    payload     TEXT NOT NULL,
    fetched_at  TIMESTAMP NOT NULL,
    PRIMARY KEY (source, identifier)
);
`

// HarvestCache persists raw candidate batches per (source, identifier) so
// repeated rounds and re-runs skip upstream calls for papers already
// harvested. Entries expire by TTL rather than by eviction.
type HarvestCache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

// OpenHarvestCache opens (and if needed creates) the cache database at path.
func OpenHarvestCache(path string, ttl time.Duration, logger *slog.Logger) (*HarvestCache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("harvest cache: path required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("harvest cache: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("harvest cache: open database: %w", err)
	}
	if _, err := db.Exec(harvestSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("harvest cache: apply schema: %w", err)
	}
	return &HarvestCache{
		db:     db,
		ttl:    ttl,
		logger: logging.NewComponentLogger(logger, "harvestcache"),
	}, nil
}

// Close releases the database handle.
func (c *HarvestCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached candidate batch for (source, identifier) when
// present and fresh.
func (c *HarvestCache) Get(ctx context.Context, source, identifier string) ([]Candidate, bool) {
	if c == nil || source == "" || identifier == "" {
		return nil, false
	}
	query, args, err := sq.Select("payload", "fetched_at").
		From("harvest").
		Where(sq.Eq{"source": source, "identifier": identifier}).
		ToSql()
	if err != nil {
		return nil, false
	}

	var payload string
	var fetchedAt time.Time
	err = retryOnBusy(ctx, func() error {
		return c.db.QueryRowContext(ctx, query, args...).Scan(&payload, &fetchedAt)
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn("harvest cache read failed", logging.Error(err))
		}
		return nil, false
	}
	if time.Since(fetchedAt) > c.ttl {
		return nil, false
	}
	var candidates []Candidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		c.logger.Warn("harvest cache payload malformed, ignoring entry",
			logging.String(logging.FieldSource, source),
			logging.Error(err))
		return nil, false
	}
	return candidates, true
}

// Put stores a candidate batch for (source, identifier), replacing any
// previous entry.
func (c *HarvestCache) Put(ctx context.Context, source, identifier string, candidates []Candidate) error {
	if c == nil || source == "" || identifier == "" {
		return nil
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("harvest cache: marshal payload: %w", err)
	}
	query, args, err := sq.Replace("harvest").
		Columns("source", "identifier", "payload", "fetched_at").
		Values(source, identifier, string(payload), time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("harvest cache: build insert: %w", err)
	}
	return retryOnBusy(ctx, func() error {
		_, err := c.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Prune removes expired entries and returns how many were deleted.
func (c *HarvestCache) Prune(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-c.ttl)
	query, args, err := sq.Delete("harvest").Where(sq.Lt{"fetched_at": cutoff}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("harvest cache: build delete: %w", err)
	}
	var removed int64
	err = retryOnBusy(ctx, func() error {
		result, err := c.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		removed, _ = result.RowsAffected()
		return nil
	})
	return removed, err
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := cacheBusyInitialBackoff
	var lastErr error
	for attempt := 0; attempt < cacheBusyAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == cacheBusyAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= cacheBusyMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
