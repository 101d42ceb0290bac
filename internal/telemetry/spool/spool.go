// Package spool persists built telemetry events in a local libsql database
// so they can be shipped to a collector out of band. Appending never blocks
// classification; callers decide whether spool failures are fatal.
package spool

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/feedlens/feedlens/internal/config"
	"github.com/feedlens/feedlens/internal/telemetry"
)

const driverLibsql = "libsql"

// Spool wraps the database connection for the event spool.
type Spool struct {
	DB     *sql.DB
	driver string
}

// Entry is one spooled telemetry event row.
type Entry struct {
	ID        int64
	Event     *telemetry.Event
	CreatedAt time.Time
}

// Open initializes a spool connection using the provided configuration.
func Open(ctx context.Context, cfg config.StoreConfig) (*Spool, error) {
	driver := strings.TrimSpace(cfg.Driver)
	if driver == "" {
		driver = driverLibsql
	}

	if ctx == nil {
		ctx = context.Background()
	}

	switch driver {
	case driverLibsql:
		dsn, err := buildLibsqlDSN(cfg)
		if err != nil {
			return nil, err
		}

		db, err := sql.Open(driverLibsql, dsn)
		if err != nil {
			return nil, fmt.Errorf("open libsql spool: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping libsql spool: %w", err)
		}

		return &Spool{DB: db, driver: driver}, nil
	default:
		return nil, fmt.Errorf("unsupported spool driver: %s", driver)
	}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		properties TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		shipped_at INTEGER
	);`,
	`CREATE INDEX IF NOT EXISTS idx_events_pending ON events(shipped_at) WHERE shipped_at IS NULL;`,
}

// Migrate ensures the required database tables exist.
func (s *Spool) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("spool is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("spool migration failed: %w", err)
		}
	}

	return nil
}

// Append stores a built event for later shipping.
func (s *Spool) Append(ctx context.Context, event *telemetry.Event) error {
	if s == nil || s.DB == nil {
		return errors.New("spool is not initialized")
	}
	if event == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	properties, err := json.Marshal(event.Properties())
	if err != nil {
		return fmt.Errorf("encode event properties: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO events (name, properties, created_at)
		VALUES (?, ?, ?)
	`, event.Name(), string(properties), time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// Pending returns unshipped events, oldest first, up to limit.
// A limit of zero or less returns all pending events.
func (s *Spool) Pending(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("spool is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	query := `
		SELECT id, name, properties, created_at
		FROM events
		WHERE shipped_at IS NULL
		ORDER BY id ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch pending events: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var entries []Entry
	for rows.Next() {
		var (
			id             int64
			name           string
			propertiesJSON string
			createdAt      int64
		)
		if err := rows.Scan(&id, &name, &propertiesJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending event: %w", err)
		}

		var properties map[string]any
		if propertiesJSON != "" {
			if err := json.Unmarshal([]byte(propertiesJSON), &properties); err != nil {
				return nil, fmt.Errorf("decode event properties: %w", err)
			}
		}

		entries = append(entries, Entry{
			ID:        id,
			Event:     telemetry.NewEvent(name, properties),
			CreatedAt: time.Unix(createdAt, 0).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch pending events: %w", err)
	}

	return entries, nil
}

// PendingCount returns the number of unshipped events.
func (s *Spool) PendingCount(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("spool is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var count int64
	row := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE shipped_at IS NULL`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending events: %w", err)
	}
	return count, nil
}

// MarkShipped records that the given events were delivered.
func (s *Spool) MarkShipped(ctx context.Context, ids []int64) error {
	if s == nil || s.DB == nil {
		return errors.New("spool is not initialized")
	}
	if len(ids) == 0 {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, time.Now().UTC().Unix())
	for _, id := range ids {
		args = append(args, id)
	}

	query := fmt.Sprintf("UPDATE events SET shipped_at = ? WHERE id IN (%s)", placeholders)
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark events shipped: %w", err)
	}

	return nil
}

// Close releases database resources.
func (s *Spool) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Driver returns the configured spool driver.
func (s *Spool) Driver() string {
	if s == nil {
		return ""
	}
	return s.driver
}

func buildLibsqlDSN(cfg config.StoreConfig) (string, error) {
	if dsn := strings.TrimSpace(cfg.URL); dsn != "" {
		return addAuthToken(dsn, cfg.AuthToken)
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return "", errors.New("spool path or url is required")
	}

	if path == ":memory:" {
		return path, nil
	}

	if strings.HasPrefix(path, "file:") {
		localPath, err := extractFilePath(path)
		if err != nil {
			return "", err
		}
		if err := ensureSpoolDir(localPath); err != nil {
			return "", err
		}
		return path, nil
	}

	if strings.HasPrefix(path, "libsql:") {
		return path, nil
	}

	if err := ensureSpoolDir(path); err != nil {
		return "", err
	}
	return "file:" + filepath.Clean(path), nil
}

func addAuthToken(dsn string, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return dsn, nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid spool url: %w", err)
	}

	query := parsed.Query()
	if query.Get("authToken") == "" {
		query.Set("authToken", token)
		parsed.RawQuery = query.Encode()
	}

	return parsed.String(), nil
}

func extractFilePath(dsn string) (string, error) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid spool path: %w", err)
	}

	if parsed.Path != "" {
		return strings.TrimPrefix(parsed.Path, "//"), nil
	}

	return strings.TrimPrefix(parsed.Opaque, "//"), nil
}

func ensureSpoolDir(path string) error {
	if strings.TrimSpace(path) == "" || path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(filepath.Clean(path))
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}

	// #nosec G301 -- data directories use 0755 for multi-user access compatibility
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create spool directory: %w", err)
	}
	return nil
}
