package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"leaguehelper/internal/catalog"
	"leaguehelper/internal/config"
	"leaguehelper/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLStore keeps catalogs in a SQL table. It serves the local sqlite file,
// a remote libsql (Turso) database and postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// OpenSQL connects to the database for driver (config.DriverSQLite,
// config.DriverLibSQL or config.DriverPostgres) and creates the schema.
func OpenSQL(ctx context.Context, driver, dsn, authToken string, logger *zap.Logger) (*SQLStore, error) {
	logger = logging.OrNop(logger).Named("store")

	var sqlDriver string
	switch driver {
	case config.DriverSQLite:
		sqlDriver = "sqlite"
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	case config.DriverLibSQL:
		sqlDriver = "libsql"
		if authToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", dsn, authToken)
		}
	case config.DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	s := &SQLStore{db: db, driver: driver, logger: logger}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected", zap.String("driver", driver))
	return s, nil
}

// init creates the schema
func (s *SQLStore) init(ctx context.Context) error {
	blob := "BLOB"
	if s.driver == config.DriverPostgres {
		blob = "BYTEA"
	}

	schema := `
		CREATE TABLE IF NOT EXISTS catalogs (
			version TEXT PRIMARY KEY,
			vendor_patch TEXT NOT NULL,
			champions INTEGER NOT NULL DEFAULT 0,
			data ` + blob + ` NOT NULL,
			updated_at TEXT NOT NULL
		)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Load reads the catalog for a version
func (s *SQLStore) Load(ctx context.Context, version string) (*catalog.Catalog, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT data FROM catalogs WHERE version = ?"), version).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", version, err)
	}
	return Decode(data)
}

// Save upserts a catalog
func (s *SQLStore) Save(ctx context.Context, c *catalog.Catalog) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	query := s.rebind(`
		INSERT INTO catalogs (version, vendor_patch, champions, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (version) DO UPDATE SET
			vendor_patch = excluded.vendor_patch,
			champions = excluded.champions,
			data = excluded.data,
			updated_at = excluded.updated_at`)

	_, err = s.db.ExecContext(ctx, query, c.PatchVersion, c.VendorPatch, c.Len(), data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save catalog %s: %w", c.PatchVersion, err)
	}

	s.logger.Debug("saved catalog", zap.String("version", c.PatchVersion), zap.Int("bytes", len(data)))
	return nil
}

// Versions lists stored catalog versions, newest write first
func (s *SQLStore) Versions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM catalogs ORDER BY updated_at DESC, version DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// Prune deletes every catalog except keep
func (s *SQLStore) Prune(ctx context.Context, keep string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM catalogs WHERE version <> ?"), keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune catalogs: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres
func (s *SQLStore) rebind(query string) string {
	if s.driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
