// Package store persists canonical packages and their renderings in SQLite.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/paths"
)

// CurrentSchemaVersion is the latest schema version.
const CurrentSchemaVersion = 1

// Summary is one row of List.
type Summary struct {
	ID           string
	Name         string
	SourceFormat format.Format
	Subtype      canonical.Subtype
	Renderings   int
	UpdatedAt    time.Time
}

// Store is a package store backed by one SQLite file. Reads run
// concurrently; writes are serialized.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the store at path, applying pending migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	logger = logging.WithComponent(logger, "store")
	if err := paths.EnsureDir(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("store opened", "path", path)
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS packages (
		  id            TEXT PRIMARY KEY,
		  name          TEXT NOT NULL,
		  source_format TEXT NOT NULL,
		  subtype       TEXT,
		  package_json  TEXT NOT NULL,
		  created_at    INTEGER NOT NULL,
		  updated_at    INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_packages_updated ON packages(updated_at DESC);

		CREATE TABLE IF NOT EXISTS renderings (
		  package_id    TEXT NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
		  format        TEXT NOT NULL,
		  content       TEXT NOT NULL,
		  warnings_json TEXT NOT NULL,
		  lossy         INTEGER NOT NULL,
		  quality_score INTEGER NOT NULL,
		  updated_at    INTEGER NOT NULL,
		  PRIMARY KEY (package_id, format)
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return errors.Wrap(err, "migration 1 failed")
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}
	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, errors.Wrap(err, "reading user_version")
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return errors.Wrap(err, "setting user_version")
	}
	return nil
}

// NewID returns a new ULID string.
func NewID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return "", errors.Wrap(err, "generating id")
	}
	return id.String(), nil
}

// Put inserts or replaces pkg. A package without an ID is given one, which
// is written back to pkg.ID and returned.
func (s *Store) Put(ctx context.Context, pkg *canonical.Package) (string, error) {
	if pkg == nil {
		return "", errors.Mark(errors.New("nil package"), errors.ErrInvalidPackage)
	}
	if pkg.ID == "" {
		id, err := NewID()
		if err != nil {
			return "", err
		}
		pkg.ID = id
	}
	data, err := json.Marshal(pkg)
	if err != nil {
		return "", errors.Wrapf(err, "encoding package %s", pkg.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO packages (id, name, source_format, subtype, package_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  source_format = excluded.source_format,
		  subtype = excluded.subtype,
		  package_json = excluded.package_json,
		  updated_at = excluded.updated_at
	`, pkg.ID, pkg.Name, string(pkg.SourceFormat), string(pkg.Subtype), string(data), now, now)
	if err != nil {
		return "", errors.Wrapf(err, "storing package %s", pkg.ID)
	}
	s.logger.Debug("package stored", "id", pkg.ID, "name", pkg.Name)
	return pkg.ID, nil
}

// Get loads a package by ID. A missing package is errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*canonical.Package, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT package_json FROM packages WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "package %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading package %s", id)
	}

	var pkg canonical.Package
	if err := json.Unmarshal([]byte(data), &pkg); err != nil {
		return nil, errors.Wrapf(err, "decoding package %s", id)
	}
	return &pkg, nil
}

// List returns every stored package, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.source_format, p.subtype, p.updated_at,
		       (SELECT COUNT(*) FROM renderings r WHERE r.package_id = p.id)
		FROM packages p
		ORDER BY p.updated_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "listing packages")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var source, subtype string
		var updated int64
		if err := rows.Scan(&sum.ID, &sum.Name, &source, &subtype, &updated, &sum.Renderings); err != nil {
			return nil, errors.Wrap(err, "scanning package row")
		}
		sum.SourceFormat = format.Format(source)
		sum.Subtype = canonical.Subtype(subtype)
		sum.UpdatedAt = time.UnixMilli(updated)
		out = append(out, sum)
	}
	return out, errors.Wrap(rows.Err(), "listing packages")
}

// PutRendering stores the result of converting a package to res.Format,
// replacing any earlier rendering for that format.
func (s *Store) PutRendering(ctx context.Context, packageID string, res *canonical.ConversionResult) error {
	warnings, err := json.Marshal(res.Warnings)
	if err != nil {
		return errors.Wrap(err, "encoding warnings")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO renderings (package_id, format, content, warnings_json, lossy, quality_score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(package_id, format) DO UPDATE SET
		  content = excluded.content,
		  warnings_json = excluded.warnings_json,
		  lossy = excluded.lossy,
		  quality_score = excluded.quality_score,
		  updated_at = excluded.updated_at
	`, packageID, string(res.Format), res.Content, string(warnings), res.LossyConversion, res.QualityScore, s.now().UnixMilli())
	if err != nil {
		return errors.Wrapf(err, "storing %s rendering of %s", res.Format, packageID)
	}
	return nil
}

// Rendering loads a stored rendering. A missing rendering is
// errors.ErrNotFound.
func (s *Store) Rendering(ctx context.Context, packageID string, f format.Format) (*canonical.ConversionResult, error) {
	res := &canonical.ConversionResult{Format: f}
	var warnings string
	err := s.db.QueryRowContext(ctx, `
		SELECT content, warnings_json, lossy, quality_score
		FROM renderings WHERE package_id = ? AND format = ?
	`, packageID, string(f)).Scan(&res.Content, &warnings, &res.LossyConversion, &res.QualityScore)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s rendering of %s", f, packageID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s rendering of %s", f, packageID)
	}
	if err := json.Unmarshal([]byte(warnings), &res.Warnings); err != nil {
		return nil, errors.Wrap(err, "decoding warnings")
	}
	return res, nil
}
