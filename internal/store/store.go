package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Postgres through pgx's database/sql adapter.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Driver selects the database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ParseDriver converts a configuration value to a Driver.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// Store holds the ent SQL driver and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open connects to the database at dsn and runs auto-migration for every
// table declared in ent/schema.
func Open(driver Driver, dsn string) (*Store, error) {
	var (
		sqlDriver   string
		dialectName string
	)
	switch driver {
	case DriverSQLite, "":
		sqlDriver, dialectName = "sqlite", dialect.SQLite
		dsn = withSQLitePragmas(dsn)
	case DriverPostgres:
		sqlDriver, dialectName = "pgx", dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	drv := entsql.OpenDB(dialectName, db)
	if err := migrate(ctx, drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(ctx, drv)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables, err := Tables()
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// Driver returns the underlying ent SQL driver.
func (s *Store) Driver() *entsql.Driver {
	return s.drv
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect name of the connection.
func (s *Store) Dialect() string {
	return s.drv.Dialect()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// SnapshotRepo returns a SnapshotRepo backed by this store.
func (s *Store) SnapshotRepo() SnapshotRepo {
	return &snapshotRepo{drv: s.drv}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv, seq: s.seq}
}

// sqlitePragmas are applied by the driver to every pooled connection.
// The migrator refuses to run unless foreign keys are enabled.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// withSQLitePragmas appends the pragmas the DSN does not set already.
func withSQLitePragmas(dsn string) string {
	var add []string
	for _, p := range sqlitePragmas {
		name := p[:strings.IndexByte(p, '(')]
		if !strings.Contains(dsn, "_pragma="+name) {
			add = append(add, "_pragma="+p)
		}
	}
	if len(add) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(add, "&")
}

// DefaultDBPath resolves the database file path in priority order:
// 1. TRILOGIC_DB environment variable
// 2. $XDG_DATA_HOME/trilogic/trilogic.db
// 3. ~/.local/share/trilogic/trilogic.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TRILOGIC_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "trilogic", "trilogic.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
