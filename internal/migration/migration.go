package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"time"
)

var (
	// ErrSchemaTooNew means the database was written by a newer build.
	ErrSchemaTooNew = errors.New("database schema is newer than this build supports")
	// ErrSchemaBehind means migrations are pending.
	ErrSchemaBehind = errors.New("database schema is out of date")
)

// Dialect selects the bind-parameter style of the target database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) bind(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Migration is one NNN_label.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the recorded schema version with the embedded files.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

func (s Status) UpToDate() bool {
	return s.Current == s.Latest
}

// Runner applies the migrations in one directory to one database. The
// version is kept as the single row of schema_version.
type Runner struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
}

func NewRunner(db *sql.DB, files fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, files: files, dialect: dialect}
}

var fileName = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// parseFileName splits "003_add_index.sql" into 3 and "add_index".
func parseFileName(name string) (int, string, error) {
	m := fileName.FindStringSubmatch(name)
	if m == nil {
		return 0, "", fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", name)
	}
	version, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", fmt.Errorf("invalid version in %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version in %s: must be at least 1", name)
	}
	return version, m[2], nil
}

// Load returns the migrations sorted by version. Files without a .sql
// extension are ignored.
func (r *Runner) Load() ([]Migration, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		version, label, err := parseFileName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.files, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: label, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func (r *Runner) ensureTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}
	return nil
}

// Current returns the recorded version, 0 for a fresh database.
func (r *Runner) Current() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	var v int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&v); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Runner) stamp(x execer, version int) error {
	if _, err := x.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := x.Exec("INSERT INTO schema_version (version) VALUES ("+r.dialect.bind(1)+")", version)
	return err
}

// Stamp records version without running any migration.
func (r *Runner) Stamp(version int) error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	if err := r.stamp(r.db, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

func (r *Runner) Status() (Status, error) {
	current, err := r.Current()
	if err != nil {
		return Status{}, err
	}
	all, err := r.Load()
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current}
	if n := len(all); n > 0 {
		st.Latest = all[n-1].Version
	}
	for _, m := range all {
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// Check returns ErrSchemaTooNew or ErrSchemaBehind when the database does
// not match the embedded migrations.
func (r *Runner) Check() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	switch {
	case st.Current > st.Latest:
		return fmt.Errorf("%w (version %d, supported %d)", ErrSchemaTooNew, st.Current, st.Latest)
	case st.Current < st.Latest:
		return fmt.Errorf("%w (version %d, latest %d)", ErrSchemaBehind, st.Current, st.Latest)
	}
	return nil
}

func (r *Runner) applyOne(m Migration) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return err
	}
	if err = r.stamp(tx, m.Version); err != nil {
		return err
	}
	return tx.Commit()
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many succeeded. progress may be nil.
func (r *Runner) Apply(progress func(string)) (int, error) {
	if progress == nil {
		progress = func(string) {}
	}

	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.Current > st.Latest {
		return 0, fmt.Errorf("%w (version %d, supported %d): upgrade streakline", ErrSchemaTooNew, st.Current, st.Latest)
	}
	if len(st.Pending) == 0 {
		progress(fmt.Sprintf("Schema is up to date (version %d)", st.Current))
		return 0, nil
	}

	progress(fmt.Sprintf("Applying %d migration(s) from version %d...", len(st.Pending), st.Current))
	start := time.Now()
	for i, m := range st.Pending {
		if err := r.applyOne(m); err != nil {
			return i, fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		progress(fmt.Sprintf("  ✓ %03d_%s", m.Version, m.Name))
	}
	progress(fmt.Sprintf("Done in %v", time.Since(start).Round(time.Millisecond)))
	return len(st.Pending), nil
}
