package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shootbook/internal/core"
	"shootbook/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores shoots and leads in SQLite. Insertion order is
// kept by the autoincrement seq column and lists read newest first.
type SQLiteRepository struct {
	db            *sql.DB
	schemaVersion uint
	logger        *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc serialises writers per connection; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:            db,
		schemaVersion: version,
		logger:        logger.WithComponent(log.ComponentStorage),
	}
	repo.logger.Info("SQLite repository ready", "db_path", dbPath, "schema_version", version)
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) SchemaVersion() uint { return r.schemaVersion }

const shootColumns = `id, date, client_name, phone, location, deliverables, price, notes, created_at`

func (r *SQLiteRepository) ListShoots(ctx context.Context) ([]core.Shoot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+shootColumns+` FROM shoots ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shoots: %w", err)
	}
	defer rows.Close()

	shoots := []core.Shoot{}
	for rows.Next() {
		s, err := scanShoot(rows)
		if err != nil {
			return nil, err
		}
		shoots = append(shoots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shoots: %w", err)
	}
	return shoots, nil
}

func (r *SQLiteRepository) GetShoot(ctx context.Context, id string) (core.Shoot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shootColumns+` FROM shoots WHERE id = ?`, id)
	s, err := scanShoot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Shoot{}, fmt.Errorf("shoot %s: %w", id, core.ErrNotFound)
	}
	return s, err
}

func (r *SQLiteRepository) CreateShoot(ctx context.Context, s core.Shoot) error {
	return insertShoot(ctx, r.db, s)
}

func (r *SQLiteRepository) UpdateShoot(ctx context.Context, s core.Shoot) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shoots SET date = ?, client_name = ?, phone = ?, location = ?,
			deliverables = ?, price = ?, notes = ?
		WHERE id = ?`,
		s.Date.String(), s.ClientName, s.Phone, s.Location,
		s.Deliverables, s.Price.Units, s.Notes, s.ID)
	if err != nil {
		return fmt.Errorf("update shoot: %w", err)
	}
	return expectOne(res, "shoot", s.ID)
}

func (r *SQLiteRepository) DeleteShoot(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shoots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shoot: %w", err)
	}
	return expectOne(res, "shoot", id)
}

// ReplaceShoots swaps the whole collection in one transaction, keeping the
// given order (first element is newest).
func (r *SQLiteRepository) ReplaceShoots(ctx context.Context, shoots []core.Shoot) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM shoots`); err != nil {
			return fmt.Errorf("clear shoots: %w", err)
		}
		for i := len(shoots) - 1; i >= 0; i-- {
			if err := insertShoot(ctx, tx, shoots[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

const leadColumns = `id, name, phone, company, notes, last_contact, next_follow, status, created_at`

func (r *SQLiteRepository) ListLeads(ctx context.Context) ([]core.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []core.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func (r *SQLiteRepository) GetLead(ctx context.Context, id string) (core.Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Lead{}, fmt.Errorf("lead %s: %w", id, core.ErrNotFound)
	}
	return l, err
}

func (r *SQLiteRepository) CreateLead(ctx context.Context, l core.Lead) error {
	return insertLead(ctx, r.db, l)
}

func (r *SQLiteRepository) UpdateLead(ctx context.Context, l core.Lead) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leads SET name = ?, phone = ?, company = ?, notes = ?,
			last_contact = ?, next_follow = ?, status = ?
		WHERE id = ?`,
		l.Name, l.Phone, l.Company, l.Notes,
		l.LastContact.String(), l.NextFollow.String(), string(l.Status), l.ID)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return expectOne(res, "lead", l.ID)
}

func (r *SQLiteRepository) DeleteLead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return expectOne(res, "lead", id)
}

func (r *SQLiteRepository) ReplaceLeads(ctx context.Context, leads []core.Lead) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
			return fmt.Errorf("clear leads: %w", err)
		}
		for i := len(leads) - 1; i >= 0; i-- {
			if err := insertLead(ctx, tx, leads[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertShoot(ctx context.Context, db execer, s core.Shoot) error {
	_, err := db.ExecContext(ctx, `INSERT INTO shoots (`+shootColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Date.String(), s.ClientName, s.Phone, s.Location,
		s.Deliverables, s.Price.Units, s.Notes, formatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert shoot: %w", err)
	}
	return nil
}

func insertLead(ctx context.Context, db execer, l core.Lead) error {
	_, err := db.ExecContext(ctx, `INSERT INTO leads (`+leadColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Phone, l.Company, l.Notes,
		l.LastContact.String(), l.NextFollow.String(), string(l.Status), formatTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func scanShoot(row scanner) (core.Shoot, error) {
	var (
		s               core.Shoot
		date, createdAt string
	)
	if err := row.Scan(&s.ID, &date, &s.ClientName, &s.Phone, &s.Location,
		&s.Deliverables, &s.Price.Units, &s.Notes, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scan shoot: %w", err)
	}
	var err error
	if s.Date, err = core.ParseDate(date); err != nil {
		return s, fmt.Errorf("shoot %s: %w", s.ID, err)
	}
	s.CreatedAt = parseTime(createdAt)
	return s, nil
}

func scanLead(row scanner) (core.Lead, error) {
	var (
		l                                   core.Lead
		lastContact, nextFollow, status, ca string
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.Company, &l.Notes,
		&lastContact, &nextFollow, &status, &ca); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return l, err
		}
		return l, fmt.Errorf("scan lead: %w", err)
	}
	var err error
	if l.LastContact, err = core.ParseDate(lastContact); err != nil {
		return l, fmt.Errorf("lead %s: %w", l.ID, err)
	}
	if l.NextFollow, err = core.ParseDate(nextFollow); err != nil {
		return l, fmt.Errorf("lead %s: %w", l.ID, err)
	}
	if l.Status, err = core.ParseLeadStatus(status); err != nil {
		return l, fmt.Errorf("lead %s: %w", l.ID, err)
	}
	l.CreatedAt = parseTime(ca)
	return l, nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, core.ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
