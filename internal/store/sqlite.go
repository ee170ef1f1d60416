package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS deals (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	id               TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	status           TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS deal_notes (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	id              TEXT NOT NULL UNIQUE,
	deal_id         TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_by      TEXT NOT NULL,
	created_by_name TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL,
	is_pinned       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS deal_notes_deal_id ON deal_notes (deal_id, seq);
`

var (
	dealColumns = []string{"id", "name", "description", "category", "transaction_type", "status", "created_at", "updated_at"}
	noteColumns = []string{"id", "deal_id", "content", "created_by", "created_by_name", "created_at", "updated_at", "is_pinned"}
)

// SQLite persists deals and notes in a SQLite database. A fresh database is
// seeded with the same fixtures as Memory.
type SQLite struct {
	db  *sql.DB
	now Clock
}

// OpenSQLite opens (or creates) the database at dsn. Use ":memory:" for a
// throwaway database.
func OpenSQLite(ctx context.Context, dsn string, now Clock) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, now: now}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create schema")
	}

	var n int
	if err := sq.Select("COUNT(*)").From("deals").RunWith(s.db).QueryRowContext(ctx).Scan(&n); err != nil {
		return errors.Wrap(err, "count deals")
	}
	if n > 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		for _, d := range fixtureDeals(now) {
			if err := insertDeal(ctx, tx, d); err != nil {
				return err
			}
		}
		// oldest first so that seq order matches insertion order
		notes := fixtureNotes(now)
		for i := len(notes) - 1; i >= 0; i-- {
			if err := insertNote(ctx, tx, notes[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *SQLite) ListDeals(ctx context.Context) ([]*model.Deal, error) {
	rows, err := sq.Select(dealColumns...).From("deals").OrderBy("seq").RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list deals")
	}
	defer rows.Close()

	deals := []*model.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}

	return deals, errors.Wrap(rows.Err(), "list deals")
}

func (s *SQLite) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	return getDeal(ctx, s.db, id)
}

func (s *SQLite) CreateDeal(ctx context.Context, in *model.CreateDealInput) (*model.Deal, error) {
	var d *model.Deal
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var last sql.NullInt64
		err := sq.Select("seq").From("sqlite_sequence").Where(sq.Eq{"name": "deals"}).
			RunWith(tx).QueryRowContext(ctx).Scan(&last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return errors.Wrap(err, "next deal id")
		}

		now := s.now()
		d = &model.Deal{
			ID:              dealID(last.Int64 + 1),
			Name:            in.Name,
			Description:     in.Description,
			Category:        model.CategoryRealEstate,
			TransactionType: in.TransactionType,
			Status:          in.Status,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if d.Status == "" {
			d.Status = model.StatusDraft
		}

		return insertDeal(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (s *SQLite) UpdateDeal(ctx context.Context, id string, in *model.UpdateDealInput) (*model.Deal, error) {
	var d *model.Deal
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if d, err = getDeal(ctx, tx, id); err != nil {
			return err
		}
		in.Apply(d)
		d.UpdatedAt = s.now()

		_, err = sq.Update("deals").
			SetMap(map[string]interface{}{
				"name":             d.Name,
				"description":      d.Description,
				"transaction_type": d.TransactionType,
				"status":           d.Status,
				"updated_at":       formatTime(d.UpdatedAt),
			}).
			Where(sq.Eq{"id": id}).
			RunWith(tx).ExecContext(ctx)

		return errors.Wrap(err, "update deal")
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (s *SQLite) DeleteDeal(ctx context.Context, id string) error {
	res, err := sq.Delete("deals").Where(sq.Eq{"id": id}).RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "delete deal")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete deal")
	}
	if n == 0 {
		return errors.Wrapf(ErrDealNotFound, "id %q", id)
	}

	return nil
}

func (s *SQLite) ListNotes(ctx context.Context, dealID string) ([]*model.DealNote, error) {
	rows, err := sq.Select(noteColumns...).From("deal_notes").
		Where(sq.Eq{"deal_id": dealID}).
		OrderBy("seq DESC").
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list notes")
	}
	defer rows.Close()

	notes := []*model.DealNote{}
	for rows.Next() {
		var (
			n                    model.DealNote
			createdAt, updatedAt string
		)
		err := rows.Scan(&n.ID, &n.DealID, &n.Content, &n.CreatedBy, &n.CreatedByName, &createdAt, &updatedAt, &n.IsPinned)
		if err != nil {
			return nil, errors.Wrap(err, "scan note")
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}

	return notes, errors.Wrap(rows.Err(), "list notes")
}

func (s *SQLite) CreateNote(ctx context.Context, note *model.DealNote) error {
	return insertNote(ctx, s.db, note)
}

func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return errors.Wrap(tx.Commit(), "commit")
}

func getDeal(ctx context.Context, runner sq.BaseRunner, id string) (*model.Deal, error) {
	row := sq.Select(dealColumns...).From("deals").Where(sq.Eq{"id": id}).RunWith(runner).QueryRowContext(ctx)
	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrDealNotFound, "id %q", id)
	}

	return d, err
}

func insertDeal(ctx context.Context, runner sq.BaseRunner, d *model.Deal) error {
	_, err := sq.Insert("deals").Columns(dealColumns...).
		Values(d.ID, d.Name, d.Description, d.Category, d.TransactionType, d.Status,
			formatTime(d.CreatedAt), formatTime(d.UpdatedAt)).
		RunWith(runner).ExecContext(ctx)

	return errors.Wrap(err, "insert deal")
}

func insertNote(ctx context.Context, runner sq.BaseRunner, n *model.DealNote) error {
	_, err := sq.Insert("deal_notes").Columns(noteColumns...).
		Values(n.ID, n.DealID, n.Content, n.CreatedBy, n.CreatedByName,
			formatTime(n.CreatedAt), formatTime(n.UpdatedAt), n.IsPinned).
		RunWith(runner).ExecContext(ctx)

	return errors.Wrap(err, "insert note")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDeal(row scanner) (*model.Deal, error) {
	var (
		d                    model.Deal
		createdAt, updatedAt string
	)
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Category, &d.TransactionType, &d.Status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scan deal")
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &d, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)

	return t, errors.Wrapf(err, "parse time %q", s)
}
