package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode. Use ":memory:" for an in-process database in tests.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a SQLite store and applies the embedded schema.
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range store.SQLiteDDLStatements() {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return &liteStore{db: db}, nil
}

type liteStore struct{ db *sql.DB }

func (s *liteStore) Users() store.Users     { return &users{db: s.db} }
func (s *liteStore) Entries() store.Entries { return &entries{db: s.db} }

// HealthPing implements health.HealthPinger for the SQLite-backed store.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// now returns the adapter clock. SQLite has no timezone-aware column type, so
// all timestamps are written in UTC and compared as such.
func now() time.Time { return time.Now().UTC() }

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	created := now()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, email, display_name, password_hash, time_zone, status, creation_time)
        VALUES (?,?,?,?,?,'ACTIVE',?)
    `, m.UserID, m.Email, m.DisplayName, m.PasswordHash, m.TimeZone, created)
	if err != nil {
		// modernc's driver has no typed constraint error
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *m
	out.Status = "ACTIVE"
	out.CreationTime = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, password_hash, time_zone, status, creation_time
        FROM users WHERE user_id=?
    `, userID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, password_hash, time_zone, status, creation_time
        FROM users WHERE email=?
    `, email)
	return scanUser(row)
}

func (u *users) Delete(ctx context.Context, userID string) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE user_id=?`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id=?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return tx.Commit()
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.Email, &out.DisplayName, &out.PasswordHash, &out.TimeZone, &out.Status, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.CreationTime = out.CreationTime.UTC()
	return &out, nil
}

// --- Entries ---
type entries struct{ db *sql.DB }

func (e *entries) Create(ctx context.Context, me *model.Entry) (*model.Entry, error) {
	entryID := me.EntryID
	if entryID == "" {
		entryID = uuid.New().String()
	}
	created := me.CreationTime
	if created.IsZero() {
		created = now()
	} else {
		created = created.UTC()
	}
	_, err := e.db.ExecContext(ctx, `
        INSERT INTO entries (entry_id, user_id, content, creation_time)
        VALUES (?,?,?,?)
    `, entryID, me.UserID, me.Content, created)
	if err != nil {
		return nil, err
	}
	out := *me
	out.EntryID = entryID
	out.CreationTime = created
	return &out, nil
}

func (e *entries) List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, error) {
	query := `SELECT entry_id, user_id, content, creation_time FROM entries WHERE user_id=?`
	args := []interface{}{req.UserID}
	if req.Before != nil {
		query += " AND creation_time < ?"
		args = append(args, req.Before.UTC())
	}
	if req.After != nil {
		query += " AND creation_time > ?"
		args = append(args, req.After.UTC())
	}
	query += " ORDER BY creation_time DESC"
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", req.Limit)
	}
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectEntries(rows)
}

func (e *entries) ListRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Entry, error) {
	rows, err := e.db.QueryContext(ctx, `
        SELECT entry_id, user_id, content, creation_time
        FROM entries WHERE user_id=? AND creation_time >= ? AND creation_time <= ?
        ORDER BY creation_time ASC
    `, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectEntries(rows)
}

func (e *entries) CountRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	var n int
	row := e.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM entries
        WHERE user_id=? AND creation_time >= ? AND creation_time <= ?
    `, userID, start.UTC(), end.UTC())
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (e *entries) GetByID(ctx context.Context, userID, entryID string) (*model.Entry, error) {
	var m model.Entry
	row := e.db.QueryRowContext(ctx, `
        SELECT entry_id, user_id, content, creation_time
        FROM entries WHERE user_id=? AND entry_id=?
    `, userID, entryID)
	if err := row.Scan(&m.EntryID, &m.UserID, &m.Content, &m.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	m.CreationTime = m.CreationTime.UTC()
	return &m, nil
}

func (e *entries) DeleteByID(ctx context.Context, userID, entryID string) error {
	res, err := e.db.ExecContext(ctx, `DELETE FROM entries WHERE user_id=? AND entry_id=?`, userID, entryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func collectEntries(rows *sql.Rows) ([]*model.Entry, error) {
	var out []*model.Entry
	for rows.Next() {
		var m model.Entry
		if err := rows.Scan(&m.EntryID, &m.UserID, &m.Content, &m.CreationTime); err != nil {
			return nil, err
		}
		m.CreationTime = m.CreationTime.UTC()
		out = append(out, &m)
	}
	return out, rows.Err()
}
