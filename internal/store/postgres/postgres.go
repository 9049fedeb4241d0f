package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users     { return &users{db: s.db} }
func (s *pgStore) Entries() store.Entries { return &entries{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap applies the embedded schema statements. Every statement is
// IF NOT EXISTS so repeated runs are safe.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range store.PostgresDDLStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, email, display_name, password_hash, time_zone, status)
        VALUES ($1,$2,$3,$4,$5,'ACTIVE')
        RETURNING creation_time
    `, m.UserID, m.Email, m.DisplayName, m.PasswordHash, m.TimeZone)
	if err := row.Scan(&created); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *m
	out.Status = "ACTIVE"
	out.CreationTime = created.UTC()
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, password_hash, time_zone, status, creation_time
        FROM users WHERE user_id=$1
    `, userID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, password_hash, time_zone, status, creation_time
        FROM users WHERE email=$1
    `, email)
	return scanUser(row)
}

func (u *users) Delete(ctx context.Context, userID string) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE user_id=$1`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id=$1`, userID)
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
	var created time.Time
	row := e.db.QueryRowContext(ctx, `
        INSERT INTO entries (entry_id, user_id, content)
        VALUES ($1,$2,$3)
        RETURNING creation_time
    `, entryID, me.UserID, me.Content)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *me
	out.EntryID = entryID
	out.CreationTime = created.UTC()
	return &out, nil
}

func (e *entries) List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, error) {
	query := `SELECT entry_id, user_id, content, creation_time FROM entries WHERE user_id=$1`
	args := []interface{}{req.UserID}
	if req.Before != nil {
		query += fmt.Sprintf(" AND creation_time < $%d", len(args)+1)
		args = append(args, *req.Before)
	}
	if req.After != nil {
		query += fmt.Sprintf(" AND creation_time > $%d", len(args)+1)
		args = append(args, *req.After)
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
        FROM entries WHERE user_id=$1 AND creation_time >= $2 AND creation_time <= $3
        ORDER BY creation_time ASC
    `, userID, start, end)
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
        WHERE user_id=$1 AND creation_time >= $2 AND creation_time <= $3
    `, userID, start, end)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (e *entries) GetByID(ctx context.Context, userID, entryID string) (*model.Entry, error) {
	var m model.Entry
	row := e.db.QueryRowContext(ctx, `
        SELECT entry_id, user_id, content, creation_time
        FROM entries WHERE user_id=$1 AND entry_id=$2
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
	res, err := e.db.ExecContext(ctx, `DELETE FROM entries WHERE user_id=$1 AND entry_id=$2`, userID, entryID)
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
