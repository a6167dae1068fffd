package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// LoadUsers returns every stored user keyed by username. An empty table is
// not an error; the schema always exists once migrations have run.
func (r *UserRepo) LoadUsers(ctx context.Context) (map[string]model.User, error) {
	const query = `SELECT username, password_hash, salt, role, created_at, last_login_at FROM users`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]model.User)
	for rows.Next() {
		var (
			u         model.User
			role      string
			createdAt string
			lastLogin sql.NullString
		)
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Salt, &role, &createdAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = model.Role(role)

		u.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for user %q: %w", u.Username, err)
		}
		if lastLogin.Valid {
			t, err := parseTime(lastLogin.String)
			if err != nil {
				return nil, fmt.Errorf("parse last_login_at for user %q: %w", u.Username, err)
			}
			u.LastLoginAt = &t
		}

		users[u.Username] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// SaveUsers replaces the stored users with the given set in one transaction.
func (r *UserRepo) SaveUsers(ctx context.Context, users map[string]model.User) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	const insert = `INSERT INTO users (username, password_hash, salt, role, created_at, last_login_at) VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare user insert: %w", err)
	}
	defer stmt.Close()

	for name, u := range users {
		var lastLogin sql.NullString
		if u.LastLoginAt != nil {
			lastLogin = sql.NullString{String: formatTime(*u.LastLoginAt), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, name, u.PasswordHash, u.Salt, string(u.Role), formatTime(u.CreatedAt), lastLogin); err != nil {
			return fmt.Errorf("insert user %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit users: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts RFC 3339 as written by formatTime and the SQLite
// CURRENT_TIMESTAMP layout for rows inserted by hand.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
