package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserStore)(nil)

// isoLayout is the naive local timestamp found in older users.json files.
const isoLayout = "2006-01-02T15:04:05.999999"

// userRecord is the on-disk shape of one user entry.
type userRecord struct {
	PasswordHash string  `json:"password_hash"`
	Salt         string  `json:"salt"`
	Role         string  `json:"role"`
	Created      string  `json:"created"`
	LastLogin    *string `json:"last_login"`
}

// UserStore keeps the user mapping in a single JSON file.
type UserStore struct {
	path string
}

// NewUserStore creates a UserStore backed by path.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// LoadUsers reads the file. A missing file yields driven.ErrStoreNotFound.
func (s *UserStore) LoadUsers(_ context.Context) (map[string]model.User, error) {
	var records map[string]userRecord
	if err := readJSONC(s.path, &records); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, driven.ErrStoreNotFound
		}
		return nil, fmt.Errorf("load users: %w", err)
	}

	users := make(map[string]model.User, len(records))
	for name, rec := range records {
		u := model.User{
			Username:     name,
			PasswordHash: rec.PasswordHash,
			Salt:         rec.Salt,
			Role:         model.Role(rec.Role),
		}

		var err error
		if rec.Created != "" {
			if u.CreatedAt, err = parseTimestamp(rec.Created); err != nil {
				return nil, fmt.Errorf("user %q created: %w", name, err)
			}
		}
		if rec.LastLogin != nil && *rec.LastLogin != "" {
			t, err := parseTimestamp(*rec.LastLogin)
			if err != nil {
				return nil, fmt.Errorf("user %q last_login: %w", name, err)
			}
			u.LastLoginAt = &t
		}

		users[name] = u
	}
	return users, nil
}

// SaveUsers rewrites the whole file.
func (s *UserStore) SaveUsers(_ context.Context, users map[string]model.User) error {
	records := make(map[string]userRecord, len(users))
	for name, u := range users {
		rec := userRecord{
			PasswordHash: u.PasswordHash,
			Salt:         u.Salt,
			Role:         string(u.Role),
			Created:      u.CreatedAt.Format(time.RFC3339Nano),
		}
		if u.LastLoginAt != nil {
			ts := u.LastLoginAt.Format(time.RFC3339Nano)
			rec.LastLogin = &ts
		}
		records[name] = rec
	}
	return writeJSON(s.path, records)
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(isoLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
	}
	return t, nil
}
