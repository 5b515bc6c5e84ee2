// Package jsonfile provides a flat-file user repository: the whole
// collection is held in memory and rewritten to a single pretty-printed
// JSON file on every mutation. It exists for zero-dependency deployments;
// sqlite is the default backend.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"newsfeed-service/internal/domain/user"
	apperrors "newsfeed-service/pkg/errors"
)

type record struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"` // bcrypt digest
	Preferences []string `json:"preferences"`
}

// UserRepo implements the user Repository interface over a single JSON
// file. All mutations hold a mutex, so concurrent requests cannot lose
// each other's writes; ids come from a monotonic counter seeded from
// the highest stored id.
type UserRepo struct {
	mu       sync.Mutex
	fileName string
	users    []record
	nextID   int64
	log      *zap.Logger
}

// New loads the backing file. An absent file yields an empty collection;
// a present but unparsable file is a startup fault, not an empty result.
func New(fileName string, log *zap.Logger) (*UserRepo, error) {
	repo := &UserRepo{fileName: fileName, users: []record{}, nextID: 1, log: log}

	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("user file absent, starting empty", zap.String("file", fileName))
			return repo, nil
		}
		return nil, fmt.Errorf("failed to read user file %s: %w", fileName, err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &repo.users); err != nil {
			return nil, fmt.Errorf("user file %s is corrupt: %w", fileName, err)
		}
	}

	for _, u := range repo.users {
		if u.ID >= repo.nextID {
			repo.nextID = u.ID + 1
		}
	}

	log.Info("user file loaded",
		zap.String("file", fileName),
		zap.Int("users", len(repo.users)),
	)

	return repo, nil
}

// save rewrites the whole collection in one shot. Callers hold mu.
func (r *UserRepo) save() error {
	data, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	if err := os.WriteFile(r.fileName, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user file %s: %w", r.fileName, err)
	}

	return nil
}

func (u record) toDomain() *user.User {
	preferences := u.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	return &user.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.Password,
		Preferences:  preferences,
	}
}

// Create appends a new user and persists the collection.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			r.log.Warn("duplicate email on create", zap.String("email", u.Email))
			return 0, apperrors.ErrUserExists
		}
	}

	id := r.nextID
	r.nextID++

	preferences := u.Preferences
	if preferences == nil {
		preferences = []string{}
	}

	r.users = append(r.users, record{
		ID:          id,
		Name:        u.Name,
		Email:       u.Email,
		Password:    u.PasswordHash,
		Preferences: preferences,
	})

	if err := r.save(); err != nil {
		// Roll back the in-memory append so memory matches disk
		r.users = r.users[:len(r.users)-1]
		r.nextID--
		r.log.Error("failed to persist new user", zap.Error(err))
		return 0, err
	}

	r.log.Info("user created in file store", zap.Int64("id", id))
	return id, nil
}

// GetByID retrieves a user by their unique ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			return u.toDomain(), nil
		}
	}

	return nil, apperrors.ErrUserNotFound
}

// GetByEmail retrieves a user by email. A missing user is reported as
// (nil, nil), not as an error.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u.toDomain(), nil
		}
	}

	return nil, nil
}

// ReplacePreferences overwrites a user's topic list wholesale and
// persists the collection.
func (r *UserRepo) ReplacePreferences(ctx context.Context, id int64, preferences []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID != id {
			continue
		}

		previous := r.users[i].Preferences
		r.users[i].Preferences = preferences
		if err := r.save(); err != nil {
			r.users[i].Preferences = previous
			r.log.Error("failed to persist preferences", zap.Int64("id", id), zap.Error(err))
			return err
		}

		r.log.Info("preferences updated in file store", zap.Int64("id", id))
		return nil
	}

	return apperrors.ErrUserNotFound
}
