package gormdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"newsfeed-service/internal/domain/user"
	apperrors "newsfeed-service/pkg/errors"
)

// UserRepo implements the user Repository interface on top of GORM.
// The same repository serves both the embedded sqlite backend and
// postgres; the driver is chosen when the *gorm.DB is opened.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"` // Unique identifier with auto-increment
	Name         string `gorm:"not null"`                 // User's full name (required)
	Email        string `gorm:"not null;uniqueIndex"`     // User's unique email address
	PasswordHash string `gorm:"not null"`                 // bcrypt digest, never plaintext
	Preferences  string `gorm:"not null;default:'[]'"`    // JSON-encoded topic list
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

func encodePreferences(preferences []string) (string, error) {
	if preferences == nil {
		preferences = []string{}
	}
	raw, err := json.Marshal(preferences)
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return string(raw), nil
}

func (m *UserSchema) toDomain() (*user.User, error) {
	preferences := []string{}
	if m.Preferences != "" {
		if err := json.Unmarshal([]byte(m.Preferences), &preferences); err != nil {
			return nil, fmt.Errorf("failed to decode preferences for user %d: %w", m.ID, err)
		}
	}
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Preferences:  preferences,
	}, nil
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	encoded, err := encodePreferences(u.Preferences)
	if err != nil {
		return 0, err
	}

	model := UserSchema{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Preferences:  encoded,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("duplicate email on create", zap.String("email", u.Email))
			return 0, apperrors.ErrUserExists
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, apperrors.ErrUserNotFound
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model.toDomain()
}

// GetByEmail retrieves a user from the database by their email address.
// A missing user is reported as (nil, nil), not as an error.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return model.toDomain()
}

// ReplacePreferences overwrites a user's topic list in a single UPDATE,
// so concurrent updates to the same record are atomic at the row level.
func (r *UserRepo) ReplacePreferences(ctx context.Context, id int64, preferences []string) error {
	encoded, err := encodePreferences(preferences)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", id).
		Update("preferences", encoded)
	if res.Error != nil {
		r.log.Error("failed to update preferences in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to update preferences: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("preferences update for missing user", zap.Int64("id", id))
		return apperrors.ErrUserNotFound
	}

	r.log.Info("preferences updated in db", zap.Int64("id", id))
	return nil
}
