package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "newsfeed-service/internal/domain/user"
	apperrors "newsfeed-service/pkg/errors"
	"newsfeed-service/pkg/security"
	"newsfeed-service/pkg/token"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (sqlite, postgres, flat JSON file) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)                         // Create a new user
	GetByID(ctx context.Context, id int64) (*domain.User, error)                       // Retrieve user by ID, ErrUserNotFound when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)                // Retrieve user by email, nil when absent
	ReplacePreferences(ctx context.Context, id int64, preferences []string) error      // Replace topic list wholesale, ErrUserNotFound when absent
}

// Service implements the business logic for accounts and preferences.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository
	hasher   *security.PasswordHasher
	tokens   *token.Manager
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new Service with the provided repository, password
// hasher, token manager and logger.
func New(r Repository, hasher *security.PasswordHasher, tokens *token.Manager, log *zap.Logger) *Service {
	return &Service{repo: r, hasher: hasher, tokens: tokens, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return apperrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// Signup registers a new user after validating the request and checking
// email uniqueness. The password is stored only as a bcrypt digest.
func (s *Service) Signup(ctx context.Context, in SignupRequest) (*SignupResponse, error) {
	s.log.Info("signing up user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.ErrUserExists
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	preferences := in.Preferences
	if preferences == nil {
		preferences = []string{}
	}

	id, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
		Preferences:  preferences,
	})
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return &SignupResponse{
		User: User{
			ID:          id,
			Name:        in.Name,
			Email:       in.Email,
			Preferences: preferences,
		},
	}, nil
}

// Login verifies the credentials and issues a bearer token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	s.log.Info("logging in user", zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to look up user", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}
	if u == nil || !s.hasher.Verify(in.Password, u.PasswordHash) {
		s.log.Warn("invalid credentials", zap.String("email", in.Email))
		return nil, apperrors.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.log.Error("failed to issue token", zap.Int64("id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &LoginResponse{Token: tok}, nil
}

// GetProfile returns the caller's own record without the password digest.
func (s *Service) GetProfile(ctx context.Context, in GetProfileRequest) (*User, error) {
	if in.ID <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Preferences: u.Preferences,
	}, nil
}

// GetPreferences returns the caller's topic list. A token whose user no
// longer resolves yields an empty list, not an error.
func (s *Service) GetPreferences(ctx context.Context, in GetPreferencesRequest) (*PreferencesResponse, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.log.Debug("stale token, no stored user", zap.Int64("id", in.ID))
			return &PreferencesResponse{Preferences: []string{}}, nil
		}
		s.log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	preferences := u.Preferences
	if preferences == nil {
		preferences = []string{}
	}

	return &PreferencesResponse{Preferences: preferences}, nil
}

// UpdatePreferences replaces the caller's topic list wholesale, never merging.
func (s *Service) UpdatePreferences(ctx context.Context, in UpdatePreferencesRequest) (*PreferencesResponse, error) {
	s.log.Info("updating preferences", zap.Int64("id", in.ID), zap.Strings("preferences", in.Preferences))

	if in.Preferences == nil {
		return nil, apperrors.NewValidationError("preferences", "must be an array")
	}

	if err := s.repo.ReplacePreferences(ctx, in.ID, in.Preferences); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.log.Warn("user gone for preferences update", zap.Int64("id", in.ID))
			return nil, err
		}
		s.log.Error("failed to update preferences", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &PreferencesResponse{Preferences: in.Preferences}, nil
}
