package user

import "context"

// Usecase defines the interface for account and preference operations.
type Usecase interface {
	Signup(ctx context.Context, in SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, in GetProfileRequest) (*User, error)
	GetPreferences(ctx context.Context, in GetPreferencesRequest) (*PreferencesResponse, error)
	UpdatePreferences(ctx context.Context, in UpdatePreferencesRequest) (*PreferencesResponse, error)
}
