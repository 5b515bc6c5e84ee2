package user

// SignupRequest represents the request payload for registering a new user.
type SignupRequest struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required"`
	Preferences []string
}

// SignupResponse represents the response payload after registering a user.
// The password digest is deliberately absent.
type SignupResponse struct {
	User User
}

// LoginRequest represents the request payload for authenticating a user.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginResponse carries the signed bearer token issued on login.
type LoginResponse struct {
	Token string
}

// GetProfileRequest represents the request payload for retrieving a profile.
type GetProfileRequest struct {
	ID int64
}

// GetPreferencesRequest represents the request payload for reading topics.
type GetPreferencesRequest struct {
	ID int64
}

// UpdatePreferencesRequest replaces the caller's topic list wholesale.
type UpdatePreferencesRequest struct {
	ID          int64
	Preferences []string
}

// PreferencesResponse carries a user's topic list.
type PreferencesResponse struct {
	Preferences []string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID          int64
	Name        string
	Email       string
	Preferences []string
}
