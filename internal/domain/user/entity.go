package user

// User represents a registered account in the system.
type User struct {
	ID           int64    // ID is the unique identifier for the user
	Name         string   // Name is the full name of the user
	Email        string   // Email is the unique email address of the user
	PasswordHash string   // PasswordHash is the bcrypt digest of the password, never plaintext
	Preferences  []string // Preferences is the ordered list of news topics, never nil once stored
}
