package user

import "errors"

// User is the identity token scoping which ledger is active.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Credentials is the stored directory entry for one username. Plaintext by
// the storage compatibility contract.
type Credentials struct {
	Password string `json:"password"`
	Name     string `json:"name"`
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrMissingFields      = errors.New("username and password are required")
	ErrMissingName        = errors.New("full name is required")
	ErrNoCurrentUser      = errors.New("no user signed in")
)
