package user

import (
	"context"
	"fmt"
	"strings"
)

type DirectoryStore interface {
	// Users loads the credential directory, empty when nothing is stored.
	Users(ctx context.Context) (map[string]Credentials, error)
	SaveUsers(ctx context.Context, users map[string]Credentials) error

	// CurrentUser restores a persisted session; ErrNoCurrentUser when none.
	CurrentUser(ctx context.Context) (*User, error)
	SaveCurrentUser(ctx context.Context, u User) error
	ClearCurrentUser(ctx context.Context) error
}

// Directory is the credential directory collaborator: it answers
// username/password lookups and registers new users.
type Directory struct {
	store DirectoryStore
}

func NewDirectory(store DirectoryStore) *Directory {
	return &Directory{store: store}
}

// Authenticate matches username/password against the directory and records
// the session on success.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	users, err := d.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading user directory: %w", err)
	}

	creds, ok := users[username]
	if !ok || creds.Password != password {
		return nil, ErrInvalidCredentials
	}

	u := User{Username: username, Name: creds.Name}
	if err := d.store.SaveCurrentUser(ctx, u); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &u, nil
}

// Register adds username to the directory if absent and signs the new user
// in.
func (d *Directory) Register(ctx context.Context, username, password, name string) (*User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	name = strings.TrimSpace(name)

	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	if name == "" {
		return nil, ErrMissingName
	}

	users, err := d.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading user directory: %w", err)
	}

	if _, exists := users[username]; exists {
		return nil, ErrUsernameTaken
	}

	users[username] = Credentials{Password: password, Name: name}
	if err := d.store.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("saving user directory: %w", err)
	}

	u := User{Username: username, Name: name}
	if err := d.store.SaveCurrentUser(ctx, u); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &u, nil
}

// Current returns the persisted session, if any.
func (d *Directory) Current(ctx context.Context) (*User, error) {
	return d.store.CurrentUser(ctx)
}

// SignOut clears the persisted session.
func (d *Directory) SignOut(ctx context.Context) error {
	return d.store.ClearCurrentUser(ctx)
}
