package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tasktracker/database"
	"tasktracker/model"
)

// errBadCredentials is returned for both unknown usernames and wrong
// passwords so callers cannot tell the two apart.
var errBadCredentials = fmt.Errorf("%w: invalid username or password", model.ErrAuthentication)

// bcrypt only looks at the first 72 bytes and refuses anything longer.
const maxPasswordBytes = 72

type AuthService struct {
	store  database.Store
	hasher Hasher
	// compared against when the username is unknown, so both failure paths
	// pay for one hash comparison
	dummyDigest string
}

func NewAuthService(store database.Store, hasher Hasher) *AuthService {
	dummy, err := hasher.Hash("tasktracker-dummy-password")
	if err != nil {
		log.Printf("[AUTH] failed to prepare dummy digest: %v", err)
	}
	return &AuthService{store: store, hasher: hasher, dummyDigest: dummy}
}

// Register creates a user with a hashed password. Usernames are trimmed and
// must be unique.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", model.ErrValidation, maxPasswordBytes)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Username: username, Password: digest}
	err = s.store.WithSession(ctx, func(session database.Session) error {
		taken, err := session.UsernameTaken(username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: username %q is already registered", model.ErrConflict, username)
		}
		return session.CreateUser(user)
	})
	if err != nil {
		// the unique index catches registrations that raced past the check
		if errors.Is(err, model.ErrConflict) {
			return nil, fmt.Errorf("%w: username %q is already registered", model.ErrConflict, username)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and returns the matching identity.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	username = strings.TrimSpace(username)

	var user *model.User
	err := s.store.WithSession(ctx, func(session database.Session) error {
		var err error
		user, err = session.UserByUsername(username)
		return err
	})
	if errors.Is(err, model.ErrNotFound) {
		s.hasher.Verify(password, s.dummyDigest)
		return Identity{}, errBadCredentials
	}
	if err != nil {
		return Identity{}, err
	}

	if !s.hasher.Verify(password, user.Password) {
		return Identity{}, errBadCredentials
	}
	return Identity{UserID: user.ID, Username: user.Username}, nil
}

// LoadIdentity resolves a user id from a session token back to a live user.
// A deleted user yields model.ErrAuthentication.
func (s *AuthService) LoadIdentity(ctx context.Context, userID int64) (Identity, error) {
	var user *model.User
	err := s.store.WithSession(ctx, func(session database.Session) error {
		var err error
		user, err = session.UserByID(userID)
		return err
	})
	if errors.Is(err, model.ErrNotFound) {
		return Identity{}, fmt.Errorf("%w: user no longer exists", model.ErrAuthentication)
	}
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: user.ID, Username: user.Username}, nil
}

// DeleteUser removes a user and everything cascading from them. It backs the
// admin command line, not any HTTP route.
func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	return s.store.WithSession(ctx, func(session database.Session) error {
		user, err := session.UserByUsername(strings.TrimSpace(username))
		if err != nil {
			return err
		}
		return session.DeleteUser(user.ID)
	})
}
