package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"tasktracker/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "services.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := database.OpenGorm(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("OpenGorm failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	store := database.NewGormStore(db, 5*time.Second)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestAuth(t *testing.T, store database.Store) *AuthService {
	t.Helper()
	return NewAuthService(store, BcryptHasher{Cost: bcrypt.MinCost})
}

func mustRegister(t *testing.T, auth *AuthService, username, password string) Identity {
	t.Helper()
	ctx := context.Background()
	if _, err := auth.Register(ctx, username, password); err != nil {
		t.Fatalf("Register(%q) failed: %v", username, err)
	}
	identity, err := auth.Authenticate(ctx, username, password)
	if err != nil {
		t.Fatalf("Authenticate(%q) failed: %v", username, err)
	}
	return identity
}
