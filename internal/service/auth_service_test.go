package service

import (
	"errors"
	"examgrade_backend/internal/config"
	"examgrade_backend/internal/repository"
	"examgrade_backend/internal/util"
	"testing"
	"time"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "unit-test-secret-at-least-32-chars!!",
			ExpireTime: time.Hour,
		},
	}
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register("alice", "correct horse battery", true)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected persisted user with an ID")
	}
	if !user.IsLecturer {
		t.Fatal("expected lecturer flag to be stored")
	}
	if user.Password == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}

	token, err := svc.Login("alice", "correct horse battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != user.ID || !claims.IsLecturer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register("alice", "correct horse battery", false); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register("alice", "another password", true)
	if !errors.Is(err, util.ErrUsernameRegistered) {
		t.Fatalf("expected ErrUsernameRegistered, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register("alice", "correct horse battery", false); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login("alice", "wrong password")
	if !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login("nobody", "whatever")
	if !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
