package util

import (
	"examgrade_backend/internal/model"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{IsLecturer: true}
	user.ID = 7

	token, err := GenerateJWT(user, "round-trip-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "round-trip-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || !claims.IsLecturer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{}
	user.ID = 7

	token, err := GenerateJWT(user, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "wrong-secret"); err == nil {
		t.Fatal("expected verification failure with the wrong secret")
	}
}

func TestParseJWTExpiredToken(t *testing.T) {
	user := &model.User{}
	user.ID = 7

	token, err := GenerateJWT(user, "right-secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "right-secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
