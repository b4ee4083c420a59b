package middleware

import (
	"context"
	"testing"
	"time"

	"tahfidz_go/config"
	"tahfidz_go/models"

	"github.com/golang-jwt/jwt/v4"
)

// Without Redis the blacklist degrades gracefully: logout still succeeds and
// token validation falls back to signature and expiry checks alone.
func TestBlacklistWithoutRedis(t *testing.T) {
	ctx := context.Background()

	if err := BlacklistToken(ctx, "some-token"); err != nil {
		t.Errorf("BlacklistToken without Redis returned error: %v", err)
	}
	if IsTokenBlacklisted(ctx, "some-token") {
		t.Error("IsTokenBlacklisted without Redis must fail open")
	}
}

func TestGenerateTokenUsesConfiguredLifetime(t *testing.T) {
	// A week-long lifetime: the revocation blacklist keys off the same
	// config value, so a logged-out token can never outlive its entry.
	config.AppConfig = &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiresIn: 7 * 24 * time.Hour,
	}

	user := &models.User{
		BaseModel: models.BaseModel{ID: 42},
		Username:  "ust.hasan",
		Role:      "guru",
	}

	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("generated token failed to parse: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		t.Fatal("generated token has invalid claims")
	}
	if claims.UserID != 42 || claims.Role != "guru" {
		t.Errorf("claims = {UserID: %d, Role: %q}, want {42, guru}", claims.UserID, claims.Role)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 7*24*time.Hour {
		t.Errorf("token lifetime = %v, want %v", lifetime, 7*24*time.Hour)
	}
}
