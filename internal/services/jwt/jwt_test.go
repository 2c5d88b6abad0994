package jwt

import (
	"errors"
	"os"
	"testing"
	"time"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("JWT_ACCESS_SECRET", testAccessSecret)
	_ = os.Setenv("JWT_REFRESH_SECRET", testRefreshSecret)

	code := m.Run()
	os.Exit(code)
}

func TestGenerateToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := NewTokenService()
		pair, err := srv.GenerateToken("user-123", "a@b.com", true)
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}
		if pair.AccessToken == "" {
			t.Fatal("expected non-empty access token")
		}
		if pair.RefreshToken == "" {
			t.Fatal("expected non-empty refresh token")
		}
		if pair.AccessToken == pair.RefreshToken {
			t.Fatal("access and refresh tokens must differ")
		}
	})
}

func TestParseAccessToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := NewTokenService()
		pair, err := srv.GenerateToken("user-123", "a@b.com", true)
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		claims, err := srv.ParseAccessToken(pair.AccessToken)
		if err != nil {
			t.Fatalf("ParseAccessToken returned error: %v", err)
		}
		if claims.UserID != "user-123" {
			t.Fatalf("expected user-123, got %q", claims.UserID)
		}
		if claims.Email != "a@b.com" {
			t.Fatalf("expected a@b.com, got %q", claims.Email)
		}
		if !claims.IsAdmin {
			t.Fatal("expected is_admin=true")
		}
		if claims.Type != TokenTypeAccess {
			t.Fatalf("expected access type, got %q", claims.Type)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		srv := NewTokenService()
		_, err := srv.ParseAccessToken("")
		if !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		srv := NewTokenService()
		_, err := srv.ParseAccessToken("not.a.token")
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		srv := NewTokenService()
		pair, err := srv.GenerateToken("user-123", "a@b.com", false)
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		// The refresh token is signed with a different secret and carries
		// the refresh type, so the access parser must reject it.
		if _, err := srv.ParseAccessToken(pair.RefreshToken); err == nil {
			t.Fatal("expected error parsing refresh token as access token")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		srv := NewTokenService()
		srv.accessTokenDuration = -time.Minute

		pair, err := srv.GenerateToken("user-123", "a@b.com", false)
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		_, err = srv.ParseAccessToken(pair.AccessToken)
		if !errors.Is(err, ErrExpiredToken) {
			t.Fatalf("expected ErrExpiredToken, got %v", err)
		}
	})
}

func TestParseRefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := NewTokenService()
		pair, err := srv.GenerateToken("user-456", "c@d.com", false)
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		claims, err := srv.ParseRefreshToken(pair.RefreshToken)
		if err != nil {
			t.Fatalf("ParseRefreshToken returned error: %v", err)
		}
		if claims.Type != TokenTypeRefresh {
			t.Fatalf("expected refresh type, got %q", claims.Type)
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		srv := NewTokenService()
		pair, err := srv.GenerateToken("user-456", "c@d.com", false)
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		if _, err := srv.ParseRefreshToken(pair.AccessToken); err == nil {
			t.Fatal("expected error parsing access token as refresh token")
		}
	})
}

func TestRefreshToken(t *testing.T) {
	srv := NewTokenService()
	pair, err := srv.GenerateToken("user-789", "e@f.com", true)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	newPair, err := srv.RefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}

	claims, err := srv.ParseAccessToken(newPair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != "user-789" {
		t.Fatalf("expected user-789, got %q", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Fatal("admin flag must survive refresh")
	}
}
