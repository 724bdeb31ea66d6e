package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: "test-secret", Issuer: "test-issuer", ExpirationMins: 15})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func signRaw(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	return token
}

// ============================================================================
// NewService Tests
// ============================================================================

func TestNewService_EmptySecret_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	if _, err := NewService(Config{}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

// ============================================================================
// Sign / Validate Tests
// ============================================================================

func TestSignValidate_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Sign(Claims{UserID: "user:1", Email: "a@x.io", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected three token parts, got %q", token)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user:1" || claims.Email != "a@x.io" || !claims.IsAdmin() {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer test-issuer, got %q", claims.Issuer)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 15*time.Minute {
		t.Errorf("expected default expiration, got %v", claims.ExpiresAt)
	}
}

func TestValidate_TokenWithoutIssuer_Accepted(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token := signRaw(t, "test-secret", Claims{UserID: "user:2"})

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("expected token without issuer to validate, got %v", err)
	}
	if claims.IsAdmin() {
		t.Error("expected non-admin claims")
	}
}

func TestValidate_WrongIssuer_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{UserID: "user:1"}
	claims.Issuer = "someone-else"
	token := signRaw(t, "test-secret", claims)

	if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_WrongSecret_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token := signRaw(t, "other-secret", Claims{UserID: "user:1"})

	if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_Expired_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{UserID: "user:1"}
	claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signRaw(t, "test-secret", claims)

	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_NotYetValid_ReturnsErrTokenNotYetValid(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{UserID: "user:1"}
	claims.NotBefore = gojwt.NewNumericDate(time.Now().Add(time.Hour))
	token := signRaw(t, "test-secret", claims)

	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenNotYetValid) {
		t.Errorf("expected ErrTokenNotYetValid, got %v", err)
	}
}

func TestValidate_MissingUserID_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token := signRaw(t, "test-secret", Claims{Email: "a@x.io"})

	if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_Garbage_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, token := range []string{"", "a.b", "a.b.c", "not-a-token"} {
		if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, Claims{UserID: "user:1"}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Validate(token); err == nil {
		t.Error("expected HS512 token to be rejected")
	}
}
