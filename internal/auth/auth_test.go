package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	raw, exp, err := issuer.Issue("user-1", "ADMIN")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("exp %v is in the past", exp)
	}

	claims, err := issuer.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "user-1" || claims.Role != "ADMIN" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	good, _, _ := issuer.Issue("user-1", "CUSTOMER")

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue("user-1", "CUSTOMER")

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "CUSTOMER"}).SignedString([]byte("secret"))

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", func() string { s, _, _ := NewTokenIssuer("other", time.Hour).Issue("u", "ADMIN"); return s }()},
		{"expired", old},
		{"missing subject", noSub},
		{"none alg", func() string {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Parse(tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}

	if _, err := issuer.Parse(good); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("password mismatch")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
