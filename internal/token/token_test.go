package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestIssueAndValidate(t *testing.T) {
	s := NewService("secret", time.Hour)
	id := uuid.New()

	tok, err := s.Issue(id, "ada@camp.test", "camper")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c, err := s.Validate(tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.UserID != id || c.Email != "ada@camp.test" || c.Role != "camper" || c.Subject != id.String() {
		t.Errorf("claims = %+v", c)
	}
}

func TestValidate_Expired(t *testing.T) {
	s := NewService("secret", time.Minute)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	tok, _ := s.Issue(uuid.New(), "a@b.c", "camper")

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := s.Validate(tok); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	s := NewService("secret", time.Hour)
	good, _ := s.Issue(uuid.New(), "a@b.c", "camper")
	other, _ := NewService("other-secret", time.Hour).Issue(uuid.New(), "a@b.c", "camper")

	none := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: uuid.New()})
	noneTok, _ := none.SignedString(jwtlib.UnsafeAllowNoneSignatureType)

	noExp := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{UserID: uuid.New()})
	noExpTok, _ := noExp.SignedString([]byte("secret"))

	gp, op := strings.Split(good, "."), strings.Split(other, ".")
	tampered := gp[0] + "." + op[1] + "." + gp[2]

	tests := map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"wrong secret": other,
		"tampered":     tampered,
		"alg none":     noneTok,
		"no expiry":    noExpTok,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Validate(tok); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("err = %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestNewService_Defaults(t *testing.T) {
	if ttl := NewService("s", 0).TTL(); ttl != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", ttl)
	}
	if _, err := NewService("", time.Hour).Issue(uuid.New(), "", ""); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("empty secret should refuse to sign, got %v", err)
	}
}
