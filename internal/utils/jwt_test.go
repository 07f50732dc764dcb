package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "round-trip-secret"
	at, err := NewAccessToken(secret, 42, "ADMIN", 15)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v (valid=%v)", err, tok != nil && tok.Valid)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims have type %T", tok.Claims)
	}

	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub claim: got %v, want 42", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "ADMIN" {
		t.Errorf("role claim: got %v, want ADMIN", claims["role"])
	}
	if exp, _ := claims["exp"].(float64); int64(exp) != at.Exp.Unix() {
		t.Errorf("exp claim %v does not match token expiry %d", claims["exp"], at.Exp.Unix())
	}

	ttl := time.Until(at.Exp)
	if ttl < 14*time.Minute || ttl > 16*time.Minute {
		t.Errorf("expiry %v not about 15 minutes out", ttl)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("signing-secret", 42, "CUSTOMER", 15)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	if err == nil && tok.Valid {
		t.Error("token verified with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("new refresh token: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Errorf("raw token length: got %d, want 96", len(rt.Raw))
	}
	if d := time.Until(rt.Exp); d < 6*24*time.Hour {
		t.Errorf("expiry %v, want about 7 days out", d)
	}

	h1 := HashRefreshRaw(rt.Raw)
	if len(h1) != 64 {
		t.Errorf("hash length: got %d, want 64 hex chars", len(h1))
	}
	if h1 != HashRefreshRaw(rt.Raw) {
		t.Error("hashing the same raw token twice gave different digests")
	}
	if h1 == HashRefreshRaw(rt.Raw+"x") {
		t.Error("different raw tokens hashed to the same digest")
	}

	other, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("new refresh token: %v", err)
	}
	if other.Raw == rt.Raw {
		t.Error("two refresh tokens came out identical")
	}
}
