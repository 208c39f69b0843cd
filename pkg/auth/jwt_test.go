package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestAuth(t *testing.T) *JWTAuth {
	t.Helper()
	a, err := NewJWTAuth("test-secret-key-for-tests-only", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}
	return a
}

func TestNewJWTAuthRequiresSecret(t *testing.T) {
	if _, err := NewJWTAuth("", time.Minute, time.Hour); err == nil {
		t.Error("Expected error for empty secret")
	}
}

func TestNewJWTAuthDefaults(t *testing.T) {
	a, err := NewJWTAuth("secret", 0, 0)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}
	if a.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("AccessTokenExpiry = %v, want 15m", a.AccessTokenExpiry)
	}
	if a.RefreshTokenExpiry != 7*24*time.Hour {
		t.Errorf("RefreshTokenExpiry = %v, want 168h", a.RefreshTokenExpiry)
	}
}

func TestGenerateAndVerifyTokens(t *testing.T) {
	a := newTestAuth(t)

	access, refresh, err := a.GenerateTokens("user-123", "ada@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("Expected non-empty tokens")
	}
	if access == refresh {
		t.Error("Access and refresh tokens must differ")
	}

	user, err := a.VerifyAccessToken(access)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if user.ID != "user-123" || user.Email != "ada@example.com" || user.Role != "admin" {
		t.Errorf("Verified user = %+v", user)
	}

	claims, err := a.VerifyRefreshToken(refresh)
	if err != nil {
		t.Fatalf("VerifyRefreshToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("Refresh claims UserID = %q", claims.UserID)
	}
	if claims.TokenID == "" {
		t.Error("Refresh token must carry a token ID")
	}
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	a := newTestAuth(t)

	if _, err := a.VerifyAccessToken("not.a.token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestVerifyAccessTokenRejectsWrongKey(t *testing.T) {
	a := newTestAuth(t)
	other, _ := NewJWTAuth("a-completely-different-secret", 15*time.Minute, time.Hour)

	access, _, err := other.GenerateTokens("u", "e@x.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	if _, err := a.VerifyAccessToken(access); err == nil {
		t.Error("Expected error for token signed with different key")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	a, err := NewJWTAuth("secret", -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}

	access, _, err := a.GenerateTokens("u", "e@x.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	if _, err := a.VerifyAccessToken(access); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	a := newTestAuth(t)

	hash, err := a.HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "argon2id$") {
		t.Errorf("Hash format = %q, want argon2id$salt$hash", hash)
	}

	ok, err := a.VerifyPassword(hash, "Sup3rSecret")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("Correct password rejected")
	}

	ok, err = a.VerifyPassword(hash, "WrongPassword1")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("Wrong password accepted")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a := newTestAuth(t)

	h1, _ := a.HashPassword("SamePassw0rd")
	h2, _ := a.HashPassword("SamePassw0rd")
	if h1 == h2 {
		t.Error("Two hashes of the same password must differ (random salt)")
	}
}

func TestVerifyPasswordBadFormat(t *testing.T) {
	a := newTestAuth(t)

	if _, err := a.VerifyPassword("bcrypt$whatever", "pw"); err == nil {
		t.Error("Expected error for unknown hash format")
	}
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("ExtractToken failed: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("Token = %q", token)
	}

	if _, err := ExtractToken(""); err == nil {
		t.Error("Expected error for empty header")
	}
	if _, err := ExtractToken("abc.def.ghi"); err == nil {
		t.Error("Expected error for missing scheme")
	}
	if _, err := ExtractToken("Basic dXNlcg=="); err == nil {
		t.Error("Expected error for non-Bearer scheme")
	}
	if _, err := ExtractToken("Bearer "); err == nil {
		t.Error("Expected error for empty token")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Sup3rSecret", true},
		{"short1A", false},       // too short
		{"alllowercase1", false}, // no uppercase
		{"ALLUPPERCASE1", false}, // no lowercase
		{"NoNumbersHere", false}, // no digit
	}

	for _, tc := range cases {
		err := ValidatePassword(tc.password)
		if tc.valid && err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", tc.password, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error", tc.password)
		}
	}
}
