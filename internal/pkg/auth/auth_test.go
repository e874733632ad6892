package auth

import (
	"errors"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-phrase")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-phrase" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword(hash, "s3cret-phrase") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func testJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "esa-manager-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testJWTService(time.Hour)

	token, expiresIn, err := svc.GenerateToken(42, "marie", true)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "marie" || !claims.IsAdmin {
		t.Errorf("claims = (%d, %q, %v), want (42, marie, true)", claims.UserID, claims.Username, claims.IsAdmin)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testJWTService(-time.Minute)

	token, _, err := svc.GenerateToken(1, "marie", false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := testJWTService(time.Hour).GenerateToken(1, "marie", false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"abc.def.ghi", "abc.def.ghi", false},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractBearerToken(%q) err = %v, wantErr %v", tt.header, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
