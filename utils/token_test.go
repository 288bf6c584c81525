package utils

import (
	"os"
	"testing"
)

func TestGenerateAndParseToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	token, err := GenerateToken(42, "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	userID, role, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("ParseToken() userID = %d, want 42", userID)
	}
	if role != "admin" {
		t.Errorf("ParseToken() role = %q, want admin", role)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	if _, _, err := ParseToken("not-a-token"); err == nil {
		t.Error("ParseToken() error = nil for garbage token")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	os.Setenv("JWT_SECRET", "different-secret")
	defer os.Unsetenv("JWT_SECRET")

	if _, _, err := ParseToken(token); err == nil {
		t.Error("ParseToken() error = nil for token signed with another secret")
	}
}
