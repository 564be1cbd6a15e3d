package utils

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateToken(42, "amy")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "amy" {
		t.Errorf("expected username amy, got %q", claims.Username)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token, err := CreateToken(42, "amy")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	if _, err := ParseToken(token + "x"); err == nil {
		t.Fatal("expected error for tampered token")
	}
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatal("expected error for garbage token")
	}
}
