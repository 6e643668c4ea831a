package services

import (
	"testing"
)

func TestLoginRequest_Structure(t *testing.T) {
	req := LoginRequest{
		Email:    "member@insightly.com",
		Password: "password123",
		AuthType: "local",
	}

	if req.Email != "member@insightly.com" {
		t.Errorf("Email = %q, expected %q", req.Email, "member@insightly.com")
	}
	if req.AuthType != "local" {
		t.Errorf("AuthType = %q, expected %q", req.AuthType, "local")
	}
}

func TestLoginRequest_DefaultAuthType(t *testing.T) {
	req := LoginRequest{
		Email:    "someone@example.com",
		Password: "pass",
	}

	if req.AuthType != "" {
		t.Errorf("AuthType should be empty by default, got %q", req.AuthType)
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	token, hash, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken failed: %v", err)
	}

	if len(token) != 64 {
		t.Errorf("token length = %d, expected 64 hex chars", len(token))
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, expected 64 hex chars", len(hash))
	}
	if token == hash {
		t.Error("token and its hash must differ")
	}
	if hashRefreshToken(token) != hash {
		t.Error("hash must be reproducible from the token")
	}

	other, _, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken failed: %v", err)
	}
	if token == other {
		t.Error("two generated tokens must not collide")
	}
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	a := hashRefreshToken("some-token")
	b := hashRefreshToken("some-token")
	if a != b {
		t.Error("hashing the same token twice must match")
	}
	if a == hashRefreshToken("other-token") {
		t.Error("different tokens must hash differently")
	}
}

func TestChangePasswordRequest_Structure(t *testing.T) {
	req := ChangePasswordRequest{
		OldPassword: "oldpass",
		NewPassword: "newpass123",
	}

	if req.OldPassword != "oldpass" {
		t.Errorf("OldPassword = %q, expected %q", req.OldPassword, "oldpass")
	}
	if req.NewPassword != "newpass123" {
		t.Errorf("NewPassword = %q, expected %q", req.NewPassword, "newpass123")
	}
}
