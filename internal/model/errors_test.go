package model

import (
	"errors"
	"strings"
	"testing"
)

func TestAPIError_ImplementsError(t *testing.T) {
	var err error = &APIError{Code: "TEST", Message: "test message"}
	if !strings.Contains(err.Error(), "TEST") {
		t.Errorf("Error() = %q, should contain code", err.Error())
	}
	if !strings.Contains(err.Error(), "test message") {
		t.Errorf("Error() = %q, should contain message", err.Error())
	}
}

func TestAPIError_ErrorsAs(t *testing.T) {
	var wrapped error = NewEmailTakenError("jo@x.com")

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As should unwrap *APIError")
	}
	if apiErr.Code != ErrCodeEmailTaken {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeEmailTaken)
	}
	if !strings.Contains(apiErr.Message, "already exists") {
		t.Errorf("Message = %q, should mention already exists", apiErr.Message)
	}
}

func TestNewInvalidCredentialsError_DoesNotLeakDetail(t *testing.T) {
	err := NewInvalidCredentialsError()
	if strings.Contains(strings.ToLower(err.Message), "pin") {
		t.Errorf("Message = %q, should not reveal which factor failed", err.Message)
	}
	if err.Category != "auth" {
		t.Errorf("Category = %q, want auth", err.Category)
	}
}

func TestAccount_FactorPredicates(t *testing.T) {
	a := &Account{}
	if a.HasPIN() || a.HasFingerprint() {
		t.Error("new account should have no factors")
	}

	a.PINHash = "pbkdf2_sha256$210000$c2FsdA$aGFzaA"
	if !a.HasPIN() {
		t.Error("HasPIN should be true once pin_hash is set")
	}

	a.FingerprintTemplate = "opaque-template"
	if !a.HasFingerprint() {
		t.Error("HasFingerprint should be true once template is set")
	}
}
