package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin moderator"`
	Rating   int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func TestDecodeAndValidate_ValidPayload(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(
		`{"email":"a@b.com","password":"password123","role":"admin","rating":4}`,
	))

	var payload sampleRequest
	if err := DecodeAndValidate(req, &payload); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if payload.Email != "a@b.com" || payload.Role != "admin" {
		t.Fatalf("payload not decoded: %+v", payload)
	}
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"email":`))

	var payload sampleRequest
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}

func TestFormatValidationErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(
		`{"email":"not-an-email","password":"short","role":"root","rating":9}`,
	))

	var payload sampleRequest
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	errors := FormatValidationErrors(err)
	if len(errors) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %+v", len(errors), errors)
	}

	byField := make(map[string]string, len(errors))
	for _, e := range errors {
		byField[e.Field] = e.Message
	}
	if byField["Email"] != "Invalid email format" {
		t.Fatalf("email message: %q", byField["Email"])
	}
	if byField["Password"] != "Value is too short" {
		t.Fatalf("password message: %q", byField["Password"])
	}
	if !strings.Contains(byField["Role"], "one of") {
		t.Fatalf("role message: %q", byField["Role"])
	}
	if !strings.Contains(byField["Rating"], "less than or equal to 5") {
		t.Fatalf("rating message: %q", byField["Rating"])
	}
}

func TestJoinValidationErrors(t *testing.T) {
	joined := JoinValidationErrors([]ValidationError{
		{Field: "Email", Message: "Invalid email format"},
		{Field: "Password", Message: "Value is too short"},
	})
	if joined != "Email: Invalid email format; Password: Value is too short" {
		t.Fatalf("unexpected joined message: %q", joined)
	}

	if JoinValidationErrors(nil) != "validation failed" {
		t.Fatal("expected fallback message for empty error list")
	}
}
