package validation

import (
	"errors"
	"testing"

	domainerrors "github.com/promptdeck/promptdeck-server/internal/errors"
)

type createPromptRequest struct {
	Title   string  `json:"title" validate:"max=200"`
	Content string  `json:"content" validate:"required"`
	Rating  float64 `json:"rating" validate:"gte=0,lte=5"`
}

func TestValidatePasses(t *testing.T) {
	v := New()

	err := v.Validate(createPromptRequest{
		Title:   "A title",
		Content: "Some content",
		Rating:  4.5,
	})
	if err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestValidateRequired(t *testing.T) {
	v := New()

	err := v.Validate(createPromptRequest{Rating: 3})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %T", err)
	}
	if domainErr.Code != domainerrors.CodeValidation {
		t.Errorf("code: got %s", domainErr.Code)
	}
	// Field name comes from the json tag.
	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details: got %T", domainErr.Details)
	}
	if _, ok := details["content"]; !ok {
		t.Errorf("expected content field error, got %v", details)
	}
}

func TestValidateRange(t *testing.T) {
	v := New()

	err := v.Validate(createPromptRequest{Content: "x", Rating: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %T", err)
	}
	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details: got %T", domainErr.Details)
	}
	if msg := details["rating"]; msg != "must be less than or equal to 5" {
		t.Errorf("message: got %q", msg)
	}
}
