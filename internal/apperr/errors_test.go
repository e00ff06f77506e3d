package apperr

import (
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestValidation_Nil(t *testing.T) {
	if err := Validation(nil); err != nil {
		t.Fatalf("Validation(nil) = %v, want nil", err)
	}
}

func TestValidation_FieldErrors(t *testing.T) {
	errs := validation.Errors{
		"nama":          errors.New("the length must be between 3 and 100"),
		"jenis_kelamin": nil,
	}
	err := Validation(errs)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Fields) != 1 {
		t.Errorf("fields = %v, want only nama", ve.Fields)
	}
	if !errors.Is(fmt.Errorf("create: %w", err), ErrInvalidInput) {
		t.Error("wrapped validation error should match ErrInvalidInput")
	}
}

func TestValidation_PlainError(t *testing.T) {
	err := Validation(errors.New("boom"))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields["_"] != "boom" {
		t.Errorf("plain error not wrapped: %v", err)
	}
}
