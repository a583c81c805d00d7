package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	orig := NewValidationError("bad step input", nil)
	mapped := ToDomainError(orig)
	if mapped.Code != "VALIDATION_FAILED" || mapped.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("mapped = %+v", mapped)
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.Code != "NOT_FOUND" {
		t.Fatalf("code = %q", mapped.Code)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != "INTERNAL_ERROR" {
		t.Fatalf("code = %q", mapped.Code)
	}
	if !errors.Is(mapped, mapped.Err) {
		t.Fatal("expected wrapped error to unwrap")
	}
}

func TestPersistenceErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError(cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be preserved")
	}
	if ToDomainError(err).Code != "PERSISTENCE_FAILED" {
		t.Fatalf("code = %q", ToDomainError(err).Code)
	}
}
