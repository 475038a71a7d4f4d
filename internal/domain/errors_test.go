package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorHelpers_MatchWrappedErrors(t *testing.T) {
	notFound := fmt.Errorf("load product: %w", &NotFoundError{Kind: "product", ID: 999999})
	if !IsNotFound(notFound) {
		t.Fatal("expected IsNotFound to match wrapped NotFoundError")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatal("IsNotFound must not match unrelated errors")
	}

	stock := fmt.Errorf("check availability: %w", &InsufficientStockError{
		ProductID: 7, Name: "Webcam HD 1080p", Requested: 5, Available: 2,
	})
	if !IsInsufficientStock(stock) {
		t.Fatal("expected IsInsufficientStock to match wrapped error")
	}

	if !IsConflict(fmt.Errorf("tx aborted: %w", ErrConflict)) {
		t.Fatal("expected IsConflict to match wrapped ErrConflict")
	}
	if !IsValidation(&ValidationError{Field: "items", Reason: "must not be empty"}) {
		t.Fatal("expected IsValidation to match ValidationError")
	}
	if !IsAlreadyExists(&AlreadyExistsError{SKU: "MOU-001"}) {
		t.Fatal("expected IsAlreadyExists to match AlreadyExistsError")
	}
}

func TestInsufficientStockError_NamesProductAndQuantities(t *testing.T) {
	err := &InsufficientStockError{ProductID: 3, Name: "Mechanical Keyboard", Requested: 60, Available: 50}
	msg := err.Error()

	for _, want := range []string{"Mechanical Keyboard", "60", "50"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error message %q", want, msg)
		}
	}
}

func TestNotFoundError_NamesReference(t *testing.T) {
	err := &NotFoundError{Kind: "product", ID: 999999}
	if !strings.Contains(err.Error(), "999999") {
		t.Fatalf("expected product id in message, got %q", err.Error())
	}
}
