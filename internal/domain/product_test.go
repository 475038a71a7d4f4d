package domain

import (
	"errors"
	"testing"
)

func TestProduct_ValidateNew_OK(t *testing.T) {
	p := Product{Name: "Wireless Mouse", SKU: "MOU-001", PriceCents: 2999, StockQty: 100}
	if errs := p.ValidateNew(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestProduct_ValidateNew_CollectsAllViolations(t *testing.T) {
	p := Product{PriceCents: -1, StockQty: -5}
	errs := p.ValidateNew()
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), errs)
	}

	assertContains := func(want error) {
		t.Helper()
		for _, err := range errs {
			if errors.Is(err, want) {
				return
			}
		}
		t.Fatalf("expected %v in %v", want, errs)
	}
	assertContains(ErrProductNameRequired)
	assertContains(ErrProductSKURequired)
	assertContains(ErrProductPriceNegative)
	assertContains(ErrProductStockNegative)
}

func TestProductPatch_Validate(t *testing.T) {
	price := int64(-100)
	patch := ProductPatch{PriceCents: &price}
	errs := patch.Validate()
	if len(errs) != 1 || !errors.Is(errs[0], ErrProductPriceNegative) {
		t.Fatalf("expected negative price error, got %v", errs)
	}

	if errs := (&ProductPatch{}).Validate(); len(errs) != 0 {
		t.Fatalf("empty patch must be valid, got %v", errs)
	}
}
