package pricing

import (
	"testing"

	"shopfront/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFormatGroupsThousands(t *testing.T) {
	f := DefaultFormatter

	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"small amount", 800, "EGP 800.00"},
		{"four digits", 1000, "EGP 1,000.00"},
		{"six digits", 123456.5, "EGP 123,456.50"},
		{"seven digits", 1000000, "EGP 1,000,000.00"},
		{"rounds half up", 10.005, "EGP 10.01"},
		{"negative amount", -12345.67, "EGP -12,345.67"},
		{"zero", 0, "EGP 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format(tt.amount)
			if got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatWithoutCodeOrSeparator(t *testing.T) {
	f := Formatter{Code: "", MinorUnits: 0, ThousandsSep: ""}

	got := f.Format(1234567.89)
	if got != "1234568" {
		t.Errorf("Format(1234567.89) = %q, want %q", got, "1234568")
	}
}

func TestResolveDerivesOriginalFromDiscount(t *testing.T) {
	pct := 20.0
	item := &domain.CatalogItem{
		ID:                 uuid.New(),
		Title:              "Phone",
		Price:              800,
		DiscountPercentage: &pct,
	}

	d := Resolve(item, DefaultFormatter)

	if d.CurrentPrice != "EGP 800.00" {
		t.Errorf("CurrentPrice = %q, want %q", d.CurrentPrice, "EGP 800.00")
	}
	if !d.HasDiscount {
		t.Error("HasDiscount = false, want true")
	}
	if d.OriginalPrice == nil {
		t.Fatal("OriginalPrice is nil, want derived value")
	}
	if *d.OriginalPrice != "EGP 1,000.00" {
		t.Errorf("OriginalPrice = %q, want %q", *d.OriginalPrice, "EGP 1,000.00")
	}
}

func TestResolveExplicitOriginalWinsOverDerived(t *testing.T) {
	orig := 1000.0
	pct := 50.0
	item := &domain.CatalogItem{
		ID:                 uuid.New(),
		Title:              "Phone",
		Price:              800,
		OriginalPrice:      &orig,
		DiscountPercentage: &pct,
	}

	d := Resolve(item, DefaultFormatter)

	if d.OriginalPrice == nil {
		t.Fatal("OriginalPrice is nil, want explicit value")
	}
	// The explicit 1000 must win over the 1600 the 50% discount would derive.
	if *d.OriginalPrice != "EGP 1,000.00" {
		t.Errorf("OriginalPrice = %q, want %q", *d.OriginalPrice, "EGP 1,000.00")
	}
	if !d.HasDiscount {
		t.Error("HasDiscount = false, want true")
	}
}

func TestResolveNoDiscountSignals(t *testing.T) {
	tests := []struct {
		name string
		item domain.CatalogItem
	}{
		{"no original, no percentage", domain.CatalogItem{Price: 500}},
		{"original below price", domain.CatalogItem{Price: 500, OriginalPrice: ptrFloat(400)}},
		{"original equal to price", domain.CatalogItem{Price: 500, OriginalPrice: ptrFloat(500)}},
		{"zero percentage", domain.CatalogItem{Price: 500, DiscountPercentage: ptrFloat(0)}},
		{"full percentage", domain.CatalogItem{Price: 500, DiscountPercentage: ptrFloat(100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(&tt.item, DefaultFormatter)
			if d.HasDiscount {
				t.Error("HasDiscount = true, want false")
			}
			if d.OriginalPrice != nil {
				t.Errorf("OriginalPrice = %q, want nil", *d.OriginalPrice)
			}
		})
	}
}

func TestProperty_DerivedOriginalExceedsCurrent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a valid discount percentage always derives an original above the current price", prop.ForAll(
		func(price float64, pct float64) bool {
			item := &domain.CatalogItem{
				ID:                 uuid.New(),
				Price:              price,
				DiscountPercentage: &pct,
			}

			d := Resolve(item, DefaultFormatter)

			if !d.HasDiscount {
				t.Logf("FAIL: expected discount for price=%v pct=%v", price, pct)
				return false
			}
			if d.OriginalPrice == nil {
				t.Logf("FAIL: OriginalPrice is nil for price=%v pct=%v", price, pct)
				return false
			}

			derived := price / (1 - pct/100)
			if derived <= price {
				t.Logf("FAIL: derived original %v not above price %v", derived, price)
				return false
			}

			return true
		},
		gen.Float64Range(1, 100000),
		gen.Float64Range(1, 90),
	))

	properties.Property("rounding is idempotent at minor-unit precision", prop.ForAll(
		func(amount float64) bool {
			f := DefaultFormatter
			once := f.Round(amount)
			twice := f.Round(once)
			if once != twice {
				t.Logf("FAIL: Round not idempotent for %v: %v vs %v", amount, once, twice)
				return false
			}
			return true
		},
		gen.Float64Range(0, 1000000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func ptrFloat(f float64) *float64 { return &f }
