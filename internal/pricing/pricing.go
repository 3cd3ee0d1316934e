package pricing

import (
	"fmt"
	"math"
	"strings"

	"shopfront/internal/domain"
)

// Formatter is an explicit currency formatting policy. It replaces any
// reliance on runtime locale resolution so output is identical everywhere.
type Formatter struct {
	Code         string // ISO 4217 code shown before the amount
	MinorUnits   int    // decimal places
	ThousandsSep string // separator for the integer part, "" to disable
}

// DefaultFormatter matches the shop's display convention.
var DefaultFormatter = Formatter{Code: "EGP", MinorUnits: 2, ThousandsSep: ","}

// Format renders an amount under the policy, e.g. 12345.5 -> "EGP 12,345.50".
func (f Formatter) Format(amount float64) string {
	rounded := f.Round(amount)
	s := fmt.Sprintf("%.*f", f.MinorUnits, rounded)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if f.ThousandsSep != "" {
		intPart = groupThousands(intPart, f.ThousandsSep)
	}

	if f.Code == "" {
		return intPart + fracPart
	}
	return f.Code + " " + intPart + fracPart
}

// Round rounds an amount to the policy's minor-unit precision.
func (f Formatter) Round(amount float64) float64 {
	scale := math.Pow10(f.MinorUnits)
	return math.Round(amount*scale) / scale
}

func groupThousands(digits, sep string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	n := len(digits)
	if n > 3 {
		var groups []string
		head := n % 3
		if head > 0 {
			groups = append(groups, digits[:head])
		}
		for i := head; i < n; i += 3 {
			groups = append(groups, digits[i:i+3])
		}
		digits = strings.Join(groups, sep)
	}

	if neg {
		return "-" + digits
	}
	return digits
}

// Display is the resolved presentation of an item's price.
type Display struct {
	CurrentPrice  string  `json:"current_price"`
	OriginalPrice *string `json:"original_price,omitempty"`
	HasDiscount   bool    `json:"has_discount"`
}

// Resolve derives the display price for an item. An explicit original price
// above the selling price wins over a derived one; otherwise a positive
// discount percentage back-computes the original (price / (1 - pct/100)).
func Resolve(item *domain.CatalogItem, f Formatter) Display {
	d := Display{CurrentPrice: f.Format(item.Price)}

	if item.OriginalPrice != nil && *item.OriginalPrice > item.Price {
		orig := f.Format(*item.OriginalPrice)
		d.OriginalPrice = &orig
		d.HasDiscount = true
		return d
	}

	if item.DiscountPercentage != nil {
		pct := *item.DiscountPercentage
		if pct > 0 && pct < 100 {
			orig := f.Format(item.Price / (1 - pct/100))
			d.OriginalPrice = &orig
			d.HasDiscount = true
		}
	}

	return d
}
