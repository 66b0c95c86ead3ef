package pricing

import "strconv"

// TaxRate is the flat sales tax applied to every order.
const TaxRate = 0.08

// Summary is the derived price breakdown of a set of items.
// It is never stored; callers recompute it whenever the item set changes.
type Summary struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Compute sums the given discounted prices and applies TaxRate.
// An empty input yields the zero Summary.
func Compute(prices []float64) Summary {
	var subtotal float64
	for _, p := range prices {
		subtotal += p
	}
	tax := subtotal * TaxRate
	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Format renders an amount with two decimals for display.
func Format(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Display is the two-decimal rendering of a Summary.
type Display struct {
	Subtotal string
	Tax      string
	Total    string
}

// Display formats every field of s.
func (s Summary) Display() Display {
	return Display{
		Subtotal: Format(s.Subtotal),
		Tax:      Format(s.Tax),
		Total:    Format(s.Total),
	}
}
