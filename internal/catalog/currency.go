// Package catalog holds the product-catalog collaborators: price formatting
// and product lookups live here, not in the rendering pipeline.
package catalog

import (
	"fmt"
	"strings"
)

// FormatTRY renders an amount in Turkish lira display format (dot thousands,
// comma decimals, trailing ₺). The output is markup-safe by construction and
// is injected into rendered tables as trusted HTML.
func FormatTRY(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := int64(amount)
	cents := int64(amount*100+0.5) - whole*100
	if cents >= 100 { // rounding carried into the whole part
		whole++
		cents -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf(`<span class="amount">%s%s,%02d&nbsp;&#8378;</span>`,
		sign, strings.Join(groups, "."), cents)
}
