// Package pricing holds the pure business rules applied to prices before any
// provider call is made.
package pricing

// MaxDynamicPrice bounds the price accepted on the public dynamic endpoint.
const MaxDynamicPrice = 1_000_000

// PriceWithVAT grosses up a base price by the VAT rate when enabled.
func PriceWithVAT(base float64, vatEnabled bool, vatRate float64) float64 {
	if !vatEnabled {
		return base
	}
	return base * (1 + vatRate/100)
}

// ValidPrice accepts any strictly positive price.
func ValidPrice(price float64) bool {
	return price > 0
}

// ValidDynamicPrice additionally enforces the upper bound used by the
// anonymous dynamic endpoint.
func ValidDynamicPrice(price float64) bool {
	return price > 0 && price <= MaxDynamicPrice
}

// ValidProductID checks the identifier shape only; existence is the catalog's
// concern.
func ValidProductID(id int64) bool {
	return id > 0
}

// ValidBIN accepts an empty BIN (no filter) or 6 to 8 digits.
func ValidBIN(bin string) bool {
	if bin == "" {
		return true
	}
	if len(bin) < 6 || len(bin) > 8 {
		return false
	}
	for _, r := range bin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
