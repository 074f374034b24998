package render

import "strings"

// logoPattern maps a card-family substring to its logo asset. Order matters:
// some family names contain more than one pattern, the first match wins.
type logoPattern struct {
	match string
	asset string
}

var logoPatterns = []logoPattern{
	{"bonus", "Bonus.png"},
	{"axess", "Axess.png"},
	{"maximum", "Maximum.png"},
	{"paraf", "Paraf.png"},
	{"cardfinans", "Cardfinans.png"},
	{"advantage", "Advantage.png"},
	{"world", "World.png"},
	{"sağlam", "SaglamKart.png"},
	{"saglam", "SaglamKart.png"},
	{"combo", "BankkartCombo.png"},
	{"qnb", "QNB-CC.png"},
	{"cc", "QNB-CC.png"},
}

// ResolveLogo returns the logo asset filename for a bank/card family, or an
// empty string when no known family matches and the generic placeholder
// should be shown. Matching is a case-insensitive substring check against the
// card family name.
func ResolveLogo(bankName, cardFamilyName string) string {
	family := strings.ToLower(strings.TrimSpace(cardFamilyName))
	for _, p := range logoPatterns {
		if strings.Contains(family, p.match) {
			return p.asset
		}
	}
	return ""
}
