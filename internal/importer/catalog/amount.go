package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// thousandsOnly matches dot-grouped integers such as "1.250" or "12.500.000".
var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// parseLocalDecimal parses a comma-decimal number such as "1.234,56" or "15%".
// Without a comma, dots are grouping separators when every group has three digits
// ("1.250" is 1250); otherwise the dot is the decimal separator ("4.5").
func parseLocalDecimal(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, " ", "")

	if clean == "" {
		return decimal.Zero, nil
	}

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case thousandsOnly.MatchString(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	}

	return decimal.NewFromString(clean)
}
