package tool

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultCurrency   = "INR"
	notAvailable      = "N/A"
	spokenDateLayout  = "Jan 02, 2006 at 03:04 PM"
	listDescLimit     = 100
	suggestDescLimit  = 80
	listLimit         = 4
	searchLimit       = 3
	suggestLimit      = 4
	suggestCategories = 2
	perCategoryPicks  = 2
)

func formatPrice(amount decimal.Decimal, currency string) string {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "", defaultCurrency:
		return "₹" + amount.String()
	default:
		return currency + " " + amount.String()
	}
}

func formatRating(rating float64) string {
	return fmt.Sprintf("%.1f out of 5", rating)
}

// titleCase is a fresh Caser per call; Casers keep state between calls.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// truncate cuts s to limit runes and marks the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

func byBrand(brand string) string {
	if brand == "" {
		return ""
	}
	return " by " + brand
}

func overflow(total, shown int) string {
	if total <= shown {
		return ""
	}
	return fmt.Sprintf("... and %d more products.\n\n", total-shown)
}
