package format

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// nbsp separates amount and symbol, matching browser Intl output.
const nbsp = "\u00a0"

var vi = message.NewPrinter(language.Vietnamese)

// VND formats a nullable price as Vietnamese dong; nil formats as zero.
// Example: 250000 => "250.000 ₫"
func VND(price *float64) string {
	var amount float64
	if price != nil {
		amount = *price
	}
	// dong has no minor unit
	return vi.Sprintf("%d", int64(math.Round(amount))) + nbsp + "₫"
}

// Date formats time in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "vi":
		return t.Format("02/01/2006")
	default:
		return t.Format("Jan 2, 2006")
	}
}
