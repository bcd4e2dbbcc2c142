// Package format renders amounts for people.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/print-configurator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Won returns an amount rounded to whole won with a currency sign and
// thousands separators (e.g., "-₩1,234").
func Won(amount float64) string {
	rounded := mathutil.RoundWon(amount)
	if rounded < 0 {
		return "-₩" + NumericWon(-rounded)
	}
	return "₩" + NumericWon(rounded)
}

// NumericWon returns the rounded amount with separators but no sign (e.g., "1,234").
func NumericWon(amount float64) string {
	rounded := mathutil.RoundWon(amount)
	if mathutil.IsZero(rounded) {
		rounded = 0
	}
	return printer.Sprintf("%.0f", rounded)
}

// Percent renders a rate such as 0.05 as "5%".
func Percent(rate float64) string {
	pct := math.Round(rate*10000) / 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
