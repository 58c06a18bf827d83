// Package format renders currency and date values for dashboard view models.
//
// Amounts are Indian Rupees and use en-IN digit grouping (₹1,50,000 rather
// than ₹150,000). Formatting never fails: invalid input renders as a sentinel
// string so a single bad record cannot break a render.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"finboard/internal/core"
)

// InvalidDate is the sentinel rendered for unparseable transaction dates.
const InvalidDate = "Invalid Date"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Rupees formats an amount as a rupee string. Whole amounts drop the decimal
// part ("₹0", "₹2,500"); fractional amounts keep two places ("₹1,500.50").
// NaN and infinities render as "₹0".
func Rupees(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "₹0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var s string
	if v == math.Trunc(v) {
		s = printer.Sprintf("%.0f", v)
	} else {
		s = printer.Sprintf("%.2f", v)
	}
	if neg {
		return "-₹" + s
	}
	return "₹" + s
}

// RupeesPtr formats an optional amount. A nil pointer renders as "₹0", the
// upstream convention for absent values.
func RupeesPtr(v *float64) string {
	if v == nil {
		return "₹0"
	}
	return Rupees(*v)
}

// Signed formats an amount with an explicit sign for table rows: credits
// render as "+₹..." and debits as "-₹...".
func Signed(v float64, txnType core.TxnType) string {
	if txnType == core.Credited {
		return "+" + Rupees(v)
	}
	return "-" + Rupees(v)
}

// Percent renders a ratio as a whole percentage ("34%"). A zero total yields
// "0%".
func Percent(part, total float64) string {
	if total == 0 {
		return "0%"
	}
	return printer.Sprintf("%.0f%%", part/total*100)
}

// Date formats a transaction date string as "02 Jan 2006", or InvalidDate
// when the value does not parse.
func Date(s string) string {
	t, ok := core.ParseDate(s)
	if !ok {
		return InvalidDate
	}
	return t.Format("02 Jan 2006")
}

// DateTime formats a transaction date string with the time of day, or
// InvalidDate when the value does not parse.
func DateTime(s string) string {
	t, ok := core.ParseDate(s)
	if !ok {
		return InvalidDate
	}
	return t.Format("02 Jan 2006, 3:04 PM")
}
