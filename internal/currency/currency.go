// Package currency converts and formats amounts between the two supported
// display currencies. Pure display utility; stored amounts stay in the base
// currency.
package currency

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Code string

const (
	USD Code = "USD"
	LKR Code = "LKR"
)

// Fixed rate; the till has no business calling an FX API.
const usdToLKR = 325.0

var printer = message.NewPrinter(language.English)

func Convert(amount float64, from, to Code) float64 {
	if from == to {
		return amount
	}
	switch {
	case from == USD && to == LKR:
		return amount * usdToLKR
	case from == LKR && to == USD:
		return amount / usdToLKR
	default:
		return amount
	}
}

// Format renders an amount in its currency's display convention:
// "$12.34" for USD, "Rs 1,234.50" for LKR.
func Format(amount float64, code Code) string {
	rounded := math.Round(amount*100) / 100
	switch code {
	case LKR:
		return printer.Sprintf("Rs %.2f", rounded)
	default:
		return printer.Sprintf("$%.2f", rounded)
	}
}

func Symbol(code Code) string {
	if code == LKR {
		return "Rs"
	}
	return "$"
}
