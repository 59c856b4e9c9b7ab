package view

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pocketledger/internal/ledger"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatAmount formats an amount as US-dollar currency with two decimals and
// locale grouping.
func FormatAmount(d decimal.Decimal) string {
	return usd.Sprintf("$%.2f", d.InexactFloat64())
}

// FormatDate formats a date as abbreviated month, day, 4-digit year.
func FormatDate(d ledger.Date) string {
	return d.Format("Jan 2, 2006")
}

// Today returns the current calendar date in stored form.
func Today() string {
	return time.Now().Format(time.DateOnly)
}
