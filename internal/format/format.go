// Package format renders amounts and dates the way Indonesian invoices print them.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// Rupiah rounds amount to whole rupiah and groups thousands with dots,
// e.g. "Rp 1.090.000". Rounding is display only.
func Rupiah(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	if whole < 0 {
		return printer.Sprintf("-Rp %d", -whole)
	}
	return printer.Sprintf("Rp %d", whole)
}

// Number groups an integer with the Indonesian separator
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percent prints a tax rate without trailing zeros, e.g. "11" or "2,5"
func Percent(rate decimal.Decimal) string {
	return strings.Replace(rate.String(), ".", ",", 1)
}

// Date prints d as day/month/year without padding, e.g. "5/1/2025".
// The zero time prints as "-".
func Date(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2/1/2006")
}

var monthsID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// LongDate prints d as "5 Januari 2025"
func LongDate(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	// plain fmt: the locale printer would group the year as 2.025
	return fmt.Sprintf("%d %s %d", d.Day(), monthsID[d.Month()-1], d.Year())
}
