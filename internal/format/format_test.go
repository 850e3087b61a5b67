package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	assert.Equal(t, "Rp 1.090.000", Rupiah(decimal.NewFromInt(1090000)))
	assert.Equal(t, "Rp 0", Rupiah(decimal.Zero))
	assert.Equal(t, "Rp 1.001", Rupiah(decimal.RequireFromString("1000.5")))
	assert.Equal(t, "Rp 999", Rupiah(decimal.RequireFromString("999.49")))
	assert.Equal(t, "-Rp 2.500", Rupiah(decimal.NewFromInt(-2500)))
}

func TestNumberAndPercent(t *testing.T) {
	assert.Equal(t, "12.345.678", Number(12345678))
	assert.Equal(t, "11", Percent(decimal.NewFromInt(11)))
	assert.Equal(t, "2,5", Percent(decimal.RequireFromString("2.50")))
}

func TestDates(t *testing.T) {
	d := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "5/1/2025", Date(d))
	assert.Equal(t, "5 Januari 2025", LongDate(d))
	assert.Equal(t, "-", Date(time.Time{}))
	assert.Equal(t, "-", LongDate(time.Time{}))
}
