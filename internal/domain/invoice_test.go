package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(id, qty int, price string) ServiceItem {
	it := ServiceItem{ID: id, Name: "svc", Qty: qty, UnitPrice: dec(price)}
	it.Subtotal = it.LineTotal()
	return it
}

func TestComputeTotals(t *testing.T) {
	t.Run("end to end with both taxes", func(t *testing.T) {
		s := State{
			Services:   []ServiceItem{item(1, 2, "500000")},
			PPNEnabled: true,
			PPNRate:    dec("11"),
			PPhEnabled: true,
			PPhRate:    dec("2"),
		}

		totals := ComputeTotals(s)

		assert.True(t, totals.Subtotal.Equal(dec("1000000")), "subtotal %s", totals.Subtotal)
		assert.True(t, totals.PPN.Equal(dec("110000")), "ppn %s", totals.PPN)
		assert.True(t, totals.PPh.Equal(dec("20000")), "pph %s", totals.PPh)
		assert.True(t, totals.GrandTotal.Equal(dec("1090000")), "grand total %s", totals.GrandTotal)
	})

	t.Run("disabled toggle forces zero regardless of rate", func(t *testing.T) {
		s := State{
			Services:   []ServiceItem{item(1, 1, "1000")},
			PPNEnabled: false,
			PPNRate:    dec("50"),
			PPhEnabled: false,
			PPhRate:    dec("30"),
		}

		totals := ComputeTotals(s)

		assert.True(t, totals.PPN.IsZero())
		assert.True(t, totals.PPh.IsZero())
		assert.True(t, totals.GrandTotal.Equal(dec("1000")))
	})

	t.Run("grand total floors at zero", func(t *testing.T) {
		s := State{
			Services: []ServiceItem{item(1, 1, "100")},
			Discount: dec("1000000"),
		}

		totals := ComputeTotals(s)

		assert.True(t, totals.Subtotal.Equal(dec("100")))
		assert.True(t, totals.GrandTotal.IsZero())
	})

	t.Run("empty services", func(t *testing.T) {
		s := NewState(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
		s.Discount = dec("5000")

		totals := ComputeTotals(s)

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.PPN.IsZero())
		assert.True(t, totals.PPh.IsZero())
		assert.True(t, totals.GrandTotal.IsZero())
	})

	t.Run("sums qty times unit price without drift", func(t *testing.T) {
		s := State{Services: []ServiceItem{
			item(1, 3, "0.1"),
			item(2, 7, "0.2"),
			item(3, 1, "12345.67"),
		}}
		// the stored subtotal is not authoritative
		s.Services[0].Subtotal = dec("999")

		totals := ComputeTotals(s)

		assert.True(t, totals.Subtotal.Equal(dec("12347.37")), "subtotal %s", totals.Subtotal)
	})

	t.Run("discount applies after taxes", func(t *testing.T) {
		s := State{
			Services:   []ServiceItem{item(1, 1, "1000")},
			PPNEnabled: true,
			PPNRate:    dec("10"),
			PPhEnabled: true,
			PPhRate:    dec("5"),
			Discount:   dec("1040"),
		}

		totals := ComputeTotals(s)

		assert.True(t, totals.GrandTotal.Equal(dec("10")), "grand total %s", totals.GrandTotal)
	})
}

func TestComputeTotalsIsPure(t *testing.T) {
	s := State{
		Services:   []ServiceItem{item(1, 2, "333.33"), item(2, 1, "0.01")},
		PPNEnabled: true,
		PPNRate:    dec("11"),
		PPhEnabled: true,
		PPhRate:    dec("2.5"),
		Discount:   dec("10"),
	}
	before := s
	before.Services = append([]ServiceItem(nil), s.Services...)

	first := ComputeTotals(s)
	second := ComputeTotals(s)

	assert.Equal(t, first.GrandTotal.String(), second.GrandTotal.String())
	assert.Equal(t, first.PPN.String(), second.PPN.String())
	assert.True(t, s.Equal(before), "state must not be mutated")
}

func TestDateOnlyJSON(t *testing.T) {
	var d DateOnly
	require.NoError(t, d.UnmarshalJSON([]byte(`"2025-01-31"`)))
	assert.Equal(t, "2025-01-31", d.String())

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-31"`, string(out))

	require.NoError(t, d.UnmarshalJSON([]byte(`""`)))
	assert.True(t, d.IsZero())

	assert.Error(t, d.UnmarshalJSON([]byte(`"31/01/2025"`)))
}

func TestStateEqual(t *testing.T) {
	a := NewState(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	a.Services = []ServiceItem{item(1, 1, "10"), item(2, 2, "20")}

	b := a
	b.Services = []ServiceItem{item(1, 1, "10.00"), item(2, 2, "20")}
	assert.True(t, a.Equal(b), "numerically equal decimals compare equal")

	b.Services = []ServiceItem{item(2, 2, "20"), item(1, 1, "10")}
	assert.False(t, a.Equal(b), "service order matters")

	c := a
	c.PPhEnabled = false
	assert.False(t, a.Equal(c))
}

func TestShowsPONumber(t *testing.T) {
	s := State{Subject: SubjectPurchaseOrder, PONumber: "PO-42"}
	assert.True(t, s.ShowsPONumber())

	s.Subject = "Retainer Fee"
	assert.False(t, s.ShowsPONumber())
}
