package model

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
)

func decodeActions(t *testing.T, raw string) []ActionDTO {
	t.Helper()
	var dtos []ActionDTO
	require.NoError(t, json.Unmarshal([]byte(raw), &dtos))
	return dtos
}

func TestActionsToDomain(t *testing.T) {
	dtos := decodeActions(t, `[
		{"type":"setClientName","value":"PT Maju"},
		{"type":"addService"},
		{"type":"updateService","id":1,"field":"qty","value":"3"},
		{"type":"updateService","id":1,"field":"unitPrice","value":1500.25},
		{"type":"updateService","id":1,"field":"name","value":"Hosting"},
		{"type":"setPpnEnabled","value":false},
		{"type":"setPphRate","value":"2.5"},
		{"type":"setDueDate","value":"2025-02-01"},
		{"type":"setSigner","role":"approver","name":"Alex","position":"CEO"}
	]`)

	actions, err := ActionsToDomain(dtos)
	require.NoError(t, err)

	s, err := domain.ReduceAll(domain.NewState(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), actions...)
	require.NoError(t, err)

	assert.Equal(t, "PT Maju", s.ClientName)
	require.Len(t, s.Services, 1)
	assert.Equal(t, 3, s.Services[0].Qty)
	assert.Equal(t, "Hosting", s.Services[0].Name)
	assert.True(t, s.Services[0].Subtotal.Equal(decimal.RequireFromString("4500.75")))
	assert.False(t, s.PPNEnabled)
	assert.True(t, s.PPhRate.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "2025-02-01", s.DueDate.String())
	assert.Equal(t, "Alex", s.ApproverName)
}

func TestActionCoercesBadNumbers(t *testing.T) {
	dtos := decodeActions(t, `[
		{"type":"updateService","id":1,"field":"qty","value":"abc"},
		{"type":"updateService","id":1,"field":"unitPrice","value":""},
		{"type":"setDiscount"}
	]`)
	actions, err := ActionsToDomain(dtos)
	require.NoError(t, err)

	assert.Equal(t, domain.UpdateServiceQty{ID: 1, Value: 0}, actions[0])
	assert.True(t, actions[1].(domain.UpdateServiceUnitPrice).Value.IsZero())
	assert.True(t, actions[2].(domain.SetDiscount).Value.IsZero())
}

func TestActionTruncatesFractionalQty(t *testing.T) {
	dtos := decodeActions(t, `[
		{"type":"updateService","id":1,"field":"qty","value":2.5},
		{"type":"updateService","id":1,"field":"qty","value":"7.9"}
	]`)
	actions, err := ActionsToDomain(dtos)
	require.NoError(t, err)

	assert.Equal(t, domain.UpdateServiceQty{ID: 1, Value: 2}, actions[0])
	assert.Equal(t, domain.UpdateServiceQty{ID: 1, Value: 7}, actions[1])
}

func TestActionRejectsUnknownShapes(t *testing.T) {
	_, err := ActionsToDomain(decodeActions(t, `[{"type":"addService"},{"type":"explode"}]`))
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Contains(t, err.Error(), "action 1")

	_, err = ActionsToDomain(decodeActions(t, `[{"type":"updateService","id":1,"field":"colour"}]`))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = ActionsToDomain(decodeActions(t, `[{"type":"setInvoiceDate","value":"01/02/2025"}]`))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = ActionsToDomain(decodeActions(t, `[{"type":"replaceState"}]`))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestTotalsDTO(t *testing.T) {
	dto := NewTotalsDTO(domain.Totals{
		Subtotal:   decimal.NewFromInt(1000000),
		PPN:        decimal.NewFromInt(110000),
		PPh:        decimal.NewFromInt(20000),
		GrandTotal: decimal.NewFromInt(1090000),
	})
	assert.Equal(t, "Rp 1.090.000", dto.Display.GrandTotal)
	assert.Equal(t, "Rp 110.000", dto.Display.PPN)
}
