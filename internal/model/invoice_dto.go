package model

import (
	"github.com/shopspring/decimal"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/format"
	"github.com/ridwanfathin/invoice-generator-service/internal/notify"
)

// StateRequest carries the invoice an operation works on
type StateRequest struct {
	State domain.State `json:"state"`
}

// ActionsRequest applies a batch of edits to an invoice
type ActionsRequest struct {
	State   domain.State `json:"state"`
	Actions []ActionDTO  `json:"actions" binding:"required"`
}

// TotalsDTO represents the derived totals of an invoice for data transfer
type TotalsDTO struct {
	Subtotal   decimal.Decimal `json:"subtotal" swaggertype:"string"`
	PPN        decimal.Decimal `json:"ppn" swaggertype:"string"`
	PPh        decimal.Decimal `json:"pph" swaggertype:"string"`
	GrandTotal decimal.Decimal `json:"grandTotal" swaggertype:"string"`
	Display    TotalsDisplay   `json:"display"`
}

// TotalsDisplay holds the Rupiah strings shown on the document
type TotalsDisplay struct {
	Subtotal   string `json:"subtotal"`
	PPN        string `json:"ppn"`
	PPh        string `json:"pph"`
	GrandTotal string `json:"grandTotal"`
}

// FromDomain converts domain Totals to a TotalsDTO
func (dto *TotalsDTO) FromDomain(t domain.Totals) {
	dto.Subtotal = t.Subtotal
	dto.PPN = t.PPN
	dto.PPh = t.PPh
	dto.GrandTotal = t.GrandTotal
	dto.Display = TotalsDisplay{
		Subtotal:   format.Rupiah(t.Subtotal),
		PPN:        format.Rupiah(t.PPN),
		PPh:        format.Rupiah(t.PPh),
		GrandTotal: format.Rupiah(t.GrandTotal),
	}
}

// NewTotalsDTO converts t for a response
func NewTotalsDTO(t domain.Totals) TotalsDTO {
	var dto TotalsDTO
	dto.FromDomain(t)
	return dto
}

// TotalsResponse is the body of a totals request
type TotalsResponse struct {
	Totals TotalsDTO `json:"totals"`
}

// StateResponse is an invoice after edits, with the notices they produced
type StateResponse struct {
	State   domain.State    `json:"state"`
	Totals  TotalsDTO       `json:"totals"`
	Notices []notify.Notice `json:"notices"`
}

// ShareResponse carries a share token and its link
type ShareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// PreviewResponse is the invoice decoded from a share link
type PreviewResponse struct {
	State  domain.State `json:"state"`
	Totals TotalsDTO    `json:"totals"`
	Shared bool         `json:"shared"`
}

// NumberResponse is a newly issued invoice number
type NumberResponse struct {
	Number string       `json:"number"`
	State  domain.State `json:"state"`
}

// EmailResponse is a composed invoice email
type EmailResponse struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Mailto  string `json:"mailto"`
}

// ExportResponse describes an export stored by the server
type ExportResponse struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Location    string `json:"location,omitempty"`
}

// NoticeErrorResponse is an error with the notices the session showed
type NoticeErrorResponse struct {
	ErrorResponse
	Notices []notify.Notice `json:"notices,omitempty"`
}
