package domain

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format used for invoice dates
const DateLayout = "2006-01-02"

// DateOnly is a custom type for handling date-only strings from JSON
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates t to its calendar date
func NewDateOnly(t time.Time) DateOnly {
	y, m, d := t.Date()
	return DateOnly{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDateOnly parses a YYYY-MM-DD string; an empty string yields the zero date
func ParseDateOnly(s string) (DateOnly, error) {
	if s == "" {
		return DateOnly{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{Time: t}, nil
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	// Handle null/empty dates
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}

// String returns the YYYY-MM-DD form, or "" for the zero date
func (d DateOnly) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// Known service packages
const (
	PackageSuperNeo     = "SuperNeo"
	PackageSuperPro     = "SuperPro"
	PackageSuperPremium = "SuperPremium"
	PackageOther        = "Other"
)

// Packages lists the packages offered in the service picker
var Packages = []string{PackageSuperNeo, PackageSuperPro, PackageSuperPremium, PackageOther}

// SubjectPurchaseOrder is the subject that carries a PO number on the document
const SubjectPurchaseOrder = "Pembayaran atas PO No."

// Subjects lists the subject lines offered for an invoice
var Subjects = []string{
	"Penagihan Jasa",
	"Tagihan Layanan",
	"Invoice Down Payment (DP)",
	"Invoice Pelunasan (Final Payment)",
	"Pembayaran Termin 1",
	"Pembayaran Termin 2",
	"Pembayaran Termin ke-___",
	"Retainer Fee",
	"Biaya Langganan Bulanan",
	"Biaya Langganan Tahunan",
	"Tagihan Pemeliharaan (Maintenance)",
	"Biaya Tambahan / Additional Charges",
	"Invoice Tambahan (Revisi / Add-on)",
	SubjectPurchaseOrder,
	"Tagihan Setup / Instalasi",
	"Invoice Hosting & Domain",
	"Invoice Layanan Custom / Spesial",
	"Tagihan Training / Support",
	"Proforma Invoice (Estimasi)",
	"Penawaran Harga / Quotation",
}

// ServiceItem represents a single billable line on an invoice
type ServiceItem struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Package   string          `json:"package"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// LineTotal returns qty × unit price
func (s ServiceItem) LineTotal() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Qty)))
}

func (s ServiceItem) equal(other ServiceItem) bool {
	return s.ID == other.ID &&
		s.Name == other.Name &&
		s.Package == other.Package &&
		s.Qty == other.Qty &&
		s.UnitPrice.Equal(other.UnitPrice) &&
		s.Subtotal.Equal(other.Subtotal)
}

// Signer is one of the two roles that sign an invoice
type Signer string

const (
	SignerFinance  Signer = "finance"
	SignerApprover Signer = "approver"
)

// State is the canonical invoice being authored in one editing session.
// Field names on the wire follow the web form so shared links stay portable.
type State struct {
	ClientName    string `json:"clientName"`
	PICName       string `json:"picName"`
	ClientEmail   string `json:"clientEmail"`
	ClientAddress string `json:"clientAddress"`

	InvoiceNumber string   `json:"invoiceNumber"`
	InvoiceDate   DateOnly `json:"invoiceDate"`
	DueDate       DateOnly `json:"dueDate"`
	Subject       string   `json:"subject"`
	PONumber      string   `json:"poNumber,omitempty"`

	Services      []ServiceItem `json:"services"`
	NextServiceID int           `json:"nextServiceId,omitempty"`

	Discount   decimal.Decimal `json:"discount"`
	PPNEnabled bool            `json:"ppnEnabled"`
	PPNRate    decimal.Decimal `json:"ppnRate"`
	PPhEnabled bool            `json:"pphEnabled"`
	PPhRate    decimal.Decimal `json:"pphRate"`

	FinanceName       string `json:"financeName"`
	FinancePosition   string `json:"financePosition"`
	ApproverName      string `json:"approverName"`
	ApproverPosition  string `json:"approverPosition"`
	FinanceSignature  string `json:"financeSignature,omitempty"`
	ApproverSignature string `json:"approverSignature,omitempty"`
}

// NewState returns the form defaults a fresh session starts with
func NewState(today time.Time) State {
	return State{
		InvoiceDate:      NewDateOnly(today),
		Subject:          Subjects[0],
		Services:         []ServiceItem{},
		NextServiceID:    1,
		PPNEnabled:       true,
		PPNRate:          decimal.NewFromInt(11),
		PPhEnabled:       true,
		PPhRate:          decimal.NewFromInt(2),
		ApproverName:     "John Doe",
		ApproverPosition: "CTO",
	}
}

// Empty returns the zero-value fallback state used when nothing can be restored
func Empty() State {
	return State{Services: []ServiceItem{}}
}

// ShowsPONumber reports whether the PO number belongs on the document
func (s State) ShowsPONumber() bool {
	return s.Subject == SubjectPurchaseOrder && s.PONumber != ""
}

// Equal compares two states field by field, including service order
func (s State) Equal(other State) bool {
	if s.ClientName != other.ClientName ||
		s.PICName != other.PICName ||
		s.ClientEmail != other.ClientEmail ||
		s.ClientAddress != other.ClientAddress ||
		s.InvoiceNumber != other.InvoiceNumber ||
		!s.InvoiceDate.Equal(other.InvoiceDate.Time) ||
		!s.DueDate.Equal(other.DueDate.Time) ||
		s.Subject != other.Subject ||
		s.PONumber != other.PONumber ||
		s.NextServiceID != other.NextServiceID ||
		!s.Discount.Equal(other.Discount) ||
		s.PPNEnabled != other.PPNEnabled ||
		!s.PPNRate.Equal(other.PPNRate) ||
		s.PPhEnabled != other.PPhEnabled ||
		!s.PPhRate.Equal(other.PPhRate) ||
		s.FinanceName != other.FinanceName ||
		s.FinancePosition != other.FinancePosition ||
		s.ApproverName != other.ApproverName ||
		s.ApproverPosition != other.ApproverPosition ||
		s.FinanceSignature != other.FinanceSignature ||
		s.ApproverSignature != other.ApproverSignature {
		return false
	}

	if len(s.Services) != len(other.Services) {
		return false
	}
	for i := range s.Services {
		if !s.Services[i].equal(other.Services[i]) {
			return false
		}
	}
	return true
}

// Totals is the derived money summary of a State. It is never stored.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	PPN        decimal.Decimal `json:"ppn"`
	PPh        decimal.Decimal `json:"pph"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// ComputeTotals derives the invoice totals. PPN is added, PPh withheld,
// and the discount subtracted last; the grand total is floored at zero.
// No rounding happens here.
func ComputeTotals(s State) Totals {
	subtotal := decimal.Zero
	for _, item := range s.Services {
		subtotal = subtotal.Add(item.LineTotal())
	}

	ppn := decimal.Zero
	if s.PPNEnabled {
		ppn = subtotal.Mul(s.PPNRate.Shift(-2))
	}

	pph := decimal.Zero
	if s.PPhEnabled {
		pph = subtotal.Mul(s.PPhRate.Shift(-2))
	}

	grandTotal := subtotal.Add(ppn).Sub(pph).Sub(s.Discount)

	return Totals{
		Subtotal:   subtotal,
		PPN:        ppn,
		PPh:        pph,
		GrandTotal: decimal.Max(decimal.Zero, grandTotal),
	}
}
