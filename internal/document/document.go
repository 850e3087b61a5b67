// Package document turns an invoice state into a printable document and
// exports it as PDF or as a print-ready HTML page.
package document

import (
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/format"
	"github.com/ridwanfathin/invoice-generator-service/internal/imageutil"
)

// RegionID identifies the invoice region a print stylesheet keeps visible
const RegionID = "invoice-preview"

// Client is the billed party block
type Client struct {
	Name    string
	PIC     string
	Email   string
	Address string
}

// Line is one row of the services table, already formatted for display
type Line struct {
	No        int
	Name      string
	Package   string
	Qty       string
	UnitPrice string
	Subtotal  string
}

// Amount is a labelled row in the totals block
type Amount struct {
	Label string
	Value string
	Raw   decimal.Decimal
}

// Signature is one signing block; Image holds PNG bytes when a signature was uploaded
type Signature struct {
	Heading  string
	Name     string
	Position string
	Image    []byte
}

// Document is the render-ready view of one invoice. It carries strings, not
// money, so renderers never round or recompute anything themselves.
type Document struct {
	RegionID      string
	Company       domain.CompanyProfile
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Subject       string
	Client        Client
	Lines         []Line
	Amounts       []Amount
	GrandTotal    Amount
	PaymentNotes  []string
	Signatures    []Signature
}

// FileName is the download name for an export with the given extension
func (d Document) FileName(ext string) string {
	base := d.InvoiceNumber
	if base == "" {
		base = "invoice"
	}
	return base + "." + ext
}

// Build assembles the document for s. Totals are recomputed from s.
func Build(s domain.State, company domain.CompanyProfile) Document {
	totals := domain.ComputeTotals(s)

	doc := Document{
		RegionID:      RegionID,
		Company:       company,
		InvoiceNumber: s.InvoiceNumber,
		InvoiceDate:   format.Date(s.InvoiceDate.Time),
		DueDate:       format.Date(s.DueDate.Time),
		Subject:       s.Subject,
		Client: Client{
			Name:    s.ClientName,
			PIC:     s.PICName,
			Email:   s.ClientEmail,
			Address: s.ClientAddress,
		},
	}
	if s.ShowsPONumber() {
		doc.Subject = s.Subject + " " + s.PONumber
	}

	for i, item := range s.Services {
		doc.Lines = append(doc.Lines, Line{
			No:        i + 1,
			Name:      item.Name,
			Package:   item.Package,
			Qty:       strconv.Itoa(item.Qty),
			UnitPrice: format.Rupiah(item.UnitPrice),
			Subtotal:  format.Rupiah(item.LineTotal()),
		})
	}

	doc.Amounts = append(doc.Amounts, Amount{Label: "Subtotal", Value: format.Rupiah(totals.Subtotal), Raw: totals.Subtotal})
	if s.Discount.IsPositive() {
		doc.Amounts = append(doc.Amounts, Amount{Label: "Diskon", Value: "-" + format.Rupiah(s.Discount), Raw: s.Discount.Neg()})
	}
	if s.PPNEnabled {
		doc.Amounts = append(doc.Amounts, Amount{
			Label: "PPN " + format.Percent(s.PPNRate) + "%",
			Value: format.Rupiah(totals.PPN),
			Raw:   totals.PPN,
		})
	}
	if s.PPhEnabled {
		doc.Amounts = append(doc.Amounts, Amount{
			Label: "PPh " + format.Percent(s.PPhRate) + "%",
			Value: "-" + format.Rupiah(totals.PPh),
			Raw:   totals.PPh.Neg(),
		})
	}
	doc.GrandTotal = Amount{Label: "Grand Total", Value: format.Rupiah(totals.GrandTotal), Raw: totals.GrandTotal}

	doc.PaymentNotes = paymentNotes(s, company)
	doc.Signatures = []Signature{
		signature("Dibuat oleh,", s.FinanceName, s.FinancePosition, s.FinanceSignature),
		signature("Disetujui oleh,", s.ApproverName, s.ApproverPosition, s.ApproverSignature),
	}
	return doc
}

func paymentNotes(s domain.State, company domain.CompanyProfile) []string {
	notes := []string{
		"Mohon melakukan pembayaran sesuai jumlah total yang tertera pada invoice ini ke rekening di atas.",
	}
	if s.InvoiceNumber != "" {
		notes = append(notes, "Untuk mempercepat proses verifikasi dan pembukuan, harap sertakan Nomor Invoice ("+
			s.InvoiceNumber+") pada kolom berita atau keterangan saat melakukan transfer.")
	}
	if company.BillingEmail != "" {
		notes = append(notes, "Setelah pembayaran dilakukan, mohon kirimkan bukti transfer ke email kami di "+
			company.BillingEmail+" atau melalui kontak resmi yang tertera, agar layanan dapat segera kami proses dan aktifkan.")
	}
	if company.Name != "" {
		notes = append(notes, "Kami sangat menghargai kerjasama dan kepercayaan Anda kepada "+company.Name+".")
	}
	return notes
}

func signature(heading, name, position, payload string) Signature {
	sig := Signature{Heading: heading, Name: name, Position: position}
	if strings.TrimSpace(payload) == "" {
		return sig
	}
	img, err := imageutil.SignaturePNG(payload)
	if err != nil {
		// the block still prints name and position
		log.Printf("Warning: skipping signature image for %q: %v", name, err)
		return sig
	}
	sig.Image = img
	return sig
}
