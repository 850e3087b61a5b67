package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const mmPerInch = 25.4

// PDFOptions controls page setup for PDF exports
type PDFOptions struct {
	PageFormat   string  // A4, A3, A5, Letter or Legal
	Orientation  string  // "portrait" or "landscape"
	MarginInches float64 // applied to all four sides
	Compress     bool
}

// DefaultPDFOptions mirrors the browser export: A4 portrait, 0.3in margins, compressed
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageFormat:   "A4",
		Orientation:  "portrait",
		MarginInches: 0.3,
		Compress:     true,
	}
}

// PDFRenderer lays a Document out on paginated PDF pages
type PDFRenderer struct {
	opts PDFOptions
}

// NewPDFRenderer creates a renderer; zero-valued options fall back to the defaults
func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	def := DefaultPDFOptions()
	if opts.PageFormat == "" {
		opts.PageFormat = def.PageFormat
	}
	if opts.Orientation == "" {
		opts.Orientation = def.Orientation
	}
	if opts.MarginInches <= 0 {
		opts.MarginInches = def.MarginInches
	}
	return &PDFRenderer{opts: opts}
}

// ContentType implements Renderer
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Extension implements Renderer
func (r *PDFRenderer) Extension() string { return "pdf" }

// Render implements Renderer
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	orientation := "P"
	if strings.EqualFold(r.opts.Orientation, "landscape") {
		orientation = "L"
	}
	margin := r.opts.MarginInches * mmPerInch

	pdf := gofpdf.New(orientation, "mm", r.opts.PageFormat, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCompression(r.opts.Compress)
	pdf.SetTitle(doc.FileName("pdf"), true)
	pdf.SetCreator(doc.Company.Name, true)
	pdf.AddPage()

	// core fonts are cp1252; the translator maps UTF-8 input onto it
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	l := &layout{pdf: pdf, tr: tr, width: contentW, left: margin}
	l.header(doc)
	l.parties(doc)
	l.services(doc)
	l.totals(doc)
	l.payment(doc)
	l.signatures(doc)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type layout struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	width float64
	left  float64
}

func (l *layout) font(style string, size float64) {
	l.pdf.SetFont("Helvetica", style, size)
}

func (l *layout) header(doc Document) {
	pdf := l.pdf
	half := l.width / 2

	top := pdf.GetY()
	l.font("B", 14)
	pdf.CellFormat(half, 7, l.tr(doc.Company.Name), "", 2, "L", false, 0, "")
	l.font("", 8.5)
	for _, line := range doc.Company.AddressLines {
		pdf.CellFormat(half, 4, l.tr(line), "", 2, "L", false, 0, "")
	}
	pdf.CellFormat(half, 4, l.tr(doc.Company.Phone+"  |  "+doc.Company.Email), "", 2, "L", false, 0, "")
	bottom := pdf.GetY()

	pdf.SetXY(l.left+half, top)
	l.font("B", 22)
	pdf.CellFormat(half, 10, "INVOICE", "", 2, "R", false, 0, "")
	l.font("", 10)
	pdf.CellFormat(half, 5, l.tr(doc.InvoiceNumber), "", 2, "R", false, 0, "")

	if pdf.GetY() > bottom {
		bottom = pdf.GetY()
	}
	pdf.SetXY(l.left, bottom+2)
	pdf.SetDrawColor(233, 225, 91)
	pdf.SetLineWidth(0.8)
	pdf.Line(l.left, pdf.GetY(), l.left+l.width, pdf.GetY())
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(51, 51, 51)
	pdf.Ln(4)

	if doc.Subject != "" {
		l.font("B", 10)
		pdf.CellFormat(l.width, 6, l.tr("Perihal: "+doc.Subject), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
}

func (l *layout) parties(doc Document) {
	pdf := l.pdf
	half := l.width / 2
	top := pdf.GetY()

	l.font("B", 10)
	pdf.CellFormat(half, 5, "Kepada Yth.", "", 2, "L", false, 0, "")
	l.font("", 9.5)
	pdf.CellFormat(half, 5, l.tr(doc.Client.Name), "", 2, "L", false, 0, "")
	if doc.Client.Address != "" {
		pdf.MultiCell(half-4, 4.5, l.tr(doc.Client.Address), "", "L", false)
	}
	pdf.SetX(l.left)
	pdf.CellFormat(half, 5, l.tr("PIC: "+doc.Client.PIC), "", 2, "L", false, 0, "")
	pdf.CellFormat(half, 5, l.tr("Email: "+doc.Client.Email), "", 2, "L", false, 0, "")
	bottom := pdf.GetY()

	pdf.SetXY(l.left+half, top)
	l.font("", 9.5)
	pdf.CellFormat(half, 5, l.tr("No. Invoice: "+doc.InvoiceNumber), "", 2, "R", false, 0, "")
	pdf.CellFormat(half, 5, "Tanggal: "+doc.InvoiceDate, "", 2, "R", false, 0, "")
	pdf.CellFormat(half, 5, "Jatuh Tempo: "+doc.DueDate, "", 2, "R", false, 0, "")
	if pdf.GetY() > bottom {
		bottom = pdf.GetY()
	}
	pdf.SetXY(l.left, bottom+4)
}

func (l *layout) services(doc Document) {
	pdf := l.pdf
	cols := []struct {
		title string
		ratio float64
		align string
	}{
		{"No", 0.06, "C"},
		{"Layanan", 0.34, "L"},
		{"Paket", 0.14, "C"},
		{"Qty", 0.08, "C"},
		{"Harga Satuan", 0.19, "R"},
		{"Subtotal", 0.19, "R"},
	}

	l.font("B", 9)
	pdf.SetFillColor(249, 247, 230)
	for _, c := range cols {
		pdf.CellFormat(l.width*c.ratio, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	l.font("", 9)
	if len(doc.Lines) == 0 {
		pdf.CellFormat(l.width, 7, "Belum ada layanan", "1", 1, "C", false, 0, "")
	}
	for _, line := range doc.Lines {
		values := []string{
			fmt.Sprint(line.No), line.Name, line.Package, line.Qty, line.UnitPrice, line.Subtotal,
		}
		for i, c := range cols {
			pdf.CellFormat(l.width*c.ratio, 7, l.tr(values[i]), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

func (l *layout) totals(doc Document) {
	pdf := l.pdf
	labelW, valueW := l.width*0.25, l.width*0.2
	offset := l.width - labelW - valueW

	l.font("", 9.5)
	for _, a := range doc.Amounts {
		pdf.SetX(l.left + offset)
		pdf.CellFormat(labelW, 6, l.tr(a.Label+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, l.tr(a.Value), "", 1, "R", false, 0, "")
	}

	l.font("B", 11)
	pdf.SetFillColor(233, 225, 91)
	pdf.SetX(l.left + offset)
	pdf.CellFormat(labelW, 8, doc.GrandTotal.Label+":", "T", 0, "L", true, 0, "")
	pdf.CellFormat(valueW, 8, l.tr(doc.GrandTotal.Value), "T", 1, "R", true, 0, "")
	pdf.Ln(5)
}

func (l *layout) payment(doc Document) {
	pdf := l.pdf
	company := doc.Company

	l.font("B", 10)
	pdf.CellFormat(l.width, 6, "Informasi Rekening Pembayaran", "", 1, "L", false, 0, "")
	l.font("", 9)
	rows := [][2]string{
		{"Bank", company.BankName},
		{"No. Rekening", company.AccountNumber},
		{"Atas Nama", company.AccountHolder},
		{"NPWP " + company.Name, company.NPWP},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.CellFormat(l.width*0.45, 5, l.tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(l.width*0.55, 5, l.tr(row[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	l.font("B", 9)
	pdf.CellFormat(l.width, 5, "Catatan Penting:", "", 1, "L", false, 0, "")
	l.font("", 8.5)
	for _, note := range doc.PaymentNotes {
		pdf.MultiCell(l.width, 4.5, l.tr(note), "", "L", false)
	}
	pdf.Ln(6)
}

func (l *layout) signatures(doc Document) {
	pdf := l.pdf
	if len(doc.Signatures) == 0 {
		return
	}
	colW := l.width / float64(len(doc.Signatures))
	const imageH = 20.0

	_, pageH := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()
	if pdf.GetY()+imageH+20 > pageH-bottomMargin {
		pdf.AddPage()
	}
	top := pdf.GetY()

	for i, sig := range doc.Signatures {
		x := l.left + colW*float64(i)
		pdf.SetXY(x, top)
		l.font("", 9.5)
		pdf.CellFormat(colW, 5, l.tr(sig.Heading), "", 2, "C", false, 0, "")

		if len(sig.Image) > 0 {
			name := fmt.Sprintf("signature-%d", i)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(sig.Image))
			if info != nil {
				w, h := info.Extent()
				dx, imgW, imgH := fitImage(colW, imageH, w, h)
				pdf.ImageOptions(name, x+dx, top+6, imgW, imgH, false, opts, 0, "")
			}
		}

		pdf.SetXY(x, top+6+imageH+2)
		l.font("BU", 9.5)
		pdf.CellFormat(colW, 5, l.tr(sig.Name), "", 2, "C", false, 0, "")
		l.font("", 9)
		pdf.CellFormat(colW, 5, l.tr(sig.Position), "", 2, "C", false, 0, "")
	}
}

// fitImage scales an image of extent w x h to height boxH and returns the
// horizontal offset that centres it in a column of width colW, with its size.
// Images wider than the column are shrunk to the column width.
func fitImage(colW, boxH, w, h float64) (dx, width, height float64) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0
	}
	width, height = boxH*w/h, boxH
	if width > colW {
		width, height = colW, colW*h/w
	}
	return (colW - width) / 2, width, height
}
