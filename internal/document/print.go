package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
)

// PrintRenderer produces a standalone HTML page whose print stylesheet hides
// everything except the invoice region
type PrintRenderer struct {
	tmpl *template.Template
}

// NewPrintRenderer parses the print template
func NewPrintRenderer() *PrintRenderer {
	funcs := template.FuncMap{
		"imgsrc": func(png []byte) template.URL {
			return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		},
	}
	return &PrintRenderer{tmpl: template.Must(template.New("print").Funcs(funcs).Parse(printTemplate))}
}

// ContentType implements Renderer
func (r *PrintRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Extension implements Renderer
func (r *PrintRenderer) Extension() string { return "html" }

// Render implements Renderer
func (r *PrintRenderer) Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render print page: %w", err)
	}
	return buf.Bytes(), nil
}

const printTemplate = `<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>{{.FileName "html"}}</title>
<style>
  #{{.RegionID}} { max-width: 800px; margin: 0 auto; font-family: Helvetica, Arial, sans-serif; color: #2b2b2b; }
  #{{.RegionID}} table { border-collapse: collapse; width: 100%; }
  #{{.RegionID}} th, #{{.RegionID}} td { border: 1px solid #333; padding: 6px; font-size: 11px; }
  #{{.RegionID}} th { background: #f9f7e6; }
  .amount { text-align: right; }
  .grand { background: #e9e15b; font-weight: bold; }
  .signatures { display: flex; justify-content: space-around; margin-top: 32px; text-align: center; }
  .signatures img { height: 80px; }
  @media print {
    * { -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }
    body { margin: 0 !important; padding: 0 !important; background: white !important; }
    body * { visibility: hidden; }
    #{{.RegionID}}, #{{.RegionID}} * { visibility: visible; }
    #{{.RegionID}} { position: absolute; left: 0; top: 0; width: 100% !important; max-width: none !important;
      margin: 0 !important; padding: 15px !important; font-size: 12px !important; line-height: 1.4 !important; }
    .no-print { display: none !important; }
  }
</style>
</head>
<body onload="window.print()">
<div class="no-print"><button onclick="window.print()">Print</button></div>
<div id="{{.RegionID}}">
  <header>
    <h2>{{.Company.Name}}</h2>
    <p>{{range .Company.AddressLines}}{{.}}<br>{{end}}{{.Company.Phone}} | {{.Company.Email}}</p>
    <h1>INVOICE</h1>
    <p>{{.InvoiceNumber}}</p>
  </header>
  {{if .Subject}}<p><strong>Perihal:</strong> {{.Subject}}</p>{{end}}
  <section>
    <p><strong>Kepada Yth.</strong><br>{{.Client.Name}}<br>{{.Client.Address}}</p>
    <p><strong>PIC:</strong> {{.Client.PIC}}<br><strong>Email:</strong> {{.Client.Email}}</p>
    <p><strong>Tanggal:</strong> {{.InvoiceDate}}<br><strong>Jatuh Tempo:</strong> {{.DueDate}}</p>
  </section>
  <table>
    <thead><tr><th>No</th><th>Layanan</th><th>Paket</th><th>Qty</th><th>Harga Satuan</th><th>Subtotal</th></tr></thead>
    <tbody>
    {{range .Lines}}<tr><td>{{.No}}</td><td>{{.Name}}</td><td>{{.Package}}</td><td>{{.Qty}}</td><td class="amount">{{.UnitPrice}}</td><td class="amount">{{.Subtotal}}</td></tr>
    {{else}}<tr><td colspan="6">Belum ada layanan</td></tr>
    {{end}}
    </tbody>
  </table>
  <table class="totals">
    {{range .Amounts}}<tr><td>{{.Label}}:</td><td class="amount">{{.Value}}</td></tr>{{end}}
    <tr class="grand"><td>{{.GrandTotal.Label}}:</td><td class="amount">{{.GrandTotal.Value}}</td></tr>
  </table>
  <section>
    <h3>Informasi Rekening Pembayaran</h3>
    <p>Bank: {{.Company.BankName}}<br>No. Rekening: {{.Company.AccountNumber}}<br>Atas Nama: {{.Company.AccountHolder}}<br>NPWP {{.Company.Name}}: {{.Company.NPWP}}</p>
    <p><strong>Catatan Penting:</strong></p>
    {{range .PaymentNotes}}<p>{{.}}</p>{{end}}
  </section>
  <div class="signatures">
    {{range .Signatures}}<div>
      <p>{{.Heading}}</p>
      {{if .Image}}<img src="{{imgsrc .Image}}" alt="Signature">{{end}}
      <p><u>{{.Name}}</u><br>{{.Position}}</p>
    </div>{{end}}
  </div>
</div>
</body>
</html>
`
