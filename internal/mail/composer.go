// Package mail assembles the invoice e-mail handed to the user's mail client.
package mail

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/format"
)

// ErrMissingRecipient is returned when the invoice has no client e-mail
var ErrMissingRecipient = errors.New("client email is required")

// Message is a pre-filled e-mail ready for a mail client
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Composer builds invoice messages signed by one company
type Composer struct {
	company domain.CompanyProfile
}

// NewComposer creates a composer for company
func NewComposer(company domain.CompanyProfile) *Composer {
	return &Composer{company: company}
}

// Compose builds the message for s. The body embeds the invoice number,
// subject line, grand total and due date.
func (c *Composer) Compose(s domain.State, totals domain.Totals) (Message, error) {
	to := strings.TrimSpace(s.ClientEmail)
	if to == "" {
		return Message{}, ErrMissingRecipient
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Kepada Yth. %s,\n\n", s.ClientName)
	b.WriteString("Terlampir invoice dengan detail sebagai berikut:\n")
	fmt.Fprintf(&b, "- Nomor Invoice: %s\n", s.InvoiceNumber)
	fmt.Fprintf(&b, "- Perihal: %s\n", subjectLine(s))
	fmt.Fprintf(&b, "- Total: %s\n", format.Rupiah(totals.GrandTotal))
	fmt.Fprintf(&b, "- Jatuh Tempo: %s\n\n", format.Date(s.DueDate.Time))
	b.WriteString("Mohon untuk melakukan pembayaran sesuai dengan ketentuan yang tertera pada invoice.\n\n")
	b.WriteString("Terima kasih atas kerjasamanya.\n\n")
	b.WriteString("Hormat kami,\n")
	b.WriteString(c.company.Name + "\n")
	fmt.Fprintf(&b, "Email: %s\n", c.company.Email)
	fmt.Fprintf(&b, "Phone: %s", c.company.Phone)

	return Message{
		To:      to,
		From:    c.company.Email,
		Subject: fmt.Sprintf("Invoice %s - %s", s.InvoiceNumber, s.ClientName),
		Body:    b.String(),
	}, nil
}

// MailtoURL renders m as a mailto: link
func (m Message) MailtoURL() string {
	params := []string{
		"subject=" + encodeComponent(m.Subject),
		"body=" + encodeComponent(m.Body),
	}
	if m.From != "" {
		params = append(params, "from="+encodeComponent(m.From))
	}
	return "mailto:" + url.PathEscape(m.To) + "?" + strings.Join(params, "&")
}

func subjectLine(s domain.State) string {
	if s.ShowsPONumber() {
		return s.Subject + " " + s.PONumber
	}
	return s.Subject
}

// encodeComponent percent-encodes like encodeURIComponent: spaces become %20, not "+"
func encodeComponent(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
