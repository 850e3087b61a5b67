package mail

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
)

func sampleState() domain.State {
	s := domain.NewState(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	s.ClientName = "PT Maju & Jaya"
	s.ClientEmail = "finance@majujaya.co.id"
	s.InvoiceNumber = "INV/SNC/2025/008"
	s.DueDate = domain.NewDateOnly(time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC))
	s.Subject = "Retainer Fee"
	return s
}

func TestCompose(t *testing.T) {
	c := NewComposer(domain.DefaultCompanyProfile())
	totals := domain.Totals{GrandTotal: decimal.NewFromInt(1090000)}

	msg, err := c.Compose(sampleState(), totals)
	require.NoError(t, err)

	assert.Equal(t, "finance@majujaya.co.id", msg.To)
	assert.Equal(t, "info@supernesia.id", msg.From)
	assert.Equal(t, "Invoice INV/SNC/2025/008 - PT Maju & Jaya", msg.Subject)
	assert.Contains(t, msg.Body, "Kepada Yth. PT Maju & Jaya,")
	assert.Contains(t, msg.Body, "- Nomor Invoice: INV/SNC/2025/008")
	assert.Contains(t, msg.Body, "- Perihal: Retainer Fee")
	assert.Contains(t, msg.Body, "- Total: Rp 1.090.000")
	assert.Contains(t, msg.Body, "- Jatuh Tempo: 5/2/2025")
	assert.True(t, strings.HasSuffix(msg.Body, "Phone: 0812-8189-2625"))
}

func TestComposeWithPONumber(t *testing.T) {
	s := sampleState()
	s.Subject = domain.SubjectPurchaseOrder
	s.PONumber = "PO-991"

	msg, err := NewComposer(domain.DefaultCompanyProfile()).Compose(s, domain.Totals{})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "- Perihal: Pembayaran atas PO No. PO-991")
}

func TestComposeRequiresRecipient(t *testing.T) {
	s := sampleState()
	s.ClientEmail = "  "

	_, err := NewComposer(domain.DefaultCompanyProfile()).Compose(s, domain.Totals{})
	assert.ErrorIs(t, err, ErrMissingRecipient)
}

func TestMailtoURL(t *testing.T) {
	msg := Message{
		To:      "a@b.co",
		From:    "info@supernesia.id",
		Subject: "Invoice 1 - A & B",
		Body:    "Line one\nTotal: Rp 1.000",
	}

	link := msg.MailtoURL()
	assert.True(t, strings.HasPrefix(link, "mailto:a@b.co?subject="))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "Invoice%201%20-%20A%20%26%20B")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, msg.Subject, q.Get("subject"))
	assert.Equal(t, msg.Body, q.Get("body"))
	assert.Equal(t, msg.From, q.Get("from"))
}

func TestMailtoURLEscapesRecipient(t *testing.T) {
	msg := Message{To: "billing?dept#1@x.co", Subject: "Invoice 7"}

	link := msg.MailtoURL()
	assert.True(t, strings.HasPrefix(link, "mailto:billing%3Fdept%231@x.co?subject="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Empty(t, u.Fragment)
	assert.Equal(t, "Invoice 7", u.Query().Get("subject"))
}
