// Package session holds one user's editing session: the invoice being
// authored, the notices shown about it, and the exports it triggers.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ridwanfathin/invoice-generator-service/internal/document"
	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/mail"
	"github.com/ridwanfathin/invoice-generator-service/internal/notify"
	"github.com/ridwanfathin/invoice-generator-service/internal/numbering"
	"github.com/ridwanfathin/invoice-generator-service/internal/sharetoken"
)

// ErrMissingInvoiceNumber is returned when a PDF export is requested before a number is set
var ErrMissingInvoiceNumber = errors.New("invoice number is required")

// Dependencies are the collaborators an Editor talks to
type Dependencies struct {
	Sequencer *numbering.Sequencer
	Exporter  *document.Exporter
	Composer  *mail.Composer
	Company   domain.CompanyProfile
	Notices   *notify.Center

	// Now defaults to time.Now
	Now func() time.Time
}

// Editor owns a single invoice State. All methods are safe for concurrent use,
// but mutations are applied one at a time.
type Editor struct {
	mu      sync.Mutex
	state   domain.State
	preview bool

	deps Dependencies
}

// NewEditor starts a session with the default form state
func NewEditor(deps Dependencies) *Editor {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Notices == nil {
		deps.Notices = notify.NewCenter()
	}
	if deps.Composer == nil {
		deps.Composer = mail.NewComposer(deps.Company)
	}
	return &Editor{
		state: domain.NewState(deps.Now()),
		deps:  deps,
	}
}

// State returns a snapshot of the current invoice
func (e *Editor) State() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Totals derives the totals of the current invoice
func (e *Editor) Totals() domain.Totals {
	return domain.ComputeTotals(e.State())
}

// Previewing reports whether the session shows the read-only preview
func (e *Editor) Previewing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview
}

// SetPreview toggles preview mode
func (e *Editor) SetPreview(on bool) {
	e.mu.Lock()
	e.preview = on
	e.mu.Unlock()
}

// Notices exposes the session's notification center
func (e *Editor) Notices() *notify.Center {
	return e.deps.Notices
}

// Dispatch applies actions in order. On error the state keeps every action
// applied before the failing one, and an error notice is shown.
func (e *Editor) Dispatch(actions ...domain.Action) (domain.State, error) {
	e.mu.Lock()
	next, err := domain.ReduceAll(e.state, actions...)
	e.state = next
	e.mu.Unlock()

	if err != nil {
		e.deps.Notices.Show(notify.Error, rejectionMessage(err))
		return next, err
	}
	for _, a := range actions {
		if msg, kind, ok := actionNotice(a); ok {
			e.deps.Notices.Show(kind, msg)
		}
	}
	return next, nil
}

// OpenShared loads the invoice carried by a share token and switches to preview.
// An unreadable token leaves the session untouched and returns false.
func (e *Editor) OpenShared(token string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := sharetoken.DecodeOrDefault(token, e.state)
	if !ok {
		return false
	}
	e.state = s
	e.preview = true
	return true
}

// ShareLink encodes the current invoice onto baseURL
func (e *Editor) ShareLink(baseURL string) (string, error) {
	return sharetoken.Link(baseURL, e.State())
}

// GenerateNumber issues the next invoice number and sets it on the invoice
func (e *Editor) GenerateNumber(ctx context.Context) (string, error) {
	if e.deps.Sequencer == nil {
		return "", errors.New("no invoice sequencer configured")
	}
	number, err := e.deps.Sequencer.Next(ctx, e.deps.Now().Year())
	if err != nil {
		e.deps.Notices.Show(notify.Error, "Gagal membuat nomor invoice")
		return "", err
	}

	e.mu.Lock()
	e.state.InvoiceNumber = number
	e.mu.Unlock()

	e.deps.Notices.Show(notify.Success, "Nomor invoice: "+number)
	return number, nil
}

// Export renders the current invoice. PDF exports need an invoice number; the
// preview is switched on first because the printable region lives there.
// Failures are reported as notices and never touch the state.
func (e *Editor) Export(ctx context.Context, f document.Format) (*document.Result, error) {
	if e.deps.Exporter == nil {
		return nil, errors.New("no exporter configured")
	}
	s := e.State()
	if f == document.FormatPDF && s.InvoiceNumber == "" {
		e.deps.Notices.Show(notify.Error, "Mohon isi nomor invoice terlebih dahulu")
		return nil, ErrMissingInvoiceNumber
	}

	if !e.Previewing() {
		e.SetPreview(true)
		e.deps.Notices.Show(notify.Info, "Menampilkan preview...")
	}

	msgs := exportMessages(f)
	e.deps.Notices.Show(notify.Loading, msgs.loading)

	doc := document.Build(s, e.deps.Company)
	result, err := e.deps.Exporter.Export(ctx, doc, f)
	if err != nil {
		if errors.Is(err, document.ErrExportInProgress) {
			return nil, err
		}
		e.deps.Notices.Show(notify.Error, msgs.failed)
		return nil, err
	}

	e.deps.Notices.Show(notify.Success, msgs.done)
	return result, nil
}

// ComposeEmail prepares the mail for the current invoice
func (e *Editor) ComposeEmail() (mail.Message, error) {
	s := e.State()
	if strings.TrimSpace(s.ClientEmail) == "" {
		e.deps.Notices.Show(notify.Error, "Email klien belum diisi")
		return mail.Message{}, mail.ErrMissingRecipient
	}

	e.deps.Notices.Show(notify.Loading, "Membuka aplikasi email...")
	msg, err := e.deps.Composer.Compose(s, domain.ComputeTotals(s))
	if err != nil {
		e.deps.Notices.Show(notify.Error, "Gagal membuka email")
		return mail.Message{}, err
	}
	e.deps.Notices.Show(notify.Success, "Email client dibuka")
	return msg, nil
}

// Close tears the session down and cancels pending notice timers
func (e *Editor) Close() {
	e.deps.Notices.Close()
}

type exportText struct {
	loading, done, failed string
}

func exportMessages(f document.Format) exportText {
	if f == document.FormatPrint {
		return exportText{
			loading: "Preparing for print...",
			done:    "Dokumen siap dicetak",
			failed:  "Gagal print. Silakan coba lagi.",
		}
	}
	return exportText{
		loading: "Generating PDF...",
		done:    "PDF berhasil didownload!",
		failed:  "Gagal generate PDF. Pastikan preview sudah ditampilkan dan coba lagi.",
	}
}

func actionNotice(a domain.Action) (string, notify.Kind, bool) {
	switch a := a.(type) {
	case domain.AddService:
		return "Layanan baru ditambahkan", notify.Success, true
	case domain.RemoveService:
		return "Layanan dihapus", notify.Info, true
	case domain.SetSignature:
		if a.Payload == "" {
			return "", "", false
		}
		return fmt.Sprintf("Tanda tangan %s berhasil diupload", a.Role), notify.Success, true
	}
	return "", "", false
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNegativeValue):
		return "Nilai tidak boleh negatif"
	case errors.Is(err, domain.ErrUnknownSigner):
		return "Penanda tangan tidak dikenal"
	}
	return "Perubahan tidak dapat diterapkan"
}
