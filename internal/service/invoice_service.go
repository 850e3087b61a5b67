package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ridwanfathin/invoice-generator-service/internal/document"
	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/mail"
	"github.com/ridwanfathin/invoice-generator-service/internal/notify"
	"github.com/ridwanfathin/invoice-generator-service/internal/numbering"
	"github.com/ridwanfathin/invoice-generator-service/internal/session"
	"github.com/ridwanfathin/invoice-generator-service/internal/sharetoken"
	"github.com/ridwanfathin/invoice-generator-service/internal/storage"
)

// InvoiceServicer defines the operations exposed over HTTP and the CLI. Every
// call carries the invoice state it works on; nothing is kept between calls
// except the invoice counter.
type InvoiceServicer interface {
	// Totals derives the totals of s
	Totals(s domain.State) domain.Totals

	// Apply runs actions against s and returns the outcome with the notices it produced
	Apply(ctx context.Context, s domain.State, actions []domain.Action) (*ApplyResult, error)

	// Share encodes s into a share token and link
	Share(s domain.State) (*ShareResult, error)

	// OpenShared decodes a token, falling back to a fresh state when it is unreadable
	OpenShared(token string) (*OpenResult, error)

	// NextNumber issues the next invoice number and sets it on s
	NextNumber(ctx context.Context, s domain.State) (*NumberResult, error)

	// Export renders s in the given format
	Export(ctx context.Context, s domain.State, f document.Format) (*document.Result, error)

	// ComposeEmail prepares the mail for s
	ComposeEmail(s domain.State) (*EmailResult, error)

	// Shutdown releases the service's resources
	Shutdown()
}

// InvoiceError represents an error that occurred while handling an invoice
type InvoiceError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error

	// Notices are the messages the session showed before failing
	Notices []notify.Notice
}

// Error returns a string representation of the error
func (e *InvoiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *InvoiceError) Unwrap() error {
	return e.Err
}

// ApplyResult is the state after a batch of actions
type ApplyResult struct {
	State   domain.State
	Totals  domain.Totals
	Notices []notify.Notice
}

// ShareResult carries a share token and the link that embeds it
type ShareResult struct {
	Token string
	URL   string
}

// OpenResult is a decoded share token. Shared is false when the token was
// unreadable and State holds the fresh default instead.
type OpenResult struct {
	State  domain.State
	Totals domain.Totals
	Shared bool
}

// NumberResult is a freshly issued invoice number
type NumberResult struct {
	Number string
	State  domain.State
}

// EmailResult is a composed email and its mailto link
type EmailResult struct {
	Message mail.Message
	Mailto  string
}

// Options configures an InvoiceService
type Options struct {
	Sequencer     *numbering.Sequencer
	Company       domain.CompanyProfile
	PublicBaseURL string
	PDF           document.PDFOptions
	Sink          storage.Sink
	MaxWorkers    int

	// Now defaults to time.Now
	Now func() time.Time
}

// InvoiceService implements InvoiceServicer on top of short-lived editor sessions
type InvoiceService struct {
	sequencer *numbering.Sequencer
	company   domain.CompanyProfile
	baseURL   string
	now       func() time.Time

	// each exporter serves one request at a time
	exporters chan *document.Exporter
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(opts Options) *InvoiceService {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 5 // Default to 5 workers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	exporters := make(chan *document.Exporter, opts.MaxWorkers)
	for i := 0; i < opts.MaxWorkers; i++ {
		exporters <- document.NewExporter(opts.PDF, opts.Sink)
	}

	return &InvoiceService{
		sequencer: opts.Sequencer,
		company:   opts.Company,
		baseURL:   opts.PublicBaseURL,
		now:       opts.Now,
		exporters: exporters,
	}
}

// editor opens a session seeded with s. Notices never expire on their own
// because the session ends with the call.
func (s *InvoiceService) editor(state domain.State, exporter *document.Exporter) *session.Editor {
	e := session.NewEditor(session.Dependencies{
		Sequencer: s.sequencer,
		Exporter:  exporter,
		Company:   s.company,
		Notices:   notify.NewCenter(notify.WithTTL(0)),
		Now:       s.now,
	})
	// ReplaceState never fails and shows no notice
	_, _ = e.Dispatch(domain.ReplaceState{State: state})
	return e
}

// Totals implements InvoiceServicer
func (s *InvoiceService) Totals(state domain.State) domain.Totals {
	return domain.ComputeTotals(state)
}

// Apply implements InvoiceServicer
func (s *InvoiceService) Apply(ctx context.Context, state domain.State, actions []domain.Action) (*ApplyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &InvoiceError{Op: "apply", Err: err}
	}

	e := s.editor(state, nil)
	defer e.Close()

	next, err := e.Dispatch(actions...)
	if err != nil {
		return nil, &InvoiceError{Op: "apply", Err: err, Notices: e.Notices().History()}
	}

	return &ApplyResult{
		State:   next,
		Totals:  domain.ComputeTotals(next),
		Notices: e.Notices().History(),
	}, nil
}

// Share implements InvoiceServicer
func (s *InvoiceService) Share(state domain.State) (*ShareResult, error) {
	token, err := sharetoken.Encode(state)
	if err != nil {
		return nil, &InvoiceError{Op: "share", Err: err}
	}
	link, err := sharetoken.Link(s.baseURL, state)
	if err != nil {
		return nil, &InvoiceError{Op: "share", Err: err}
	}
	return &ShareResult{Token: token, URL: link}, nil
}

// OpenShared implements InvoiceServicer
func (s *InvoiceService) OpenShared(token string) (*OpenResult, error) {
	e := s.editor(domain.NewState(s.now()), nil)
	defer e.Close()

	shared := e.OpenShared(token)
	state := e.State()
	return &OpenResult{State: state, Totals: domain.ComputeTotals(state), Shared: shared}, nil
}

// NextNumber implements InvoiceServicer
func (s *InvoiceService) NextNumber(ctx context.Context, state domain.State) (*NumberResult, error) {
	if s.sequencer == nil {
		return nil, &InvoiceError{Op: "next_number", Err: errors.New("no invoice counter configured")}
	}

	e := s.editor(state, nil)
	defer e.Close()

	number, err := e.GenerateNumber(ctx)
	if err != nil {
		return nil, &InvoiceError{Op: "next_number", Err: err, Notices: e.Notices().History()}
	}
	return &NumberResult{Number: number, State: e.State()}, nil
}

// Export implements InvoiceServicer
func (s *InvoiceService) Export(ctx context.Context, state domain.State, f document.Format) (*document.Result, error) {
	// Acquire an exporter from the pool
	var exporter *document.Exporter
	select {
	case exporter = <-s.exporters:
		defer func() {
			// Release the exporter back to the pool
			s.exporters <- exporter
		}()
	case <-ctx.Done():
		return nil, &InvoiceError{Op: "acquire_exporter", Err: ctx.Err()}
	}

	e := s.editor(state, exporter)
	defer e.Close()

	result, err := e.Export(ctx, f)
	if err != nil {
		return nil, &InvoiceError{Op: "export_" + string(f), Err: err, Notices: e.Notices().History()}
	}
	return result, nil
}

// ComposeEmail implements InvoiceServicer
func (s *InvoiceService) ComposeEmail(state domain.State) (*EmailResult, error) {
	e := s.editor(state, nil)
	defer e.Close()

	msg, err := e.ComposeEmail()
	if err != nil {
		return nil, &InvoiceError{Op: "compose_email", Err: err, Notices: e.Notices().History()}
	}
	return &EmailResult{Message: msg, Mailto: msg.MailtoURL()}, nil
}

// Shutdown implements InvoiceServicer
func (s *InvoiceService) Shutdown() {
	// Drain the pool so in-flight exports finish first
	for i := 0; i < cap(s.exporters); i++ {
		<-s.exporters
	}
}
