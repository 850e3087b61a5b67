package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/ridwanfathin/invoice-generator-service/internal/storage"
)

// Format selects a renderer
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatPrint Format = "print"
)

var (
	// ErrExportInProgress is returned when an export is requested while another one runs
	ErrExportInProgress = errors.New("an export is already in progress")

	// ErrRegionMissing is returned when the document was never built
	ErrRegionMissing = errors.New("invoice region not found, build the preview first")

	// ErrUnknownFormat is returned for formats without a renderer
	ErrUnknownFormat = errors.New("unknown export format")
)

// Renderer turns a Document into bytes of one file type
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportError wraps a failure inside the export pipeline
type ExportError struct {
	// Op is the pipeline stage that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *ExportError) Unwrap() error {
	return e.Err
}

// Result is a finished export
type Result struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
	Location    string `json:"location,omitempty"`
}

// Exporter renders documents and optionally hands them to a sink. It runs
// one export at a time and rejects overlapping requests.
type Exporter struct {
	renderers map[Format]Renderer
	sink      storage.Sink
	busy      atomic.Bool
}

// NewExporter creates an exporter with the PDF and print renderers.
// sink may be nil, in which case results are only returned to the caller.
func NewExporter(pdfOpts PDFOptions, sink storage.Sink) *Exporter {
	return &Exporter{
		renderers: map[Format]Renderer{
			FormatPDF:   NewPDFRenderer(pdfOpts),
			FormatPrint: NewPrintRenderer(),
		},
		sink: sink,
	}
}

// WithRenderer registers or replaces the renderer for f
func (e *Exporter) WithRenderer(f Format, r Renderer) *Exporter {
	e.renderers[f] = r
	return e
}

// Busy reports whether an export is running
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Export renders doc in format f
func (e *Exporter) Export(ctx context.Context, doc Document, f Format) (*Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	if doc.RegionID == "" {
		return nil, &ExportError{Op: "locate", Err: ErrRegionMissing}
	}
	renderer, ok := e.renderers[f]
	if !ok {
		return nil, &ExportError{Op: "select", Err: fmt.Errorf("%w: %q", ErrUnknownFormat, f)}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ExportError{Op: "render", Err: err}
	}

	data, err := renderer.Render(doc)
	if err != nil {
		return nil, &ExportError{Op: "render", Err: err}
	}

	result := &Result{
		Name:        storage.SafeName(doc.FileName(renderer.Extension())),
		ContentType: renderer.ContentType(),
		Data:        data,
	}

	if e.sink != nil {
		location, err := e.sink.Put(ctx, result.Name, result.ContentType, data)
		if err != nil {
			return nil, &ExportError{Op: "store", Err: err}
		}
		result.Location = location
		log.Printf("Exported %s (%d bytes) to %s", result.Name, len(data), location)
	}

	return result, nil
}
