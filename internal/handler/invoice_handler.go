package handler

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-generator-service/internal/document"
	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/mail"
	"github.com/ridwanfathin/invoice-generator-service/internal/model"
	"github.com/ridwanfathin/invoice-generator-service/internal/notify"
	"github.com/ridwanfathin/invoice-generator-service/internal/service"
	"github.com/ridwanfathin/invoice-generator-service/internal/session"
	"github.com/ridwanfathin/invoice-generator-service/internal/sharetoken"
)

// InvoiceHandler handles HTTP requests for invoice authoring
type InvoiceHandler struct {
	invoices service.InvoiceServicer
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices service.InvoiceServicer) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *InvoiceHandler) RegisterRoutes(router gin.IRouter) {
	invoices := router.Group("/v1/invoices")
	invoices.POST("/totals", h.Totals)
	invoices.POST("/actions", h.ApplyActions)
	invoices.POST("/share", h.Share)
	invoices.GET("/preview", h.Preview)
	invoices.POST("/number", h.NextNumber)
	invoices.POST("/pdf", h.ExportPDF)
	invoices.POST("/print", h.ExportPrint)
	invoices.POST("/email", h.ComposeEmail)
}

// Totals computes the totals of an invoice
// @Summary Compute invoice totals
// @Description Derive subtotal, PPN, PPh and grand total from an invoice state
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body model.StateRequest true "Invoice state"
// @Success 200 {object} model.TotalsResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/invoices/totals [post]
func (h *InvoiceHandler) Totals(c *gin.Context) {
	var req model.StateRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	respondOK(c, model.TotalsResponse{Totals: model.NewTotalsDTO(h.invoices.Totals(req.State))})
}

// ApplyActions applies a batch of edits to an invoice
// @Summary Apply edits to an invoice
// @Description Run editor actions in order and return the new state, its totals and the notices shown
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body model.ActionsRequest true "Invoice state and actions"
// @Success 200 {object} model.StateResponse
// @Failure 400 {object} model.ErrorResponse "Malformed request or unknown action"
// @Failure 422 {object} model.NoticeErrorResponse "Action rejected"
// @Router /v1/invoices/actions [post]
func (h *InvoiceHandler) ApplyActions(c *gin.Context) {
	var req model.ActionsRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	actions, err := model.ActionsToDomain(req.Actions)
	if err != nil {
		respondBadRequest(c, ErrInvalidInput, newErrorDetail("actions", err.Error()))
		return
	}

	result, err := h.invoices.Apply(c.Request.Context(), req.State, actions)
	if err != nil {
		h.handleError(c, err)
		return
	}

	respondOK(c, model.StateResponse{
		State:   result.State,
		Totals:  model.NewTotalsDTO(result.Totals),
		Notices: result.Notices,
	})
}

// Share encodes an invoice into a share link
// @Summary Create a share link
// @Description Encode the invoice into a token carried by the preview query parameter
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body model.StateRequest true "Invoice state"
// @Success 200 {object} model.ShareResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/invoices/share [post]
func (h *InvoiceHandler) Share(c *gin.Context) {
	var req model.StateRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.invoices.Share(req.State)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondOK(c, model.ShareResponse{Token: result.Token, URL: result.URL})
}

// Preview decodes a share token
// @Summary Open a shared invoice
// @Description Decode the preview token. An unreadable token yields the default invoice with shared=false.
// @Tags invoices
// @Produce json
// @Param preview query string true "Share token"
// @Success 200 {object} model.PreviewResponse
// @Router /v1/invoices/preview [get]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	token := getQueryString(c, sharetoken.QueryParam)

	result, err := h.invoices.OpenShared(token)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !result.Shared && token != "" {
		log.Printf("Ignoring unreadable share token (%d chars)", len(token))
	}

	respondOK(c, model.PreviewResponse{
		State:  result.State,
		Totals: model.NewTotalsDTO(result.Totals),
		Shared: result.Shared,
	})
}

// NextNumber issues the next invoice number
// @Summary Generate an invoice number
// @Description Advance the invoice counter and set the new number on the given invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body model.StateRequest false "Invoice state"
// @Success 200 {object} model.NumberResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /v1/invoices/number [post]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	var req model.StateRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
	}

	result, err := h.invoices.NextNumber(c.Request.Context(), req.State)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondOK(c, model.NumberResponse{Number: result.Number, State: result.State})
}

// ExportPDF renders the invoice as a PDF download
// @Summary Export PDF
// @Description Render the invoice as an A4 PDF. Requires an invoice number.
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Param request body model.StateRequest true "Invoice state"
// @Success 200 {file} binary
// @Failure 400 {object} model.NoticeErrorResponse "Missing invoice number"
// @Failure 409 {object} model.ErrorResponse "Export already running"
// @Failure 500 {object} model.NoticeErrorResponse
// @Router /v1/invoices/pdf [post]
func (h *InvoiceHandler) ExportPDF(c *gin.Context) {
	h.export(c, document.FormatPDF, "attachment")
}

// ExportPrint renders the invoice as a printable page
// @Summary Export print page
// @Description Render an HTML page whose print stylesheet shows only the invoice
// @Tags invoices
// @Accept json
// @Produce text/html
// @Param request body model.StateRequest true "Invoice state"
// @Success 200 {string} string "HTML page"
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.NoticeErrorResponse
// @Router /v1/invoices/print [post]
func (h *InvoiceHandler) ExportPrint(c *gin.Context) {
	h.export(c, document.FormatPrint, "inline")
}

func (h *InvoiceHandler) export(c *gin.Context, f document.Format, disposition string) {
	var req model.StateRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	log.Printf("Exporting invoice %q as %s", req.State.InvoiceNumber, f)
	result, err := h.invoices.Export(c.Request.Context(), req.State, f)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if result.Location != "" {
		c.Header("X-Export-Location", result.Location)
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, result.Name))
	c.Data(StatusOK, result.ContentType, result.Data)
}

// ComposeEmail prepares the invoice email
// @Summary Compose invoice email
// @Description Build the email body and mailto link for the client. Requires a client email.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body model.StateRequest true "Invoice state"
// @Success 200 {object} model.EmailResponse
// @Failure 400 {object} model.NoticeErrorResponse "Missing client email"
// @Router /v1/invoices/email [post]
func (h *InvoiceHandler) ComposeEmail(c *gin.Context) {
	var req model.StateRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.invoices.ComposeEmail(req.State)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondOK(c, model.EmailResponse{
		To:      result.Message.To,
		From:    result.Message.From,
		Subject: result.Message.Subject,
		Body:    result.Message.Body,
		Mailto:  result.Mailto,
	})
}

// handleError maps service errors onto status codes
func (h *InvoiceHandler) handleError(c *gin.Context, err error) {
	var notices []notify.Notice
	var invErr *service.InvoiceError
	if errors.As(err, &invErr) {
		notices = invErr.Notices
	}

	switch {
	case errors.Is(err, domain.ErrNegativeValue), errors.Is(err, domain.ErrUnknownSigner):
		respondWithNotices(c, StatusUnprocessableEntity, err.Error(), notices)
	case errors.Is(err, session.ErrMissingInvoiceNumber), errors.Is(err, mail.ErrMissingRecipient),
		errors.Is(err, document.ErrUnknownFormat):
		respondWithNotices(c, StatusBadRequest, err.Error(), notices)
	case errors.Is(err, document.ErrExportInProgress):
		respondWithError(c, StatusConflict, err.Error())
	default:
		log.Printf("Invoice request failed: %v", err)
		respondWithNotices(c, StatusInternalServerError, ErrInternalServer, notices)
	}
}
