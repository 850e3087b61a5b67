package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-generator-service/internal/document"
	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/model"
	"github.com/ridwanfathin/invoice-generator-service/internal/numbering"
	"github.com/ridwanfathin/invoice-generator-service/internal/repository"
	"github.com/ridwanfathin/invoice-generator-service/internal/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewInvoiceService(service.Options{
		Sequencer:     numbering.NewSequencer(repository.NewMemoryCounterRepository(), ""),
		Company:       domain.DefaultCompanyProfile(),
		PublicBaseURL: "https://invoice.example.com/",
		PDF:           document.DefaultPDFOptions(),
		Now:           func() time.Time { return time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(svc.Shutdown)

	router := gin.New()
	NewInvoiceHandler(svc).RegisterRoutes(router)
	return router
}

func invoiceState() domain.State {
	s := domain.NewState(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC))
	s, _ = domain.ReduceAll(s,
		domain.SetClientName{Value: "CV Sinar"},
		domain.AddService{},
		domain.UpdateServiceUnitPrice{ID: 1, Value: decimal.NewFromInt(1000000)},
	)
	return s
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func TestTotalsEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/invoices/totals", model.StateRequest{State: invoiceState()})
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.TotalsResponse
	decode(t, w, &resp)
	assert.True(t, resp.Totals.GrandTotal.Equal(decimal.NewFromInt(1090000)))
	assert.Equal(t, "Rp 1.090.000", resp.Totals.Display.GrandTotal)

	w = doJSON(t, router, http.MethodPost, "/v1/invoices/totals", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActionsEndpoint(t *testing.T) {
	router := setupRouter(t)

	body := map[string]interface{}{
		"state": invoiceState(),
		"actions": []map[string]interface{}{
			{"type": "updateService", "id": 1, "field": "qty", "value": "2"},
			{"type": "addService"},
		},
	}
	w := doJSON(t, router, http.MethodPost, "/v1/invoices/actions", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.StateResponse
	decode(t, w, &resp)
	assert.Len(t, resp.State.Services, 2)
	assert.Equal(t, 2, resp.State.Services[0].Qty)
	assert.Equal(t, "Rp 2.180.000", resp.Totals.Display.GrandTotal)
	require.NotEmpty(t, resp.Notices)

	body["actions"] = []map[string]interface{}{{"type": "setDiscount", "value": -5}}
	w = doJSON(t, router, http.MethodPost, "/v1/invoices/actions", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body["actions"] = []map[string]interface{}{{"type": "teleport"}}
	w = doJSON(t, router, http.MethodPost, "/v1/invoices/actions", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareAndPreviewEndpoints(t *testing.T) {
	router := setupRouter(t)
	state := invoiceState()

	w := doJSON(t, router, http.MethodPost, "/v1/invoices/share", model.StateRequest{State: state})
	require.Equal(t, http.StatusOK, w.Code)
	var shared model.ShareResponse
	decode(t, w, &shared)
	assert.True(t, strings.HasPrefix(shared.URL, "https://invoice.example.com/?preview="))

	w = doJSON(t, router, http.MethodGet, "/v1/invoices/preview?preview="+url.QueryEscape(shared.Token), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var preview model.PreviewResponse
	decode(t, w, &preview)
	assert.True(t, preview.Shared)
	assert.True(t, preview.State.Equal(state))

	w = doJSON(t, router, http.MethodGet, "/v1/invoices/preview?preview=garbage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &preview)
	assert.False(t, preview.Shared)
	assert.Empty(t, preview.State.ClientName)
}

func TestNumberEndpoint(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.NumberResponse
	decode(t, w, &resp)
	assert.Equal(t, "INV/SNC/2025/001", resp.Number)

	w = doJSON(t, router, http.MethodPost, "/v1/invoices/number", model.StateRequest{State: invoiceState()})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "INV/SNC/2025/002", resp.Number)
	assert.Equal(t, "CV Sinar", resp.State.ClientName)
}

func TestExportEndpoints(t *testing.T) {
	router := setupRouter(t)
	state := invoiceState()

	w := doJSON(t, router, http.MethodPost, "/v1/invoices/pdf", model.StateRequest{State: state})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp model.NoticeErrorResponse
	decode(t, w, &errResp)
	require.NotEmpty(t, errResp.Notices)
	assert.Equal(t, "Mohon isi nomor invoice terlebih dahulu", errResp.Notices[len(errResp.Notices)-1].Message)

	state.InvoiceNumber = "INV/SNC/2025/007"
	w = doJSON(t, router, http.MethodPost, "/v1/invoices/pdf", model.StateRequest{State: state})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="INV-SNC-2025-007.pdf"`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = doJSON(t, router, http.MethodPost, "/v1/invoices/print", model.StateRequest{State: state})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="invoice-preview"`)
}

func TestEmailEndpoint(t *testing.T) {
	router := setupRouter(t)
	state := invoiceState()

	w := doJSON(t, router, http.MethodPost, "/v1/invoices/email", model.StateRequest{State: state})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	state.ClientEmail = "billing@sinar.co.id"
	w = doJSON(t, router, http.MethodPost, "/v1/invoices/email", model.StateRequest{State: state})
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.EmailResponse
	decode(t, w, &resp)
	assert.Equal(t, "billing@sinar.co.id", resp.To)
	assert.Contains(t, resp.Body, "Rp 1.090.000")
	assert.True(t, strings.HasPrefix(resp.Mailto, "mailto:billing@sinar.co.id?"))
}
