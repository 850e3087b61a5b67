package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ridwanfathin/invoice-generator-service/internal/config"
	"github.com/ridwanfathin/invoice-generator-service/internal/service"
)

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Port: 0, LogFormat: "json", LogLevel: "error"}
	srv := NewServer(cfg, service.NewInvoiceService(service.Options{}))

	w := httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
	assert.Equal(t, http.StatusFound, w.Code)

	w = httptest.NewRecorder()
	body := strings.NewReader(`{"state":{"services":[{"id":1,"qty":2,"unitPrice":"50"}]}}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/totals", body)
	req.Header.Set("Content-Type", "application/json")
	srv.GetRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"grandTotal":"100"`)
}
