package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestService represents a service line in the API
type TestService struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Package   string `json:"package"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

// TestInvoice represents the invoice state exchanged with the API
type TestInvoice struct {
	ClientName    string        `json:"clientName"`
	ClientEmail   string        `json:"clientEmail"`
	InvoiceNumber string        `json:"invoiceNumber"`
	InvoiceDate   string        `json:"invoiceDate"`
	DueDate       string        `json:"dueDate"`
	Subject       string        `json:"subject"`
	Services      []TestService `json:"services"`
	Discount      string        `json:"discount"`
	PPNEnabled    bool          `json:"ppnEnabled"`
	PPNRate       string        `json:"ppnRate"`
	PPhEnabled    bool          `json:"pphEnabled"`
	PPhRate       string        `json:"pphRate"`
}

// TestTotals represents the totals block of API responses
type TestTotals struct {
	Subtotal   string `json:"subtotal"`
	PPN        string `json:"ppn"`
	PPh        string `json:"pph"`
	GrandTotal string `json:"grandTotal"`
	Display    struct {
		GrandTotal string `json:"grandTotal"`
	} `json:"display"`
}

// TestStateResponse represents the response from POST /invoices/actions
type TestStateResponse struct {
	State   TestInvoice `json:"state"`
	Totals  TestTotals  `json:"totals"`
	Notices []struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"notices"`
}

// TestInvoiceAPI walks an invoice through editing, numbering, sharing and export
func TestInvoiceAPI(t *testing.T) {
	// Configure base URL - use environment variable or default
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/v1"
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	post := func(t *testing.T, path string, body interface{}) *http.Response {
		payload, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request")
		resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
		require.NoError(t, err, "Failed to send request")
		return resp
	}

	if resp, err := client.Get(strings.TrimSuffix(baseURL, "/v1") + "/health"); err != nil {
		t.Skipf("API not reachable at %s: %v", baseURL, err)
	} else {
		resp.Body.Close()
	}

	invoice := TestInvoice{
		ClientName:  "PT Integrasi Test",
		ClientEmail: "finance@integrasi.example",
		InvoiceDate: "2025-06-01",
		Subject:     "Pembayaran",
		Services:    []TestService{},
		Discount:    "0",
		PPNRate:     "11",
		PPhRate:     "2",
	}

	// 1. Add and fill a service line
	t.Run("ApplyActions", func(t *testing.T) {
		actions := []map[string]interface{}{
			{"type": "addService"},
			{"type": "updateService", "id": 1, "field": "name", "value": "Website maintenance"},
			{"type": "updateService", "id": 1, "field": "qty", "value": "2"},
			{"type": "updateService", "id": 1, "field": "unitPrice", "value": "500000"},
			{"type": "setPpnEnabled", "value": true},
		}
		resp := post(t, "/invoices/actions", map[string]interface{}{"state": invoice, "actions": actions})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			t.Fatalf("Expected status OK, got %v. Body: %s", resp.Status, string(bodyBytes))
		}

		var result TestStateResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result), "Failed to decode response")

		require.Len(t, result.State.Services, 1)
		assert.Equal(t, "1000000", result.State.Services[0].Subtotal)
		assert.Equal(t, "1110000", result.Totals.GrandTotal)
		assert.NotEmpty(t, result.Notices, "adding a service shows a notice")

		invoice = result.State
	})

	// 2. Reject a negative discount
	t.Run("RejectNegativeDiscount", func(t *testing.T) {
		resp := post(t, "/invoices/actions", map[string]interface{}{
			"state":   invoice,
			"actions": []map[string]interface{}{{"type": "setDiscount", "value": "-10"}},
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	// 3. Issue an invoice number
	t.Run("NextNumber", func(t *testing.T) {
		resp := post(t, "/invoices/number", map[string]interface{}{"state": invoice})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Number string      `json:"number"`
			State  TestInvoice `json:"state"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Contains(t, result.Number, "/2025/")
		assert.Equal(t, result.Number, result.State.InvoiceNumber)

		invoice = result.State
		t.Logf("Issued invoice number: %s", result.Number)
	})

	// 4. Share and reopen
	t.Run("ShareAndPreview", func(t *testing.T) {
		resp := post(t, "/invoices/share", map[string]interface{}{"state": invoice})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var shared struct {
			Token string `json:"token"`
			URL   string `json:"url"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&shared))
		require.NotEmpty(t, shared.Token)

		previewURL := fmt.Sprintf("%s/invoices/preview?preview=%s", baseURL, url.QueryEscape(shared.Token))
		previewResp, err := client.Get(previewURL)
		require.NoError(t, err)
		defer previewResp.Body.Close()
		require.Equal(t, http.StatusOK, previewResp.StatusCode)

		var preview struct {
			State  TestInvoice `json:"state"`
			Shared bool        `json:"shared"`
		}
		require.NoError(t, json.NewDecoder(previewResp.Body).Decode(&preview))
		assert.True(t, preview.Shared)
		assert.Equal(t, invoice.ClientName, preview.State.ClientName)
		assert.Equal(t, invoice.InvoiceNumber, preview.State.InvoiceNumber)
	})

	// 5. Export the PDF
	t.Run("ExportPDF", func(t *testing.T) {
		resp := post(t, "/invoices/pdf", map[string]interface{}{"state": invoice})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "response is a PDF document")
	})

	// 6. Compose the email
	t.Run("ComposeEmail", func(t *testing.T) {
		resp := post(t, "/invoices/email", map[string]interface{}{"state": invoice})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var email struct {
			To     string `json:"to"`
			Mailto string `json:"mailto"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&email))
		assert.Equal(t, invoice.ClientEmail, email.To)
		assert.True(t, strings.HasPrefix(email.Mailto, "mailto:"))
	})
}
