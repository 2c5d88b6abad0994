package app

import (
	"net/http"
	"testing"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

func TestReceipts(t *testing.T) {
	env := newTestEnv(t)
	client := createTestClient(t, env, "Acme Ltd", "acme@example.test").Client
	items := []models.NewInvoiceItem{{Description: "Project", Quantity: 1, UnitPrice: 300}}
	first := createTestInvoice(t, env, client.ID, items)
	second := createTestInvoice(t, env, client.ID, items)

	payInvoice := func(t *testing.T, invoiceID string, amount float64) models.Receipt {
		t.Helper()
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/payments", env.token(t, false), RecordPaymentRequest{Amount: amount})
		if w.Code != http.StatusCreated {
			t.Fatalf("payment status = %d, body %s", w.Code, w.Body.String())
		}
		return decode[RecordPaymentResponse](t, w).Receipt
	}

	receipt := payInvoice(t, first.ID, 300)
	payInvoice(t, second.ID, 100)

	t.Run("list filtered by invoice", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/receipts?invoice_id="+first.ID, env.token(t, false), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		resp := decode[struct {
			Data []models.Receipt `json:"data"`
		}](t, w)
		if len(resp.Data) != 1 || resp.Data[0].ID != receipt.ID {
			t.Fatalf("filtered receipts = %+v", resp.Data)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/receipts/"+receipt.ID, env.token(t, false), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		resp := decode[struct {
			Data models.Receipt `json:"data"`
		}](t, w)
		if resp.Data.Amount != 300 || resp.Data.InvoiceID != first.ID {
			t.Fatalf("receipt = %+v", resp.Data)
		}
	})

	t.Run("unknown receipt", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/receipts/missing", env.token(t, false), nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("send emails the receipt PDF", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/receipts/"+receipt.ID+"/send", env.token(t, false), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if len(env.mailer.docs) != 1 || env.mailer.docs[0] != receipt.Number+".pdf" {
			t.Fatalf("sent documents = %v", env.mailer.docs)
		}
	})
}
