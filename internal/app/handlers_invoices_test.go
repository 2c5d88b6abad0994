package app

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

func createTestInvoice(t *testing.T, env *testEnv, clientID string, items []models.NewInvoiceItem) models.Invoice {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/v1/invoices", env.token(t, false), CreateInvoiceRequest{
		ClientID: clientID,
		Items:    items,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create invoice status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Data models.Invoice `json:"data"`
	}](t, w)
	return resp.Data
}

func TestCreateInvoice(t *testing.T) {
	env := newTestEnv(t)
	client := createTestClient(t, env, "Acme Ltd", "acme@example.test").Client

	items := []models.NewInvoiceItem{
		{Description: "Consulting", Quantity: 4, UnitPrice: 200},
		{Description: "Hosting", Quantity: 1, UnitPrice: 200},
	}

	first := createTestInvoice(t, env, client.ID, items)
	if first.Number != "INV-001" {
		t.Fatalf("first number = %q, want INV-001", first.Number)
	}
	if first.TotalAmount != 1000 || first.AmountPaid != 0 || first.BalanceDue != 1000 {
		t.Fatalf("amounts = %+v", first)
	}
	if first.Status != models.InvoiceStatusUnpaid {
		t.Fatalf("status = %q", first.Status)
	}
	if len(first.Items) != 2 || first.Items[0].Amount != 800 {
		t.Fatalf("items = %+v", first.Items)
	}

	t.Run("numbers are sequential", func(t *testing.T) {
		second := createTestInvoice(t, env, client.ID, items)
		if second.Number != "INV-002" {
			t.Fatalf("second number = %q, want INV-002", second.Number)
		}
	})

	t.Run("malformed latest number restarts the sequence", func(t *testing.T) {
		env.db.lastInvoiceNumber = "LEGACY/37"
		inv := createTestInvoice(t, env, client.ID, items)
		if inv.Number != "INV-001" {
			t.Fatalf("number = %q, want INV-001 after malformed latest", inv.Number)
		}
	})

	t.Run("unknown client rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices", env.token(t, false), CreateInvoiceRequest{
			ClientID: "missing",
			Items:    items,
		})
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("empty items rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices", env.token(t, false), CreateInvoiceRequest{
			ClientID: client.ID,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices", env.token(t, false), CreateInvoiceRequest{
			ClientID: client.ID,
			Items:    []models.NewInvoiceItem{{Description: "Bad", Quantity: 0, UnitPrice: 10}},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestRecordPayment(t *testing.T) {
	env := newTestEnv(t)
	client := createTestClient(t, env, "Acme Ltd", "acme@example.test").Client
	invoice := createTestInvoice(t, env, client.ID, []models.NewInvoiceItem{
		{Description: "Project", Quantity: 1, UnitPrice: 1000},
	})

	pay := func(t *testing.T, amount float64) *RecordPaymentResponse {
		t.Helper()
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/payments", env.token(t, false), RecordPaymentRequest{Amount: amount})
		if w.Code != http.StatusCreated {
			t.Fatalf("payment status = %d, body %s", w.Code, w.Body.String())
		}
		resp := decode[RecordPaymentResponse](t, w)
		return &resp
	}

	t.Run("partial payment", func(t *testing.T) {
		resp := pay(t, 400)
		if resp.Receipt.Number != "REC-001" {
			t.Fatalf("receipt number = %q, want REC-001", resp.Receipt.Number)
		}
		if resp.Receipt.Amount != 400 || resp.Receipt.InvoiceID != invoice.ID {
			t.Fatalf("receipt = %+v", resp.Receipt)
		}
		if resp.Invoice.AmountPaid != 400 || resp.Invoice.BalanceDue != 600 {
			t.Fatalf("invoice amounts = paid %v, balance %v", resp.Invoice.AmountPaid, resp.Invoice.BalanceDue)
		}
		if resp.Invoice.Status != models.InvoiceStatusPartiallyPaid {
			t.Fatalf("status = %q", resp.Invoice.Status)
		}
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/payments", env.token(t, false), RecordPaymentRequest{Amount: 601})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		resp := decode[ErrorResponse](t, w)
		if resp.Error != ErrOverpayment {
			t.Fatalf("error = %q, want %q", resp.Error, ErrOverpayment)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/payments", env.token(t, false), RecordPaymentRequest{Amount: 0})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("final payment settles the invoice", func(t *testing.T) {
		resp := pay(t, 600)
		if resp.Receipt.Number != "REC-002" {
			t.Fatalf("receipt number = %q, want REC-002", resp.Receipt.Number)
		}
		if resp.Invoice.Status != models.InvoiceStatusPaid {
			t.Fatalf("status = %q", resp.Invoice.Status)
		}
		if resp.Invoice.BalanceDue != 0 {
			t.Fatalf("balance due = %v, want 0", resp.Invoice.BalanceDue)
		}
	})

	t.Run("payments against settled invoice rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/payments", env.token(t, false), RecordPaymentRequest{Amount: 1})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("client balances move with payments", func(t *testing.T) {
		stored := env.db.clients[client.ID]
		if stored.PaidAmount != 1000 {
			t.Fatalf("client paid amount = %v, want 1000", stored.PaidAmount)
		}
	})

	t.Run("unknown invoice", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices/missing/payments", env.token(t, false), RecordPaymentRequest{Amount: 10})
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestUpdateInvoice(t *testing.T) {
	env := newTestEnv(t)
	client := createTestClient(t, env, "Acme Ltd", "acme@example.test").Client
	invoice := createTestInvoice(t, env, client.ID, []models.NewInvoiceItem{
		{Description: "Project", Quantity: 1, UnitPrice: 500},
	})

	desc := "Amended terms"
	w := env.do(t, http.MethodPut, "/api/v1/invoices/"+invoice.ID, env.token(t, false), UpdateInvoiceRequest{Description: &desc})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Data models.Invoice `json:"data"`
	}](t, w)
	if resp.Data.Description == nil || *resp.Data.Description != desc {
		t.Fatalf("description = %v", resp.Data.Description)
	}
	if resp.Data.TotalAmount != 500 {
		t.Fatal("amounts changed through a details update")
	}
}

func TestListInvoicesByClient(t *testing.T) {
	env := newTestEnv(t)
	first := createTestClient(t, env, "First", "first@example.test").Client
	second := createTestClient(t, env, "Second", "second@example.test").Client
	createTestInvoice(t, env, first.ID, []models.NewInvoiceItem{{Description: "A", Quantity: 1, UnitPrice: 10}})
	createTestInvoice(t, env, second.ID, []models.NewInvoiceItem{{Description: "B", Quantity: 1, UnitPrice: 20}})

	w := env.do(t, http.MethodGet, "/api/v1/invoices?client_id="+first.ID, env.token(t, false), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[struct {
		Data []models.Invoice `json:"data"`
	}](t, w)
	if len(resp.Data) != 1 || resp.Data[0].ClientID != first.ID {
		t.Fatalf("filtered invoices = %+v", resp.Data)
	}
}

func TestInvoicePDF(t *testing.T) {
	env := newTestEnv(t)
	client := createTestClient(t, env, "Acme Ltd", "acme@example.test").Client
	invoice := createTestInvoice(t, env, client.ID, []models.NewInvoiceItem{
		{Description: "Design work", Quantity: 3, UnitPrice: 150},
	})

	w := env.do(t, http.MethodGet, "/api/v1/invoices/"+invoice.ID+"/pdf", env.token(t, false), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, invoice.Number+".pdf") {
		t.Fatalf("content disposition = %q", cd)
	}
	// The fake renderer passes the HTML through, so the document content
	// is visible in the body.
	if body := w.Body.String(); !strings.Contains(body, invoice.Number) || !strings.Contains(body, "Design work") {
		t.Fatal("rendered document missing invoice content")
	}
}

func TestSendInvoice(t *testing.T) {
	env := newTestEnv(t)
	client := createTestClient(t, env, "Acme Ltd", "acme@example.test").Client
	invoice := createTestInvoice(t, env, client.ID, []models.NewInvoiceItem{
		{Description: "Project", Quantity: 1, UnitPrice: 500},
	})

	t.Run("sends to the client on record", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/send", env.token(t, false), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if len(env.mailer.docs) != 1 || env.mailer.docs[0] != invoice.Number+".pdf" {
			t.Fatalf("sent documents = %v", env.mailer.docs)
		}
	})

	t.Run("email override", func(t *testing.T) {
		override := "accounts@example.test"
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/send", env.token(t, false), SendDocumentRequest{Email: &override})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		resp := decode[MessageResponse](t, w)
		if !strings.Contains(resp.Message, override) {
			t.Fatalf("message = %q", resp.Message)
		}
	})

	t.Run("mailer failure surfaces", func(t *testing.T) {
		env.mailer.fail = true
		defer func() { env.mailer.fail = false }()
		w := env.do(t, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/send", env.token(t, false), nil)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
	})
}
