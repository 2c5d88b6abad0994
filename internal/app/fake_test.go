package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
)

// fakeDB is an in-memory sqldb.Service. Mutating calls are recorded in
// calls so tests can assert ordering, and fail* hooks inject step failures.
type fakeDB struct {
	mu sync.Mutex

	authAccounts map[string]models.AuthAccount // by id
	profiles     map[string]models.Profile     // by account id
	clients      map[string]models.Client      // by id
	clientFiles  map[string][]string
	invoices     map[string]models.Invoice
	quotations   map[string]models.Quotation
	receipts     map[string]models.Receipt
	tickets      map[string]models.Ticket
	updates      map[string]models.Update
	resetTokens  map[string]models.PasswordResetToken // by token value
	branding     *models.BrandingSettings

	lastInvoiceNumber   string
	lastQuotationNumber string
	lastReceiptNumber   string

	calls []string
	seq   int

	failProfileCreate bool
	failClientCreate  bool
	failInvoiceDelete bool
	failClientUpdate  bool
	failProfileUpdate bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		authAccounts: make(map[string]models.AuthAccount),
		profiles:     make(map[string]models.Profile),
		clients:      make(map[string]models.Client),
		clientFiles:  make(map[string][]string),
		invoices:     make(map[string]models.Invoice),
		quotations:   make(map[string]models.Quotation),
		receipts:     make(map[string]models.Receipt),
		tickets:      make(map[string]models.Ticket),
		updates:      make(map[string]models.Update),
		resetTokens:  make(map[string]models.PasswordResetToken),
	}
}

var _ sqldb.Service = (*fakeDB)(nil)

var errFakeDB = errors.New("injected failure")

func (f *fakeDB) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeDB) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeDB) Health() map[string]string { return map[string]string{"status": "up"} }
func (f *fakeDB) Close() error              { return nil }

// ---- auth accounts ----

func (f *fakeDB) CreateAuthAccount(_ context.Context, na models.NewAuthAccount) (models.AuthAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.authAccounts {
		if a.Email == na.Email {
			return models.AuthAccount{}, sqldb.ErrDBDuplicatedEntry
		}
	}
	account := models.AuthAccount{
		ID:        f.nextID("acct"),
		Email:     na.Email,
		Password:  na.Password,
		IsAdmin:   na.IsAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.authAccounts[account.ID] = account
	f.record("create_auth_account")
	return account, nil
}

func (f *fakeDB) GetAuthAccountByID(_ context.Context, accountID string) (models.AuthAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.authAccounts[accountID]
	if !ok {
		return models.AuthAccount{}, sqldb.ErrDBNotFound
	}
	return account, nil
}

func (f *fakeDB) GetAuthAccountByEmail(_ context.Context, email string) (models.AuthAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.authAccounts {
		if a.Email == email {
			return a, nil
		}
	}
	return models.AuthAccount{}, sqldb.ErrDBNotFound
}

func (f *fakeDB) UpdateAuthPassword(_ context.Context, accountID string, password []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.authAccounts[accountID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	account.Password = password
	f.authAccounts[accountID] = account
	f.record("update_auth_password")
	return nil
}

func (f *fakeDB) DeleteAuthAccount(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.authAccounts[accountID]; !ok {
		return sqldb.ErrDBNotFound
	}
	delete(f.authAccounts, accountID)
	f.record("delete_auth_account")
	return nil
}

func (f *fakeDB) ListAuthAccounts(context.Context) ([]models.AuthAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.AuthAccount, 0, len(f.authAccounts))
	for _, a := range f.authAccounts {
		out = append(out, a)
	}
	return out, nil
}

// ---- profiles ----

func (f *fakeDB) CreateProfile(_ context.Context, np models.NewProfile) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProfileCreate {
		return models.Profile{}, errFakeDB
	}
	profile := models.Profile{
		ID:        f.nextID("prof"),
		AccountID: np.AccountID,
		Name:      np.Name,
		Email:     np.Email,
		Phone:     np.Phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.profiles[np.AccountID] = profile
	f.record("create_profile")
	return profile, nil
}

func (f *fakeDB) GetProfileByAccountID(_ context.Context, accountID string) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[accountID]
	if !ok {
		return models.Profile{}, sqldb.ErrDBNotFound
	}
	return profile, nil
}

func (f *fakeDB) UpdateProfile(_ context.Context, accountID string, uc models.UpdateClient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProfileUpdate {
		return errFakeDB
	}
	profile, ok := f.profiles[accountID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	if uc.Name != nil {
		profile.Name = *uc.Name
	}
	if uc.Email != nil {
		profile.Email = *uc.Email
	}
	if uc.Phone != nil {
		profile.Phone = uc.Phone
	}
	f.profiles[accountID] = profile
	f.record("update_profile")
	return nil
}

func (f *fakeDB) DeleteProfileByAccountID(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, accountID)
	f.record("delete_profile")
	return nil
}

// ---- clients ----

func (f *fakeDB) CreateClient(_ context.Context, nc models.NewClient) (models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClientCreate {
		return models.Client{}, errFakeDB
	}
	for _, cl := range f.clients {
		if cl.Email == nc.Email {
			return models.Client{}, sqldb.ErrDBDuplicatedEntry
		}
	}
	client := models.Client{
		ID:          f.nextID("client"),
		UserID:      nc.UserID,
		Name:        nc.Name,
		CompanyName: nc.CompanyName,
		Email:       nc.Email,
		Phone:       nc.Phone,
		Address:     nc.Address,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.clients[client.ID] = client
	f.record("create_client")
	return client, nil
}

func (f *fakeDB) GetClientByID(_ context.Context, clientID string) (models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	client, ok := f.clients[clientID]
	if !ok {
		return models.Client{}, sqldb.ErrDBNotFound
	}
	return client, nil
}

func (f *fakeDB) GetClientByName(_ context.Context, name string) (models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cl := range f.clients {
		if cl.Name == name {
			return cl, nil
		}
	}
	return models.Client{}, sqldb.ErrDBNotFound
}

func (f *fakeDB) ListClients(context.Context) ([]models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Client, 0, len(f.clients))
	for _, cl := range f.clients {
		out = append(out, cl)
	}
	return out, nil
}

func (f *fakeDB) UpdateClient(_ context.Context, clientID string, uc models.UpdateClient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClientUpdate {
		return errFakeDB
	}
	client, ok := f.clients[clientID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	if uc.Name != nil {
		client.Name = *uc.Name
	}
	if uc.CompanyName != nil {
		client.CompanyName = uc.CompanyName
	}
	if uc.Email != nil {
		client.Email = *uc.Email
	}
	if uc.Phone != nil {
		client.Phone = uc.Phone
	}
	if uc.Address != nil {
		client.Address = uc.Address
	}
	f.clients[clientID] = client
	f.record("update_client")
	return nil
}

func (f *fakeDB) UpdateClientBalances(_ context.Context, clientID string, balance, paidAmount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	client, ok := f.clients[clientID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	client.Balance = balance
	client.PaidAmount = paidAmount
	f.clients[clientID] = client
	return nil
}

func (f *fakeDB) DeleteClient(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[clientID]; !ok {
		return sqldb.ErrDBNotFound
	}
	delete(f.clients, clientID)
	f.record("delete_client")
	return nil
}

func (f *fakeDB) AddClientFile(_ context.Context, clientID, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clientFiles[clientID] = append(f.clientFiles[clientID], objectName)
	return nil
}

func (f *fakeDB) ListClientFiles(_ context.Context, clientID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.clientFiles[clientID]...), nil
}

func (f *fakeDB) DeleteClientFiles(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clientFiles, clientID)
	f.record("delete_files")
	return nil
}

// ---- invoices ----

func (f *fakeDB) LatestInvoiceNumber(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastInvoiceNumber, nil
}

func (f *fakeDB) CreateInvoice(_ context.Context, ni models.NewInvoice, number, status string) (models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice := models.Invoice{
		ID:          f.nextID("inv"),
		Number:      number,
		ClientID:    ni.ClientID,
		IssueDate:   ni.IssueDate,
		DueDate:     ni.DueDate,
		Description: ni.Description,
		TotalAmount: ni.TotalAmount,
		BalanceDue:  ni.TotalAmount,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	for _, item := range ni.Items {
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			ID:          f.nextID("item"),
			InvoiceID:   invoice.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      float64(item.Quantity) * item.UnitPrice,
		})
	}
	f.invoices[invoice.ID] = invoice
	f.lastInvoiceNumber = number
	f.record("create_invoice")
	return invoice, nil
}

func (f *fakeDB) GetInvoiceByID(_ context.Context, invoiceID string) (models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return models.Invoice{}, sqldb.ErrDBNotFound
	}
	return invoice, nil
}

func (f *fakeDB) ListInvoices(context.Context) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeDB) ListInvoicesByClient(_ context.Context, clientID string) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invoice
	for _, inv := range f.invoices {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeDB) UpdateInvoiceDetails(_ context.Context, invoiceID string, dueDate *time.Time, description *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	if dueDate != nil {
		invoice.DueDate = dueDate
	}
	if description != nil {
		invoice.Description = description
	}
	f.invoices[invoiceID] = invoice
	return nil
}

func (f *fakeDB) UpdateInvoiceAmounts(_ context.Context, invoiceID string, totalAmount, amountPaid float64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	invoice.TotalAmount = totalAmount
	invoice.AmountPaid = amountPaid
	invoice.BalanceDue = totalAmount - amountPaid
	invoice.Status = status
	f.invoices[invoiceID] = invoice
	return nil
}

func (f *fakeDB) DeleteInvoice(_ context.Context, invoiceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invoices[invoiceID]; !ok {
		return sqldb.ErrDBNotFound
	}
	delete(f.invoices, invoiceID)
	return nil
}

func (f *fakeDB) DeleteInvoicesByClient(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInvoiceDelete {
		return errFakeDB
	}
	for id, inv := range f.invoices {
		if inv.ClientID == clientID {
			delete(f.invoices, id)
		}
	}
	f.record("delete_invoices")
	return nil
}

func (f *fakeDB) CountInvoicesByClient(_ context.Context, clientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, inv := range f.invoices {
		if inv.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

// ---- quotations ----

func (f *fakeDB) LatestQuotationNumber(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuotationNumber, nil
}

func (f *fakeDB) CreateQuotation(_ context.Context, nq models.NewQuotation, number string) (models.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quotation := models.Quotation{
		ID:          f.nextID("quo"),
		Number:      number,
		ClientID:    nq.ClientID,
		ClientName:  nq.ClientName,
		ClientEmail: nq.ClientEmail,
		IssueDate:   nq.IssueDate,
		Description: nq.Description,
		TotalAmount: nq.TotalAmount,
		Status:      models.QuotationStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	for _, item := range nq.Items {
		quotation.Items = append(quotation.Items, models.QuotationItem{
			ID:          f.nextID("qitem"),
			QuotationID: quotation.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      float64(item.Quantity) * item.UnitPrice,
		})
	}
	f.quotations[quotation.ID] = quotation
	f.lastQuotationNumber = number
	return quotation, nil
}

func (f *fakeDB) GetQuotationByID(_ context.Context, quotationID string) (models.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quotation, ok := f.quotations[quotationID]
	if !ok {
		return models.Quotation{}, sqldb.ErrDBNotFound
	}
	return quotation, nil
}

func (f *fakeDB) ListQuotations(context.Context) ([]models.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Quotation, 0, len(f.quotations))
	for _, q := range f.quotations {
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeDB) UpdateQuotationStatus(_ context.Context, quotationID, status string, clientID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	quotation, ok := f.quotations[quotationID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	quotation.Status = status
	quotation.ClientID = clientID
	f.quotations[quotationID] = quotation
	return nil
}

func (f *fakeDB) DeleteQuotation(_ context.Context, quotationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.quotations[quotationID]; !ok {
		return sqldb.ErrDBNotFound
	}
	delete(f.quotations, quotationID)
	return nil
}

func (f *fakeDB) DeleteQuotationsByClient(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, q := range f.quotations {
		if q.ClientID != nil && *q.ClientID == clientID {
			delete(f.quotations, id)
		}
	}
	f.record("delete_quotations")
	return nil
}

func (f *fakeDB) CountQuotationsByClient(_ context.Context, clientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.quotations {
		if q.ClientID != nil && *q.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

// ---- receipts ----

func (f *fakeDB) LatestReceiptNumber(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReceiptNumber, nil
}

func (f *fakeDB) CreateReceipt(_ context.Context, nr models.NewReceipt) (models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt := models.Receipt{
		ID:            f.nextID("rec"),
		Number:        nr.Number,
		InvoiceID:     nr.InvoiceID,
		ClientID:      nr.ClientID,
		Amount:        nr.Amount,
		PaymentMethod: nr.PaymentMethod,
		PaymentDate:   nr.PaymentDate,
		CreatedAt:     time.Now(),
	}
	f.receipts[receipt.ID] = receipt
	f.lastReceiptNumber = nr.Number
	f.record("create_receipt")
	return receipt, nil
}

func (f *fakeDB) GetReceiptByID(_ context.Context, receiptID string) (models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt, ok := f.receipts[receiptID]
	if !ok {
		return models.Receipt{}, sqldb.ErrDBNotFound
	}
	return receipt, nil
}

func (f *fakeDB) ListReceipts(context.Context) ([]models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Receipt, 0, len(f.receipts))
	for _, r := range f.receipts {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeDB) ListReceiptsByInvoice(_ context.Context, invoiceID string) ([]models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Receipt
	for _, r := range f.receipts {
		if r.InvoiceID == invoiceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDB) DeleteReceiptsByClient(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.receipts {
		if r.ClientID == clientID {
			delete(f.receipts, id)
		}
	}
	f.record("delete_receipts")
	return nil
}

func (f *fakeDB) CountReceiptsByClient(_ context.Context, clientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.receipts {
		if r.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

// ---- tickets ----

func (f *fakeDB) CreateTicket(_ context.Context, nt models.NewTicket) (models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket := models.Ticket{
		ID:        f.nextID("tick"),
		ClientID:  nt.ClientID,
		Subject:   nt.Subject,
		Body:      nt.Body,
		Status:    models.TicketStatusOpen,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (f *fakeDB) GetTicketByID(_ context.Context, ticketID string) (models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return models.Ticket{}, sqldb.ErrDBNotFound
	}
	return ticket, nil
}

func (f *fakeDB) ListTickets(context.Context) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeDB) UpdateTicketStatus(_ context.Context, ticketID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return sqldb.ErrDBNotFound
	}
	ticket.Status = status
	f.tickets[ticketID] = ticket
	return nil
}

func (f *fakeDB) DeleteTicket(_ context.Context, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[ticketID]; !ok {
		return sqldb.ErrDBNotFound
	}
	delete(f.tickets, ticketID)
	return nil
}

func (f *fakeDB) DeleteTicketsByClient(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tickets {
		if t.ClientID != nil && *t.ClientID == clientID {
			delete(f.tickets, id)
		}
	}
	f.record("delete_tickets")
	return nil
}

func (f *fakeDB) CountTicketsByClient(_ context.Context, clientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickets {
		if t.ClientID != nil && *t.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

// ---- updates ----

func (f *fakeDB) CreateUpdate(_ context.Context, nu models.NewUpdate) (models.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	update := models.Update{
		ID:        f.nextID("upd"),
		ClientID:  nu.ClientID,
		Title:     nu.Title,
		Body:      nu.Body,
		CreatedAt: time.Now(),
	}
	f.updates[update.ID] = update
	return update, nil
}

func (f *fakeDB) ListUpdates(context.Context) ([]models.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Update, 0, len(f.updates))
	for _, u := range f.updates {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeDB) DeleteUpdate(_ context.Context, updateID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.updates[updateID]; !ok {
		return sqldb.ErrDBNotFound
	}
	delete(f.updates, updateID)
	return nil
}

func (f *fakeDB) DeleteUpdatesByClient(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.updates {
		if u.ClientID != nil && *u.ClientID == clientID {
			delete(f.updates, id)
		}
	}
	f.record("delete_updates")
	return nil
}

func (f *fakeDB) CountUpdatesByClient(_ context.Context, clientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.updates {
		if u.ClientID != nil && *u.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

// ---- password reset tokens ----

func (f *fakeDB) CreatePasswordResetToken(_ context.Context, nt models.NewPasswordResetToken) (models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := models.PasswordResetToken{
		ID:        f.nextID("tok"),
		AccountID: nt.AccountID,
		Token:     nt.Token,
		ExpiresAt: nt.ExpiresAt,
		CreatedAt: time.Now(),
	}
	f.resetTokens[nt.Token] = token
	return token, nil
}

func (f *fakeDB) GetPasswordResetToken(_ context.Context, token string) (models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.resetTokens[token]
	if !ok {
		return models.PasswordResetToken{}, sqldb.ErrDBNotFound
	}
	return t, nil
}

func (f *fakeDB) MarkPasswordResetTokenUsed(_ context.Context, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for value, t := range f.resetTokens {
		if t.ID == tokenID {
			t.Used = true
			f.resetTokens[value] = t
			return nil
		}
	}
	return sqldb.ErrDBNotFound
}

func (f *fakeDB) DeleteExpiredPasswordResetTokens(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now()
	for value, t := range f.resetTokens {
		if now.After(t.ExpiresAt) {
			delete(f.resetTokens, value)
			n++
		}
	}
	return n, nil
}

// ---- branding ----

func (f *fakeDB) GetBrandingSettings(context.Context) (models.BrandingSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.branding == nil {
		return models.BrandingSettings{}, sqldb.ErrDBNotFound
	}
	return *f.branding, nil
}

func (f *fakeDB) UpdateBrandingSettings(_ context.Context, ub models.UpdateBrandingSettings) (models.BrandingSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.branding == nil {
		f.branding = &models.BrandingSettings{ID: f.nextID("brand")}
	}
	if ub.CompanyName != nil {
		f.branding.CompanyName = *ub.CompanyName
	}
	if ub.AddressLine != nil {
		f.branding.AddressLine = ub.AddressLine
	}
	if ub.ContactEmail != nil {
		f.branding.ContactEmail = ub.ContactEmail
	}
	if ub.ContactPhone != nil {
		f.branding.ContactPhone = ub.ContactPhone
	}
	if ub.LogoObject != nil {
		f.branding.LogoObject = ub.LogoObject
	}
	f.branding.UpdatedAt = time.Now()
	return *f.branding, nil
}
