package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type memInvoices struct {
	invoices map[string]*domain.Invoice
}

func (r *memInvoices) Create(_ context.Context, inv *domain.Invoice) error {
	clone := *inv
	r.invoices[inv.ID] = &clone
	return nil
}

func (r *memInvoices) FindByID(_ context.Context, id, clientID string) (*domain.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || (clientID != "" && inv.ClientID != clientID) {
		return nil, domain.ErrInvoiceNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *memInvoices) UpdateStatus(_ context.Context, id string, status domain.InvoiceStatus) error {
	r.invoices[id].Status = status
	return nil
}

func (r *memInvoices) List(_ context.Context, f ports.InvoiceFilter) ([]*domain.Invoice, int64, error) {
	var out []*domain.Invoice
	for _, inv := range r.invoices {
		if f.ClientID == "" || inv.ClientID == f.ClientID {
			out = append(out, inv)
		}
	}
	return out, int64(len(out)), nil
}

type memPayments struct {
	payments []*domain.Payment
}

func (r *memPayments) Create(_ context.Context, p *domain.Payment) error {
	r.payments = append(r.payments, p)
	return nil
}

func (r *memPayments) List(_ context.Context, f ports.PaymentFilter) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range r.payments {
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		if f.InvoiceID != "" && p.InvoiceID != f.InvoiceID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func newBillingFixture() (*BillingService, *memInvoices, *memPayments, *memAudit) {
	invoices := &memInvoices{invoices: map[string]*domain.Invoice{}}
	payments := &memPayments{}
	apps := newMemApps()
	apps.apps["app-1"] = &domain.Application{ID: "app-1", ClientID: "client-1"}
	audit := &memAudit{}
	svc := NewBillingService(invoices, payments, apps, &stubTx{}, NewAuditService(audit, zerolog.Nop()),
		decimal.RequireFromString("0.15"), "ZAR", zerolog.Nop())
	return svc, invoices, payments, audit
}

var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{8}-[0-9A-F]{6}$`)

func TestBillingService_CreateInvoice_Totals(t *testing.T) {
	svc, _, _, audit := newBillingFixture()
	appID := "app-1"

	inv, err := svc.CreateInvoice(context.Background(), actorOf(staffUser("fin-1", domain.RoleFinance)), ports.CreateInvoiceInput{
		ClientID:      "client-1",
		ApplicationID: &appID,
		Items: []ports.InvoiceItemInput{
			{Description: "Consultation", Amount: "1500.00"},
			{Description: "Courier", Amount: "99.99"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "1599.99", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "240.00", inv.Tax.StringFixed(2))
	assert.Equal(t, "1839.99", inv.Total.StringFixed(2))
	assert.Equal(t, "ZAR", inv.Currency)
	assert.Equal(t, domain.InvoiceDue, inv.Status)
	assert.Regexp(t, invoiceNumberPattern, inv.Number)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.ActionCreateInvoice, audit.entries[0].Action)
}

func TestBillingService_CreateInvoice_Guards(t *testing.T) {
	svc, _, _, _ := newBillingFixture()
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, actorOf(staffUser("s-1", domain.RoleSupport)), ports.CreateInvoiceInput{ClientID: "client-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	opsStaff := actorOf(domain.Principal{User: &domain.User{ID: "ops", IsActive: true, IsStaff: true}})
	_, err = svc.CreateInvoice(ctx, opsStaff, ports.CreateInvoiceInput{ClientID: "client-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	otherApp := "app-1"
	_, err = svc.CreateInvoice(ctx, actorOf(staffUser("a-1", domain.RoleAdmin)), ports.CreateInvoiceInput{
		ClientID:      "client-2",
		ApplicationID: &otherApp,
		Items:         []ports.InvoiceItemInput{{Description: "Fee", Amount: "abc"}},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "application")
	assert.Contains(t, verr.Fields, "items[0].amount")
}

func TestBillingService_RecordPayment_SettlesInvoice(t *testing.T) {
	svc, invoices, _, _ := newBillingFixture()
	ctx := context.Background()
	finance := actorOf(staffUser("fin-1", domain.RoleFinance))

	inv, err := svc.CreateInvoice(ctx, finance, ports.CreateInvoiceInput{
		ClientID: "client-1",
		Items:    []ports.InvoiceItemInput{{Description: "Fee", Amount: "100"}},
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, finance, ports.RecordPaymentInput{InvoiceID: inv.ID, Provider: "paystack", Amount: "50"})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceDue, invoices.invoices[inv.ID].Status)

	_, err = svc.RecordPayment(ctx, finance, ports.RecordPaymentInput{InvoiceID: inv.ID, Provider: "STRIPE", Amount: "65", Status: "failed"})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceDue, invoices.invoices[inv.ID].Status, "failed payments do not count")

	_, err = svc.RecordPayment(ctx, finance, ports.RecordPaymentInput{InvoiceID: inv.ID, Provider: "SNAPSCAN", Amount: "65"})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, invoices.invoices[inv.ID].Status)

	_, err = svc.RecordPayment(ctx, finance, ports.RecordPaymentInput{InvoiceID: inv.ID, Provider: "STRIPE", Amount: "1"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr, "paid invoices take no further payments")

	_, err = svc.VoidInvoice(ctx, finance, inv.ID)
	assert.ErrorAs(t, err, &verr, "only DUE invoices can be voided")
}

func TestBillingService_ClientScope(t *testing.T) {
	svc, invoices, payments, _ := newBillingFixture()
	ctx := context.Background()
	invoices.invoices["inv-1"] = &domain.Invoice{ID: "inv-1", ClientID: "client-1"}
	invoices.invoices["inv-2"] = &domain.Invoice{ID: "inv-2", ClientID: "client-2"}
	payments.payments = []*domain.Payment{
		{ID: "p-1", InvoiceID: "inv-1", ClientID: "client-1"},
		{ID: "p-2", InvoiceID: "inv-2", ClientID: "client-2"},
	}
	client := clientUser("client-1")

	page, err := svc.ListInvoices(ctx, client, ports.InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = svc.GetInvoice(ctx, client, "inv-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	own, err := svc.ListPayments(ctx, client, ports.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "p-1", own[0].ID)

	staff := domain.Principal{User: &domain.User{ID: "ops", IsActive: true, IsStaff: true}}
	all, err := svc.ListPayments(ctx, staff, ports.PaymentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
