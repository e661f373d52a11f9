package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

const paymentFailed = "FAILED"

// BillingService issues invoices and records payments against them.
type BillingService struct {
	invoices ports.InvoiceRepository
	payments ports.PaymentRepository
	apps     ports.ApplicationRepository
	tx       ports.TxManager
	audit    ports.AuditRecorder
	taxRate  decimal.Decimal
	currency string
	logger   zerolog.Logger
	now      clock
}

func NewBillingService(
	invoices ports.InvoiceRepository,
	payments ports.PaymentRepository,
	apps ports.ApplicationRepository,
	tx ports.TxManager,
	audit ports.AuditRecorder,
	taxRate decimal.Decimal,
	currency string,
	logger zerolog.Logger,
) *BillingService {
	if currency == "" {
		currency = "ZAR"
	}
	return &BillingService{
		invoices: invoices,
		payments: payments,
		apps:     apps,
		tx:       tx,
		audit:    audit,
		taxRate:  taxRate,
		currency: currency,
		logger:   logger,
		now:      utcNow,
	}
}

func (s *BillingService) ListInvoices(ctx context.Context, p domain.Principal, filter ports.InvoiceFilter) (ports.PageResult[*domain.Invoice], error) {
	if scope := scopeFor(p, nil); scope != "" {
		filter.ClientID = scope
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return ports.PageResult[*domain.Invoice]{}, err
	}
	return ports.NewPageResult(items, total, filter.Pagination), nil
}

func (s *BillingService) GetInvoice(ctx context.Context, p domain.Principal, id string) (*domain.Invoice, error) {
	return s.invoices.FindByID(ctx, id, scopeFor(p, nil))
}

func (s *BillingService) CreateInvoice(ctx context.Context, actor domain.Actor, in ports.CreateInvoiceInput) (*domain.Invoice, error) {
	if !actor.Holds(domain.BillingManagers) {
		return nil, domain.ErrForbidden
	}

	verr := &domain.ValidationError{}
	if in.ClientID == "" {
		verr.Add("client", "This field is required.")
	}
	if len(in.Items) == 0 {
		verr.Add("items", "At least one item is required.")
	}
	items := make([]domain.InvoiceItem, 0, len(in.Items))
	for i, it := range in.Items {
		amount, err := decimal.NewFromString(it.Amount)
		if err != nil || amount.IsNegative() {
			verr.Add(fmt.Sprintf("items[%d].amount", i), "A valid non-negative number is required.")
			continue
		}
		if strings.TrimSpace(it.Description) == "" {
			verr.Add(fmt.Sprintf("items[%d].description", i), "This field is required.")
		}
		items = append(items, domain.InvoiceItem{Description: it.Description, Amount: amount.Round(2)})
	}
	if in.ApplicationID != nil && *in.ApplicationID != "" {
		app, err := s.apps.FindByID(ctx, *in.ApplicationID, "")
		switch {
		case isNotFound(err):
			verr.Add("application", fmt.Sprintf("Invalid pk %q - object does not exist.", *in.ApplicationID))
		case err != nil:
			return nil, err
		case app.ClientID != in.ClientID:
			verr.Add("application", "Application belongs to a different client.")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = s.currency
	}
	now := s.now()
	inv := &domain.Invoice{
		ID:            newID(),
		ClientID:      in.ClientID,
		ApplicationID: nonEmpty(in.ApplicationID),
		Number:        invoiceNumber(now.Format("20060102")),
		Items:         items,
		Currency:      currency,
		Status:        domain.InvoiceDue,
		DueDate:       in.DueDate,
		CreatedAt:     now,
	}
	inv.Price(s.taxRate)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		if err := s.audit.Append(ctx, actor, domain.ActionCreateInvoice, domain.EntityInvoice, inv.ID, map[string]any{
			"number": inv.Number,
			"total":  inv.Total.StringFixed(2),
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	s.logger.Info().Str("invoice", inv.Number).Str("client_id", inv.ClientID).Msg("invoice issued")
	return inv, nil
}

// RecordPayment stores a payment on a DUE invoice and marks the invoice PAID
// once the non-failed payments cover its total.
func (s *BillingService) RecordPayment(ctx context.Context, actor domain.Actor, in ports.RecordPaymentInput) (*domain.Payment, error) {
	if !actor.Holds(domain.BillingManagers) {
		return nil, domain.ErrForbidden
	}

	verr := &domain.ValidationError{}
	provider := domain.PaymentProvider(strings.ToUpper(in.Provider))
	if !provider.Valid() {
		verr.Add("provider", fmt.Sprintf("%q is not a valid choice.", in.Provider))
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil || !amount.IsPositive() {
		verr.Add("amount", "A valid positive number is required.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	inv, err := s.invoices.FindByID(ctx, in.InvoiceID, "")
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceDue {
		return nil, domain.NewValidationError("invoice", fmt.Sprintf("Invoice is %s and cannot take payments.", inv.Status))
	}

	status := strings.ToUpper(in.Status)
	if status == "" {
		status = "SUCCEEDED"
	}
	now := s.now()
	payment := &domain.Payment{
		ID:         newID(),
		InvoiceID:  inv.ID,
		ClientID:   inv.ClientID,
		Provider:   provider,
		Amount:     amount.Round(2),
		Currency:   inv.Currency,
		ExternalID: in.ExternalID,
		Status:     status,
		ReceiptURL: in.ReceiptURL,
		CreatedAt:  now,
	}
	if status != paymentFailed {
		payment.PaidAt = &now
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, payment); err != nil {
			return err
		}
		all, err := s.payments.List(ctx, ports.PaymentFilter{InvoiceID: inv.ID})
		if err != nil {
			return err
		}
		paid := decimal.Zero
		for _, p := range all {
			if p.Status != paymentFailed {
				paid = paid.Add(p.Amount)
			}
		}
		if paid.GreaterThanOrEqual(inv.Total) {
			if err := s.invoices.UpdateStatus(ctx, inv.ID, domain.InvoicePaid); err != nil {
				return err
			}
		}
		if err := s.audit.Append(ctx, actor, domain.ActionRecordPayment, domain.EntityInvoice, inv.ID, map[string]any{
			"payment_id": payment.ID,
			"provider":   string(provider),
			"amount":     payment.Amount.StringFixed(2),
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return payment, nil
}

func (s *BillingService) VoidInvoice(ctx context.Context, actor domain.Actor, id string) (*domain.Invoice, error) {
	if !actor.Holds(domain.BillingManagers) {
		return nil, domain.ErrForbidden
	}
	inv, err := s.invoices.FindByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceDue {
		return nil, domain.NewValidationError("status", fmt.Sprintf("Only DUE invoices can be voided; this one is %s.", inv.Status))
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoices.UpdateStatus(ctx, inv.ID, domain.InvoiceVoid); err != nil {
			return err
		}
		if err := s.audit.Append(ctx, actor, domain.ActionVoidInvoice, domain.EntityInvoice, inv.ID, map[string]any{"number": inv.Number}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("void invoice: %w", err)
	}
	inv.Status = domain.InvoiceVoid
	return inv, nil
}

// ListPayments returns every payment to staff and the caller's own otherwise.
func (s *BillingService) ListPayments(ctx context.Context, p domain.Principal, filter ports.PaymentFilter) ([]*domain.Payment, error) {
	if scope := scopeFor(p, nil); scope != "" {
		filter.ClientID = scope
	}
	return s.payments.List(ctx, filter)
}

// invoiceNumber renders INV-YYYYMMDD-XXXXXX.
func invoiceNumber(day string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "INV-" + day + "-" + suffix
}
