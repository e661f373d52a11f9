package ports

import (
	"context"
	"time"

	"github.com/raylene/casework/internal/core/domain"
)

type InvoiceFilter struct {
	ClientID string // visibility scope
	Status   string
	Pagination
}

type PaymentFilter struct {
	ClientID  string // visibility scope
	InvoiceID string
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	FindByID(ctx context.Context, id, clientID string) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error
	List(ctx context.Context, filter InvoiceFilter) ([]*domain.Invoice, int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
}

type InvoiceItemInput struct {
	Description string
	Amount      string
}

type CreateInvoiceInput struct {
	ClientID      string
	ApplicationID *string
	Items         []InvoiceItemInput
	Currency      string
	DueDate       *time.Time
}

type RecordPaymentInput struct {
	InvoiceID  string
	Provider   string
	Amount     string
	ExternalID string
	Status     string
	ReceiptURL string
}

type BillingService interface {
	ListInvoices(ctx context.Context, p domain.Principal, filter InvoiceFilter) (PageResult[*domain.Invoice], error)
	GetInvoice(ctx context.Context, p domain.Principal, id string) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, actor domain.Actor, in CreateInvoiceInput) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, actor domain.Actor, in RecordPaymentInput) (*domain.Payment, error)
	VoidInvoice(ctx context.Context, actor domain.Actor, id string) (*domain.Invoice, error)
	ListPayments(ctx context.Context, p domain.Principal, filter PaymentFilter) ([]*domain.Payment, error)
}
