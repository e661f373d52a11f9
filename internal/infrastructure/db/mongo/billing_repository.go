package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

const (
	collectionInvoices = "invoices"
	collectionPayments = "payments"
)

type invoiceItemDoc struct {
	Description string               `bson:"description"`
	Amount      primitive.Decimal128 `bson:"amount"`
}

type invoiceDoc struct {
	ID            string               `bson:"_id"`
	ClientID      string               `bson:"client_id"`
	ApplicationID *string              `bson:"application_id,omitempty"`
	Number        string               `bson:"number"`
	Items         []invoiceItemDoc     `bson:"items"`
	Subtotal      primitive.Decimal128 `bson:"subtotal"`
	Tax           primitive.Decimal128 `bson:"tax"`
	Total         primitive.Decimal128 `bson:"total"`
	Currency      string               `bson:"currency"`
	Status        string               `bson:"status"`
	DueDate       *time.Time           `bson:"due_date,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
}

func toInvoiceDoc(inv *domain.Invoice) invoiceDoc {
	items := make([]invoiceItemDoc, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, invoiceItemDoc{Description: it.Description, Amount: toDecimal128(it.Amount)})
	}
	return invoiceDoc{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		ApplicationID: inv.ApplicationID,
		Number:        inv.Number,
		Items:         items,
		Subtotal:      toDecimal128(inv.Subtotal),
		Tax:           toDecimal128(inv.Tax),
		Total:         toDecimal128(inv.Total),
		Currency:      inv.Currency,
		Status:        string(inv.Status),
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
	}
}

func (d *invoiceDoc) toDomain() *domain.Invoice {
	items := make([]domain.InvoiceItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.InvoiceItem{Description: it.Description, Amount: fromDecimal128(it.Amount)})
	}
	return &domain.Invoice{
		ID:            d.ID,
		ClientID:      d.ClientID,
		ApplicationID: d.ApplicationID,
		Number:        d.Number,
		Items:         items,
		Subtotal:      fromDecimal128(d.Subtotal),
		Tax:           fromDecimal128(d.Tax),
		Total:         fromDecimal128(d.Total),
		Currency:      d.Currency,
		Status:        domain.InvoiceStatus(d.Status),
		DueDate:       d.DueDate,
		CreatedAt:     d.CreatedAt,
	}
}

type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection(collectionInvoices)}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toInvoiceDoc(inv)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("invoice %s: %w", inv.Number, domain.ErrConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Invoice, error) {
	filter := bson.M{"_id": id}
	if clientID != "" {
		filter["client_id"] = clientID
	}
	var d invoiceDoc
	if err := findOne(ctx, r.col, filter, &d, domain.ErrInvoiceNotFound); err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) List(ctx context.Context, f ports.InvoiceFilter) ([]*domain.Invoice, int64, error) {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := count(ctx, r.col, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	docs, err := findAll[invoiceDoc](ctx, r.col, filter, page(f.Pagination, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]*domain.Invoice, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		uniqueIndex(bson.D{{Key: "number", Value: 1}}),
		mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
	)
}

type paymentDoc struct {
	ID         string               `bson:"_id"`
	InvoiceID  string               `bson:"invoice_id"`
	ClientID   string               `bson:"client_id"`
	Provider   string               `bson:"provider"`
	Amount     primitive.Decimal128 `bson:"amount"`
	Currency   string               `bson:"currency"`
	ExternalID string               `bson:"external_id"`
	Status     string               `bson:"status"`
	ReceiptURL string               `bson:"receipt_url"`
	PaidAt     *time.Time           `bson:"paid_at,omitempty"`
	CreatedAt  time.Time            `bson:"created_at"`
}

func toPaymentDoc(p *domain.Payment) paymentDoc {
	return paymentDoc{
		ID:         p.ID,
		InvoiceID:  p.InvoiceID,
		ClientID:   p.ClientID,
		Provider:   string(p.Provider),
		Amount:     toDecimal128(p.Amount),
		Currency:   p.Currency,
		ExternalID: p.ExternalID,
		Status:     p.Status,
		ReceiptURL: p.ReceiptURL,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}
}

func (d *paymentDoc) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:         d.ID,
		InvoiceID:  d.InvoiceID,
		ClientID:   d.ClientID,
		Provider:   domain.PaymentProvider(d.Provider),
		Amount:     fromDecimal128(d.Amount),
		Currency:   d.Currency,
		ExternalID: d.ExternalID,
		Status:     d.Status,
		ReceiptURL: d.ReceiptURL,
		PaidAt:     d.PaidAt,
		CreatedAt:  d.CreatedAt,
	}
}

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toPaymentDoc(p)); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) List(ctx context.Context, f ports.PaymentFilter) ([]*domain.Payment, error) {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.InvoiceID != "" {
		filter["invoice_id"] = f.InvoiceID
	}
	docs, err := findAll[paymentDoc](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "invoice_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}}},
	)
}
