package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDue  InvoiceStatus = "DUE"
	InvoicePaid InvoiceStatus = "PAID"
	InvoiceVoid InvoiceStatus = "VOID"
)

type PaymentProvider string

const (
	ProviderStripe   PaymentProvider = "STRIPE"
	ProviderPaystack PaymentProvider = "PAYSTACK"
	ProviderSnapScan PaymentProvider = "SNAPSCAN"
)

func (p PaymentProvider) Valid() bool {
	switch p {
	case ProviderStripe, ProviderPaystack, ProviderSnapScan:
		return true
	}
	return false
}

type InvoiceItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type Invoice struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	ApplicationID *string         `json:"application_id"`
	Number        string          `json:"number"`
	Items         []InvoiceItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Status        InvoiceStatus   `json:"status"`
	DueDate       *time.Time      `json:"due_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Price fills Subtotal, Tax and Total from the items and a tax rate.
func (inv *Invoice) Price(taxRate decimal.Decimal) {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.Amount)
	}
	inv.Subtotal = subtotal.Round(2)
	inv.Tax = subtotal.Mul(taxRate).Round(2)
	inv.Total = inv.Subtotal.Add(inv.Tax)
}

type Payment struct {
	ID         string          `json:"id"`
	InvoiceID  string          `json:"invoice_id"`
	ClientID   string          `json:"-"`
	Provider   PaymentProvider `json:"provider"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	ExternalID string          `json:"external_id"`
	Status     string          `json:"status"`
	ReceiptURL string          `json:"receipt_url"`
	PaidAt     *time.Time      `json:"paid_at"`
	CreatedAt  time.Time       `json:"created_at"`
}
