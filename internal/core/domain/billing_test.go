package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestInvoice_Price(t *testing.T) {
	inv := &Invoice{Items: []InvoiceItem{
		{Description: "Application fee", Amount: decimal.RequireFromString("1200.10")},
		{Description: "Translation", Amount: decimal.RequireFromString("0.05")},
	}}

	inv.Price(decimal.RequireFromString("0.15"))

	if got := inv.Subtotal.StringFixed(2); got != "1200.15" {
		t.Errorf("subtotal = %s", got)
	}
	if got := inv.Tax.StringFixed(2); got != "180.02" {
		t.Errorf("tax = %s", got)
	}
	if got := inv.Total.StringFixed(2); got != "1380.17" {
		t.Errorf("total = %s", got)
	}
}

func TestInvoice_Price_NoTax(t *testing.T) {
	inv := &Invoice{Items: []InvoiceItem{{Amount: decimal.NewFromInt(99)}}}
	inv.Price(decimal.Zero)
	if !inv.Total.Equal(decimal.NewFromInt(99)) || !inv.Tax.IsZero() {
		t.Errorf("unexpected totals: %s + %s", inv.Total, inv.Tax)
	}
}
