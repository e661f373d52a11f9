package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type BillingHandler struct {
	service ports.BillingService
}

func NewBillingHandler(service ports.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

type invoiceItemRequest struct {
	Description string `json:"description" validate:"required"`
	Amount      string `json:"amount"      validate:"required"`
}

type createInvoiceRequest struct {
	ClientID      string               `json:"client"      validate:"required"`
	ApplicationID *string              `json:"application"`
	Items         []invoiceItemRequest `json:"items"       validate:"required,min=1,dive"`
	Currency      string               `json:"currency"    validate:"omitempty,len=3"`
	DueDate       *time.Time           `json:"due_date"`
}

type recordPaymentRequest struct {
	Provider   string `json:"provider"    validate:"required"`
	Amount     string `json:"amount"      validate:"required"`
	ExternalID string `json:"external_id" validate:"max=200"`
	Status     string `json:"status"`
	ReceiptURL string `json:"receipt_url" validate:"omitempty,url"`
}

// ListInvoices handles GET /api/billing/invoices.
//
// @Summary      List invoices
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "DUE, PAID or VOID"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  pageResponse[domain.Invoice]
// @Router       /api/billing/invoices [get]
func (h *BillingHandler) ListInvoices(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	res, err := h.service.ListInvoices(c.Request().Context(), p, ports.InvoiceFilter{
		ClientID:   c.QueryParam("client"),
		Status:     c.QueryParam("status"),
		Pagination: pagination(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, asIs[*domain.Invoice]))
}

// GetInvoice handles GET /api/billing/invoices/:id.
//
// @Summary      Invoice detail
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  domain.Invoice
// @Failure      404  {object}  map[string]any
// @Router       /api/billing/invoices/{id} [get]
func (h *BillingHandler) GetInvoice(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	inv, err := h.service.GetInvoice(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}

// CreateInvoice handles POST /api/billing/invoices.
//
// @Summary      Issue an invoice
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInvoiceRequest  true  "Invoice"
// @Success      201   {object}  domain.Invoice
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/billing/invoices [post]
func (h *BillingHandler) CreateInvoice(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createInvoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	items := make([]ports.InvoiceItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.InvoiceItemInput{Description: it.Description, Amount: it.Amount})
	}
	inv, err := h.service.CreateInvoice(c.Request().Context(), a, ports.CreateInvoiceInput{
		ClientID:      req.ClientID,
		ApplicationID: req.ApplicationID,
		Items:         items,
		Currency:      req.Currency,
		DueDate:       req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inv)
}

// RecordPayment handles POST /api/billing/invoices/:id/payments.
//
// @Summary      Record a payment against an invoice
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Invoice id"
// @Param        body  body      recordPaymentRequest  true  "Payment"
// @Success      201   {object}  domain.Payment
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/billing/invoices/{id}/payments [post]
func (h *BillingHandler) RecordPayment(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req recordPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pay, err := h.service.RecordPayment(c.Request().Context(), a, ports.RecordPaymentInput{
		InvoiceID:  c.Param("id"),
		Provider:   req.Provider,
		Amount:     req.Amount,
		ExternalID: req.ExternalID,
		Status:     req.Status,
		ReceiptURL: req.ReceiptURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pay)
}

// VoidInvoice handles POST /api/billing/invoices/:id/void.
//
// @Summary      Void a due invoice
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  domain.Invoice
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /api/billing/invoices/{id}/void [post]
func (h *BillingHandler) VoidInvoice(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	inv, err := h.service.VoidInvoice(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}

// ListPayments handles GET /api/billing/payments.
//
// @Summary      List payments
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        invoice  query     string  false  "Invoice id"
// @Success      200      {array}   domain.Payment
// @Router       /api/billing/payments [get]
func (h *BillingHandler) ListPayments(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	payments, err := h.service.ListPayments(c.Request().Context(), p, ports.PaymentFilter{
		ClientID:  c.QueryParam("client"),
		InvoiceID: c.QueryParam("invoice"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}
