package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	Handler
	service port.InvoiceService
}

func NewInvoiceHandler(service port.InvoiceService, logger *zap.Logger) (*InvoiceHandler, error) {
	return &InvoiceHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type invoiceLineRequest struct {
	ProductID       string  `json:"product_id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Quantity        int64   `json:"quantity" binding:"required"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
	TaxRate         float64 `json:"tax_rate"`
}

func (l invoiceLineRequest) input() (port.InvoiceLineInput, error) {
	unitPrice, err := decimal.NewFromFloat64(l.UnitPrice)
	if err != nil {
		return port.InvoiceLineInput{}, err
	}
	discountPercent, err := decimal.NewFromFloat64(l.DiscountPercent)
	if err != nil {
		return port.InvoiceLineInput{}, err
	}
	discountAmount, err := decimal.NewFromFloat64(l.DiscountAmount)
	if err != nil {
		return port.InvoiceLineInput{}, err
	}
	taxRate, err := decimal.NewFromFloat64(l.TaxRate)
	if err != nil {
		return port.InvoiceLineInput{}, err
	}
	return port.InvoiceLineInput{
		ProductID:       l.ProductID,
		SKU:             l.SKU,
		Name:            l.Name,
		Quantity:        l.Quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		TaxRate:         taxRate,
	}, nil
}

type createInvoiceRequest struct {
	OrderNumber string               `json:"order_number"`
	CustomerID  string               `json:"customer_id"`
	Items       []invoiceLineRequest `json:"items"`
	DueDate     *time.Time           `json:"due_date"`
	TermDays    int                  `json:"term_days"`
}

func (r createInvoiceRequest) input() (port.CreateInvoiceInput, error) {
	items := make([]port.InvoiceLineInput, 0, len(r.Items))
	for _, line := range r.Items {
		item, err := line.input()
		if err != nil {
			return port.CreateInvoiceInput{}, err
		}
		items = append(items, item)
	}

	return port.CreateInvoiceInput{
		OrderNumber: domain.DocumentNumber(r.OrderNumber),
		CustomerID:  r.CustomerID,
		Items:       items,
		DueDate:     r.DueDate,
		TermDays:    r.TermDays,
	}, nil
}

type invoiceResponse struct {
	Number         string            `json:"number"`
	OrderNumber    string            `json:"order_number,omitempty"`
	CustomerID     string            `json:"customer_id"`
	Items          []domain.LineItem `json:"items"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	ShippingCost   decimal.Decimal   `json:"shipping_cost"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	Status         string            `json:"status"`
	IssueDate      time.Time         `json:"issue_date"`
	DueDate        time.Time         `json:"due_date"`
	PaidAmount     decimal.Decimal   `json:"paid_amount"`
	BalanceDue     decimal.Decimal   `json:"balance_due"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func newInvoiceResponse(invoice *domain.Invoice) invoiceResponse {
	return invoiceResponse{
		Number:         string(invoice.Number),
		OrderNumber:    string(invoice.OrderNumber),
		CustomerID:     invoice.CustomerID,
		Items:          invoice.Items,
		Subtotal:       invoice.Subtotal,
		DiscountAmount: invoice.DiscountAmt,
		TaxAmount:      invoice.TaxAmount,
		ShippingCost:   invoice.ShippingCost,
		TotalAmount:    invoice.TotalAmount,
		Status:         string(invoice.Status),
		IssueDate:      invoice.IssueDate,
		DueDate:        invoice.DueDate,
		PaidAmount:     invoice.PaidAmount,
		BalanceDue:     invoice.BalanceDue,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}

func (ih *InvoiceHandler) CreateInvoice(ctx *gin.Context) {
	req := createInvoiceRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	in, err := req.input()
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	invoice, err := ih.service.CreateInvoice(ctx, in)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccessWithStatus(ctx, newInvoiceResponse(invoice), http.StatusCreated)
}

func (ih *InvoiceHandler) GetInvoice(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	invoice, err := ih.service.GetInvoice(ctx, number)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccess(ctx, newInvoiceResponse(invoice))
}

func (ih *InvoiceHandler) RecordPayment(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	req := paymentRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	in, err := req.input()
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	invoice, err := ih.service.RecordPayment(ctx, number, in)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccess(ctx, newInvoiceResponse(invoice))
}

func (ih *InvoiceHandler) MarkSent(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	invoice, err := ih.service.MarkSent(ctx, number)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccess(ctx, newInvoiceResponse(invoice))
}

func (ih *InvoiceHandler) VoidInvoice(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	invoice, err := ih.service.VoidInvoice(ctx, number)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccess(ctx, newInvoiceResponse(invoice))
}
