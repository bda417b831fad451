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

type PaymentHandler struct {
	Handler
	service port.PaymentService
}

func NewPaymentHandler(service port.PaymentService, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type cardRequest struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

type paymentRequest struct {
	Method        string      `json:"method" binding:"required"`
	Amount        float64     `json:"amount" binding:"required"`
	Currency      string      `json:"currency"`
	Tendered      float64     `json:"tendered"`
	Card          cardRequest `json:"card"`
	OrderNumber   string      `json:"order_number"`
	InvoiceNumber string      `json:"invoice_number"`
	CustomerID    string      `json:"customer_id"`
}

func (r paymentRequest) input() (port.PaymentInput, error) {
	amount, err := decimal.NewFromFloat64(r.Amount)
	if err != nil {
		return port.PaymentInput{}, err
	}
	tendered, err := decimal.NewFromFloat64(r.Tendered)
	if err != nil {
		return port.PaymentInput{}, err
	}

	currency := r.Currency
	if currency == "" {
		currency = "USD"
	}

	return port.PaymentInput{
		Method:   domain.PaymentMethod(r.Method),
		Amount:   amount,
		Currency: currency,
		Tendered: tendered,
		Card: port.CardInput{
			Number: r.Card.Number,
			Holder: r.Card.Holder,
			Expiry: r.Card.Expiry,
			CVV:    r.Card.CVV,
		},
		OrderNumber:   domain.DocumentNumber(r.OrderNumber),
		InvoiceNumber: domain.DocumentNumber(r.InvoiceNumber),
		CustomerID:    r.CustomerID,
	}, nil
}

type paymentResponse struct {
	Number         string              `json:"number"`
	Method         string              `json:"method"`
	Amount         decimal.Decimal     `json:"amount"`
	Currency       string              `json:"currency"`
	Status         string              `json:"status"`
	Cash           *domain.CashDetails `json:"cash,omitempty"`
	Card           *domain.CardDetails `json:"card,omitempty"`
	OrderNumber    string              `json:"order_number,omitempty"`
	InvoiceNumber  string              `json:"invoice_number,omitempty"`
	RefundedAmount decimal.Decimal     `json:"refunded_amount"`
	RefundNumbers  []string            `json:"refund_numbers,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

func newPaymentResponse(payment *domain.Payment) paymentResponse {
	return paymentResponse{
		Number:         string(payment.Number),
		Method:         string(payment.Method),
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Status:         string(payment.Status),
		Cash:           payment.Cash,
		Card:           payment.Card,
		OrderNumber:    string(payment.OrderNumber),
		InvoiceNumber:  string(payment.InvoiceNumber),
		RefundedAmount: payment.RefundedAmount,
		RefundNumbers:  payment.RefundNumbers,
		CreatedAt:      payment.CreatedAt,
	}
}

func (ph *PaymentHandler) CreatePayment(ctx *gin.Context) {
	req := paymentRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	in, err := req.input()
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	payment, err := ph.service.CreatePayment(ctx, in)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, newPaymentResponse(payment), http.StatusCreated)
}

func (ph *PaymentHandler) GetPayment(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	payment, err := ph.service.GetPayment(ctx, number)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newPaymentResponse(payment))
}

type refundRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason" binding:"required"`
}

type refundResponse struct {
	Number        string          `json:"number"`
	PaymentNumber string          `json:"payment_number"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (ph *PaymentHandler) CreateRefund(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	req := refundRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	amount, err := decimal.NewFromFloat64(req.Amount)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	refund, err := ph.service.CreateRefund(ctx, number, amount, req.Reason)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, refundResponse{
		Number:        string(refund.Number),
		PaymentNumber: string(refund.PaymentNumber),
		Amount:        refund.Amount,
		Reason:        refund.Reason,
		CreatedAt:     refund.CreatedAt,
	}, http.StatusCreated)
}
