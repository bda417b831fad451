package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

type POSHandler struct {
	Handler
	service port.POSService
}

func NewPOSHandler(service port.POSService, logger *zap.Logger) (*POSHandler, error) {
	return &POSHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type newCustomerRequest struct {
	Code  string `json:"code"`
	Email string `json:"email" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

type posSaleRequest struct {
	Customer    *customerRef        `json:"customer"`
	NewCustomer *newCustomerRequest `json:"new_customer"`
	Items       []lineItemRequest   `json:"items" binding:"required"`
	Payments    []paymentRequest    `json:"payments" binding:"required"`
}

func (r posSaleRequest) input(performedBy string) (port.POSSaleInput, error) {
	in := port.POSSaleInput{PerformedBy: performedBy}

	switch {
	case r.NewCustomer != nil:
		in.NewCustomer = &domain.Customer{
			Code:  r.NewCustomer.Code,
			Email: r.NewCustomer.Email,
			Name:  r.NewCustomer.Name,
		}
	case r.Customer != nil:
		lookup, err := r.Customer.lookup()
		if err != nil {
			return port.POSSaleInput{}, err
		}
		in.Customer = lookup
	default:
		return port.POSSaleInput{}, domain.ErrBadRequest
	}

	items := make([]port.LineItemInput, 0, len(r.Items))
	for _, line := range r.Items {
		item, err := line.input()
		if err != nil {
			return port.POSSaleInput{}, err
		}
		items = append(items, item)
	}
	in.Order = port.CreateOrderInput{Items: items}

	for _, p := range r.Payments {
		payment, err := p.input()
		if err != nil {
			return port.POSSaleInput{}, err
		}
		in.Payments = append(in.Payments, payment)
	}

	return in, nil
}

type posSaleResponse struct {
	Order    orderResponse     `json:"order"`
	Payments []paymentResponse `json:"payments"`
	Invoice  *invoiceResponse  `json:"invoice,omitempty"`
}

func (ph *POSHandler) QuickSale(ctx *gin.Context) {
	req := posSaleRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	in, err := req.input(getPrincipal(ctx).ID)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	result, err := ph.service.QuickSale(ctx, in)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	resp := posSaleResponse{Order: newOrderResponse(result.Order)}
	for _, payment := range result.Payments {
		resp.Payments = append(resp.Payments, newPaymentResponse(payment))
	}
	if result.Invoice != nil {
		invoice := newInvoiceResponse(result.Invoice)
		resp.Invoice = &invoice
	}

	ph.handleSuccessWithStatus(ctx, resp, http.StatusCreated)
}
