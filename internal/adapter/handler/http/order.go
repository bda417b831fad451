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

type OrderHandler struct {
	Handler
	service port.OrderService
}

func NewOrderHandler(service port.OrderService, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type customerRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Code  string `json:"code"`
}

// lookup converts the reference into the explicit tagged union. Exactly
// one identifier must be set.
func (c customerRef) lookup() (domain.CustomerLookup, error) {
	set := 0
	var l domain.CustomerLookup
	if c.ID != "" {
		set++
		l = domain.LookupCustomerByID(c.ID)
	}
	if c.Email != "" {
		set++
		l = domain.LookupCustomerByEmail(c.Email)
	}
	if c.Code != "" {
		set++
		l = domain.LookupCustomerByCode(c.Code)
	}
	if set != 1 {
		return domain.CustomerLookup{}, domain.ErrBadRequest
	}
	return l, nil
}

type lineItemRequest struct {
	ProductRef      string  `json:"product_ref" binding:"required"`
	Quantity        int64   `json:"quantity" binding:"required"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
}

func (l lineItemRequest) input() (port.LineItemInput, error) {
	discountPercent, err := decimal.NewFromFloat64(l.DiscountPercent)
	if err != nil {
		return port.LineItemInput{}, err
	}
	discountAmount, err := decimal.NewFromFloat64(l.DiscountAmount)
	if err != nil {
		return port.LineItemInput{}, err
	}
	return port.LineItemInput{
		ProductRef:      l.ProductRef,
		Quantity:        l.Quantity,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
	}, nil
}

type createOrderRequest struct {
	Customer        customerRef       `json:"customer" binding:"required"`
	Items           []lineItemRequest `json:"items" binding:"required"`
	DiscountPercent float64           `json:"discount_percent"`
	DiscountAmount  float64           `json:"discount_amount"`
	ShippingCost    float64           `json:"shipping_cost"`
}

func (r createOrderRequest) input() (port.CreateOrderInput, error) {
	lookup, err := r.Customer.lookup()
	if err != nil {
		return port.CreateOrderInput{}, err
	}

	items := make([]port.LineItemInput, 0, len(r.Items))
	for _, line := range r.Items {
		item, err := line.input()
		if err != nil {
			return port.CreateOrderInput{}, err
		}
		items = append(items, item)
	}

	discountPercent, err := decimal.NewFromFloat64(r.DiscountPercent)
	if err != nil {
		return port.CreateOrderInput{}, err
	}
	discountAmount, err := decimal.NewFromFloat64(r.DiscountAmount)
	if err != nil {
		return port.CreateOrderInput{}, err
	}
	shipping, err := decimal.NewFromFloat64(r.ShippingCost)
	if err != nil {
		return port.CreateOrderInput{}, err
	}

	return port.CreateOrderInput{
		Customer:        lookup,
		Items:           items,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		ShippingCost:    shipping,
	}, nil
}

type orderResponse struct {
	Number         string            `json:"number"`
	CustomerID     string            `json:"customer_id"`
	Items          []domain.LineItem `json:"items"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	ShippingCost   decimal.Decimal   `json:"shipping_cost"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	Status         string            `json:"status"`
	PaymentState   string            `json:"payment_state"`
	PaidAmount     decimal.Decimal   `json:"paid_amount"`
	BalanceDue     decimal.Decimal   `json:"balance_due"`
	FulfilledItems []string          `json:"stock_fulfilled_items"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func newOrderResponse(order *domain.SalesOrder) orderResponse {
	return orderResponse{
		Number:         string(order.Number),
		CustomerID:     order.CustomerID,
		Items:          order.Items,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TaxAmount:      order.TaxAmount,
		ShippingCost:   order.ShippingCost,
		TotalAmount:    order.TotalAmount,
		Status:         string(order.Status),
		PaymentState:   string(order.PaymentState),
		PaidAmount:     order.PaidAmount,
		BalanceDue:     order.BalanceDue,
		FulfilledItems: order.FulfilledItems,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := createOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	in, err := req.input()
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.CreateOrder(ctx, in)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResponse(order), http.StatusCreated)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	order, err := oh.service.GetOrder(ctx, number)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	list, err := oh.service.ListOrders(ctx)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, order := range list {
		result = append(result, newOrderResponse(order))
	}

	oh.handleSuccess(ctx, result)
}

func (oh *OrderHandler) ConfirmOrder(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))
	performedBy := getPrincipal(ctx).ID

	order, err := oh.service.ConfirmOrder(ctx, number, performedBy)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) CancelOrder(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	order, err := oh.service.CancelOrder(ctx, number)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (oh *OrderHandler) UpdateOrderStatus(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	req := updateStatusRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.UpdateOrderStatus(ctx, number, domain.OrderStatus(req.Status))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) DeleteOrder(ctx *gin.Context) {
	number := domain.DocumentNumber(ctx.Param("number"))

	if err := oh.service.DeleteOrder(ctx, number); err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
