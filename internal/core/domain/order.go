package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

type PaymentState string

const (
	PaymentStatePending  PaymentState = "pending"
	PaymentStatePartial  PaymentState = "partial"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateOverdue  PaymentState = "overdue"
	PaymentStateRefunded PaymentState = "refunded"
)

type DocumentNumber string

// LineItem is one product position inside an order or invoice.
// Line items are embedded in their aggregate and not addressable on their own.
type LineItem struct {
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

type SalesOrder struct {
	Number          DocumentNumber
	CustomerID      string
	Items           []LineItem
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingCost    decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	PaymentState    PaymentState
	PaidAmount      decimal.Decimal
	BalanceDue      decimal.Decimal
	// FulfilledItems holds product ids acknowledged by the inventory
	// collaborator. Callers detect partial fulfillment by comparing it
	// against Items.
	FulfilledItems []string
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:      {OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReturned},
}

// CanTransition reports whether the order status machine allows moving
// from one status to another.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Cancellable statuses hold stock or nothing at all; a cancel from
// confirmed or processing must also release stock.
func (o *SalesOrder) Cancellable() bool {
	switch o.Status {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// HoldsStock reports whether the order already triggered fulfillment,
// so cancellation needs a compensating release.
func (o *SalesOrder) HoldsStock() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusProcessing
}

// Finalized orders left the active pipeline.
func (o *SalesOrder) Finalized() bool {
	switch o.Status {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusReturned:
		return true
	}
	return false
}
