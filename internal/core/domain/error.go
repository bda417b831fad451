package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Validation errors.
	ErrValidation           = errors.New("request failed validation")
	ErrInsufficientTender   = errors.New("tendered amount is less than payment amount")
	ErrRefundExceedsPayment = errors.New("refund amount exceeds refundable amount of payment")
	ErrSplitPaymentMismatch = errors.New("sum of payments does not match order total")

	// * Business errors.
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrOrderStateConflict   = errors.New("operation is not allowed in current order status")
	ErrInvoiceStateConflict = errors.New("operation is not allowed in current invoice status")
	ErrPaymentDeclined      = errors.New("payment was declined by gateway")
	ErrSequenceExhausted    = errors.New("document number sequence exhausted")

	// * Collaborator errors.
	ErrCollaboratorUnavailable = errors.New("external collaborator is unavailable")
)
