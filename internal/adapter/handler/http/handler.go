package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salescore/backend/internal/core/domain"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrBadRequest:           http.StatusBadRequest,
	domain.ErrValidation:           http.StatusBadRequest,
	domain.ErrInsufficientTender:   http.StatusBadRequest,
	domain.ErrRefundExceedsPayment: http.StatusBadRequest,
	domain.ErrSplitPaymentMismatch: http.StatusBadRequest,

	domain.ErrCustomerNotFound: http.StatusNotFound,
	domain.ErrProductNotFound:  http.StatusNotFound,
	domain.ErrOrderNotFound:    http.StatusNotFound,
	domain.ErrPaymentNotFound:  http.StatusNotFound,
	domain.ErrInvoiceNotFound:  http.StatusNotFound,

	domain.ErrOrderStateConflict:   http.StatusConflict,
	domain.ErrInvoiceStateConflict: http.StatusConflict,

	domain.ErrPaymentDeclined:         http.StatusPaymentRequired,
	domain.ErrSequenceExhausted:       http.StatusInternalServerError,
	domain.ErrCollaboratorUnavailable: http.StatusBadGateway,
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrBadRequest.Error()})
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
		h.logger.Error("aborting request", zap.Error(err))
	}
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Error: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
		h.logger.Error("error processing request", zap.Error(err))
		err = domain.ErrInternal
	}
	ctx.JSON(statusCode, errorResponse{Error: err.Error()})
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
