package http

import (
	"github.com/gin-gonic/gin"
	"github.com/salescore/backend/internal/core/port"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	verifier port.TokenVerifier,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	invoiceHandler *InvoiceHandler,
	posHandler *POSHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(authCheck(verifier, logger))
	{
		orders := api.Group("/orders")
		{
			orders.POST("", requirePermission("orders:write", logger), orderHandler.CreateOrder)
			orders.GET("", requirePermission("orders:read", logger), orderHandler.ListOrders)
			orders.GET("/:number", requirePermission("orders:read", logger), orderHandler.GetOrder)
			orders.POST("/:number/confirm", requirePermission("orders:write", logger), orderHandler.ConfirmOrder)
			orders.POST("/:number/cancel", requirePermission("orders:write", logger), orderHandler.CancelOrder)
			orders.PATCH("/:number/status", requirePermission("orders:write", logger), orderHandler.UpdateOrderStatus)
			orders.DELETE("/:number", requirePermission("orders:delete", logger), orderHandler.DeleteOrder)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", requirePermission("payments:write", logger), paymentHandler.CreatePayment)
			payments.GET("/:number", requirePermission("payments:read", logger), paymentHandler.GetPayment)
			payments.POST("/:number/refunds", requirePermission("payments:refund", logger), paymentHandler.CreateRefund)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", requirePermission("invoices:write", logger), invoiceHandler.CreateInvoice)
			invoices.GET("/:number", requirePermission("invoices:read", logger), invoiceHandler.GetInvoice)
			invoices.POST("/:number/payments", requirePermission("payments:write", logger), invoiceHandler.RecordPayment)
			invoices.POST("/:number/send", requirePermission("invoices:write", logger), invoiceHandler.MarkSent)
			invoices.POST("/:number/void", requirePermission("invoices:write", logger), invoiceHandler.VoidInvoice)
		}

		pos := api.Group("/pos")
		{
			pos.POST("/sales", requirePermission("pos:sale", logger), posHandler.QuickSale)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
