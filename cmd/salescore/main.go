package main

import (
	"context"
	"fmt"

	"github.com/salescore/backend/internal/adapter/client/authsvc"
	"github.com/salescore/backend/internal/adapter/client/inventory"
	"github.com/salescore/backend/internal/adapter/config"
	"github.com/salescore/backend/internal/adapter/gateway"
	"github.com/salescore/backend/internal/adapter/handler/http"
	"github.com/salescore/backend/internal/adapter/logger"
	"github.com/salescore/backend/internal/adapter/permstore"
	"github.com/salescore/backend/internal/adapter/storage"
	"github.com/salescore/backend/internal/adapter/storage/repository"
	"github.com/salescore/backend/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}

	permissions, err := permstore.NewStore(conf.Redis)
	if err != nil {
		log.Error("permission store creating error", zap.Error(err))
		return
	}

	verifier, err := authsvc.NewClient(conf.Auth, permissions, log.Named("Auth"))
	if err != nil {
		log.Error("auth client creating error", zap.Error(err))
		return
	}

	inventoryClient, err := inventory.NewClient(conf.Inventory, log.Named("Inventory"))
	if err != nil {
		log.Error("inventory client creating error", zap.Error(err))
		return
	}

	cardGateway, err := gateway.NewSimulatedGateway(log.Named("Gateway"))
	if err != nil {
		log.Error("payment gateway creating error", zap.Error(err))
		return
	}

	sequences := service.NewSequenceAllocator(repo, log.Named("Sequences"))
	stock := service.NewStockCoordinator(inventoryClient, log.Named("Stock"))

	orderService, err := service.NewOrderService(repo, inventoryClient, sequences, stock,
		service.OrderPolicy{DeleteFinalized: conf.Policy.DeleteFinalizedOrders},
		log.Named("Orders"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}

	paymentService, err := service.NewPaymentService(repo, cardGateway, orderService,
		sequences, log.Named("Payments"))
	if err != nil {
		log.Error("payment service creating error", zap.Error(err))
		return
	}

	invoiceService, err := service.NewInvoiceService(repo, paymentService, sequences,
		conf.Policy.PaymentTermDays, log.Named("Invoices"))
	if err != nil {
		log.Error("invoice service creating error", zap.Error(err))
		return
	}

	saga := service.NewSagaCoordinator(repo, log.Named("Saga"))

	posService, err := service.NewPOSOrchestrator(repo, orderService, paymentService,
		invoiceService, saga, log.Named("POS"))
	if err != nil {
		log.Error("pos service creating error", zap.Error(err))
		return
	}

	orderHandler, err := http.NewOrderHandler(orderService, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(paymentService, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}
	invoiceHandler, err := http.NewInvoiceHandler(invoiceService, log.Named("Invoice handler"))
	if err != nil {
		log.Error("invoice handler creating error", zap.Error(err))
		return
	}
	posHandler, err := http.NewPOSHandler(posService, log.Named("POS handler"))
	if err != nil {
		log.Error("pos handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(verifier, orderHandler, paymentHandler, invoiceHandler,
		posHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
