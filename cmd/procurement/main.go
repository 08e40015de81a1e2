package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/erp/procurement/internal/application/audit"
	catalogapp "github.com/erp/procurement/internal/application/catalog"
	eventapp "github.com/erp/procurement/internal/application/event"
	partnerapp "github.com/erp/procurement/internal/application/partner"
	sourcingapp "github.com/erp/procurement/internal/application/sourcing"
	tradeapp "github.com/erp/procurement/internal/application/trade"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/approval"
	"github.com/erp/procurement/internal/infrastructure/audit"
	"github.com/erp/procurement/internal/infrastructure/cache"
	"github.com/erp/procurement/internal/infrastructure/config"
	"github.com/erp/procurement/internal/infrastructure/event"
	"github.com/erp/procurement/internal/infrastructure/logger"
	"github.com/erp/procurement/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// services groups the application services the procurement core exposes.
// This is the handoff point for a transport layer; the runtime itself only
// drives reconciliation and outbox maintenance through event handlers.
type services struct {
	suppliers      *partnerapp.SupplierService
	categories     *catalogapp.CategoryService
	materials      *catalogapp.MaterialService
	quotations     *sourcingapp.QuotationService
	conversion     *sourcingapp.ConversionService
	orders         *tradeapp.PurchaseOrderService
	receipts       *tradeapp.GoodsReceiptService
	reconciliation *tradeapp.ReconciliationService
	outbox         *eventapp.OutboxService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Procurement core stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting procurement core",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("sequence_backend", cfg.Sequence.Backend),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("Database connected and migrated")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	counter, err := newSequenceCounter(cfg.Sequence, db, redisClient)
	if err != nil {
		return err
	}
	numbers := sequence.NewGenerator(counter, nil)

	// Repositories write their pending events to the outbox in the saving transaction
	serializer := event.NewEventSerializer()
	if err := event.RegisterAllEvents(serializer); err != nil {
		return fmt.Errorf("register events: %w", err)
	}
	outboxPublisher := event.NewOutboxPublisher(serializer, cfg.Event.MaxRetries)

	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	receiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	workflowRepo := persistence.NewGormWorkflowRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	supplierRepo.SetOutboxEventSaver(outboxPublisher)
	categoryRepo.SetOutboxEventSaver(outboxPublisher)
	materialRepo.SetOutboxEventSaver(outboxPublisher)
	quotationRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	receiptRepo.SetOutboxEventSaver(outboxPublisher)

	roles := approval.NewStaticRoleResolverFromConfig(cfg.Approval)
	txScope := persistence.NewGormTransactionScope(db.DB, quotationRepo, orderRepo)
	inventoryScope := persistence.NewGormInventoryScope(db.DB, materialRepo)
	reconciliation := tradeapp.NewReconciliationService(receiptRepo, orderRepo, inventoryScope, log)

	svc := &services{
		suppliers:      partnerapp.NewSupplierService(supplierRepo, numbers, log),
		categories:     catalogapp.NewCategoryService(categoryRepo, materialRepo, log),
		materials:      catalogapp.NewMaterialService(materialRepo, categoryRepo, supplierRepo, numbers, log),
		quotations:     sourcingapp.NewQuotationService(quotationRepo, materialRepo, supplierRepo, workflowRepo, numbers, log),
		conversion:     sourcingapp.NewConversionService(quotationRepo, supplierRepo, materialRepo, txScope, numbers, nil, log),
		orders:         tradeapp.NewPurchaseOrderService(orderRepo, supplierRepo, materialRepo, workflowRepo, roles, numbers, log),
		receipts:       tradeapp.NewGoodsReceiptService(receiptRepo, orderRepo, numbers, log),
		reconciliation: reconciliation,
		outbox:         eventapp.NewOutboxService(outboxRepo, log),
	}

	// Side effects run as outbox consumers: a failing handler is retried, never
	// reported to the caller of the originating transition
	handlers := []shared.EventHandler{
		tradeapp.NewGoodsReceiptCompletedHandler(reconciliation, log),
		catalogapp.NewPurchaseOrderSentHandler(materialRepo, log),
		partnerapp.NewSupplierPerformanceHandler(supplierRepo, orderRepo, receiptRepo, log),
		auditapp.NewHandler(audit.NewZapSink(log), log),
	}
	idempotencyStore := cache.NewIdempotencyStore(redisClient, log)
	defer func() {
		_ = idempotencyStore.Close()
	}()
	idempotencyConfig := shared.DefaultIdempotencyConfig()
	if cfg.Event.IdempotencyTTL > 0 {
		idempotencyConfig.TTL = cfg.Event.IdempotencyTTL
	}

	eventBus := event.NewInMemoryEventBus(log)
	for _, h := range event.WrapHandlersWithIdempotency(handlers, idempotencyStore, log, event.WithIdempotencyConfig(idempotencyConfig)) {
		eventBus.Subscribe(h)
	}
	if err := eventBus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}

	processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfigFrom(cfg.Event), log)
	if cfg.Event.ProcessorEnabled {
		if err := processor.Start(ctx); err != nil {
			return fmt.Errorf("start outbox processor: %w", err)
		}
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Event.BatchSize),
			zap.Duration("poll_interval", cfg.Event.PollInterval),
			zap.Int("max_retries", cfg.Event.MaxRetries),
		)
	} else {
		log.Warn("Outbox processor disabled; domain events stay pending in the outbox")
	}

	if stats, err := svc.outbox.Stats(ctx); err != nil {
		log.Warn("Failed to read outbox stats", zap.Error(err))
	} else {
		log.Info("Procurement core ready",
			zap.Int64("outbox_pending", stats.Pending),
			zap.Int64("outbox_dead", stats.Dead),
			zap.Strings("registered_events", serializer.RegisteredTypes()),
		)
	}

	<-ctx.Done()
	log.Info("Shutting down procurement core")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if cfg.Event.ProcessorEnabled {
		if err := processor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	log.Info("Procurement core stopped")
	return nil
}

// newSequenceCounter picks the document number counter configured by sequence.backend
func newSequenceCounter(cfg config.SequenceConfig, db *persistence.Database, client *redis.Client) (sequence.Counter, error) {
	switch cfg.Backend {
	case config.SequenceBackendRedis:
		if client == nil {
			return nil, fmt.Errorf("sequence backend %q requires redis.enabled", cfg.Backend)
		}
		return cache.NewRedisSequenceCounter(client, cfg.KeyTTL), nil
	case config.SequenceBackendDatabase, "":
		return persistence.NewGormSequenceCounter(db.DB), nil
	default:
		return nil, fmt.Errorf("unsupported sequence backend %q", cfg.Backend)
	}
}
