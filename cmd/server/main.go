// @title          Casework API
// @version        1.0
// @description    Case management backend for an immigration consultancy.
// @BasePath       /api
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/raylene/casework/internal/api"
	"github.com/raylene/casework/internal/api/handler"
	"github.com/raylene/casework/internal/core/service"
	"github.com/raylene/casework/internal/infrastructure/config"
	mongodb "github.com/raylene/casework/internal/infrastructure/db/mongo"
	redisdb "github.com/raylene/casework/internal/infrastructure/db/redis"
	"github.com/raylene/casework/internal/infrastructure/queue"
	"github.com/raylene/casework/internal/infrastructure/storage"
	"github.com/raylene/casework/internal/pkg/security"
	"github.com/raylene/casework/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "casework",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// 1. Datastores
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "casework",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	store, err := storage.New(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return err
	}

	// 2. Repositories
	identityRepo := mongodb.NewIdentityRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	appRepo := mongodb.NewApplicationRepository(db)
	appTypeRepo := mongodb.NewApplicationTypeRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	docRepo := mongodb.NewDocumentRepository(db)
	docTypeRepo := mongodb.NewDocumentTypeRepository(db)
	slotRepo := mongodb.NewSlotRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	invoiceRepo := mongodb.NewInvoiceRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	templateRepo := mongodb.NewTemplateRepository(db)
	blogRepo := mongodb.NewBlogRepository(db)
	pageRepo := mongodb.NewPageRepository(db)

	if err := mongodb.EnsureIndexes(ctx,
		identityRepo, auditRepo, appRepo, appTypeRepo, taskRepo, docRepo, docTypeRepo,
		slotRepo, bookingRepo, invoiceRepo, paymentRepo, messageRepo, notificationRepo,
		templateRepo, blogRepo, pageRepo,
	); err != nil {
		return err
	}

	tx := mongodb.NewTxManager(client)
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	taxRate, err := decimal.NewFromString(cfg.Billing.TaxRate)
	if err != nil {
		return err
	}

	// 3. Background delivery
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, notificationRepo, logger.Component(log, "notifications"))
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	dispatcher.Start(workerCtx)
	defer dispatcher.Stop()

	// 4. Services
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))
	identitySvc := service.NewIdentityService(identityRepo, auditSvc, logger.Component(log, "identity"))
	authSvc := service.NewAuthService(identityRepo, tx, tokens, redisdb.NewTokenDenylist(rdb), logger.Component(log, "auth"))
	appSvc := service.NewApplicationService(appRepo, appTypeRepo, taskRepo, tx, auditSvc, dispatcher, logger.Component(log, "applications"))
	taskSvc := service.NewTaskService(appRepo, taskRepo, logger.Component(log, "tasks"))
	docSvc := service.NewDocumentService(appRepo, docRepo, docTypeRepo, store, tx, auditSvc, cfg.Storage.UploadURLTTL, logger.Component(log, "documents"))
	bookingSvc := service.NewBookingService(slotRepo, bookingRepo, tx, logger.Component(log, "bookings"))
	billingSvc := service.NewBillingService(invoiceRepo, paymentRepo, appRepo, tx, auditSvc, taxRate, cfg.Billing.DefaultCurrency, logger.Component(log, "billing"))
	commSvc := service.NewCommunicationService(appRepo, messageRepo, notificationRepo, templateRepo, logger.Component(log, "communications"))
	contentSvc := service.NewContentService(blogRepo, pageRepo, logger.Component(log, "content"))

	if err := identitySvc.EnsureRoles(ctx); err != nil {
		return err
	}
	if cfg.Bootstrap.AdminEmail != "" && cfg.Bootstrap.AdminPassword != "" {
		if err := identitySvc.BootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			return err
		}
	}

	// 5. HTTP
	e := api.NewRouter(api.Deps{
		Logger:         log,
		Tokens:         tokens,
		Identity:       identitySvc,
		Auth:           authSvc,
		Applications:   appSvc,
		Tasks:          taskSvc,
		Documents:      docSvc,
		Bookings:       bookingSvc,
		Billing:        billingSvc,
		Communications: commSvc,
		Content:        contentSvc,
		Audit:          auditSvc,
		Readiness:      handler.NewHealthDependenciesHandler(db, rdb, store),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
