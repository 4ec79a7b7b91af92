package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	awspkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/aws"
	ddbpkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/dynamodb"
	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/logger"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/middleware"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/controllers"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/database"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/kafka"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/routes"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/services"
)

const serviceName = "pos-service"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Initialize("development").Fatal("Config load failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- AWS setup ---
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		logger.Initialize(cfg.AppEnv).Fatal("Failed to load AWS config", zap.Error(err))
	}

	// --- Logging (CloudWatch tee is non-fatal) ---
	var log *zap.Logger
	if cwl, cwErr := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.TerminalID); cwErr == nil && cwl.IsEnabled() {
		log = logger.InitializeWithWriter(cfg.AppEnv, cwl)
	} else {
		log = logger.Initialize(cfg.AppEnv)
		if cwErr != nil {
			log.Warn("CloudWatch Logs init failed (non-fatal)", zap.Error(cwErr))
		}
	}
	defer log.Sync()
	log = log.With(zap.String("service", serviceName), zap.String("terminal_id", cfg.TerminalID))

	metricsClient := awspkg.NewMetricsClient(awsCfg)

	// --- Stores ---
	db, err := database.ConnectPostgres(cfg.Postgres, log, &models.CustomerLedgerEntry{}, &models.Order{}, &models.OrderLine{})
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	defer database.ClosePostgres(db)

	var remote repository.OrderStore = repository.NewGormOrderRepository(db)
	var mongoClient *mongo.Client
	if cfg.OrderStoreDriver == OrderStoreMongo {
		var mdb *mongo.Database
		mongoClient, mdb, err = database.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDBName)
		if err != nil {
			log.Fatal("MongoDB connection failed", zap.Error(err))
		}
		remote = repository.NewMongoOrderRepository(mdb)
	}

	rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	orderCache := repository.NewRedisOrderCache(rdb, cfg.TerminalID, cfg.LocalOrderCacheSize)
	activityLog := repository.NewRedisActivityLog(rdb, cfg.TerminalID, cfg.ActivityFeedSize)
	ledger := repository.NewDynamoStockLedger(ddbpkg.NewClientFromConfig(awsCfg), cfg.ProductsTable, cfg.BarcodeIndex)
	customers := repository.NewGormCustomerRepository(db)

	// --- Event fan-out and receipts (all optional) ---
	var stream services.OrderEventStream
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic, log.Named("kafka"))
		stream = producer
	}
	var snsClient awspkg.SNSPublisher
	if cfg.OrderSNSTopicARN != "" {
		snsClient = awspkg.NewSNSClient(awsCfg)
	}
	var receipts services.ReceiptDispatcher
	if cfg.ReceiptQueueURL != "" {
		receipts = services.NewQueueReceiptDispatcher(awspkg.NewSQSSender(awsCfg, cfg.ReceiptQueueURL), nil)
	} else {
		log.Warn("RECEIPT_QUEUE_URL not set, receipts will not be dispatched")
	}

	// --- Dependency injection ---
	session := services.NewCheckoutSession(services.CheckoutDeps{
		TerminalID:  cfg.TerminalID,
		TaxRate:     cfg.TaxRate,
		Ledger:      ledger,
		Persistence: services.NewOrderPersistence(remote, orderCache, cfg.RemoteWriteTimeout, metricsClient, log.Named("persistence")),
		Customers:   services.NewCustomerLedgerUpdater(customers, nil, metricsClient, log.Named("ledger")),
		Activity:    services.NewActivityFeed(activityLog, nil),
		Receipts:    receipts,
		Events:      services.NewOrderEventPublisher(stream, snsClient, cfg.OrderSNSTopicARN, log.Named("events")),
		Metrics:     metricsClient,
		Logger:      log.Named("checkout"),
	})
	sessionCtx, stopSession := context.WithCancel(context.Background())
	defer stopSession()
	sessionDone := make(chan struct{})
	go func() {
		session.Run(sessionCtx)
		close(sessionDone)
	}()

	scanner := services.NewBarcodeScanner(session.Scan, cfg.ScanCooldown, metricsClient, log.Named("scanner"))
	if cfg.ScannerDevice != "" {
		device, err := os.Open(cfg.ScannerDevice)
		if err != nil {
			log.Warn("Scanner device unavailable, camera and manual entry only", zap.String("device", cfg.ScannerDevice), zap.Error(err))
		} else {
			defer device.Close()
			deviceLog := log.Named("scanner").With(zap.String("device", cfg.ScannerDevice))
			scanner.OnResult(func(r services.ScanResult) {
				if r.Err == nil && !r.Skipped {
					deviceLog.Debug("Device scan applied", zap.String("barcode", r.Code), zap.Int("applied", r.Result.Applied))
				}
			})
			go func() {
				if err := scanner.Run(sessionCtx, services.ReadCodes(sessionCtx, device, deviceLog)); err != nil && !errors.Is(err, context.Canceled) {
					deviceLog.Error("Scanner feed stopped", zap.Error(err))
				}
			}()
		}
	}
	posController := controllers.NewPOSController(session, scanner)

	// --- HTTP router ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.MetricsMiddleware(metricsClient, serviceName))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterPOSRoutes(r, posController)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName, "terminal_id": cfg.TerminalID})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info("POS Service started", zap.String("port", cfg.Port), zap.String("order_store", cfg.OrderStoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// In-flight commits finish inside Shutdown; the session loop stops after.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	stopSession()
	<-sessionDone

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", zap.Error(err))
		}
	}
	log.Info("POS Service stopped gracefully")
}
