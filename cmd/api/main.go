package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"reqmarket/internal/adapter/api"
	"reqmarket/internal/adapter/api/handler"
	apimiddleware "reqmarket/internal/adapter/api/middleware"
	"reqmarket/internal/adapter/api/router"
	"reqmarket/internal/adapter/repository"
	domainrepo "reqmarket/internal/domain/repository"
	"reqmarket/internal/domain/service"
	"reqmarket/internal/infrastructure/devauth"
	"reqmarket/internal/infrastructure/firebase"
	"reqmarket/internal/infrastructure/metrics"
	"reqmarket/internal/infrastructure/ratelimit"
	"reqmarket/internal/infrastructure/storage"
	"reqmarket/internal/infrastructure/websocket"
	"reqmarket/internal/usecase"
	"reqmarket/pkg/config"
	"reqmarket/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.SetDebug(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	credentialsPath := ""
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	} else if cfg.ServiceAccountPath != "" {
		if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
			logger.Error("Service account file does not exist: %s", cfg.ServiceAccountPath)
			os.Exit(1)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountPath))
		credentialsPath = cfg.ServiceAccountPath
	}

	var verifier usecase.TokenVerifier
	if cfg.FirebaseProject != "" {
		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
		if err != nil {
			logger.Error("Failed to initialize Firebase: %v", err)
			os.Exit(1)
		}
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			logger.Error("Failed to initialize Firebase Auth: %v", err)
			os.Exit(1)
		}
		verifier = firebase.NewFirebaseAuthClient(authClient)
	}

	devIssuer := devauth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
	if verifier == nil {
		logger.Warn("No Firebase project configured, accepting development tokens")
		verifier = devIssuer
		handler.SetupDevTokenHandler(devIssuer)
	}

	var ledger domainrepo.Ledger
	switch cfg.LedgerBackend {
	case "firestore":
		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			logger.Error("Failed to create Firestore client: %v", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()
		ledger = repository.NewFirestoreLedger(firestoreClient)
	default:
		ledger = repository.NewMemoryLedger()
	}
	logger.Info("Using %s ledger, lock window %s", cfg.LedgerBackend, cfg.TimeToLock)

	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
		if err != nil {
			logger.Error("Failed to initialize Cloud Storage: %v", err)
			os.Exit(1)
		}
		defer storageClient.Close()
		handler.SetupFileHandler(storageClient)
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	m := metrics.New()
	m.RegisterGauge("websocket_clients", "Connected WebSocket clients.", func() float64 {
		return float64(wsManager.ClientCount())
	})

	notifier := service.MultiNotifier{wsManager, m}
	clock := service.SystemClock{}

	userUseCase := usecase.NewUserUseCase(ledger, clock, notifier)
	storeUseCase := usecase.NewStoreUseCase(ledger, clock, notifier)
	requestUseCase := usecase.NewRequestUseCase(ledger, clock, notifier, cfg.TimeToLock)
	offerUseCase := usecase.NewOfferUseCase(ledger, clock, notifier, cfg.TimeToLock)

	handler.Setup(userUseCase, storeUseCase, requestUseCase, offerUseCase)
	handler.SetupHealthHandler(cfg.LedgerBackend, wsManager.ClientCount)
	handler.SetupWebSocketHandler(wsManager)

	limiter := ratelimit.NewRateLimiter(ratelimit.Policy{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}, time.Hour)
	limiter.SetPolicy(router.ActionRegister, ratelimit.Policy{RPS: 1.0 / 60, Burst: 5})
	limiter.SetPolicy(router.ActionUpload, ratelimit.Policy{RPS: 0.5, Burst: 10})
	limiter.StartCleanupRoutine(ctx, 30*time.Minute)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(m.Middleware())

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.ErrorHandler

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)
	limits := apimiddleware.NewRateLimitMiddleware(limiter, m.RateLimited)

	router.Setup(e, authMiddleware, limits)
	router.SetupFileRouter(e, authMiddleware, limits)
	router.SetupWebSocketRouter(e, authMiddleware)
	router.SetupDevRouter(e, cfg.Environment)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
