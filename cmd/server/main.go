package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/adapter/cache"
	"github.com/Zethembe177/Job-Portal/internal/adapter/geocode"
	natsadapter "github.com/Zethembe177/Job-Portal/internal/adapter/messaging/nats"
	"github.com/Zethembe177/Job-Portal/internal/adapter/repository/mongodb"
	"github.com/Zethembe177/Job-Portal/internal/adapter/storage/s3"
	"github.com/Zethembe177/Job-Portal/internal/auth"
	authuc "github.com/Zethembe177/Job-Portal/internal/auth/usecase"
	"github.com/Zethembe177/Job-Portal/internal/config"
	listinguc "github.com/Zethembe177/Job-Portal/internal/listing/usecase"
	"github.com/Zethembe177/Job-Portal/internal/mailer"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/Zethembe177/Job-Portal/internal/platform/metrics"
	httpport "github.com/Zethembe177/Job-Portal/internal/port/http"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.Load(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		appLogger.Fatal("Failed to create upload directory", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	mongoClient, err := mongodb.NewMongoDBConnection(cfg.MongoURI)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			appLogger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddress)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	events, err := natsadapter.Connect(cfg.NATSURL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer events.Close()

	imageStore, err := s3.NewImageStore(ctx, s3.Config{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	go func() {
		if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	listingRepo := mongodb.NewListingRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)
	listingCache := cache.NewListingCache(redisClient, appLogger)
	geocoder := geocode.NewNominatimClient(cfg.GeocoderBaseURL, cfg.GeocoderTimeout, appLogger)
	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPEmail,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPEmail,
	}, appLogger)
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	listingUsecase := listinguc.NewListingUsecase(listingRepo, geocoder, imageStore, listingCache, events, metricsManager, appLogger)
	authUsecase := authuc.NewAuthUsecase(userRepo, tokens, smtpMailer, appLogger)

	router := httpport.NewRouter(httpport.RouterDeps{
		Auth:     httpport.NewAuthHandler(authUsecase, appLogger),
		Listings: httpport.NewListingHandler(listingUsecase, cfg.UploadDir, appLogger),
		Tokens:   tokens,
		Users:    userRepo,
		Metrics:  metricsManager,
		Logger:   appLogger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received, draining HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	appLogger.Info("Server stopped")
}
