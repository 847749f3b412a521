package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"legerity_service/config"
	"legerity_service/internal/auth"
	"legerity_service/internal/delivery"
	grpcHandler "legerity_service/internal/delivery/grpc"
	"legerity_service/internal/repository"
	"legerity_service/internal/usecase"
	"legerity_service/pkg/db"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	logger := setupLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid LOG_LEVEL '%s', using default 'info'. Error: %v", cfg.LogLevel, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Legerity Service...")

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, database, logger); err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// --- Dependency Injection ---
	productRepo := repository.NewPostgresProductRepository(database, logger)
	cartRepo := repository.NewPostgresCartRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	userRepo := repository.NewPostgresUserRepository(database, logger)
	reviewRepo := repository.NewPostgresReviewRepository(database, logger)
	transactor := repository.NewPostgresTransactor(database, logger)
	logger.Info("Repositories initialized.")

	tokens := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:            cfg.JWTSecret,
		AccessTokenDuration:  cfg.AccessTokenTTL,
		RefreshTokenDuration: cfg.RefreshTokenTTL,
		Issuer:               cfg.JWTIssuer,
	})

	cartUseCase := usecase.NewCartUseCase(cartRepo, productRepo, logger)
	orderUseCase := usecase.NewOrderUseCase(transactor, cartRepo, productRepo, orderRepo, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, logger)
	userUseCase := usecase.NewUserUseCase(userRepo, tokens, logger)
	siteUseCase := usecase.NewSiteUseCase(userRepo, productRepo, reviewRepo, usecase.SiteSettings{
		NumberOfPersonals:   cfg.AboutNumberOfPersonals,
		SatisfactionPercent: cfg.AboutSatisfactionPercent,
	}, logger)
	logger.Info("Use cases initialized.")

	if logLevel < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := delivery.NewRouter(delivery.RouterConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		Tokens:       tokens,
	}, delivery.Handlers{
		Auth:    delivery.NewAuthHandler(userUseCase, logger),
		Site:    delivery.NewSiteHandler(siteUseCase, logger),
		Product: delivery.NewProductHandler(productUseCase, logger),
		Cart:    delivery.NewCartHandler(cartUseCase, logger),
		Order:   delivery.NewOrderHandler(orderUseCase, logger),
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting HTTP server on %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to serve HTTP: %v", err)
		}
		logger.Info("HTTP server stopped serving.")
	}()

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, grpcHandler.NewHealthHandler(database, logger))
	reflection.Register(grpcServer)
	logger.Info("gRPC health and reflection services registered")

	go func() {
		logger.Infof("Starting gRPC server on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatalf("Failed to serve gRPC: %v", err)
		}
		logger.Info("gRPC server stopped serving.")
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("Attempting graceful shutdown of HTTP server...")
				return httpServer.Shutdown(ctx)
			},
			"grpc-server": func(ctx context.Context) error {
				logger.Info("Attempting graceful shutdown of gRPC server...")
				stopped := make(chan struct{})
				go func() {
					grpcServer.GracefulStop()
					close(stopped)
				}()
				select {
				case <-stopped:
					return nil
				case <-ctx.Done():
					grpcServer.Stop()
					return ctx.Err()
				}
			},
		},
	)

	exitCode := <-wait
	if err := database.Close(); err != nil {
		logger.Errorf("Error closing database connection: %v", err)
	} else {
		logger.Info("Database connection closed.")
	}
	logger.Infof("Legerity Service exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}
