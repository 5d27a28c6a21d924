package main

import (
	"net"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/tempizhere/docstore/internal/app"
	"github.com/tempizhere/docstore/internal/config"
	grpcserver "github.com/tempizhere/docstore/internal/grpc"
	"github.com/tempizhere/docstore/internal/grpc/proto"
	"github.com/tempizhere/docstore/internal/log"
	"github.com/tempizhere/docstore/internal/repository"
	"github.com/tempizhere/docstore/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	// Подхватываем .env, если он есть, до разбора флагов
	_ = godotenv.Load()

	// Получаем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	logger := log.NewLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()

	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		logger.Warn("Admin credentials are not configured, mutating endpoints will reject all requests")
	}

	// Подключаемся к базе данных
	db, err := app.NewDB(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	var repo repository.Repository
	if db != nil {
		defer db.Close()
		repo, err = repository.NewPostgresRepository(db, logger)
		if err != nil {
			logger.Fatal("Failed to create repository", zap.Error(err))
		}
	} else {
		logger.Warn("DATABASE_DSN is not set, using in-memory repository")
		repo = repository.NewMemoryRepository()
	}

	svc := service.NewService(repo)
	appInstance := app.NewApp(svc, db, logger)
	router := app.NewRouter(appInstance, cfg, logger)

	// Запускаем gRPC сервер, если задан адрес
	if cfg.GRPCAddr != "" {
		go func() {
			listener, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				logger.Error("Failed to listen gRPC address", zap.String("address", cfg.GRPCAddr), zap.Error(err))
				return
			}
			server := grpc.NewServer(grpc.ChainUnaryInterceptor(
				grpcserver.LoggingInterceptor(logger),
				grpcserver.AdminAuthInterceptor(cfg, logger),
				grpcserver.TrustedSubnetInterceptor(cfg.TrustedSubnet, logger),
			))
			proto.RegisterCatalogServiceServer(server, grpcserver.NewServer(svc, db, logger))
			logger.Info("gRPC server started", zap.String("address", cfg.GRPCAddr))
			if err := server.Serve(listener); err != nil {
				logger.Error("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("HTTP server started", zap.String("address", cfg.RunAddr))
	if err := http.ListenAndServe(cfg.RunAddr, router); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
