package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"social/config"
	"social/internal/database"
	"social/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing database connection")
		}
	}()

	if cfg.Database.AutoMigrate {
		schema, err := database.NewDatabase(db)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to prepare migration")
		}
		if err := schema.Migrate(); err != nil {
			logging.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	app, err := InitializeApp(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize application")
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	go watchDatabase(ctx, db, healthServer, healthInterval)

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		logging.Fatal().Err(err).Str("addr", cfg.GRPCAddr()).Msg("failed to listen")
	}
	go func() {
		logging.Info().Str("addr", cfg.GRPCAddr()).Msg("starting grpc health server")
		if err := grpcServer.Serve(lis); err != nil {
			logging.Error().Err(err).Msg("grpc server stopped")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.Run()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("http server failed")
		}
	}

	healthServer.Shutdown()
	if err := app.Server.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		logging.Error().Err(err).Msg("http server shutdown failed")
	}
	grpcServer.GracefulStop()
	logging.Info().Msg("server stopped")
}
