package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"lorehub/internal/catalog"
	"lorehub/internal/grpcserver"
	"lorehub/internal/logging"
	"lorehub/pkg/utils"
)

// grpc-server runs ReferenceService alone, without the HTTP API or the
// activity feed.
func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		logging.New(os.Stderr, "error", "text").Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	cat, closeCatalog, err := catalog.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("catalog open failed", "source", cfg.Source, "error", err)
		os.Exit(1)
	}
	defer closeCatalog()

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("grpc listen failed", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryLogger(logger)))
	grpcserver.RegisterReferenceServer(grpcServer, grpcserver.NewServer(cat, nil, logger))

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutdown signal received", "signal", sig.String())
		grpcServer.GracefulStop()
	}()

	logger.Info("grpc listening", "addr", cfg.GRPCAddr, "sources", cat.SourceNames())
	if err := grpcServer.Serve(listener); err != nil {
		logger.Error("grpc server stopped", "error", err)
		os.Exit(1)
	}
}
