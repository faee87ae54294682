package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"lorehub/internal/catalog"
	"lorehub/internal/feed"
	"lorehub/internal/grpcserver"
	"lorehub/internal/logging"
	"lorehub/internal/reference"
	"lorehub/pkg/utils"
)

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

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), reference.RequestID(), reference.AccessLog(logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Feed first, so a busy port shows up before anything else starts.
	hub := feed.NewHub(logger)
	router.GET("/ws", feed.WSHandler(hub))
	feedSrv := feed.NewServer(cfg.FeedAddr, hub, logger)
	if _, err := feedSrv.Listen(); err != nil {
		logger.Error("feed listen failed", "error", err)
		os.Exit(1)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "source": cfg.Source})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := cat.Check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":       "not_ready",
				"source_error": err.Error(),
				"sources":      cat.SourceNames(),
				"tcp_clients":  stats.TCPClients,
				"ws_clients":   stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"sources":     cat.SourceNames(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	reference.NewHandler(cat, hub, cfg.SchemaDir, logger).RegisterRoutes(router)

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("grpc listen failed", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryLogger(logger)))
	grpcserver.RegisterReferenceServer(grpcSrv, grpcserver.NewServer(cat, hub, logger))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := feedSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("grpc listening", "addr", grpcLis.Addr().String())
		if err := grpcSrv.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("http listening", "addr", cfg.HTTPAddr, "sources", cat.SourceNames())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	grpcSrv.GracefulStop()
	if err := feedSrv.Close(); err != nil {
		logger.Error("feed shutdown error", "error", err)
	}

	wg.Wait()
	logger.Info("servers stopped")
}
