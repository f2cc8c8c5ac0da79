package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skipbo/internal/config"
	"skipbo/internal/httpapi"
	"skipbo/internal/session"
	"skipbo/internal/transport"
)

func main() {
	cfg := config.Load()

	log, err := newLogger(cfg.Dev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := session.New(ctx, log, session.WithBotDelay(cfg.BotDelay))

	tcpSrv := transport.NewTCPServer(cfg.TCPAddr, sess, log)
	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(sess, log),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tcpSrv.Run(ctx)
	})
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return httpSrv.Close()
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
