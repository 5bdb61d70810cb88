package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raterudder/solarlog/pkg/device"
	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/metrics"
	"github.com/raterudder/solarlog/pkg/server"
	"github.com/raterudder/solarlog/pkg/solarlog"
	"github.com/raterudder/solarlog/pkg/storage"

	"github.com/joho/godotenv"
	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	// init packages, the client must be configured before the device
	c := solarlog.Configured()
	s := storage.Configured()
	e := metrics.NewExporter()
	d := device.Configured(c, device.MultiSink{s, e})

	// init server
	srv := server.Configured(d, s, e.Handler())

	// parse flags
	lflag.Configure()

	// lflag automatically sets llog's level, but we need to set the slog level
	level, err := log.LevelFromLLog(llog.GetLevel())
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	log.SetDefaultLogLevel(level)
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
		}
	}()

	// the poller and the server stop together
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.Run(gctx)
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "solarlog failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "solarlog exited cleanly")
}
