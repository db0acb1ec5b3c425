package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/macropadd/macropadd/internal/api"
	"github.com/macropadd/macropadd/internal/config"
	"github.com/macropadd/macropadd/internal/effects"
	"github.com/macropadd/macropadd/internal/engine"
	"github.com/macropadd/macropadd/internal/executor"
	"github.com/macropadd/macropadd/internal/focus"
	"github.com/macropadd/macropadd/internal/layer"
	"github.com/macropadd/macropadd/internal/metrics"
	"github.com/macropadd/macropadd/internal/pad"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9090", "status HTTP listen address")
	cfgPath := flag.String("config", "configs/layers.yaml", "Path to layers YAML config")
	queueDepth := flag.Int("queue-depth", 256, "Input event queue capacity")
	actionTimeout := flag.Duration("action-timeout", 0, "Optional cap on a single action execution (0 = none)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load layers", "err", err)
		os.Exit(1)
	}

	// ── Build initial registry ────────────────────────────────────────────────
	reg, err := layer.Build(loader.Document())
	if err != nil {
		slog.Error("failed to build layer registry", "err", err)
		os.Exit(1)
	}
	slog.Info("layers loaded", "layers", reg.Len())

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resolver := layer.NewResolver(reg)
	exec := executor.New(effects.NewLog(logger), *actionTimeout)
	eng := engine.New(ctx, resolver, exec, *queueDepth)

	// ── Device display ────────────────────────────────────────────────────────
	var sink pad.Sink = pad.NopSink{}
	eng.OnLayerChange(func(active, base *layer.Layer) {
		if err := sink.Send(pad.ProfileFrame(active.Name())); err != nil {
			slog.Warn("profile frame send failed", "err", err)
			return
		}
		labels := pad.KeyLabels(base, active)
		if err := sink.Send(pad.KeyLabelFrame(labels)); err != nil {
			slog.Warn("key label frame send failed", "err", err)
		}
	})

	// ── Focus listener ────────────────────────────────────────────────────────
	var listener focus.Listener = focus.Noop{}
	if err := listener.Listen(ctx, eng.OnFocusChanged); err != nil {
		slog.Warn("focus listener unavailable, base layer stays active", "err", err)
	}

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(doc *config.Document) {
		newReg, err := layer.Build(doc)
		if err != nil {
			metrics.ConfigReloads.WithLabelValues("error").Inc()
			slog.Warn("hot-reload skipped: registry build failed", "err", err)
			return
		}
		metrics.ConfigReloads.WithLabelValues("success").Inc()
		eng.SwapRegistry(newReg)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("layers watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── Status HTTP server ────────────────────────────────────────────────────
	handler := api.New(eng, loader)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("status server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("status server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop the dispatch worker
	eng.Shutdown()
	slog.Info("goodbye")
}
