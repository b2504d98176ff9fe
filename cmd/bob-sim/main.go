// Package main is the desktop simulator of the Bob device.
// It only handles dependency injection and startup.
// NO device logic belongs here.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/network"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/config"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/tui"
)

func main() {
	useTUI := flag.Bool("tui", false, "drive the device from the terminal")
	logPath := flag.String("log", "bob-sim.log", "log file used while the terminal UI is active")
	envFile := flag.String("env", ".env", "optional dotenv file with BOB_* overrides")
	flag.Parse()

	appLogger := logger.NewLogger()
	if *useTUI {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("[BOB-SIM] cannot open log file: %v", err)
		}
		defer f.Close()
		appLogger = logger.NewWriterLogger(f, slog.LevelInfo)
	}

	cfg, err := config.Load(config.DefaultConfig(), *envFile)
	if err != nil {
		appLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Bootstrapping virtual panel...")
	panel := virtual.New()
	panel.SetRealTime(true)

	appLogger.Info("Bootstrapping device journal...")
	eventLog := events.NewEventLog(cfg.EventCapacity)

	appLogger.Info("Bootstrapping engine...")
	eng := engine.NewEngine(panel.HAL(), cfg, eventLog, appLogger)
	collector := metrics.Get()
	eng.SetMetrics(collector)

	engineDone := make(chan error, 1)
	go func() { engineDone <- eng.Run(ctx) }()

	var srv *http.Server
	if cfg.ListenAddr != "" {
		appLogger.Info("Bootstrapping WebSocket hub...")
		hub := network.NewHub(panel, appLogger)
		hub.SetSendBuffer(cfg.ClientSendBuffer)
		hub.SetMetrics(collector)
		go hub.Run(ctx)
		hub.StartPanelMirror(ctx, panel)
		hub.StartEventPoller(ctx, eventLog, 250*time.Millisecond)

		srv = &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           network.NewMux(hub, eventLog, collector, appLogger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			appLogger.Info("panel server listening", "addr", cfg.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("panel server failed", "error", err)
				stop()
			}
		}()
	}

	if *useTUI {
		if err := tui.Run(ctx, panel, eng); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error("terminal UI failed", "error", err)
		}
		stop()
	} else {
		appLogger.Info("Bob is running. Press Ctrl+C to exit.")
		<-ctx.Done()
	}

	appLogger.Info("Shutting down...")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	select {
	case <-engineDone:
	case <-time.After(2 * time.Second):
		appLogger.Warn("engine did not stop in time")
	}
}
