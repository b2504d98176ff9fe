//go:build tinygo

// Package main is the firmware entry point for the Raspberry Pi Pico.
// It only wires the board peripherals into the engine.
package main

import (
	"context"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/pico"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/config"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
)

func main() {
	appLogger := logger.NewLogger()

	panel, err := pico.Open()
	if err != nil {
		appLogger.Error("hardware setup failed", "error", err)
		pico.FailLoop()
	}

	cfg := config.LowResourceConfig()
	eventLog := events.NewEventLog(cfg.EventCapacity)
	eng := engine.NewEngine(panel, cfg, eventLog, appLogger)

	if err := eng.Run(context.Background()); err != nil {
		appLogger.Error("engine stopped", "error", err)
		pico.FailLoop()
	}
}
