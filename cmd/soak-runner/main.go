// Package main runs the soak suite against the virtual device.
// It exits non-zero when any scenario fails.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/config"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/soak"
)

func main() {
	fmt.Println("BOB TAMAGOTCHI - SOAK SUITE")
	fmt.Println(strings.Repeat("=", 48))

	cfg, err := config.Load(config.FastConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := soak.NewHarness(cfg, logger.NewLogger())
	results := h.Run(ctx, soak.DefaultScenarios()...)

	if failed := soak.Report(os.Stdout, results); failed > 0 {
		fmt.Println("\nBob is not ready to ship")
		os.Exit(1)
	}
	fmt.Println("\nBob is ready to ship")
}
