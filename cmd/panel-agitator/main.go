// Package main is a load generator for the simulator's websocket panel.
// It connects many clients at once and mashes the controls.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/network"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "panel websocket URL")
	clients := flag.Int("clients", 20, "number of concurrent clients")
	interval := flag.Duration("interval", 100*time.Millisecond, "time between inputs per client")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	out := flag.String("out", "agitator_results.json", "where to write the JSON results")
	flag.Parse()

	rule := strings.Repeat("=", 41)
	fmt.Println(rule)
	fmt.Println("PANEL AGITATOR")
	fmt.Println(rule)
	fmt.Printf("Server:   %s\n", *url)
	fmt.Printf("Clients:  %d\n", *clients)
	fmt.Printf("Interval: %v\n", *interval)
	fmt.Printf("Duration: %v\n", *duration)
	fmt.Println(rule)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	a := network.NewAgitator(network.AgitatorConfig{
		URL:      *url,
		Clients:  *clients,
		Interval: *interval,
		Seed:     time.Now().UnixNano(),
	}, logger.NewLogger())

	go progress(ctx, a.Stats())
	start := time.Now()
	stats := a.Run(ctx)
	elapsed := time.Since(start)

	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.MessagesReceived)
	errs := atomic.LoadInt64(&stats.Errors)
	throughput := float64(sent) / elapsed.Seconds()
	min, avg, max := stats.Latency()

	fmt.Println("\n" + rule)
	fmt.Println("RESULTS")
	fmt.Println(rule)
	fmt.Printf("Messages sent:     %s\n", humanize.Comma(sent))
	fmt.Printf("Messages received: %s\n", humanize.Comma(recv))
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Throughput:        %.2f msg/s\n", throughput)
	fmt.Printf("Latency:           min %v  avg %v  max %v\n", min, avg, max)

	results := map[string]interface{}{
		"messages_sent":      sent,
		"messages_received":  recv,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"clients":            *clients,
		"interval":           interval.String(),
		"duration":           elapsed.String(),
	}
	data, _ := json.MarshalIndent(results, "", "  ")
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write results:", err)
	} else {
		fmt.Printf("\nResults saved to %s\n", *out)
	}

	if errs > 0 && float64(errs)/float64(sent+1) >= 0.05 {
		os.Exit(1)
	}
}

func progress(ctx context.Context, stats *network.AgitatorStats) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Printf("Progress: sent=%d recv=%d errors=%d\n",
				atomic.LoadInt64(&stats.MessagesSent),
				atomic.LoadInt64(&stats.MessagesReceived),
				atomic.LoadInt64(&stats.Errors))
		}
	}
}
