// Package config holds the tunable parameters of the device and the simulator.
// Values come from a preset and can be overridden by BOB_* environment
// variables, optionally loaded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime parameters.
type Config struct {
	// Needs decay
	DecayInterval time.Duration // time between scheduler firings
	BaseDecay     int           // points per firing before the difficulty multiplier

	// Foreground loop pacing
	PollInterval   time.Duration // pause between input polls
	MenuPoll       time.Duration // pause between sub-menu polls
	ActionPause    time.Duration // pause after a confirmed action
	AIThinkTime    time.Duration // pause after Bob moves
	MessageHold    time.Duration // how long a transient message stays up
	FlashCount     int           // win/draw flourish repetitions
	FlashHalfCycle time.Duration // on (or off) time of one flash
	ToneGap        time.Duration // silence after every tone
	ToneRests      bool          // keep the silences inside jingles

	// Joystick thresholds (raw 12-bit counts)
	AxisLower uint16
	AxisUpper uint16

	// Journal
	EventCapacity int

	// Simulator
	ListenAddr       string
	ClientSendBuffer int
	Seed             int64 // 0 means seed from the clock
}

// DefaultConfig returns the timings of the real device.
func DefaultConfig() *Config {
	return &Config{
		DecayInterval: 60 * time.Second,
		BaseDecay:     5,

		PollInterval:   50 * time.Millisecond,
		MenuPoll:       100 * time.Millisecond,
		ActionPause:    300 * time.Millisecond,
		AIThinkTime:    500 * time.Millisecond,
		MessageHold:    3 * time.Second,
		FlashCount:     6,
		FlashHalfCycle: 300 * time.Millisecond,
		ToneGap:        50 * time.Millisecond,
		ToneRests:      true,

		AxisLower: 500,
		AxisUpper: 4095 - 500,

		EventCapacity: 256,

		ListenAddr:       ":8080",
		ClientSendBuffer: 64,
	}
}

// FastConfig compresses every pause so scripted sessions run in milliseconds.
func FastConfig() *Config {
	c := DefaultConfig()
	c.DecayInterval = 200 * time.Millisecond
	c.PollInterval = time.Millisecond
	c.MenuPoll = time.Millisecond
	c.ActionPause = 0
	c.AIThinkTime = 0
	c.MessageHold = 0
	c.FlashCount = 1
	c.FlashHalfCycle = 0
	c.ToneGap = 0
	c.ToneRests = false
	c.Seed = 1
	return c
}

// LowResourceConfig returns minimal buffers for the microcontroller.
func LowResourceConfig() *Config {
	c := DefaultConfig()
	c.EventCapacity = 32
	c.ClientSendBuffer = 0
	c.ListenAddr = ""
	return c
}

// Load reads an optional .env file (missing files are not an error) and
// applies BOB_* overrides on top of base.
func Load(base *Config, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := *base
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	durations := map[string]*time.Duration{
		"BOB_DECAY_INTERVAL": &c.DecayInterval,
		"BOB_POLL_INTERVAL":  &c.PollInterval,
		"BOB_MENU_POLL":      &c.MenuPoll,
		"BOB_ACTION_PAUSE":   &c.ActionPause,
		"BOB_AI_THINK_TIME":  &c.AIThinkTime,
		"BOB_MESSAGE_HOLD":   &c.MessageHold,
		"BOB_FLASH_HALF":     &c.FlashHalfCycle,
		"BOB_TONE_GAP":       &c.ToneGap,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	ints := map[string]*int{
		"BOB_BASE_DECAY":     &c.BaseDecay,
		"BOB_FLASH_COUNT":    &c.FlashCount,
		"BOB_EVENT_CAPACITY": &c.EventCapacity,
		"BOB_SEND_BUFFER":    &c.ClientSendBuffer,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("BOB_AXIS_LOWER"); ok {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("BOB_AXIS_LOWER: %w", err)
		}
		c.AxisLower = uint16(n)
	}
	if v, ok := os.LookupEnv("BOB_AXIS_UPPER"); ok {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("BOB_AXIS_UPPER: %w", err)
		}
		c.AxisUpper = uint16(n)
	}
	if v, ok := os.LookupEnv("BOB_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("BOB_SEED: %w", err)
		}
		c.Seed = n
	}
	if v, ok := os.LookupEnv("BOB_LISTEN_ADDR"); ok {
		c.ListenAddr = v
	}

	return c.Validate()
}

// Validate rejects combinations the engine cannot run with.
func (c *Config) Validate() error {
	if c.DecayInterval <= 0 {
		return fmt.Errorf("decay interval must be positive, got %s", c.DecayInterval)
	}
	if c.BaseDecay < 0 {
		return fmt.Errorf("base decay must not be negative, got %d", c.BaseDecay)
	}
	if c.AxisLower >= c.AxisUpper {
		return fmt.Errorf("axis thresholds inverted: lower %d >= upper %d", c.AxisLower, c.AxisUpper)
	}
	return nil
}
