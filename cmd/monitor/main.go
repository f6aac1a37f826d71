// cmd/monitor/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/config"
	"github.com/tamzrod/iot-monitor/internal/fault"
	"github.com/tamzrod/iot-monitor/internal/logging"
	"github.com/tamzrod/iot-monitor/internal/supervisor"
)

const (
	exitConfig = 1
	exitStall  = 2
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: monitor [config.yaml|config.toml]")
		os.Exit(exitConfig)
	}

	cfgPath := ""
	if len(os.Args) == 2 {
		cfgPath = os.Args[1]
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(exitConfig)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(exitConfig)
	}
	config.Normalize(cfg)

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup failed: %v\n", err)
		os.Exit(exitConfig)
	}

	// --------------------
	// Build loop + drivers
	// --------------------

	clk := clock.NewMonotonic()

	loop, closeAll, err := supervisor.Build(cfg, clk, log)
	if err != nil {
		log.Error("build failed", "err", err)
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hardware-style guard: if the loop hangs inside a tick, nothing else
	// will notice. Exit so the service manager restarts the device.
	go loop.Watchdog().Watch(ctx, clk, time.Second, func(err error) {
		log.Error("watchdog reset", "err", err)
		os.Exit(exitStall)
	})

	// --------------------
	// Run until signal or fatal fault
	// --------------------

	runErr := loop.Run(ctx)

	if err := closeAll(); err != nil {
		log.Warn("driver close failed", "err", err)
	}

	if runErr != nil {
		if errors.Is(runErr, fault.WatchdogStall) {
			log.Error("watchdog reset", "err", runErr)
			os.Exit(exitStall)
		}
		log.Error("supervisor failed", "err", runErr)
		os.Exit(exitConfig)
	}

	log.Info("shutdown complete")
}
