package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kat-daemon/katd/internal/config"
	"github.com/kat-daemon/katd/internal/engine"
	"github.com/kat-daemon/katd/internal/input"
	"github.com/kat-daemon/katd/internal/logger"
	"github.com/kat-daemon/katd/internal/pointer"
	"github.com/kat-daemon/katd/internal/router"
	"github.com/kat-daemon/katd/internal/state"
	"github.com/kat-daemon/katd/internal/ui"
)

var (
	// Version is set during build.
	Version = "0.1.0-dev"

	rootCmd = &cobra.Command{
		Use:   "katd",
		Short: "katd - keyboard-driven mouse control daemon",
		Long: `katd grabs your physical keyboards and lets a double-tap of Ctrl toggle
"mouse mode", where the numpad drives the pointer, scroll wheel, clicks and
drags without ever touching a mouse. No flags, no subcommands: run it once
per session.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.AddCommand(versionCmd)
}

// runDaemon wires every component together and blocks until SIGINT/SIGTERM
// (spec §5 shutdown). Mirrors the teacher's cmd/server.go: a privilege/
// device-availability check before the main loop, signal.NotifyContext for
// orderly cancellation, and a defer chain that releases every owned
// resource in reverse acquisition order.
func runDaemon(ctx context.Context) error {
	if err := checkDeviceAccess(); err != nil {
		exitError("%v", err)
	}

	keyboards, err := input.DiscoverKeyboards()
	if err != nil {
		return fmt.Errorf("device discovery: %w", err)
	}
	defer input.ReleaseAll(keyboards)

	sinks, err := input.NewSinks()
	if err != nil {
		return fmt.Errorf("virtual sinks: %w", err)
	}
	defer sinks.Close()

	backend, err := pointer.NewX11Backend()
	if err != nil {
		return fmt.Errorf("pointer backend: %w", err)
	}
	defer backend.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	st := state.New()
	worker := ui.NewWorker()
	rt := router.New(st, cfg, sinks, backend, worker)
	eng := engine.New(st, cfg, backend, sinks)
	source := input.NewSource(keyboards)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go eng.Run(ctx)
	go source.Run(ctx)
	go func() {
		if err := worker.Run(ctx); err != nil {
			logger.Debugf("ui worker exited: %v", err)
		}
	}()

	logger.Infof("katd ready: %d keyboard(s) grabbed", len(keyboards))

	for {
		select {
		case ev, ok := <-source.Events():
			if !ok {
				return nil
			}
			rt.HandleEvent(ev)
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		}
	}
}

// checkDeviceAccess verifies /dev/uinput and at least one /dev/input/event*
// node are reachable before grabbing anything, so a permission problem
// fails fast with a diagnostic instead of mid-discovery (spec §7
// Fatal-at-startup; teacher precedent: cmd/server.go's root-privilege
// early return).
func checkDeviceAccess() error {
	if _, err := os.Stat("/dev/uinput"); err != nil {
		return fmt.Errorf("/dev/uinput not accessible (load the uinput module / check permissions): %w", err)
	}
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return fmt.Errorf("failed to scan /dev/input: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no /dev/input/event* devices found")
	}
	return nil
}

// Exit with error message.
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
