// ============================================================================
// executorctl CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: Provides a user-friendly command line interface, based on the
// Cobra framework, for running the executor core as a standalone process.
//
// Command Structure:
//   executorctl                    # Root command
//   ├── run                        # Start the executor and block until signaled
//   │   └── --config, -c          # Specify config file
//   ├── demo                       # Run a short scripted demonstration
//   │   └── --config, -c          # Specify config file
//   ├── status                     # Show the resolved configuration
//   ├── --version                  # Display version information
//   └── --help                     # Display help information
//
// Configuration Management:
//   Uses a YAML config file (default: configs/default.yaml). Configuration
//   items include:
//   - executor: default pool size and timer helper pool size
//   - metrics:  Prometheus monitoring configuration
//
// run Command:
//   Starts the process-wide executor singleton, starts the metrics HTTP
//   server if enabled, listens for SIGINT/SIGTERM, and shuts down gracefully.
//
//   Examples:
//     ./executorctl run
//     ./executorctl run -c custom-config.yaml
//
// demo Command:
//   Creates one runner and exercises post, post-delayed, and
//   post-repeated against it, printing each fire as it happens, then
//   shuts down. Useful for a quick sanity check of a config file.
//
//   Examples:
//     ./executorctl demo
//
// status Command:
//   Display the resolved configuration without starting anything:
//   - Config file path
//   - Pool sizing
//   - Metrics status
//
// Signal Handling:
//   run captures SIGINT (Ctrl+C) and SIGTERM and shuts down gracefully:
//   1. Stop accepting new runners (the singleton simply never grows further)
//   2. Stop the timer and every runner pool
//   3. Shut down the metrics server, if it was started
//
// ============================================================================

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChuLiYu/executorcore/internal/executor"
	"github.com/ChuLiYu/executorcore/internal/metrics"
	"github.com/spf13/cobra"
)

var log = slog.Default()

var configFile string

// Version is the executorctl release version, set at the package level so
// a future build step can overwrite it via -ldflags.
var Version = "0.1.0"

// BuildCLI assembles the executorctl root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "executorctl",
		Short:   "executorctl runs and inspects the executor core",
		Long:    "executorctl drives the worker-pool and timer executor core as a standalone process: run it, demo it, or inspect its resolved configuration.",
		Version: Version,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/default.yaml", "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildDemoCommand())
	rootCmd.AddCommand(buildStatusCommand())

	return rootCmd
}

func loadConfigOrDefault() executor.Config {
	cfg, err := executor.LoadConfig(configFile)
	if err != nil {
		log.Warn("executorctl: using default config", "path", configFile, "error", err)
		return executor.DefaultConfig()
	}
	return cfg
}

func buildRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the executor and block until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecutor()
		},
	}
}

func runExecutor() error {
	cfg := loadConfigOrDefault()
	executor.Configure(cfg)
	ctx := executor.Instance()

	log.Info("executorctl: executor started",
		"config", configFile,
		"metrics_enabled", cfg.Metrics.Enabled)

	var metricsSrv interface{ Shutdown(context.Context) error }
	if cfg.Metrics.Enabled {
		addr := cfg.Metrics.Addr
		if addr == "" {
			addr = ":9090"
		}
		srv := metrics.StartServer(addr, ctx.Collector())
		metricsSrv = srv
		log.Info("executorctl: metrics server listening", "addr", addr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("executorctl: received shutdown signal, stopping gracefully")
	ctx.Shutdown()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("executorctl: metrics server shutdown error", "error", err)
		}
	}

	log.Info("executorctl: stopped")
	return nil
}

func buildDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a short scripted demonstration of post, post-delayed, and post-repeated",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	cfg := loadConfigOrDefault()
	executor.Configure(cfg)
	ctx := executor.Instance()
	exec := ctx.Executor()
	defer ctx.Shutdown()

	tag := exec.CreateRunner()
	fmt.Printf("created runner %d\n", tag)

	if err := exec.Post(tag, func() {
		fmt.Println("immediate: hello from executorctl demo")
	}); err != nil {
		return fmt.Errorf("executorctl: demo post failed: %w", err)
	}

	if err := exec.PostDelayed(tag, func() {
		fmt.Println("delayed: fired after 200ms")
	}, 200*time.Millisecond); err != nil {
		return fmt.Errorf("executorctl: demo post-delayed failed: %w", err)
	}

	done := make(chan struct{})
	var count int
	id, err := exec.PostRepeated(tag, func() {
		count++
		fmt.Printf("repeated: fire %d/3\n", count)
		if count == 3 {
			close(done)
		}
	}, 100*time.Millisecond, 3)
	if err != nil {
		return fmt.Errorf("executorctl: demo post-repeated failed: %w", err)
	}
	defer exec.CancelRepeated(id)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		fmt.Println("demo: repeated schedule did not complete in time")
	}

	time.Sleep(300 * time.Millisecond)
	return nil
}

func buildStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus()
		},
	}
}

func showStatus() error {
	cfg := loadConfigOrDefault()

	fmt.Println("\n╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║              executorctl Resolved Configuration            ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Println("📋 Configuration:")
	fmt.Printf("  └─ Config File:        %s\n", configFile)
	fmt.Println()

	fmt.Println("⚙️  Executor:")
	poolSize := cfg.Executor.DefaultPoolSize
	if poolSize <= 0 {
		poolSize = executor.DefaultPoolSize()
	}
	timerPoolSize := cfg.Executor.TimerPoolSize
	if timerPoolSize <= 0 {
		timerPoolSize = 2
	}
	fmt.Printf("  ├─ Default Pool Size:  %d\n", poolSize)
	fmt.Printf("  └─ Timer Pool Size:    %d\n", timerPoolSize)
	fmt.Println()

	fmt.Println("📡 Metrics:")
	if cfg.Metrics.Enabled {
		addr := cfg.Metrics.Addr
		if addr == "" {
			addr = ":9090"
		}
		fmt.Printf("  └─ Status: ✅ Enabled on http://localhost%s/metrics\n", addr)
	} else {
		fmt.Println("  └─ Status: ⚠️  Disabled")
	}
	fmt.Println()

	fmt.Println("═══════════════════════════════════════════════════════════")
	return nil
}
