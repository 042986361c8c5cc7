// Command dph is a differentially-private high-confidence association
// rule extractor (spec.md §1/§2), the Go-native successor to
// original_source/dph.c. It loads a transaction log, builds a noisy
// item table, mines high-confidence rules with the exponential
// mechanism, and prints the resulting histogram and rule summary to
// stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/swarmguard/dp2d/internal/config"
	"github.com/swarmguard/dp2d/internal/logging"
	"github.com/swarmguard/dp2d/internal/orchestrator"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if !strings.Contains(err.Error(), config.Usage) {
			fmt.Fprintln(os.Stderr, config.Usage)
		}
		return 1
	}

	if cfg.JSONLog {
		os.Setenv("DP2D_JSON_LOG", "1")
	}
	logging.Init()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := orchestrator.Run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "dph:", err)
		return 1
	}
	return 0
}
