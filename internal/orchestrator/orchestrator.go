// Package orchestrator wires every collaborator together for one run
// of dph (spec.md §4.7), in the two-step shape of original_source's
// dp2d(): build the noisy item table with eps_1, then spend the
// residual epsilon across k mining rounds. Grounded on
// original_source/dph.c's CLI entry point and dp2d()'s printf
// sequence, and on the teacher's services/billing-service main.go
// config-once-at-startup pattern.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/swarmguard/dp2d/internal/checkpoint"
	"github.com/swarmguard/dp2d/internal/config"
	"github.com/swarmguard/dp2d/internal/forbidden"
	"github.com/swarmguard/dp2d/internal/histogram"
	"github.com/swarmguard/dp2d/internal/itemtable"
	"github.com/swarmguard/dp2d/internal/miner"
	"github.com/swarmguard/dp2d/internal/oracle"
	"github.com/swarmguard/dp2d/internal/rng"
	"github.com/swarmguard/dp2d/internal/ruleexpand"
	"github.com/swarmguard/dp2d/internal/selector"
	"github.com/swarmguard/dp2d/internal/seenlog"
	"github.com/swarmguard/dp2d/internal/telemetry"
	"github.com/swarmguard/dp2d/internal/txn"
)

// Result summarizes one completed run for the CLI's stdout contract
// (spec.md §6).
type Result struct {
	NumItems   int
	RoundsRun  int
	RulesSaved int
	MinConf    float64
	MaxConf    float64
	Elapsed    time.Duration
}

// Run executes the full pipeline: load the transaction log, build the
// noisy item table, dispatch to the private or non-private miner, and
// report the histogram and confidence extremes.
func Run(ctx context.Context, cfg config.Config, out io.Writer) (Result, error) {
	start := time.Now()

	ds, err := txn.ReadFile(cfg.TFile)
	if err != nil {
		return Result{}, err
	}

	memOracle := oracle.New(ds)
	var o oracle.Oracle = memOracle
	if cfg.CacheDir != "" {
		cached, err := oracle.OpenCache(memOracle, cfg.CacheDir)
		if err != nil {
			return Result{}, fmt.Errorf("open itemset cache: %w", err)
		}
		defer cached.Close()
		o = cached
	}

	telem := telemetry.Init(ctx, cfg.OTel)
	defer telem.Shutdown(ctx)

	r := rng.New(cfg.Seed)

	eps1 := cfg.Eps * cfg.EpsRatio1
	fmt.Fprintf(out, "Running dp2D with eps=%v, eps_step1=%v, k=%d, c0=%.2f, lmax=%d\n",
		cfg.Eps, eps1, cfg.K, cfg.C0, cfg.Lmax)
	fmt.Fprintf(out, "Step 1: compute noisy counts for items with eps_1 = %v\n", eps1)

	entries, numits := itemtable.Build(memOracle, ds.N, eps1, config.ScaleFactor, r, cfg.Private)

	if cfg.Debug.PrintItemTable {
		fmt.Fprintln(out)
		for _, e := range entries {
			fmt.Fprintf(out, "%d %d %f\n", e.Value, e.RealCount, e.NoisyCount)
		}
	}
	slog.Info("item table built", "n", ds.N, "numits", numits)

	hist := histogram.New(histogram.DefaultBins)
	seen := seenlog.New(cfg.K * (cfg.Lmax + 1) * (1 << cfg.Lmax))

	var onRegister func()
	if telem.Instruments.RulesRegistered != nil {
		onRegister = func() { telem.Instruments.RulesRegistered.Add(ctx, 1) }
	}
	expander := ruleexpand.New(seen, o, hist, onRegister)

	epsRound := (cfg.Eps - eps1) / float64(cfg.K)
	fmt.Fprintf(out, "Step 2: mining %d steps each with eps %v\n", cfg.K, epsRound)

	roundsRun := 0
	if cfg.Private {
		roundsRun, err = runPrivate(ctx, cfg, entries, numits, epsRound, o, r, expander, telem, out)
	} else {
		roundsRun = runNonPrivate(entries, numits, cfg.Lmax, expander)
	}
	if err != nil {
		return Result{}, err
	}

	stats := expander.Stats()
	fmt.Fprintf(out, "\nRules saved: %d\n", stats.Count)
	if stats.Count > 0 {
		fmt.Fprintf(out, "min confidence: %f, max confidence: %f\n", stats.MinConf, stats.MaxConf)
	}
	hist.Dump(out, 1, "hist ")

	elapsed := time.Since(start)
	fmt.Fprintf(out, "Elapsed: %s\n", elapsed)

	return Result{
		NumItems:   numits,
		RoundsRun:  roundsRun,
		RulesSaved: stats.Count,
		MinConf:    stats.MinConf,
		MaxConf:    stats.MaxConf,
		Elapsed:    elapsed,
	}, nil
}

func runPrivate(ctx context.Context, cfg config.Config, entries []itemtable.Entry, numits int, epsRound float64,
	o oracle.Oracle, r *rng.RNG, expander *ruleexpand.Expander, telem *telemetry.Provider, out io.Writer) (int, error) {

	var cp *checkpoint.Store
	resumeFrom := forbidden.New(cfg.Lmax, cfg.K)
	completedRounds := 0
	if cfg.Checkpoint != "" {
		store, err := checkpoint.Open(cfg.Checkpoint)
		if err != nil {
			return 0, fmt.Errorf("open checkpoint: %w", err)
		}
		defer store.Close()
		cp = store

		prior, err := store.Completed()
		if err != nil {
			return 0, fmt.Errorf("read checkpoint: %w", err)
		}
		for _, round := range prior {
			resumeFrom.Add(round.Positions)
		}
		completedRounds = len(prior)
		if completedRounds > 0 {
			slog.Info("resuming from checkpoint", "completed_rounds", completedRounds)
		}
	}

	remaining := cfg.K - completedRounds
	if remaining < 0 {
		remaining = 0
	}

	var onConsider func()
	if telem.Instruments.CandidatesConsidered != nil {
		onConsider = func() { telem.Instruments.CandidatesConsidered.Add(ctx, 1) }
	}
	sel := selector.New(entries, o, cfg.C0, cfg.Quality, r, onConsider)

	span := func(round int) func() {
		_, end := telem.StartRound(ctx, round)
		return end
	}

	var trace miner.RoundTrace
	if cfg.Debug.Trace || cfg.Debug.PrintFinal || cp != nil || telem.Instruments.RoundsCompleted != nil {
		trace = func(round int, eps float64, positions, values []int, minV float64) {
			if cfg.Debug.Trace {
				fmt.Fprintf(out, "round %d: eps=%v itemset=%v v=%f\n", round, eps, values, minV)
			}
			if cfg.Debug.PrintFinal {
				fmt.Fprintf(out, "chosen: %v\n", values)
			}
			if telem.Instruments.RoundsCompleted != nil {
				telem.Instruments.RoundsCompleted.Add(ctx, 1)
				telem.Instruments.EpsilonConsumed.Add(ctx, eps)
			}
			if cp != nil {
				if err := cp.Put(checkpoint.Round{Round: round, Positions: positions, Values: values, MinV: minV}); err != nil {
					slog.Warn("checkpoint write failed", "round", round, "error", err)
				}
			}
		}
	}

	m := miner.NewPrivate(numits, cfg.Lmax, remaining, epsRound, resumeFrom, sel, expander, trace, span, completedRounds)
	return completedRounds + m.Run(), nil
}

func runNonPrivate(entries []itemtable.Entry, numits, lmax int, expander *ruleexpand.Expander) int {
	values := make([]int, numits)
	for i := 0; i < numits; i++ {
		values[i] = entries[i].Value
	}
	m := miner.NewNonPrivate(values, lmax, expander)
	return m.Run()
}
