// Package config builds and validates the single Config value the
// orchestrator is driven by. Global mutable CLI state from the original
// C program (spec.md §9) is replaced by this explicit, immutable-once-built
// struct, constructed exactly once by cmd/dph.
package config

import (
	"flag"
	"fmt"
	"math"
	"strconv"
)

// QualityVariant selects between the two exponential-mechanism quality
// functions described in spec.md §4.3/§9.
type QualityVariant int

const (
	// QualitySymmetric scores -|raw|, maximized (0) exactly at the target confidence c0.
	QualitySymmetric QualityVariant = iota
	// QualityAsymmetric scores min(raw, 0), 0 whenever confidence already meets or exceeds c0.
	QualityAsymmetric
)

func (v QualityVariant) String() string {
	if v == QualityAsymmetric {
		return "asymmetric"
	}
	return "symmetric"
}

func parseQualityVariant(s string) (QualityVariant, error) {
	switch s {
	case "", "symmetric":
		return QualitySymmetric, nil
	case "asymmetric":
		return QualityAsymmetric, nil
	default:
		return 0, fmt.Errorf("quality must be symmetric or asymmetric, got %q", s)
	}
}

// ScaleFactor is the fixed threshold constant from spec.md §3: ln(10),
// giving the documented 90%-of-noise screening guarantee.
const ScaleFactor = math.Ln10

// Debug groups the compile-time debug toggles the original source
// carried (spec.md §9) as ordinary runtime booleans.
type Debug struct {
	PrintItemTable bool
	Trace          bool
	PrintFinal     bool
}

// Config is the complete, validated set of parameters for one run.
type Config struct {
	TFile     string
	Eps       float64
	EpsRatio1 float64
	C0        float64
	Lmax      int
	K         int
	Seed      int64

	Private    bool
	Quality    QualityVariant
	CacheDir   string
	Checkpoint string
	OTel       bool
	JSONLog    bool

	Debug Debug
}

// ConfigError reports a bad CLI argument or out-of-range parameter
// (spec.md §7). The orchestrator never starts if this is returned.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// Usage is printed by the caller alongside a ConfigError.
const Usage = "Usage: dph [flags] TFILE EPS EPS_SHARE C0 LMAX K [SEED]"

// Parse builds a Config from flag-parsed args, the authoritative
// positional form of spec.md §6 plus the flag-based additions of
// SPEC_FULL.md's CLI surface.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("dph", flag.ContinueOnError)
	private := fs.Bool("private", true, "run the differentially-private miner (false runs the exhaustive baseline)")
	trace := fs.Bool("trace", false, "print a per-round candidate trace")
	printItemTable := fs.Bool("print-item-table", true, "print the sorted item table")
	printFinal := fs.Bool("print-final", false, "print the chosen itemset of every round")
	quality := fs.String("quality", "symmetric", "quality function: symmetric|asymmetric")
	cacheDir := fs.String("cache", "", "optional Badger-backed itemset-count cache directory")
	checkpoint := fs.String("checkpoint", "", "optional bbolt checkpoint file for round-level resume")
	otelFlag := fs.Bool("otel", false, "enable OpenTelemetry tracer/meter")
	jsonLog := fs.Bool("json-log", false, "emit JSON structured logs instead of text")

	if err := fs.Parse(args); err != nil {
		return Config{}, &ConfigError{Msg: err.Error()}
	}

	pos := fs.Args()
	if len(pos) != 6 && len(pos) != 7 {
		return Config{}, configErrorf("expected 6 or 7 positional arguments, got %d\n%s", len(pos), Usage)
	}

	variant, err := parseQualityVariant(*quality)
	if err != nil {
		return Config{}, &ConfigError{Msg: err.Error()}
	}

	eps, err := strconv.ParseFloat(pos[1], 64)
	if err != nil || eps <= 0 {
		return Config{}, configErrorf("EPS must be a positive number, got %q", pos[1])
	}
	epsShare, err := strconv.ParseFloat(pos[2], 64)
	if err != nil || epsShare < 0 || epsShare >= 1 {
		return Config{}, configErrorf("EPS_SHARE must be in [0,1), got %q", pos[2])
	}
	c0, err := strconv.ParseFloat(pos[3], 64)
	if err != nil || c0 <= 0 || c0 > 1 {
		return Config{}, configErrorf("C0 must be in (0,1], got %q", pos[3])
	}
	lmax, err := strconv.Atoi(pos[4])
	if err != nil || lmax < 2 || lmax > 7 {
		return Config{}, configErrorf("LMAX must be an integer in [2,7], got %q", pos[4])
	}
	k, err := strconv.Atoi(pos[5])
	if err != nil || k < 1 {
		return Config{}, configErrorf("K must be a positive integer, got %q", pos[5])
	}
	seed := int64(42)
	if len(pos) == 7 {
		s, err := strconv.ParseInt(pos[6], 10, 64)
		if err != nil {
			return Config{}, configErrorf("SEED must be an integer, got %q", pos[6])
		}
		seed = s
	}

	return Config{
		TFile:      pos[0],
		Eps:        eps,
		EpsRatio1:  epsShare,
		C0:         c0,
		Lmax:       lmax,
		K:          k,
		Seed:       seed,
		Private:    *private,
		Quality:    variant,
		CacheDir:   *cacheDir,
		Checkpoint: *checkpoint,
		OTel:       *otelFlag,
		JSONLog:    *jsonLog,
		Debug: Debug{
			PrintItemTable: *printItemTable,
			Trace:          *trace,
			PrintFinal:     *printFinal,
		},
	}, nil
}
