// Package bridge wires the cargo test driver, the event parser and the
// subunit encoder into one streaming pipeline: cargo stdout lines in,
// subunit v2 packets out, cargo's exit code through.
package bridge

import (
	"bufio"
	"context"
	"fmt"

	"github.com/ethereum-optimism/infra/cargo-subunit/parser"
	"github.com/ethereum-optimism/infra/cargo-subunit/runner"
	"github.com/ethereum-optimism/infra/cargo-subunit/subunit"
	"github.com/ethereum-optimism/infra/cargo-subunit/testlist"
)

// Run executes cargo test restricted to filters (all tests when empty)
// and streams subunit v2 packets to cfg.Stdout as events arrive. It
// returns the subprocess exit code.
//
// A line that fails to parse is logged with its content and skipped; one
// bad line must never abort the run. A failed packet write is fatal:
// everything encoded so far has already been flushed, and the subprocess
// is torn down.
func Run(ctx context.Context, cfg *Config, filters, cargoArgs []string) (int, error) {
	r := runner.NewRunner(runner.Config{
		CargoBinary: cfg.CargoBinary,
		Log:         cfg.Log,
		CmdBuilder:  cfg.CmdBuilder,
	})

	out := bufio.NewWriter(cfg.Stdout)
	writer := subunit.NewStreamWriter(out)

	return r.RunFiltered(ctx, filters, cargoArgs, func(line string) error {
		event, err := parser.Parse(line)
		if err != nil {
			cfg.Log.Warn("Failed to parse test event", "err", err, "line", line)
			return nil
		}
		if event == nil {
			// Suite record or unknown event kind.
			return nil
		}
		return writer.WriteEvent(event)
	})
}

// RunFromFile reads a test list file and runs only the tests it names.
// A missing, unreadable or empty file is fatal before any subprocess is
// spawned.
func RunFromFile(ctx context.Context, cfg *Config, listPath string, cargoArgs []string) (int, error) {
	filters, err := testlist.Load(listPath)
	if err != nil {
		return 0, NewRuntimeError(err)
	}
	cfg.Log.Debug("Loaded test list", "file", listPath, "tests", len(filters))
	return Run(ctx, cfg, filters, cargoArgs)
}

// List prints the available test identifiers to cfg.Stdout, one per
// line, in the order cargo reports them.
func List(ctx context.Context, cfg *Config, cargoArgs []string) error {
	r := runner.NewRunner(runner.Config{
		CargoBinary: cfg.CargoBinary,
		Log:         cfg.Log,
		CmdBuilder:  cfg.CmdBuilder,
	})

	names, err := r.ListTests(ctx, cargoArgs)
	if err != nil {
		return NewRuntimeError(err)
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cfg.Stdout, name); err != nil {
			return fmt.Errorf("failed to write test list: %w", err)
		}
	}
	return nil
}
