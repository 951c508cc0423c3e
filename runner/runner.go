// Package runner drives cargo test subprocesses and exposes their output
// as a stream of lines.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// CommandBuilder constructs the subprocess command. Injectable so tests
// can substitute a fixture binary for cargo.
type CommandBuilder func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Config configures a Runner.
type Config struct {
	CargoBinary string
	Log         log.Logger
	CmdBuilder  CommandBuilder
}

// Runner spawns cargo test with the flags required for a streaming,
// timed, machine-readable event feed.
type Runner struct {
	cargoBinary string
	log         log.Logger
	cmdBuilder  CommandBuilder
}

// NewRunner creates a Runner, filling in defaults for unset fields.
func NewRunner(cfg Config) *Runner {
	if cfg.CargoBinary == "" {
		cfg.CargoBinary = DefaultCargoBinary
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.CmdBuilder == nil {
		cfg.CmdBuilder = exec.CommandContext
	}
	return &Runner{
		cargoBinary: cfg.CargoBinary,
		log:         cfg.Log,
		cmdBuilder:  cfg.CmdBuilder,
	}
}

// RunFiltered runs cargo test restricted to the given filters (all tests
// when empty), passing cargoArgs through to cargo verbatim. Every
// non-blank stdout line is handed to consume as it arrives; the full run
// is never buffered. The subprocess's stderr is connected to the parent's
// stderr so diagnostics interleave live, independent of stdout
// processing. Returns the subprocess exit code once its output is fully
// drained, or SignalSentinelCode if it was killed by a signal.
//
// A consume error is fatal: the subprocess is killed and the error
// returned. Per-line recoverable conditions are the consumer's business.
func (r *Runner) RunFiltered(ctx context.Context, filters, cargoArgs []string, consume func(line string) error) (int, error) {
	args := buildRunArgs(filters, cargoArgs)
	cmd := r.cmdBuilder(ctx, r.cargoBinary, args...)
	cmd.Env = append(os.Environ(), BootstrapEnv)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to open cargo stdout pipe: %w", err)
	}

	r.log.Debug("Spawning cargo test", "binary", r.cargoBinary, "args", strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to spawn %s: %w", r.cargoBinary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var consumeErr error
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := consume(line); err != nil {
			consumeErr = err
			break
		}
	}
	readErr := scanner.Err()

	if consumeErr != nil || readErr != nil {
		// The stream is dead; don't leave the child writing into a
		// closed pipe.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		if consumeErr != nil {
			return 0, consumeErr
		}
		return 0, fmt.Errorf("failed to read cargo test output: %w", readErr)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				r.log.Warn("cargo test was killed by a signal", "state", exitErr.ProcessState)
				return SignalSentinelCode, nil
			}
			return code, nil
		}
		return 0, fmt.Errorf("failed to wait for cargo test: %w", err)
	}
	return 0, nil
}

// buildRunArgs assembles the cargo test argument list: pass-through args
// before the libtest separator, then the unstable JSON reporter flags,
// then the test-name filters.
func buildRunArgs(filters, cargoArgs []string) []string {
	args := []string{TestCommand}
	args = append(args, cargoArgs...)
	args = append(args, ArgSeparator, UnstableOptionsFlag, UnstableOptionsName, FormatFlag, FormatJSON, ReportTimeFlag)
	args = append(args, filters...)
	return args
}
