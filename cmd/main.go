package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	bridge "github.com/ethereum-optimism/infra/cargo-subunit"
	"github.com/ethereum-optimism/infra/cargo-subunit/exitcodes"
	"github.com/ethereum-optimism/infra/cargo-subunit/flags"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "cargo-subunit"
	app.Usage = "Run cargo tests and stream results in subunit v2 format"
	app.Description = "cargo-subunit translates the cargo test JSON report into a subunit v2 stream on stdout. Trailing arguments are passed through to cargo test."
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// cli.Exit carries the cargo exit code we want to mirror
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if bridge.IsRuntimeError(err) {
				// Setup failures (flags, files, spawn) exit with code 2
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	ctx := ctxinterrupt.WithSignalWaiterMain(context.Background())
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logCfg := oplog.ReadCLIConfig(ctx)
	// Diagnostics go to stderr; stdout carries the binary subunit stream.
	logger := oplog.NewLogger(os.Stderr, logCfg)
	oplog.SetGlobalLogHandler(logger.Handler())

	if err := flags.CheckMode(ctx); err != nil {
		return bridge.NewRuntimeError(err)
	}

	cfg, err := bridge.NewConfig(ctx, logger)
	if err != nil {
		return bridge.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	cargoArgs := ctx.Args().Slice()

	switch {
	case ctx.Bool(flags.List.Name):
		return bridge.List(ctx.Context, cfg, cargoArgs)
	case ctx.String(flags.LoadList.Name) != "":
		code, err := bridge.RunFromFile(ctx.Context, cfg, ctx.String(flags.LoadList.Name), cargoArgs)
		return mirrorExit(code, err)
	default:
		code, err := bridge.Run(ctx.Context, cfg, nil, cargoArgs)
		return mirrorExit(code, err)
	}
}

// mirrorExit adopts the cargo test exit code as our own once the stream
// has been fully drained and flushed.
func mirrorExit(code int, err error) error {
	if err != nil {
		return err
	}
	if code != exitcodes.Success {
		return cli.Exit("", code)
	}
	return nil
}
