package bridge

import (
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/cargo-subunit/flags"
	"github.com/ethereum-optimism/infra/cargo-subunit/runner"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the application configuration
type Config struct {
	CargoBinary string
	Log         log.Logger
	Stdout      io.Writer             // Sink for the subunit stream (or the list output)
	CmdBuilder  runner.CommandBuilder // Overridable in tests; nil means os/exec
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	cargoBinary := ctx.String(flags.CargoBinary.Name)
	if cargoBinary == "" {
		return nil, errors.New("cargo binary cannot be empty")
	}
	return &Config{
		CargoBinary: cargoBinary,
		Log:         log,
		Stdout:      os.Stdout,
	}, nil
}
