package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/cargo-subunit/runner"
	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "CARGO_SUBUNIT"

var (
	List = &cli.BoolFlag{
		Name:    "list",
		Usage:   "List all available tests without running them",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LIST"),
	}
	LoadList = &cli.StringFlag{
		Name:    "load-list",
		Usage:   "Load test names from a file (one per line) and run only those tests",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOAD_LIST"),
	}
	CargoBinary = &cli.StringFlag{
		Name:    "cargo-binary",
		Value:   runner.DefaultCargoBinary,
		Usage:   "Path to the cargo binary to use for running tests",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CARGO_BINARY"),
	}
)

var modeFlags = []cli.Flag{
	List,
	LoadList,
}

var optionalFlags = []cli.Flag{
	CargoBinary,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(modeFlags, optionalFlags...)
}

// CheckMode rejects combined run modes; --list and --load-list are
// mutually exclusive.
func CheckMode(ctx *cli.Context) error {
	if ctx.Bool(List.Name) && ctx.String(LoadList.Name) != "" {
		return fmt.Errorf("--%s and --%s are mutually exclusive", List.Name, LoadList.Name)
	}
	return nil
}
