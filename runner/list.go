package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/acarl005/stripansi"
)

// ListTests runs cargo test in terse list mode and returns the test
// identifiers in their original order. Unlike RunFiltered this runs
// synchronously and captures the full output; list output is tiny.
func (r *Runner) ListTests(ctx context.Context, cargoArgs []string) ([]string, error) {
	args := []string{TestCommand}
	args = append(args, cargoArgs...)
	args = append(args, ArgSeparator, ListFlag, FormatFlag, FormatTerse)

	cmd := r.cmdBuilder(ctx, r.cargoBinary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("Listing tests", "binary", r.cargoBinary, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("cargo test --list failed: %w: %s", err, stderr.String())
	}

	return parseListOutput(stdout.String()), nil
}

// parseListOutput reduces terse list output to bare test identifiers:
// blank lines, the trailing summary line and benchmark-count lines are
// dropped, and the ": test" / ": bench" markers are stripped. Lines that
// match none of the known shapes pass through unchanged.
func parseListOutput(output string) []string {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(stripansi.Strip(scanner.Text()))
		if line == "" || strings.HasSuffix(line, " tests, ") || strings.Contains(line, " benchmarks") {
			continue
		}
		if name, ok := strings.CutSuffix(line, testSuffix); ok {
			names = append(names, name)
		} else if name, ok := strings.CutSuffix(line, benchSuffix); ok {
			names = append(names, name)
		} else {
			names = append(names, line)
		}
	}
	return names
}
