// Package testlist reads test-name filter files for --load-list mode.
package testlist

import (
	"fmt"
	"os"
	"strings"
)

// Load reads a UTF-8 text file containing one test identifier per line.
// Blank lines are ignored and surrounding whitespace is trimmed. An
// unreadable file or an empty resulting list is an error: running zero
// tests from an explicit list is never what the caller wanted.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test list file %s: %w", path, err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no test names found in file: %s", path)
	}
	return names, nil
}
