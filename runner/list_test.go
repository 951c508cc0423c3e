package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "test markers stripped",
			output: "mod::first: test\nmod::second: test\n",
			want:   []string{"mod::first", "mod::second"},
		},
		{
			name:   "bench markers stripped",
			output: "bench_parse: bench\n",
			want:   []string{"bench_parse"},
		},
		{
			name:   "blank and summary lines dropped",
			output: "a: test\n\nb: test\n\n2 tests, 0 benchmarks\n",
			want:   []string{"a", "b"},
		},
		{
			// Trimming happens before the summary-suffix match, so a
			// summary line without a benchmark count keeps its trimmed
			// form instead of being dropped.
			name:   "bare summary without benchmark count passes through",
			output: "a: test\n0 tests, \n",
			want:   []string{"a", "0 tests,"},
		},
		{
			name:   "ansi escapes removed before matching",
			output: "\x1b[32mcolored::case: test\x1b[0m\n",
			want:   []string{"colored::case"},
		},
		{
			name:   "unrecognized lines pass through",
			output: "something else entirely\n",
			want:   []string{"something else entirely"},
		},
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseListOutput(tt.output))
		})
	}
}

func TestListTests(t *testing.T) {
	script := `printf 'a: test\nb: test\nc: test\n\n3 tests, 0 benchmarks\n'`
	r := NewRunner(Config{CmdBuilder: scriptBuilder(script)})

	names, err := r.ListTests(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestListTestsFailure(t *testing.T) {
	r := NewRunner(Config{CmdBuilder: scriptBuilder(`echo 'no Cargo.toml' >&2; exit 101`)})

	_, err := r.ListTests(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Cargo.toml")
}
