package testlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeListFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tests.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "one name per line",
			content: "mod::first\nmod::second\n",
			want:    []string{"mod::first", "mod::second"},
		},
		{
			name:    "blank lines ignored",
			content: "\nmod::case\n\n",
			want:    []string{"mod::case"},
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  mod::padded  \n\tmod::tabbed\n",
			want:    []string{"mod::padded", "mod::tabbed"},
		},
		{
			name:    "no trailing newline",
			content: "mod::last",
			want:    []string{"mod::last"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := Load(writeListFile(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestLoadEmptyFileIsFatal(t *testing.T) {
	for _, content := range []string{"", "\n\n", "   \n\t\n"} {
		_, err := Load(writeListFile(t, content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no test names found")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read test list file")
}
