package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ctrlgen/internal/errors"
)

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    FileConfig
		wantErr string
	}{
		{
			name: "all keys",
			content: `runtime: example.com/rt
suffix: .gen.go
header:
  - Regenerate with go generate.
concurrency: 4
exclude:
  - testdata
  - ./internal/legacy
`,
			want: FileConfig{
				Runtime:     "example.com/rt",
				Suffix:      ".gen.go",
				Header:      []string{"Regenerate with go generate."},
				Concurrency: 4,
				Exclude:     []string{"testdata", "./internal/legacy"},
			},
		},
		{
			name:    "empty file",
			content: "",
		},
		{
			name:    "unknown key",
			content: "runtim: example.com/rt\n",
			wantErr: "failed to parse configuration 'ctrlgen.yaml'",
		},
		{
			name:    "negative concurrency",
			content: "concurrency: -1\n",
			wantErr: "concurrency must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, map[string]string{ConfigFileName: tt.content})

			fc, err := LoadConfigFile(filepath.Join(dir, ConfigFileName))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fc)
		})
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), ConfigFileName))
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	writeTree(t, dir, map[string]string{ConfigFileName: "suffix: .gen.go\n"})
	assert.Equal(t, filepath.Join(dir, ConfigFileName), FindConfigFile(dir))
}

func TestConfig_Merge(t *testing.T) {
	fc := FileConfig{
		Runtime:     "example.com/rt",
		Suffix:      ".gen.go",
		Header:      []string{"from file"},
		Concurrency: 2,
		Exclude:     []string{"legacy"},
	}

	cfg := Config{Suffix: "_msg.go", Exclude: []string{"testdata"}}
	cfg.Merge(fc)

	assert.Equal(t, "example.com/rt", cfg.Runtime)
	assert.Equal(t, "_msg.go", cfg.Suffix, "flags win over the file")
	assert.Equal(t, []string{"from file"}, cfg.Header)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"testdata", "legacy"}, cfg.Exclude)
}
