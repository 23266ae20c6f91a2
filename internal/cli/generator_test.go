package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/generator"
	"github.com/toyz/ctrlgen/internal/utils"
)

const counterSource = `package counter

//ctrlgen:service CounterMsg, returnval = ctrlgen.Local, proxy(trait CounterProxy)
type Counter struct{ n int }

// Add increments the counter.
func (c *Counter) Add(by int) { c.n += by }

// Get returns the current value.
func (c *Counter) Get() int { return c.n }
`

const flagsSource = `package flags

//ctrlgen:service Msg
type Service struct{ flag bool }

func (s *Service) SetFlag(flag bool) { s.flag = flag }
`

func newTestModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"go.mod": "module example.com/demo\n\ngo 1.25\n"})
	writeTree(t, root, files)
	return root
}

func silent() *utils.DiagnosticSystem {
	return utils.NewDiagnosticSystem(utils.DiagnosticSilent)
}

func TestGenerator_Run(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"counter/counter.go": counterSource,
		"flags/flags.go":     flagsSource,
		"plain/plain.go":     "package plain\n\ntype Plain struct{}\n",
	})

	g := NewGenerator(Config{Directories: []string{root + "/..."}}, silent())
	require.NoError(t, g.Run(context.Background()))

	counterOut := filepath.Join(root, "counter", "counter_ctrlgen.go")
	content, err := os.ReadFile(counterOut)
	require.NoError(t, err)
	assert.True(t, generator.HasHeader(content))
	assert.Contains(t, string(content), "type CounterMsg interface {")
	assert.Contains(t, string(content), "func NewCounterProxy(")

	flagsOut := filepath.Join(root, "flags", "flags_ctrlgen.go")
	assert.FileExists(t, flagsOut)
	assert.NoFileExists(t, filepath.Join(root, "plain", "plain_ctrlgen.go"))

	summary := g.GetSummary()
	assert.Equal(t, 3, summary.PackagesProcessed)
	assert.Equal(t, 2, summary.ServicesFound)
	assert.Equal(t, 3, summary.MethodsFound)
	assert.Equal(t, []string{counterOut, flagsOut}, summary.GeneratedFiles)
}

func TestGenerator_Options(t *testing.T) {
	root := newTestModule(t, map[string]string{"flags/flags.go": flagsSource})

	g := NewGenerator(Config{
		Directories: []string{filepath.Join(root, "flags")},
		Suffix:      ".gen.go",
		Header:      []string{"Regenerate with go generate."},
		Concurrency: 1,
	}, silent())
	require.NoError(t, g.Run(context.Background()))

	content, err := os.ReadFile(filepath.Join(root, "flags", "flags.gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "// Regenerate with go generate.\n")
	assert.NoFileExists(t, filepath.Join(root, "flags", "flags_ctrlgen.go"))
}

func TestGenerator_DryRun(t *testing.T) {
	root := newTestModule(t, map[string]string{"flags/flags.go": flagsSource})

	var out bytes.Buffer
	g := NewGenerator(Config{Directories: []string{root + "/..."}, DryRun: true}, silent())
	g.SetOutput(&out)
	require.NoError(t, g.Run(context.Background()))

	assert.Contains(t, out.String(), "// ==> "+filepath.Join(root, "flags", "flags_ctrlgen.go"))
	assert.Contains(t, out.String(), "func (m MsgSetFlag) CallMut(s *Service) error {")
	assert.NoFileExists(t, filepath.Join(root, "flags", "flags_ctrlgen.go"))
}

func TestGenerator_RemovesStaleOutput(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"flags/flags.go":         flagsSource,
		"flags/old.go":           "package flags\n",
		"flags/old_ctrlgen.go":   generator.Header + "\n\npackage flags\n\ntype OldMsg interface{}\n",
		"flags/other_ctrlgen.go": "package flags\n\n// not ours\n",
	})

	g := NewGenerator(Config{Directories: []string{filepath.Join(root, "flags")}}, silent())
	require.NoError(t, g.Run(context.Background()))

	assert.FileExists(t, filepath.Join(root, "flags", "flags_ctrlgen.go"))
	assert.NoFileExists(t, filepath.Join(root, "flags", "old_ctrlgen.go"))
	assert.FileExists(t, filepath.Join(root, "flags", "other_ctrlgen.go"))
}

func TestGenerator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		code    errors.ErrorCode
		message string
	}{
		{
			name: "result without returnval",
			files: map[string]string{"svc/svc.go": `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Get() int { return 0 }
`},
			code:    errors.ValidationErrorCode,
			message: "svc.go:6",
		},
		{
			name:    "syntax error",
			files:   map[string]string{"svc/svc.go": "package svc\n\nfunc {\n"},
			code:    errors.SyntaxErrorCode,
			message: "failed to parse svc.go",
		},
		{
			name:    "no packages",
			files:   map[string]string{"docs/README.md": "# docs\n"},
			code:    errors.ValidationErrorCode,
			message: "no Go packages found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newTestModule(t, tt.files)
			g := NewGenerator(Config{Directories: []string{root + "/..."}}, silent())

			err := g.Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.message)
			assert.NoFileExists(t, filepath.Join(root, "svc", "svc_ctrlgen.go"))
		})
	}
}

func TestGenerator_IgnoredPackage(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"tools/gen.go": "//go:build ignore\n\npackage main\n",
	})
	g := NewGenerator(Config{Directories: []string{root + "/..."}}, silent())
	require.NoError(t, g.Run(context.Background()))
	assert.Empty(t, g.GetSummary().GeneratedFiles)
}

func TestGenerator_RuntimePackage(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"rt/rt.go": `package rt

//ctrlgen:service Msg, returnval = Local
type Svc struct{}

func (s *Svc) Get() int { return 0 }
`,
	})
	g := NewGenerator(Config{
		Directories: []string{filepath.Join(root, "rt")},
		Runtime:     "example.com/demo/rt",
	}, silent())
	require.NoError(t, g.Run(context.Background()))

	content, err := os.ReadFile(filepath.Join(root, "rt", "rt_ctrlgen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "return Send(m.Ret, s.Get())")
	assert.NotContains(t, string(content), "import")
}

func TestGenerator_ExamplesUpToDate(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "counter", file: "counter_ctrlgen.go"},
		{name: "flags", file: "flags_ctrlgen.go"},
		{name: "jobs", file: "jobs_ctrlgen.go"},
		{name: "cache", file: "cache_ctrlgen.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join("..", "..", "examples", tt.name)
			want, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)

			var out bytes.Buffer
			g := NewGenerator(Config{Directories: []string{dir}, DryRun: true}, silent())
			g.SetOutput(&out)
			require.NoError(t, g.ProcessPackage(dir))

			header, got, ok := strings.Cut(out.String(), "\n")
			require.True(t, ok, "no dry-run output")
			assert.Equal(t, "// ==> "+filepath.Join(dir, tt.file), header)
			assert.Equal(t, string(want), strings.TrimSuffix(got, "\n"), "%s is stale; rerun ctrlgen", tt.file)
		})
	}
}
