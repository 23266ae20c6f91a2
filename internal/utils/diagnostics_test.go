package utils

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/ctrlgen/internal/errors"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	d.SetColors(false)
	d.showTime = false
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     DiagnosticLevel
		wantInfo  bool
		wantError bool
	}{
		{"silent", DiagnosticSilent, false, false},
		{"quiet", DiagnosticError, false, true},
		{"info", DiagnosticInfo, true, true},
		{"verbose", DiagnosticVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, out, errOut := newTestDiagnostics(tt.level)
			d.Info("found %d packages", 2)
			d.Error("boom")

			assert.Equal(t, tt.wantInfo, out.String() == "[INFO] found 2 packages\n")
			assert.Equal(t, tt.wantError, errOut.String() == "[ERROR] boom\n")
		})
	}
}

func TestDiagnosticSystem_Progress(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.StartProgress("Scanning")
	d.EndProgress(true, "3 packages")
	d.StartProgress("Writing")
	d.EndProgress(false, "")

	assert.Equal(t, "✓ Scanning (3 packages)\n✗ Writing\n", out.String())
}

func TestDiagnosticSystem_Summary(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Summary("Done", map[string]interface{}{"Services": 2, "Files": 1})

	assert.Equal(t, "\nDone\n   Files: 1\n   Services: 2\n\n", out.String())
}

func TestDiagnosticSystem_ListIndent(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Indent()
	d.List("pkg/%s", "a")
	d.Unindent()
	d.Unindent()
	d.List("b")

	assert.Equal(t, "  - pkg/a\n- b\n", out.String())
}

func TestDiagnosticSystem_ReportError(t *testing.T) {
	d, _, errOut := newTestDiagnostics(DiagnosticError)

	loc := errors.SourceLocation{File: "svc.go", Line: 4, Column: 2}
	first := errors.Validationf(loc, "bad receiver").WithSuggestion("use *Service")
	second := stderrors.New("plain failure")

	d.ReportError(stderrors.Join(first, second))

	assert.Equal(t,
		"error: svc.go:4:2: bad receiver\n  hint: use *Service\nerror: plain failure\n",
		errOut.String())
}
