package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDirective(t *testing.T) {
	d, ok := SplitDirective("//ctrlgen:service Msg, returnval = ctrlgen.Local")
	require.True(t, ok)
	assert.Equal(t, "service", d.Name)
	assert.Equal(t, " Msg, returnval = ctrlgen.Local", d.Body)
	assert.Equal(t, len("//ctrlgen:service"), d.BodyOffset)

	d, ok = SplitDirective("//ctrlgen:enum_attr[x]")
	require.True(t, ok)
	assert.Equal(t, "enum_attr", d.Name)
	assert.Equal(t, "[x]", d.Body)

	_, ok = SplitDirective("// ctrlgen:service Msg")
	assert.False(t, ok)
}

func TestIsGoDirective(t *testing.T) {
	tests := map[string]bool{
		"//go:noinline":            true,
		"//ctrlgen:skip":           true,
		"//nolint:errcheck":        true,
		"// Increment adds one.":   false,
		"//Deprecated: use Add":    false,
		"/* block */":              false,
		"//line:":                  false,
	}
	for comment, want := range tests {
		assert.Equal(t, want, IsGoDirective(comment), comment)
	}
}
