package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpperCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"increment", "Increment"},
		{"incrementBy", "IncrementBy"},
		{"increment_by", "IncrementBy"},
		{"SetFlag", "SetFlag"},
		{"userID", "UserID"},
		{"_private", "Private"},
		{"a__b", "AB"},
		{"ünicode", "Ünicode"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, UpperCamel(tt.input))
		})
	}
}

func TestFirstRune(t *testing.T) {
	assert.Equal(t, "serviceProxy", LowerFirst("ServiceProxy"))
	assert.Equal(t, "ServiceProxy", UpperFirst("serviceProxy"))
	assert.Equal(t, "", LowerFirst(""))
	assert.True(t, IsExported("Proxy"))
	assert.False(t, IsExported("proxy"))
}

func TestNameSet_Fresh(t *testing.T) {
	names := NewNameSet("tx", "rx", "rx1")

	assert.Equal(t, "tx1", names.Fresh("tx"))
	assert.Equal(t, "tx2", names.Fresh("tx"))
	assert.Equal(t, "rx2", names.Fresh("rx"))
	assert.Equal(t, "err", names.Fresh("err"))
	assert.Equal(t, "err1", names.Fresh("err"))
	assert.Equal(t, "type1", names.Fresh("type"))
}
