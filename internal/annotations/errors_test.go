package annotations

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
)

func TestSyntaxError(t *testing.T) {
	loc := models.SourceLocation{File: "svc.go", Line: 7, Column: 18}

	t.Run("participle errors are located by offset", func(t *testing.T) {
		_, err := defaultParser.service.ParseString("", " Msg returnval")
		e := syntaxError(err, loc, "hint")

		assert.Equal(t, errors.SyntaxErrorCode, e.Code)
		assert.Equal(t, 7, e.Loc.Line)
		assert.Equal(t, 18+len(" Msg "), e.Loc.Column)
		assert.Equal(t, []string{"hint"}, e.Hints)
	})

	t.Run("other errors keep the directive location", func(t *testing.T) {
		e := syntaxError(fmt.Errorf("boom"), loc, "")
		assert.Equal(t, loc, e.Loc)
		assert.Equal(t, "boom", e.Message)
		assert.Empty(t, e.Hints)
	})
}
