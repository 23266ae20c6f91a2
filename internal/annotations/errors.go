package annotations

import (
	stderrors "errors"

	"github.com/alecthomas/participle/v2"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
)

// syntaxError converts a participle or lexer error into a located
// BaseError. Positions are offsets into the directive text starting at loc.
func syntaxError(err error, loc models.SourceLocation, hint string) *errors.BaseError {
	at := loc
	msg := err.Error()

	var perr participle.Error
	if stderrors.As(err, &perr) {
		at = loc.Offset(perr.Position().Offset)
		msg = perr.Message()
	}

	e := errors.Syntaxf(at, "%s", msg)
	if hint != "" {
		e.WithSuggestion(hint)
	}
	return e
}
