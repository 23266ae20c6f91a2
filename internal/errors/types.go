// Package errors defines the coded, located errors reported by the
// generator. Every failure surfaced to the user is a *BaseError.
package errors

import "fmt"

// CtrlgenError is implemented by every generator error
type CtrlgenError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode classifies a generator error
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota
	// SyntaxErrorCode: a directive or source file does not parse
	SyntaxErrorCode
	// ValidationErrorCode: the input parses but cannot be generated from
	ValidationErrorCode
	GenerationErrorCode
	TemplateErrorCode
	FileSystemErrorCode
	ConfigurationErrorCode
)

var codeNames = [...]string{
	UnknownErrorCode:       "UnknownError",
	SyntaxErrorCode:        "SyntaxError",
	ValidationErrorCode:    "ValidationError",
	GenerationErrorCode:    "GenerationError",
	TemplateErrorCode:      "TemplateError",
	FileSystemErrorCode:    "FileSystemError",
	ConfigurationErrorCode: "ConfigurationError",
}

func (e ErrorCode) String() string {
	if e < 0 || int(e) >= len(codeNames) {
		return codeNames[UnknownErrorCode]
	}
	return codeNames[e]
}

// BaseError is the CtrlgenError implementation used throughout the module.
// The With* methods mutate the receiver and return it for chaining.
type BaseError struct {
	Code        ErrorCode
	Message     string
	Loc         SourceLocation
	Cause       error
	ContextData map[string]interface{}
	Hints       []string
}

// Error renders "location: message: cause", omitting the parts that are
// unset
func (e *BaseError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Loc.IsEmpty() {
		return msg
	}
	return e.Loc.String() + ": " + msg
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.Code }
func (e *BaseError) Location() SourceLocation { return e.Loc }
func (e *BaseError) Suggestions() []string    { return e.Hints }
func (e *BaseError) Unwrap() error            { return e.Cause }

// Context returns the key/value details attached with WithContext
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return map[string]interface{}{}
	}
	return e.ContextData
}

func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion appends a hint printed under the error by the CLI
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

func New(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns a coded error whose message is followed by cause's
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Syntaxf reports malformed input at loc
func Syntaxf(loc SourceLocation, format string, args ...interface{}) *BaseError {
	return Newf(SyntaxErrorCode, format, args...).WithLocation(loc)
}

// Validationf reports a construct the generator does not support at loc
func Validationf(loc SourceLocation, format string, args ...interface{}) *BaseError {
	return Newf(ValidationErrorCode, format, args...).WithLocation(loc)
}
