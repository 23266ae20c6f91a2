package parser

import (
	"go/token"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/utils"
)

// errorReporter builds the located errors of the analyzer
type errorReporter struct {
	fset *token.FileSet
}

func (r errorReporter) at(pos token.Pos) models.SourceLocation {
	return errors.LocationOf(r.fset, pos)
}

func (r errorReporter) noReceiver(pos token.Pos, name string) error {
	return errors.Validationf(r.at(pos), "ctrlgen does not support methods that do not accept a receiver").
		WithContext("function", name).
		WithSuggestion("move the ctrlgen directives to a method of the service type")
}

func (r errorReporter) aliasTarget(pos token.Pos, name string) error {
	return errors.Validationf(r.at(pos), "ctrlgen cannot target type alias `%s`", name).
		WithSuggestion("annotate the defined type the alias refers to")
}

func (r errorReporter) interfaceTarget(pos token.Pos, name string) error {
	return errors.Validationf(r.at(pos), "ctrlgen needs a type with method bodies, `%s` is an interface", name).
		WithSuggestion("annotate the concrete type implementing the interface")
}

func (r errorReporter) groupDirective(loc models.SourceLocation) error {
	return errors.Validationf(loc, "`ctrlgen:service` on a type group is ambiguous").
		WithSuggestion("put the directive in the doc comment of one type inside the group")
}

func (r errorReporter) duplicateService(loc models.SourceLocation, name string, first models.SourceLocation) error {
	return errors.Validationf(loc, "type `%s` has more than one `ctrlgen:service` directive", name).
		WithContext("first", first.String())
}

func (r errorReporter) receiverForm(pos token.Pos) error {
	return errors.Validationf(r.at(pos), "ctrlgen requires the receiver type to be a bare identifier").
		WithSuggestion("write the receiver as T, *T or *T[P] with plain type parameter names")
}

func (r errorReporter) receiverTypeParams(pos token.Pos, got, want int) error {
	return errors.Validationf(r.at(pos), "receiver has %d type parameters, the type declares %d", got, want)
}

func (r errorReporter) genericMethod(pos token.Pos) error {
	return errors.Validationf(r.at(pos), "ctrlgen does not support generic methods")
}

func (r errorReporter) variadic(pos token.Pos) error {
	return errors.Validationf(r.at(pos), "ctrlgen does not support variadic parameters").
		WithSuggestion("take a slice instead")
}

func (r errorReporter) blankMethod(pos token.Pos) error {
	return errors.Validationf(r.at(pos), "ctrlgen cannot forward a method named `_`").
		WithSuggestion("name the method or mark it //ctrlgen:skip")
}

func (r errorReporter) multipleResults(pos token.Pos) error {
	return errors.Validationf(r.at(pos), "ctrlgen supports at most one result per method").
		WithSuggestion("return a struct that groups the values")
}

func (r errorReporter) resultWithoutReturnval(pos token.Pos) error {
	return errors.Validationf(r.at(pos), "Specify `returnval` parameter to handle methods with return types.").
		WithSuggestion("add `returnval = ctrlgen.Local` to the ctrlgen:service directive")
}

func (r errorReporter) unnamedArg(pos token.Pos, n, total int) error {
	return errors.Validationf(r.at(pos), "argument %d of %d must be named", n, total).
		WithSuggestion("ctrlgen forwards arguments by name")
}

func (r errorReporter) blankArg(pos token.Pos, n, total int) error {
	return errors.Validationf(r.at(pos), "argument %d of %d cannot be `_`", n, total).
		WithSuggestion("give the argument a name so it can be stored in the message")
}

func (r errorReporter) reservedRet(pos token.Pos) error {
	return errors.Validationf(r.at(pos), "In `returnval` mode, method's arguments cannot be named literally `ret`. Rename it away.")
}

func (r errorReporter) invalidField(pos token.Pos, arg, field string) error {
	return errors.Validationf(r.at(pos), "argument `%s` maps to field `%s`, which is not a valid Go identifier", arg, field).
		WithSuggestion("start the argument name with a letter")
}

func (r errorReporter) reservedField(pos token.Pos, arg, field string) error {
	return errors.Validationf(r.at(pos), "argument `%s` maps to field `%s`, which generated code already uses", arg, field).
		WithSuggestion("rename the argument")
}

func (r errorReporter) fieldCollision(pos token.Pos, arg, other, field string) error {
	return errors.Validationf(r.at(pos), "arguments `%s` and `%s` both map to field `%s`", other, arg, field).
		WithSuggestion("rename one of the arguments")
}

func (r errorReporter) variantCollision(loc models.SourceLocation, method, other string, otherLoc models.SourceLocation, variant string) error {
	return errors.Validationf(loc, "methods `%s` and `%s` both map to variant `%s`", other, method, variant).
		WithContext("other", otherLoc.String()).
		WithSuggestion("rename one of the methods or mark it //ctrlgen:skip")
}

func (r errorReporter) sendCollision(loc models.SourceLocation) error {
	return errors.Validationf(loc, "method `Send` clashes with the Send method of the generated proxies").
		WithSuggestion("rename the method or mark it //ctrlgen:skip")
}

func (r errorReporter) missingContext(pos token.Pos, cfg *models.ContextParam) error {
	return errors.Validationf(r.at(pos), "method must take the context parameter `%s %s`", cfg.Name, cfg.Type.Expr).
		WithSuggestion("add the parameter after any context.Context argument")
}

func (r errorReporter) contextMismatch(pos token.Pos, got string, cfg *models.ContextParam) error {
	return errors.Validationf(r.at(pos), "context parameter has type `%s`, the directive declares `%s`", got, cfg.Type.Expr)
}

func (r errorReporter) unknownArg(loc models.SourceLocation, name string) error {
	return errors.Validationf(loc, "`ctrlgen:arg` names `%s`, which is not a forwarded argument of the method", name)
}

func (r errorReporter) toOwnedKind(loc models.SourceLocation, name string) error {
	return errors.Validationf(loc, "Argument marked with `ctrlgen:arg %s to_owned` must be a pointer, slice or map", name)
}

func (r errorReporter) returnAttrWithoutResult(loc models.SourceLocation) error {
	return errors.Validationf(loc, "`return_attr` used in method without a return type")
}

func (r errorReporter) strayDirective(loc models.SourceLocation, owner string) error {
	return errors.Validationf(loc, "ctrlgen directive on a method of `%s`, which has no `ctrlgen:service` directive", owner).
		WithSuggestion("annotate the type with //ctrlgen:service or remove the directive")
}

func (r errorReporter) typeDirective(loc models.SourceLocation, name string) error {
	return errors.Syntaxf(loc, "`ctrlgen:%s` belongs on a method, not a type", name)
}

func (r errorReporter) unknownQualifier(loc models.SourceLocation, qualifier, clause string) error {
	return errors.Validationf(loc, "package `%s` used in `%s` is not imported by the service's files", qualifier, clause).
		WithSuggestion("import the package in the file declaring the type")
}

func (r errorReporter) unexported(loc models.SourceLocation, what, name string) error {
	return errors.Validationf(loc, "%s `%s` must be exported with a `pub` visibility", what, name).
		WithSuggestion("use " + utils.UpperFirst(name))
}

func (r errorReporter) nameClash(loc models.SourceLocation, name, what, other string) error {
	return errors.Validationf(loc, "generated %s `%s` clashes with %s", what, name, other).
		WithSuggestion("choose a different name in the ctrlgen:service directive")
}

func (r errorReporter) enumIsService(loc models.SourceLocation, name string) error {
	return errors.Validationf(loc, "message type `%s` has the same name as the service type", name).
		WithSuggestion("use " + name + "Msg")
}
