package generator

import (
	"go/ast"
	goparser "go/parser"
	"strings"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/parser"
	"github.com/toyz/ctrlgen/internal/templates"
	"github.com/toyz/ctrlgen/internal/utils"
)

// dispatchLocals are the parameter names of generated dispatch methods.
// They only need to avoid the type parameters of the service.
type dispatchLocals struct {
	recv string
	svc  string
	ctx  string
	c    string
}

func newDispatchLocals(svc *models.ServiceMetadata) dispatchLocals {
	set := utils.NewNameSet(svc.TypeArgs()...)
	return dispatchLocals{
		recv: set.Fresh("m"),
		svc:  set.Fresh("s"),
		ctx:  set.Fresh("ctx"),
		c:    set.Fresh("c"),
	}
}

// entryPoint is one dispatch method of the message type
type entryPoint struct {
	name     string
	params   []templates.Param
	delegate string // call of the entry point this one forwards to
}

func (e entryPoint) spec() string {
	return e.name + "(" + templates.ParamList(e.params...) + ") error"
}

// entryPoints returns the dispatch methods of svc. The first is the one
// calling the service; a unit context adds a forwarding convenience entry.
func entryPoints(svc *models.ServiceMetadata, l dispatchLocals) []entryPoint {
	ctxParam := templates.Param{Name: l.ctx, Type: "context.Context"}
	svcParam := templates.Param{Name: l.svc, Type: serviceRef(svc)}
	async := svc.IsAsync()

	if !svc.HasContext() {
		if async {
			return []entryPoint{{name: models.MethodCallMutAsync, params: []templates.Param{ctxParam, svcParam}}}
		}
		return []entryPoint{{name: models.MethodCallMut, params: []templates.Param{svcParam}}}
	}

	cParam := templates.Param{Name: l.c, Type: svc.ContextAlias() + typeArgs(svc)}
	var entries []entryPoint
	if async {
		entries = append(entries, entryPoint{
			name:   models.MethodCallMutAsyncWithCtx,
			params: []templates.Param{ctxParam, svcParam, cParam},
		})
		if svc.Config.Context.IsUnit() {
			entries = append(entries, entryPoint{
				name:     models.MethodCallMutAsync,
				params:   []templates.Param{ctxParam, svcParam},
				delegate: models.MethodCallMutAsyncWithCtx + "(" + l.ctx + ", " + l.svc + ", struct{}{})",
			})
		}
		return entries
	}

	entries = append(entries, entryPoint{
		name:   models.MethodCallMutWithCtx,
		params: []templates.Param{svcParam, cParam},
	})
	if svc.Config.Context.IsUnit() {
		entries = append(entries, entryPoint{
			name:     models.MethodCallMut,
			params:   []templates.Param{svcParam},
			delegate: models.MethodCallMutWithCtx + "(" + l.svc + ", struct{}{})",
		})
	}
	return entries
}

func typeParams(svc *models.ServiceMetadata) string {
	return templates.TypeParamList(svc.TypeParams)
}

func typeArgs(svc *models.ServiceMetadata) string {
	return templates.TypeArgList(svc.TypeArgs())
}

// serviceRef is the pointer type dispatch methods receive
func serviceRef(svc *models.ServiceMetadata) string {
	return "*" + svc.Name + typeArgs(svc)
}

// flavor returns the return-value type to instantiate per method, empty
// when svc has no returnval channel
func (g *Generator) flavor(svc *models.ServiceMetadata) string {
	if !svc.Config.HasReturnval() {
		return ""
	}
	expr := svc.Config.Returnval.Expr
	if normalized, err := parser.Normalize(expr); err == nil {
		expr = normalized
	}
	if g.runtime(svc) == "" {
		expr = strings.TrimPrefix(expr, parser.RuntimeQualifier+".")
	}
	return expr
}

// rt qualifies a runtime identifier for svc
func (g *Generator) rt(svc *models.ServiceMetadata, name string) string {
	if q := g.runtime(svc); q != "" {
		return q + "." + name
	}
	return name
}

// normalizeRef canonicalizes a type written inside a directive
func normalizeRef(ref models.TypeRef) (string, error) {
	expr, err := parser.Normalize(ref.Expr)
	if err != nil {
		return "", errors.Validationf(ref.Location, "invalid type %q: %v", ref.Expr, err)
	}
	return expr, nil
}

// identsOf returns the identifiers referenced by a type expression
func identsOf(expr string) []string {
	parsed, err := goparser.ParseExpr(expr)
	if err != nil {
		return nil
	}
	var out []string
	ast.Inspect(parsed, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			out = append(out, id.Name)
		}
		return true
	})
	return out
}

// proxyNames returns the identifiers a proxy method body refers to, which
// its parameter and local names must not shadow
func (g *Generator) proxyNames(svc *models.ServiceMetadata) []string {
	names := append([]string{}, svc.TypeArgs()...)
	names = append(names, parser.RuntimeQualifier, "slices", "maps", "context", svc.Config.EnumName)
	for _, imp := range svc.Imports {
		if imp.Name != "" {
			names = append(names, imp.Name)
		} else {
			names = append(names, parser.ImportName(imp.Path))
		}
	}
	if svc.Config.HasReturnval() {
		names = append(names, identsOf(g.flavor(svc))...)
	}
	for _, m := range svc.Methods {
		names = append(names, svc.VariantType(m))
		names = append(names, identsOf(m.Returns)...)
	}
	return names
}
