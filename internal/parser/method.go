package parser

import (
	"go/ast"
	"go/token"

	"github.com/toyz/ctrlgen/internal/annotations"
	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/utils"
)

// param is one flattened parameter of a method signature
type param struct {
	name  *ast.Ident // nil when unnamed
	field *ast.Field
}

func flatten(list *ast.FieldList) []param {
	if list == nil {
		return nil
	}
	var out []param
	for _, f := range list.List {
		if len(f.Names) == 0 {
			out = append(out, param{field: f})
			continue
		}
		for _, id := range f.Names {
			out = append(out, param{name: id, field: f})
		}
	}
	return out
}

func (p param) pos() ast.Node {
	if p.name != nil {
		return p.name
	}
	return p.field.Type
}

// method analyzes one method of the block
func (a *Analyzer) method(r errorReporter, cfg *models.Configuration, declParams []string, bm BlockMethod) (*models.MethodMetadata, error) {
	fn := bm.Decl

	var directives []models.MethodDirective
	skip := false
	if fn.Doc != nil {
		for _, c := range fn.Doc.List {
			if !annotations.IsDirective(c.Text) {
				continue
			}
			d, err := a.directives.ParseMethod(c.Text, r.at(c.Slash))
			if err != nil {
				return nil, err
			}
			if d.Kind == models.DirectiveSkip {
				skip = true
			}
			directives = append(directives, d)
		}
	}
	docs := docLines(fn.Doc)
	stripDirectives(bm.File.AST, &fn.Doc)

	m := &models.MethodMetadata{
		Name:        fn.Name.Name,
		VariantName: utils.UpperCamel(fn.Name.Name),
		Docs:        docs,
		Skip:        skip,
		Location:    r.at(fn.Name.Pos()),
	}
	if skip {
		return m, nil
	}

	if fn.Name.Name == "_" {
		return nil, r.blankMethod(fn.Name.Pos())
	}
	if fn.Type.TypeParams != nil && len(fn.Type.TypeParams.List) > 0 {
		return nil, r.genericMethod(fn.Type.TypeParams.Pos())
	}

	style, rename, err := receiver(r, fn.Recv.List[0], declParams)
	if err != nil {
		return nil, err
	}
	m.Receiver = style
	tp := typePrinter{fset: r.fset, rename: rename}

	params := flatten(fn.Type.Params)
	idx := 0

	if ctxName := ContextImportName(bm.File.AST); ctxName != "" && len(params) > 0 && isContextType(params[0].field.Type, ctxName) {
		m.Async = true
		idx++
	}

	if cfg.Context != nil {
		if idx >= len(params) {
			return nil, r.missingContext(fn.Name.Pos(), cfg.Context)
		}
		got, err := tp.String(params[idx].field.Type)
		if err != nil {
			return nil, err
		}
		want, err := Normalize(cfg.Context.Type.Expr)
		if err != nil {
			return nil, err
		}
		if got != want {
			return nil, r.contextMismatch(params[idx].pos().Pos(), got, cfg.Context)
		}
		idx++
	}

	forwarded := params[idx:]
	exprs := make(map[string]ast.Expr, len(forwarded))
	fields := make(map[string]string, len(forwarded))
	for i, p := range forwarded {
		if _, ok := p.field.Type.(*ast.Ellipsis); ok {
			return nil, r.variadic(p.field.Type.Pos())
		}
		if p.name == nil {
			return nil, r.unnamedArg(p.pos().Pos(), i+1, len(forwarded))
		}
		if p.name.Name == "_" {
			return nil, r.blankArg(p.name.Pos(), i+1, len(forwarded))
		}
		if cfg.HasReturnval() && p.name.Name == ReservedReturnArg {
			return nil, r.reservedRet(p.name.Pos())
		}

		typ, err := tp.String(p.field.Type)
		if err != nil {
			return nil, err
		}
		arg := models.ArgumentMetadata{
			Name:      p.name.Name,
			FieldName: utils.UpperCamel(p.name.Name),
			Type:      typ,
			Location:  r.at(p.name.Pos()),
		}

		if !token.IsIdentifier(arg.FieldName) {
			return nil, r.invalidField(p.name.Pos(), arg.Name, arg.FieldName)
		}
		if isReservedField(arg.FieldName, cfg.HasReturnval()) {
			return nil, r.reservedField(p.name.Pos(), arg.Name, arg.FieldName)
		}
		if other, ok := fields[arg.FieldName]; ok {
			return nil, r.fieldCollision(p.name.Pos(), arg.Name, other, arg.FieldName)
		}
		fields[arg.FieldName] = arg.Name
		exprs[arg.Name] = p.field.Type
		m.Args = append(m.Args, arg)
	}

	results := flatten(fn.Type.Results)
	switch {
	case len(results) > 1:
		return nil, r.multipleResults(fn.Type.Results.Pos())
	case len(results) == 1:
		if !cfg.HasReturnval() {
			return nil, r.resultWithoutReturnval(fn.Type.Results.Pos())
		}
		if m.Returns, err = tp.String(results[0].field.Type); err != nil {
			return nil, err
		}
	}

	for _, d := range directives {
		if err := applyDirective(r, tp, m, exprs, d); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func applyDirective(r errorReporter, tp typePrinter, m *models.MethodMetadata, exprs map[string]ast.Expr, d models.MethodDirective) error {
	switch d.Kind {
	case models.DirectiveEnumAttr:
		m.EnumAttrs = append(m.EnumAttrs, d.Attr)
	case models.DirectiveReturnAttr:
		if !m.HasReturn() {
			return r.returnAttrWithoutResult(d.Location)
		}
		m.ReturnAttrs = append(m.ReturnAttrs, d.Attr)
	case models.DirectiveArgAttr, models.DirectiveArgToOwned:
		arg := findArg(m, d.Arg)
		if arg == nil {
			return r.unknownArg(d.Location, d.Arg)
		}
		if d.Kind == models.DirectiveArgAttr {
			arg.EnumAttrs = append(arg.EnumAttrs, d.Attr)
			return nil
		}
		kind, owned, err := ownedForm(tp, exprs[d.Arg])
		if err != nil {
			return err
		}
		if kind == models.OwnedNone {
			return r.toOwnedKind(d.Location, d.Arg)
		}
		arg.ToOwned = true
		arg.OwnedKind = kind
		arg.OwnedType = owned
		if owned == "" {
			arg.OwnedType = arg.Type
		}
	}
	return nil
}

func findArg(m *models.MethodMetadata, name string) *models.ArgumentMetadata {
	for i := range m.Args {
		if m.Args[i].Name == name {
			return &m.Args[i]
		}
	}
	return nil
}

// ownedForm classifies a to_owned argument type. For pointers it also
// returns the pointee type stored in the variant.
func ownedForm(tp typePrinter, expr ast.Expr) (models.OwnedKind, string, error) {
	switch t := ast.Unparen(expr).(type) {
	case *ast.StarExpr:
		elem, err := tp.String(t.X)
		return models.OwnedPointer, elem, err
	case *ast.ArrayType:
		if t.Len == nil {
			return models.OwnedSlice, "", nil
		}
	case *ast.MapType:
		return models.OwnedMap, "", nil
	}
	return models.OwnedNone, "", nil
}

// receiver classifies the receiver and maps its type parameter names onto
// the ones declared on the type
func receiver(r errorReporter, field *ast.Field, declParams []string) (models.ReceiverStyle, map[string]string, error) {
	style := models.ReceiverValue
	expr := ast.Unparen(field.Type)
	if star, ok := expr.(*ast.StarExpr); ok {
		style = models.ReceiverPointer
		expr = ast.Unparen(star.X)
	}

	var args []ast.Expr
	switch t := expr.(type) {
	case *ast.Ident:
	case *ast.IndexExpr:
		args = []ast.Expr{t.Index}
	case *ast.IndexListExpr:
		args = t.Indices
	default:
		return style, nil, r.receiverForm(field.Type.Pos())
	}

	if len(args) != len(declParams) {
		return style, nil, r.receiverTypeParams(field.Type.Pos(), len(args), len(declParams))
	}

	var rename map[string]string
	for i, arg := range args {
		id, ok := arg.(*ast.Ident)
		if !ok {
			return style, nil, r.receiverForm(arg.Pos())
		}
		if id.Name == "_" || id.Name == declParams[i] {
			continue
		}
		if rename == nil {
			rename = make(map[string]string)
		}
		rename[id.Name] = declParams[i]
	}
	return style, rename, nil
}

func isContextType(expr ast.Expr, ctxName string) bool {
	sel, ok := ast.Unparen(expr).(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	id, ok := sel.X.(*ast.Ident)
	return ok && id.Name == ctxName
}

var reservedFields = map[string]bool{
	models.MethodCallMut:             true,
	models.MethodCallMutAsync:        true,
	models.MethodCallMutWithCtx:      true,
	models.MethodCallMutAsyncWithCtx: true,
	models.MethodDiscard:             true,
}

func isReservedField(name string, returnval bool) bool {
	return reservedFields[name] || returnval && name == models.ReturnField
}
