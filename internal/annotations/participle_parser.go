package annotations

import (
	goast "go/ast"
	goparser "go/parser"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
)

const clauseHint = "supported clauses are enum_attr[...], returnval = <Type>, proxy(trait <Name>), context(<name>: <Type>)"

// DirectiveParser parses ctrlgen directive comments using alecthomas/participle
type DirectiveParser struct {
	service *participle.Parser[serviceAST]
	method  *participle.Parser[methodDirectiveAST]
}

// NewDirectiveParser creates a parser for service and method directives
func NewDirectiveParser() *DirectiveParser {
	return &DirectiveParser{
		service: participle.MustBuild[serviceAST](
			participle.Lexer(directiveLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
		method: participle.MustBuild[methodDirectiveAST](
			participle.Lexer(directiveLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
	}
}

var defaultParser = NewDirectiveParser()

// ParseServiceDirective parses a //ctrlgen:service body with the shared parser
func ParseServiceDirective(body string, loc models.SourceLocation) (models.Configuration, error) {
	return defaultParser.ParseService(body, loc)
}

// ParseMethodDirective parses one method-level //ctrlgen: comment with the
// shared parser
func ParseMethodDirective(comment string, loc models.SourceLocation) (models.MethodDirective, error) {
	return defaultParser.ParseMethod(comment, loc)
}

// ParseService parses the body of a //ctrlgen:service directive into a
// Configuration. loc is the position of the first byte of body.
func (p *DirectiveParser) ParseService(body string, loc models.SourceLocation) (models.Configuration, error) {
	cfg := models.Configuration{Location: loc}

	if strings.TrimSpace(body) == "" {
		return cfg, errors.Syntaxf(loc, "missing message type name").
			WithSuggestion("write //ctrlgen:service ServiceMsg, returnval = ctrlgen.Local")
	}

	if err := checkClauseNames(body, loc); err != nil {
		return cfg, err
	}

	tree, err := p.service.ParseString("", body)
	if err != nil {
		return cfg, syntaxError(err, loc, clauseHint)
	}

	b := &configBuilder{body: body, loc: loc, cfg: &cfg}
	if err := b.build(tree); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseMethod parses one //ctrlgen: line of a method doc comment. loc is
// the position of the comment itself.
func (p *DirectiveParser) ParseMethod(comment string, loc models.SourceLocation) (models.MethodDirective, error) {
	d, ok := SplitDirective(comment)
	if !ok {
		return models.MethodDirective{}, errors.Syntaxf(loc, "not a ctrlgen directive: %s", comment)
	}

	switch d.Name {
	case MethodEnumAttr, MethodReturnAttr, MethodArg, MethodSkip:
	case ServiceDirective:
		return models.MethodDirective{}, errors.Syntaxf(loc, "`ctrlgen:service` belongs on a type declaration, not a method")
	default:
		return models.MethodDirective{}, errors.Syntaxf(loc, "unknown directive `ctrlgen:%s`", d.Name).
			WithSuggestion("method directives are enum_attr[...], return_attr[...], arg <name> enum_attr[...], arg <name> to_owned and skip")
	}

	text := comment[len(DirectivePrefix):]
	base := loc.Offset(len(DirectivePrefix))

	tree, err := p.method.ParseString("", text)
	if err != nil {
		return models.MethodDirective{}, methodSyntaxError(d.Name, text, base, err)
	}

	b := &configBuilder{body: text, loc: base}
	out := models.MethodDirective{Location: loc}

	switch {
	case tree.EnumAttr != nil:
		out.Kind = models.DirectiveEnumAttr
		out.Attr, err = b.attr(tree.EnumAttr)
	case tree.ReturnAttr != nil:
		out.Kind = models.DirectiveReturnAttr
		out.Attr, err = b.tagAttr(tree.ReturnAttr)
	case tree.Arg != nil:
		out.Arg = tree.Arg.Name.Value
		if tree.Arg.Action.ToOwned {
			out.Kind = models.DirectiveArgToOwned
		} else {
			out.Kind = models.DirectiveArgAttr
			out.Attr, err = b.tagAttr(tree.Arg.Action.EnumAttr)
		}
	case tree.Skip:
		out.Kind = models.DirectiveSkip
	}
	if err != nil {
		return models.MethodDirective{}, err
	}
	return out, nil
}

type configBuilder struct {
	body string
	loc  models.SourceLocation
	cfg  *models.Configuration
}

func (b *configBuilder) at(pos lexer.Position) models.SourceLocation {
	return b.loc.Offset(pos.Offset)
}

func (b *configBuilder) build(tree *serviceAST) error {
	cfg := b.cfg

	for _, a := range tree.Attrs {
		attr, err := b.attr(a.Group)
		if err != nil {
			return err
		}
		cfg.EnumAttrs = append(cfg.EnumAttrs, attr)
	}

	if tree.Vis != nil {
		if err := b.visibility(tree.Vis); err != nil {
			return err
		}
	}

	cfg.EnumName = tree.Name.Value
	if cfg.EnumName == "_" {
		return errors.Syntaxf(b.at(tree.Name.Pos), "message type name cannot be `_`")
	}

	for i, slot := range tree.Rest {
		c := slot.Clause
		if c == nil {
			// a trailing comma is fine, an empty clause elsewhere is not
			if i != len(tree.Rest)-1 {
				return errors.Syntaxf(b.at(slot.Pos), "expected a clause after `,`").WithSuggestion(clauseHint)
			}
			continue
		}

		switch {
		case c.EnumAttr != nil:
			attr, err := b.attr(c.EnumAttr)
			if err != nil {
				return err
			}
			cfg.EnumAttrs = append(cfg.EnumAttrs, attr)

		case c.Returnval != nil:
			if cfg.Returnval != nil {
				return errors.Syntaxf(b.at(c.Pos), "Argument `returnval` specified twice")
			}
			ref, err := b.flavor(c.Returnval)
			if err != nil {
				return err
			}
			cfg.Returnval = &ref

		case c.Proxy != nil:
			if err := b.proxies(c.Proxy); err != nil {
				return err
			}

		case c.Context != nil:
			if cfg.Context != nil {
				return errors.Syntaxf(b.at(c.Pos), "Argument `context` specified twice")
			}
			ref, err := b.typeRef(c.Context.Type)
			if err != nil {
				return err
			}
			cfg.Context = &models.ContextParam{
				Name:     c.Context.Name.Value,
				Type:     ref,
				Location: b.at(c.Pos),
			}
		}
	}

	return nil
}

func (b *configBuilder) visibility(v *visibilityAST) error {
	cfg := b.cfg
	switch v.Kind {
	case "pub_crate":
		if v.Scope != nil {
			return errors.Syntaxf(b.at(v.Scope.Pos), "`pub_crate` does not take a modifier list")
		}
		cfg.Visibility = models.VisibilityCrate
	default:
		if v.Scope == nil {
			cfg.Visibility = models.VisibilityPublic
			return nil
		}
		scope, ok := groupInner(b.body, v.Scope.Pos.Offset)
		if !ok {
			return errors.Syntaxf(b.at(v.Scope.Pos), "unbalanced visibility modifier")
		}
		scope = strings.TrimSpace(scope)
		switch scope {
		case "":
			return errors.Syntaxf(b.at(v.Scope.Pos), "empty visibility modifier list")
		case "crate":
			cfg.Visibility = models.VisibilityCrate
		default:
			cfg.Visibility = models.VisibilityRestricted
		}
		cfg.VisibilityScope = scope
	}
	return nil
}

func (b *configBuilder) attr(g *bracketAST) (models.Attr, error) {
	loc := b.at(g.Pos)
	text, ok := groupInner(b.body, g.Pos.Offset)
	if !ok {
		return models.Attr{}, errors.Syntaxf(loc, "unbalanced attribute group")
	}
	if strings.TrimSpace(text) == "" {
		return models.Attr{}, errors.Syntaxf(loc, "attribute group is empty")
	}
	return models.Attr{Text: text, Location: loc}, nil
}

// tagAttr is an attribute that ends up inside a struct tag literal.
func (b *configBuilder) tagAttr(g *bracketAST) (models.Attr, error) {
	attr, err := b.attr(g)
	if err != nil {
		return attr, err
	}
	if strings.ContainsAny(attr.Text, "`\n") {
		return attr, errors.Syntaxf(attr.Location, "field attribute %q cannot contain a backquote", attr.Text).
			WithSuggestion("field attributes become struct tags, use \"quoted\" values")
	}
	return attr, nil
}

func (b *configBuilder) typeRef(t *typeRefAST) (models.TypeRef, error) {
	loc := b.at(t.Pos)
	text := typeExprText(b.body, t.Pos.Offset)
	if _, err := goparser.ParseExpr(text); err != nil {
		return models.TypeRef{}, errors.Syntaxf(loc, "invalid type `%s`", text).WithCause(err)
	}
	return models.TypeRef{Expr: text, Location: loc}, nil
}

// flavor validates a returnval type: a possibly qualified name of a
// generic type, written without type arguments.
func (b *configBuilder) flavor(t *typeRefAST) (models.TypeRef, error) {
	ref, err := b.typeRef(t)
	if err != nil {
		return ref, err
	}

	expr, _ := goparser.ParseExpr(ref.Expr)
	switch e := expr.(type) {
	case *goast.Ident:
		return ref, nil
	case *goast.SelectorExpr:
		if _, ok := e.X.(*goast.Ident); ok {
			return ref, nil
		}
	}
	return ref, errors.Syntaxf(ref.Location, "`returnval` must name a return-value type such as `ctrlgen.Local`, got `%s`", ref.Expr).
		WithSuggestion("type arguments are added per method, write the generic type name only")
}

func (b *configBuilder) proxies(list *proxyListAST) error {
	expectEntry := true
	count := 0

	for _, item := range list.Items {
		if item.Semi {
			if expectEntry {
				return errors.Syntaxf(b.at(item.Pos), "unexpected `;` in proxy(...)")
			}
			expectEntry = true
			continue
		}
		if !expectEntry {
			return errors.Syntaxf(b.at(item.Pos), "expected `;` between proxy entries")
		}
		expectEntry = false

		e := item.Entry
		spec := models.ProxySpec{Name: e.Name.Value, Location: b.at(e.Pos)}
		switch e.Kind {
		case "trait":
			spec.Kind = models.ProxyTrait
		case "struct":
			spec.Kind = models.ProxyStruct
		default:
			return errors.Syntaxf(spec.Location, "proxy kind `%s` is not supported, use `trait` or `struct`", e.Kind)
		}

		for _, existing := range b.cfg.Proxies {
			if existing.Name == spec.Name {
				return errors.Syntaxf(spec.Location, "proxy `%s` specified twice", spec.Name)
			}
		}
		b.cfg.Proxies = append(b.cfg.Proxies, spec)
		count++
	}

	if count == 0 {
		return errors.Syntaxf(b.at(list.Pos), "proxy(...) needs at least one `trait <Name>` entry")
	}
	return nil
}

// checkClauseNames reports unknown clause identifiers by name before the
// grammar sees them.
func checkClauseNames(body string, loc models.SourceLocation) error {
	lex, err := directiveLexer.LexString("", body)
	if err != nil {
		return syntaxError(err, loc, "")
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return syntaxError(err, loc, "")
	}

	symbols := directiveLexer.Symbols()
	depth := 0
	expectClause := false
	for _, tok := range tokens {
		if tok.EOF() {
			break
		}
		if tok.Type == symbols["Whitespace"] {
			continue
		}

		if expectClause {
			expectClause = false
			if tok.Type == symbols["Ident"] && !knownClauses[tok.Value] {
				return errors.Syntaxf(loc.Offset(tok.Pos.Offset), "Unknown argument `%s` to ctrlgen", tok.Value).
					WithSuggestion(clauseHint)
			}
		}

		switch tok.Type {
		case symbols["Open"]:
			depth++
		case symbols["Close"]:
			depth--
		case symbols["Comma"]:
			if depth == 0 {
				expectClause = true
			}
		}
	}
	return nil
}

func methodSyntaxError(name, text string, loc models.SourceLocation, err error) *errors.BaseError {
	e := syntaxError(err, loc, "")
	switch name {
	case MethodEnumAttr, MethodReturnAttr:
		e.Message = "Input of `ctrlgen:" + name + "` should be a single [...] group"
	case MethodArg:
		if i := strings.Index(text, "to_owned"); i >= 0 && strings.TrimSpace(text[i+len("to_owned"):]) != "" {
			e.Message = "`to_owned` does not accept any additional arguments"
		} else {
			e.Message = "expected `ctrlgen:arg <name> enum_attr[...]` or `ctrlgen:arg <name> to_owned`"
		}
	case MethodSkip:
		e.Message = "`ctrlgen:skip` does not accept any arguments"
	}
	return e
}
