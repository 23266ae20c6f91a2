package annotations

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "RawString", Pattern: "`[^`]*`"},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\])*'`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_.]*`},
	{Name: "Open", Pattern: `[\[({]`},
	{Name: "Close", Pattern: `[\])}]`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Semi", Pattern: `;`},
	{Name: "Punct", Pattern: `[-+*/%&|^<>!=.:#@$?~\\]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// serviceAST is the body of //ctrlgen:service
type serviceAST struct {
	Attrs []*attrAST       `parser:"@@*"`
	Vis   *visibilityAST   `parser:"@@?"`
	Enum  bool             `parser:"@\"enum\"?"`
	Name  *identAST        `parser:"@@"`
	Rest  []*clauseSlotAST `parser:"@@*"`
}

type identAST struct {
	Pos   lexer.Position
	Value string `parser:"@Ident"`
}

type attrAST struct {
	Pos   lexer.Position
	Hash  bool        `parser:"@\"#\"?"`
	Group *bracketAST `parser:"@@"`
}

type visibilityAST struct {
	Pos   lexer.Position
	Kind  string    `parser:"@(\"pub\" | \"pub_crate\")"`
	Scope *parenAST `parser:"@@?"`
}

type clauseSlotAST struct {
	Pos    lexer.Position
	Comma  string     `parser:"@Comma"`
	Clause *clauseAST `parser:"@@?"`
}

type clauseAST struct {
	Pos       lexer.Position
	EnumAttr  *bracketAST   `parser:"  \"enum_attr\" @@"`
	Returnval *typeRefAST   `parser:"| \"returnval\" \"=\" @@"`
	Proxy     *proxyListAST `parser:"| \"proxy\" @@"`
	Context   *contextAST   `parser:"| \"context\" @@"`
}

type proxyListAST struct {
	Pos   lexer.Position
	Open  string          `parser:"@\"(\""`
	Items []*proxyItemAST `parser:"@@*"`
	Close string          `parser:"@\")\""`
}

type proxyItemAST struct {
	Pos   lexer.Position
	Semi  bool           `parser:"  @Semi"`
	Entry *proxyEntryAST `parser:"| @@"`
}

type proxyEntryAST struct {
	Pos  lexer.Position
	Kind string    `parser:"@(\"trait\" | \"struct\" | \"impl\")"`
	Name *identAST `parser:"@@"`
}

type contextAST struct {
	Pos   lexer.Position
	Open  string      `parser:"@\"(\""`
	Name  *identAST   `parser:"@@"`
	Colon string      `parser:"@\":\""`
	Type  *typeRefAST `parser:"@@"`
	Close string      `parser:"@\")\""`
}

// typeRefAST is a Go type expression; it ends at a top-level comma or
// closing delimiter
type typeRefAST struct {
	Pos   lexer.Position
	Items []*typeTokenAST `parser:"@@+"`
}

type typeTokenAST struct {
	Bracket *bracketAST `parser:"  @@"`
	Paren   *parenAST   `parser:"| @@"`
	Brace   *braceAST   `parser:"| @@"`
	Atom    string      `parser:"| @(Ident | Number | Punct | String | RawString)"`
}

// Delimited token trees. Their contents are never interpreted; the raw
// text is sliced out of the input by offset.

type bracketAST struct {
	Pos   lexer.Position
	Open  string       `parser:"@\"[\""`
	Body  *balancedAST `parser:"@@?"`
	Close string       `parser:"@\"]\""`
}

type parenAST struct {
	Pos   lexer.Position
	Open  string       `parser:"@\"(\""`
	Body  *balancedAST `parser:"@@?"`
	Close string       `parser:"@\")\""`
}

type braceAST struct {
	Pos   lexer.Position
	Open  string       `parser:"@\"{\""`
	Body  *balancedAST `parser:"@@?"`
	Close string       `parser:"@\"}\""`
}

type balancedAST struct {
	Items []*tokenTreeAST `parser:"@@+"`
}

type tokenTreeAST struct {
	Bracket *bracketAST `parser:"  @@"`
	Paren   *parenAST   `parser:"| @@"`
	Brace   *braceAST   `parser:"| @@"`
	Atom    string      `parser:"| @(Ident | String | RawString | Char | Number | Punct | Comma | Semi)"`
}

// methodDirectiveAST is the text after //ctrlgen: in a method doc comment
type methodDirectiveAST struct {
	Pos        lexer.Position
	EnumAttr   *bracketAST `parser:"  \"enum_attr\" @@"`
	ReturnAttr *bracketAST `parser:"| \"return_attr\" @@"`
	Arg        *argAST     `parser:"| \"arg\" @@"`
	Skip       bool        `parser:"| @\"skip\""`
}

type argAST struct {
	Pos    lexer.Position
	Name   *identAST     `parser:"@@"`
	Action *argActionAST `parser:"@@"`
}

type argActionAST struct {
	Pos      lexer.Position
	EnumAttr *bracketAST `parser:"  \"enum_attr\" @@"`
	ToOwned  bool        `parser:"| @\"to_owned\""`
}
