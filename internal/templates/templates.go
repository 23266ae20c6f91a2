package templates

import (
	"bytes"
	"text/template"

	"github.com/toyz/ctrlgen/internal/errors"
)

// EnumData renders the message interface
type EnumData struct {
	Name       string
	TypeParams string   // declaration list such as [K comparable, V any]
	Doc        []string // comment lines
	Attrs      []string // //-prefixed attribute lines, without the slashes
	Entries    []string // dispatch method specs
	Marker     string
}

// FieldData is one field of a variant
type FieldData struct {
	Name string
	Type string
	Tag  string // complete struct tag literal, empty when none
}

// VariantData renders one variant struct with its marker method
type VariantData struct {
	Type       string
	TypeParams string
	TypeArgs   string // instantiation list such as [K, V]
	Docs       []string
	Attrs      []string
	Fields     []FieldData
	Marker     string
	Discard    bool // variant carries a Ret sender
	Recv       string
}

// CheckData renders the compile-time flavor assertions
type CheckData struct {
	Flavor string   // qualified generic flavor type
	Types  []string // distinct result types
}

// ContextData renders the context type alias
type ContextData struct {
	Name       string
	Enum       string
	TypeParams string
	Type       string
}

// DispatchData renders one dispatch entry point of a variant
type DispatchData struct {
	Doc      []string
	Recv     string
	Variant  string // instantiated variant type
	Name     string
	Params   string
	Call     string // method call expression
	Sends    bool   // result is sent to Ret
	Delegate string // call expression of the entry point this one forwards to
}

// ProxyData renders the type, constructor and Send method of a proxy
type ProxyData struct {
	Name        string
	Enum        string
	Message     string // instantiated message type
	Impl        string
	Constructor string
	TypeParams  string
	TypeArgs    string
	Recv        string
	Methods     []ProxyMethodData // interface method specs, trait proxies only
}

// ProxyMethodData renders one forwarding method
type ProxyMethodData struct {
	Docs    []string
	Recv    string
	Owner   string // receiver type
	Name    string
	Params  string
	Results string
	Message string // variant literal
	Create  string // pair constructor call, empty without a result
	Tx      string
	Rx      string
	Err     string
}

// Renderer executes registry templates for one output package
type Renderer struct {
	registry *TemplateRegistry
	funcs    template.FuncMap
}

// NewRenderer creates a renderer. runtime is the package qualifier of the
// runtime library, empty when rendering into the runtime package itself.
func NewRenderer(registry *TemplateRegistry, runtime string) *Renderer {
	prefix := ""
	if runtime != "" {
		prefix = runtime + "."
	}
	return &Renderer{
		registry: registry,
		funcs: template.FuncMap{
			"rt": func() string { return prefix },
		},
	}
}

// Render executes the named template with data
func (r *Renderer) Render(name string, data interface{}) (string, error) {
	text, ok := r.registry.Get(name)
	if !ok {
		return "", errors.Newf(errors.TemplateErrorCode, "template not found: %s", name)
	}
	return executeTemplate(name, text, r.funcs, data)
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, funcs template.FuncMap, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}
	return buf.String(), nil
}
