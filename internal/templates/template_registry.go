package templates

// Template names
const (
	EnumTemplate     = "enum"
	VariantTemplate  = "variant"
	CheckTemplate    = "returnval-check"
	ContextTemplate  = "context-alias"
	DispatchTemplate = "dispatch"
	TraitTemplate    = "proxy-trait"
	StructTemplate   = "proxy-struct"
	MethodTemplate   = "proxy-method"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerEnumTemplates()
	registry.registerDispatchTemplates()
	registry.registerProxyTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

func (tr *TemplateRegistry) registerEnumTemplates() {
	tr.templates[EnumTemplate] = `{{range .Doc}}{{.}}
{{end}}{{range .Attrs}}//{{.}}
{{end}}type {{.Name}}{{.TypeParams}} interface {
{{range .Entries}}	{{.}}
{{end}}	{{.Marker}}()
}
`

	tr.templates[VariantTemplate] = `{{range .Docs}}{{.}}
{{end}}{{range .Attrs}}//{{.}}
{{end}}type {{.Type}}{{.TypeParams}} struct{{if .Fields}} {
{{range .Fields}}	{{.Name}} {{.Type}}{{if .Tag}} {{.Tag}}{{end}}
{{end}}}{{else}}{}{{end}}

func ({{.Type}}{{.TypeArgs}}) {{.Marker}}() {}
{{if .Discard}}
// Discard closes the return-value sender of a message that will not be
// dispatched.
func ({{.Recv}} {{.Type}}{{.TypeArgs}}) Discard() {
	{{rt}}Discard({{.Recv}}.Ret)
}
{{end}}`

	tr.templates[CheckTemplate] = `{{if .Types}}
// The return-value flavor must provide every result type.
var (
{{range .Types}}	_ {{rt}}Returnval[{{.}}] = (*{{$.Flavor}}[{{.}}])(nil)
{{end}})
{{end}}`

	tr.templates[ContextTemplate] = `// {{.Name}} is the context type passed to every {{.Enum}} dispatch.
type {{.Name}}{{.TypeParams}} = {{.Type}}
`
}

func (tr *TemplateRegistry) registerDispatchTemplates() {
	tr.templates[DispatchTemplate] = `{{range .Doc}}{{.}}
{{end}}func ({{.Recv}} {{.Variant}}) {{.Name}}({{.Params}}) error {
{{if .Delegate}}	return {{.Recv}}.{{.Delegate}}
{{else if .Sends}}	return {{rt}}Send({{.Recv}}.Ret, {{.Call}})
{{else}}	{{.Call}}
	return nil
{{end}}}
`
}

func (tr *TemplateRegistry) registerProxyTemplates() {
	tr.templates[TraitTemplate] = `// {{.Name}} turns method calls into {{.Enum}} messages.
type {{.Name}}{{.TypeParams}} interface {
	// Send sends msg as is.
	Send(msg {{.Message}}) error
{{range .Methods}}{{range .Docs}}	{{.}}
{{end}}	{{.Name}}({{.Params}}) {{.Results}}
{{end}}}

type {{.Impl}}{{.TypeParams}} struct {
	sender {{rt}}MessageSender[{{.Message}}]
}

// {{.Constructor}} returns a {{.Name}} that sends through sender.
func {{.Constructor}}{{.TypeParams}}(sender {{rt}}MessageSender[{{.Message}}]) {{.Name}}{{.TypeArgs}} {
	return {{.Impl}}{{.TypeArgs}}{sender: sender}
}

func ({{.Recv}} {{.Impl}}{{.TypeArgs}}) Send(msg {{.Message}}) error {
	return {{.Recv}}.sender.Send(msg)
}
`

	tr.templates[StructTemplate] = `// {{.Name}} turns method calls into {{.Enum}} messages.
type {{.Name}}{{.TypeParams}} struct {
	sender {{rt}}MessageSender[{{.Message}}]
}

// {{.Constructor}} returns a {{.Name}} that sends through sender.
func {{.Constructor}}{{.TypeParams}}(sender {{rt}}MessageSender[{{.Message}}]) *{{.Name}}{{.TypeArgs}} {
	return &{{.Name}}{{.TypeArgs}}{sender: sender}
}

// Send sends msg as is.
func ({{.Recv}} *{{.Name}}{{.TypeArgs}}) Send(msg {{.Message}}) error {
	return {{.Recv}}.sender.Send(msg)
}
`

	tr.templates[MethodTemplate] = `{{range .Docs}}{{.}}
{{end}}func ({{.Recv}} {{.Owner}}) {{.Name}}({{.Params}}) {{.Results}} {
{{if .Create}}	{{.Tx}}, {{.Rx}} := {{.Create}}
	if {{.Err}} := {{.Recv}}.Send({{.Message}}); {{.Err}} != nil {
		{{rt}}Discard({{.Tx}})
		return nil, {{.Err}}
	}
	return {{.Rx}}, nil
{{else}}	return {{.Recv}}.Send({{.Message}})
{{end}}}
`
}

// DefaultTemplateRegistry is the registry used by the generators
var DefaultTemplateRegistry = NewTemplateRegistry()
