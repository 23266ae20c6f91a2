package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/templates"
)

// GenerateDispatch renders the context alias and, for every variant, the
// entry points that apply it to the service.
func (g *Generator) GenerateDispatch(svc *models.ServiceMetadata) (string, error) {
	r := g.renderer(svc)
	l := newDispatchLocals(svc)
	entries := entryPoints(svc, l)

	var b strings.Builder
	if svc.HasContext() {
		typ, err := normalizeRef(svc.Config.Context.Type)
		if err != nil {
			return "", err
		}
		out, err := r.Render(templates.ContextTemplate, templates.ContextData{
			Name:       svc.ContextAlias(),
			Enum:       svc.Config.EnumName,
			TypeParams: typeParams(svc),
			Type:       typ,
		})
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}

	for _, m := range svc.Methods {
		call := dispatchCall(svc, m, l)
		for _, e := range entries {
			data := templates.DispatchData{
				Recv:    l.recv,
				Variant: svc.VariantType(m) + typeArgs(svc),
				Name:    e.name,
				Params:  templates.ParamList(e.params...),
			}
			if e.delegate != "" {
				data.Doc = []string{fmt.Sprintf("// %s dispatches with the empty context.", e.name)}
				data.Delegate = e.delegate
			} else {
				data.Doc = []string{fmt.Sprintf("// %s applies the message to %s.%s.", e.name, l.svc, m.Name)}
				data.Call = call
				data.Sends = m.HasReturn()
			}
			out, err := r.Render(templates.DispatchTemplate, data)
			if err != nil {
				return "", err
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(out)
		}
	}
	return b.String(), nil
}

// dispatchCall is the service call made by the primary entry point
func dispatchCall(svc *models.ServiceMetadata, m models.MethodMetadata, l dispatchLocals) string {
	var args []string
	if m.Async {
		args = append(args, l.ctx)
	}
	if svc.HasContext() {
		args = append(args, l.c)
	}
	for _, a := range m.Args {
		field := l.recv + "." + a.FieldName
		if a.ToOwned && a.OwnedKind == models.OwnedPointer {
			field = "&" + field
		}
		args = append(args, field)
	}
	return l.svc + "." + m.Name + "(" + strings.Join(args, ", ") + ")"
}
