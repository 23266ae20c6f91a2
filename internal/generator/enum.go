package generator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/templates"
)

// GenerateEnum renders the message interface, one variant struct per method
// and the flavor assertions of services with a return-value channel.
func (g *Generator) GenerateEnum(svc *models.ServiceMetadata) (string, error) {
	r := g.renderer(svc)
	cfg := svc.Config
	l := newDispatchLocals(svc)

	doc := []string{fmt.Sprintf("// %s is the message type of %s. Each variant carries the arguments of one method.", cfg.EnumName, svc.Name)}
	if !cfg.HasReturnval() {
		doc = append(doc, "//", fmt.Sprintf("// Dispatching a %s never fails.", cfg.EnumName))
	}

	var entries []string
	for _, e := range entryPoints(svc, l) {
		entries = append(entries, e.spec())
	}

	var b strings.Builder
	out, err := r.Render(templates.EnumTemplate, templates.EnumData{
		Name:       cfg.EnumName,
		TypeParams: typeParams(svc),
		Doc:        doc,
		Attrs:      templates.AttrLines(cfg.EnumAttrs),
		Entries:    entries,
		Marker:     svc.MarkerMethod(),
	})
	if err != nil {
		return "", err
	}
	b.WriteString(out)

	for _, m := range svc.Methods {
		data, err := g.variant(svc, m, l)
		if err != nil {
			return "", err
		}
		out, err := r.Render(templates.VariantTemplate, data)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(out)
	}

	if cfg.HasReturnval() && !svc.IsGeneric() {
		out, err := r.Render(templates.CheckTemplate, templates.CheckData{
			Flavor: g.flavor(svc),
			Types:  resultTypes(svc),
		})
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (g *Generator) variant(svc *models.ServiceMetadata, m models.MethodMetadata, l dispatchLocals) (templates.VariantData, error) {
	name := svc.VariantType(m)
	if m.HasReturn() && !svc.Config.HasReturnval() {
		return templates.VariantData{}, errors.Validationf(m.Location,
			"method %s returns %s but %s has no returnval channel", m.Name, m.Returns, svc.Name)
	}

	fields := make([]templates.FieldData, 0, len(m.Args)+1)
	for _, a := range m.Args {
		if a.ToOwned && a.OwnedKind == models.OwnedNone {
			return templates.VariantData{}, errors.Validationf(a.Location,
				"argument %s of %s has no owned form", a.Name, m.Name)
		}
		fields = append(fields, templates.FieldData{
			Name: a.FieldName,
			Type: a.StoredType(),
			Tag:  templates.StructTag(a.EnumAttrs),
		})
	}
	if m.HasReturn() {
		fields = append(fields, templates.FieldData{
			Name: models.ReturnField,
			Type: g.rt(svc, "Sender") + "[" + m.Returns + "]",
			Tag:  templates.StructTag(m.ReturnAttrs),
		})
	}

	docs := m.Docs
	if len(docs) == 0 {
		docs = []string{fmt.Sprintf("// %s is the message for %s.%s.", name, svc.Name, m.Name)}
	}

	return templates.VariantData{
		Type:       name,
		TypeParams: typeParams(svc),
		TypeArgs:   typeArgs(svc),
		Docs:       docs,
		Attrs:      templates.AttrLines(m.EnumAttrs),
		Fields:     fields,
		Marker:     svc.MarkerMethod(),
		Discard:    m.HasReturn(),
		Recv:       l.recv,
	}, nil
}

// resultTypes returns the distinct result types of svc in method order
func resultTypes(svc *models.ServiceMetadata) []string {
	var types []string
	for _, m := range svc.Methods {
		if m.HasReturn() && !slices.Contains(types, m.Returns) {
			types = append(types, m.Returns)
		}
	}
	return types
}
