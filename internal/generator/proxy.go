package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/templates"
	"github.com/toyz/ctrlgen/internal/utils"
)

// GenerateProxies renders every proxy requested by the service directive
func (g *Generator) GenerateProxies(svc *models.ServiceMetadata) (string, error) {
	r := g.renderer(svc)
	reserved := g.proxyNames(svc)

	var b strings.Builder
	for i, p := range svc.Config.Proxies {
		if i > 0 {
			b.WriteString("\n")
		}
		out, err := g.proxy(r, svc, p, reserved)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (g *Generator) proxy(r *templates.Renderer, svc *models.ServiceMetadata, p models.ProxySpec, reserved []string) (string, error) {
	ta := typeArgs(svc)
	data := templates.ProxyData{
		Name:        p.Name,
		Enum:        svc.Config.EnumName,
		Message:     svc.Config.EnumName + ta,
		Impl:        models.ProxyImplName(p),
		Constructor: models.ProxyConstructor(p),
		TypeParams:  typeParams(svc),
		TypeArgs:    ta,
		Recv:        utils.NewNameSet(reserved...).Fresh("p"),
	}

	owner := "*" + p.Name + ta
	if p.Kind == models.ProxyTrait {
		owner = data.Impl + ta
	}

	methods := make([]templates.ProxyMethodData, 0, len(svc.Methods))
	for _, m := range svc.Methods {
		methods = append(methods, g.proxyMethod(svc, m, owner, reserved))
	}

	tmpl := templates.StructTemplate
	if p.Kind == models.ProxyTrait {
		tmpl = templates.TraitTemplate
		data.Methods = methods
	}

	var b strings.Builder
	out, err := r.Render(tmpl, data)
	if err != nil {
		return "", err
	}
	b.WriteString(out)

	for _, md := range methods {
		if p.Kind == models.ProxyTrait {
			md.Docs = nil
		}
		out, err := r.Render(templates.MethodTemplate, md)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String(), nil
}

func (g *Generator) proxyMethod(svc *models.ServiceMetadata, m models.MethodMetadata, owner string, reserved []string) templates.ProxyMethodData {
	set := utils.NewNameSet(reserved...)

	params := make([]templates.Param, len(m.Args))
	fields := make([]string, 0, len(m.Args)+1)
	for i, a := range m.Args {
		name := set.Fresh(a.Name)
		params[i] = templates.Param{Name: name, Type: a.Type}
		fields = append(fields, a.FieldName+": "+g.ownedValue(svc, a, name))
	}

	md := templates.ProxyMethodData{
		Docs:    m.Docs,
		Recv:    set.Fresh("p"),
		Owner:   owner,
		Name:    m.Name,
		Params:  templates.ParamList(params...),
		Results: "error",
	}
	if len(md.Docs) == 0 {
		md.Docs = []string{fmt.Sprintf("// %s sends a %s message.", m.Name, svc.VariantType(m))}
	}

	if m.HasReturn() {
		flavor := g.flavor(svc) + "[" + m.Returns + "]"
		md.Tx = set.Fresh("tx")
		md.Rx = set.Fresh("rx")
		md.Err = set.Fresh("err")
		md.Results = "(*" + flavor + ", error)"
		md.Create = g.rt(svc, "Create") + "[" + m.Returns + ", " + flavor + "]()"
		fields = append(fields, models.ReturnField+": "+md.Tx)
	}

	md.Message = svc.VariantType(m) + typeArgs(svc) + "{" + strings.Join(fields, ", ") + "}"
	return md
}

// ownedValue converts a proxy argument into the value stored in the variant
func (g *Generator) ownedValue(svc *models.ServiceMetadata, a models.ArgumentMetadata, name string) string {
	if !a.ToOwned {
		return name
	}
	switch a.OwnedKind {
	case models.OwnedPointer:
		return g.rt(svc, "Owned") + "(" + name + ")"
	case models.OwnedSlice:
		return "slices.Clone(" + name + ")"
	case models.OwnedMap:
		return "maps.Clone(" + name + ")"
	}
	return name
}
