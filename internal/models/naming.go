package models

import (
	"go/token"

	"github.com/toyz/ctrlgen/internal/utils"
)

// Names of the generated dispatch entry points. Variant fields may not use
// them.
const (
	MethodCallMut             = "CallMut"
	MethodCallMutAsync        = "CallMutAsync"
	MethodCallMutWithCtx      = "CallMutWithCtx"
	MethodCallMutAsyncWithCtx = "CallMutAsyncWithCtx"
	MethodDiscard             = "Discard"

	// ReturnField is the variant field carrying the return-value sender
	ReturnField = "Ret"
	// SendMethod is the raw send method every proxy exposes
	SendMethod = "Send"
)

// VariantType returns the type name of the variant generated for m
func (s *ServiceMetadata) VariantType(m MethodMetadata) string {
	return s.Config.EnumName + m.VariantName
}

// ContextAlias returns the name of the context type alias
func (s *ServiceMetadata) ContextAlias() string {
	return s.Config.EnumName + "Context"
}

// MarkerMethod returns the name of the unexported sealing method
func (s *ServiceMetadata) MarkerMethod() string {
	return "is" + s.Config.EnumName
}

// ProxyImplName returns the implementation struct of a trait proxy
func ProxyImplName(p ProxySpec) string {
	if p.Kind == ProxyStruct {
		return p.Name
	}
	if token.IsExported(p.Name) {
		return utils.LowerFirst(p.Name)
	}
	return p.Name + "Impl"
}

// ProxyConstructor returns the constructor name of a proxy
func ProxyConstructor(p ProxySpec) string {
	if token.IsExported(p.Name) {
		return "New" + p.Name
	}
	return "new" + utils.UpperFirst(p.Name)
}

// GeneratedName is a package-level identifier declared by generated code
type GeneratedName struct {
	Name string
	What string // short description for diagnostics
}

// GeneratedNames returns every package-level identifier the generated code
// declares for s, in declaration order
func (s *ServiceMetadata) GeneratedNames() []GeneratedName {
	names := []GeneratedName{{s.Config.EnumName, "message type"}}
	for _, m := range s.Methods {
		names = append(names, GeneratedName{s.VariantType(m), "variant for method " + m.Name})
	}
	if s.HasContext() {
		names = append(names, GeneratedName{s.ContextAlias(), "context type alias"})
	}
	for _, p := range s.Config.Proxies {
		names = append(names, GeneratedName{p.Name, "proxy"})
		if p.Kind == ProxyTrait {
			names = append(names, GeneratedName{ProxyImplName(p), "proxy implementation"})
		}
		names = append(names, GeneratedName{ProxyConstructor(p), "proxy constructor"})
	}
	return names
}
