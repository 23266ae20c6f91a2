package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxyNames(t *testing.T) {
	tests := []struct {
		proxy       ProxySpec
		impl        string
		constructor string
	}{
		{ProxySpec{Kind: ProxyTrait, Name: "ServiceProxy"}, "serviceProxy", "NewServiceProxy"},
		{ProxySpec{Kind: ProxyTrait, Name: "svcProxy"}, "svcProxyImpl", "newSvcProxy"},
		{ProxySpec{Kind: ProxyStruct, Name: "Client"}, "Client", "NewClient"},
	}

	for _, tt := range tests {
		t.Run(tt.proxy.Name, func(t *testing.T) {
			assert.Equal(t, tt.impl, ProxyImplName(tt.proxy))
			assert.Equal(t, tt.constructor, ProxyConstructor(tt.proxy))
		})
	}
}

func TestServiceMetadata_GeneratedNames(t *testing.T) {
	svc := &ServiceMetadata{
		Name:       "Service",
		TypeParams: []TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V", Constraint: "any"}},
		Methods: []MethodMetadata{
			{Name: "increment", VariantName: "Increment"},
			{Name: "Get", VariantName: "Get", Returns: "int"},
		},
		Config: Configuration{
			EnumName: "ServiceMsg",
			Proxies:  []ProxySpec{{Kind: ProxyTrait, Name: "ServiceProxy"}},
			Context:  &ContextParam{Name: "env", Type: TypeRef{Expr: "struct{}"}},
		},
	}

	assert.Equal(t, "ServiceMsgIncrement", svc.VariantType(svc.Methods[0]))
	assert.Equal(t, "isServiceMsg", svc.MarkerMethod())
	assert.Equal(t, []string{"K", "V"}, svc.TypeArgs())
	assert.True(t, svc.IsGeneric())
	assert.True(t, svc.HasContext())
	assert.True(t, svc.Config.Context.IsUnit())
	assert.True(t, svc.Methods[1].HasReturn())

	assert.Equal(t, []GeneratedName{
		{"ServiceMsg", "message type"},
		{"ServiceMsgIncrement", "variant for method increment"},
		{"ServiceMsgGet", "variant for method Get"},
		{"ServiceMsgContext", "context type alias"},
		{"ServiceProxy", "proxy"},
		{"serviceProxy", "proxy implementation"},
		{"NewServiceProxy", "proxy constructor"},
}, svc.GeneratedNames())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "pub(crate)", VisibilityCrate.String())
	assert.True(t, VisibilityRestricted.RequiresExported())
	assert.False(t, VisibilityInherited.RequiresExported())
	assert.Equal(t, "pointer", ReceiverPointer.String())
	assert.Equal(t, "struct", ProxyStruct.String())
	assert.Equal(t, "arg to_owned", DirectiveArgToOwned.String())
}

func TestArgumentMetadata_StoredType(t *testing.T) {
	owned := ArgumentMetadata{Type: "*Config", ToOwned: true, OwnedKind: OwnedPointer, OwnedType: "Config"}
	plain := ArgumentMetadata{Type: "*Config"}

	assert.Equal(t, "Config", owned.StoredType())
	assert.Equal(t, "*Config", plain.StoredType())
}
