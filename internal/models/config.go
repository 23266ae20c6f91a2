package models

import (
	"github.com/toyz/ctrlgen/internal/errors"
)

// SourceLocation is where a directive or declaration was found
type SourceLocation = errors.SourceLocation

// Visibility is the visibility modifier written in a service directive
type Visibility int

const (
	VisibilityInherited  Visibility = iota // nothing written; follows the name
	VisibilityPublic                       // pub
	VisibilityCrate                        // pub(crate) or pub_crate
	VisibilityRestricted                   // pub(<modifiers>)
)

// String returns the string representation of the visibility
func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "pub"
	case VisibilityCrate:
		return "pub(crate)"
	case VisibilityRestricted:
		return "pub(...)"
	default:
		return "inherited"
	}
}

// RequiresExported reports whether generated names must be exported
func (v Visibility) RequiresExported() bool {
	return v != VisibilityInherited
}

// Attr is a free-form attribute group, kept as written between its brackets
type Attr struct {
	Text     string         // raw text without the surrounding brackets
	Location SourceLocation // position of the opening bracket
}

// TypeRef is a Go type expression written inside a directive
type TypeRef struct {
	Expr     string         // raw type expression
	Location SourceLocation // position of the first token
}

// ProxyKind is the style of a generated proxy
type ProxyKind int

const (
	ProxyTrait  ProxyKind = iota // interface plus sender-backed implementation
	ProxyStruct                  // concrete struct owning the sender
)

// String returns the string representation of the proxy kind
func (k ProxyKind) String() string {
	switch k {
	case ProxyTrait:
		return "trait"
	case ProxyStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// ProxySpec is one entry of proxy(...)
type ProxySpec struct {
	Kind     ProxyKind
	Name     string
	Location SourceLocation
}

// ContextParam is the context(name: Type) clause
type ContextParam struct {
	Name     string
	Type     TypeRef
	Location SourceLocation
}

// IsUnit reports whether the context type is the empty struct
func (c *ContextParam) IsUnit() bool {
	return c != nil && c.Type.Expr == "struct{}"
}

// Configuration is the parsed //ctrlgen:service directive
type Configuration struct {
	EnumName        string         // name of the generated message type
	Visibility      Visibility     // visibility modifier
	VisibilityScope string         // modifier list of pub(...), verbatim
	EnumAttrs       []Attr         // attributes attached to the message type
	Returnval       *TypeRef       // return-value channel flavor, nil when absent
	Proxies         []ProxySpec    // requested proxies in declaration order
	Context         *ContextParam  // context parameter, nil when absent
	Location        SourceLocation // position of the directive
}

// HasReturnval reports whether a return-value channel is configured
func (c *Configuration) HasReturnval() bool {
	return c.Returnval != nil
}

// DirectiveKind identifies a method-level directive
type DirectiveKind int

const (
	DirectiveEnumAttr DirectiveKind = iota
	DirectiveReturnAttr
	DirectiveArgAttr
	DirectiveArgToOwned
	DirectiveSkip
)

// String returns the string representation of the directive kind
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveEnumAttr:
		return "enum_attr"
	case DirectiveReturnAttr:
		return "return_attr"
	case DirectiveArgAttr:
		return "arg enum_attr"
	case DirectiveArgToOwned:
		return "arg to_owned"
	case DirectiveSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// MethodDirective is a parsed //ctrlgen:<name> line in a method doc comment
type MethodDirective struct {
	Kind     DirectiveKind
	Arg      string // argument name for arg directives
	Attr     Attr   // attribute group for attr directives
	Location SourceLocation
}
