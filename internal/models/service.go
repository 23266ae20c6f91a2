package models

// ReceiverStyle classifies how a method takes its receiver
type ReceiverStyle int

const (
	ReceiverValue   ReceiverStyle = iota // func (s S)
	ReceiverPointer                      // func (s *S)
	ReceiverShared                       // reserved; no Go receiver form maps to it
)

// String returns the string representation of the receiver style
func (r ReceiverStyle) String() string {
	switch r {
	case ReceiverValue:
		return "value"
	case ReceiverPointer:
		return "pointer"
	case ReceiverShared:
		return "shared"
	default:
		return "unknown"
	}
}

// OwnedKind is the reference kind of a to_owned argument
type OwnedKind int

const (
	OwnedNone    OwnedKind = iota
	OwnedPointer           // *T stored as T; nil is stored as the zero T
	OwnedSlice             // []T stored as a clone
	OwnedMap               // map[K]V stored as a clone
)

// TypeParam is one type parameter of the service type
type TypeParam struct {
	Name       string // parameter name as declared on the type
	Constraint string // constraint expression
}

// Import is an import spec copied from a source file
type Import struct {
	Name string // explicit name, empty when none
	Path string // unquoted import path
}

// ArgumentMetadata describes one forwarded method argument
type ArgumentMetadata struct {
	Name      string    // parameter name
	FieldName string    // exported field name in the variant
	Type      string    // declared type
	ToOwned   bool      // store the owned counterpart
	OwnedKind OwnedKind // reference kind when ToOwned is set
	OwnedType string    // field type when ToOwned is set
	EnumAttrs []Attr    // struct tag fragments for the field
	Location  SourceLocation
}

// StoredType returns the type of the variant field
func (a ArgumentMetadata) StoredType() string {
	if a.ToOwned {
		return a.OwnedType
	}
	return a.Type
}

// MethodMetadata describes one method of the block
type MethodMetadata struct {
	Name        string             // method name
	VariantName string             // UpperCamel form of Name
	Receiver    ReceiverStyle      // how the method takes its receiver
	Args        []ArgumentMetadata // forwarded arguments in order
	Returns     string             // result type, empty when none
	Async       bool               // first parameter is context.Context
	EnumAttrs   []Attr             // attributes attached to the variant
	ReturnAttrs []Attr             // struct tag fragments for the Ret field
	Docs        []string           // doc comment lines, verbatim
	Skip        bool               // excluded with //ctrlgen:skip
	Location    SourceLocation
}

// HasReturn reports whether the method produces a value
func (m MethodMetadata) HasReturn() bool {
	return m.Returns != ""
}

// ServiceMetadata is the intermediate representation handed to generators
type ServiceMetadata struct {
	Name        string           // service type name
	PackageName string           // package the service lives in
	ImportPath  string           // package import path, when known
	TypeParams  []TypeParam      // type parameters of the service type
	Methods     []MethodMetadata // the method block, skipped methods removed
	Config      Configuration    // parsed service directive
	Imports     []Import         // imports visible to the method block
	SourceFile  string           // file declaring the service type
	Location    SourceLocation
}

// IsGeneric reports whether the service type has type parameters
func (s *ServiceMetadata) IsGeneric() bool {
	return len(s.TypeParams) > 0
}

// TypeArgs returns the type parameter names, for instantiating the
// service's generic types inside generated code
func (s *ServiceMetadata) TypeArgs() []string {
	names := make([]string, len(s.TypeParams))
	for i, p := range s.TypeParams {
		names[i] = p.Name
	}
	return names
}

// IsAsync reports whether any method takes a context.Context
func (s *ServiceMetadata) IsAsync() bool {
	for _, m := range s.Methods {
		if m.Async {
			return true
		}
	}
	return false
}

// HasContext reports whether a context parameter is configured
func (s *ServiceMetadata) HasContext() bool {
	return s.Config.Context != nil
}
