package parser

const (
	// BuildTag marks source files whose declarations are re-emitted together
	// with the generated code
	BuildTag = "ctrlgen"

	// RuntimeQualifier is the name generated code imports the runtime under
	RuntimeQualifier = "ctrlgen"

	// RuntimeImportPath is the import path of the runtime package
	RuntimeImportPath = "github.com/toyz/ctrlgen/pkg/ctrlgen"

	// ContextImportPath is the package whose Context makes a method async
	ContextImportPath = "context"

	// ReservedReturnArg cannot name an argument in returnval mode
	ReservedReturnArg = "ret"
)
