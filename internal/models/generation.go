package models

// GeneratedFile is the output produced for one source file
type GeneratedFile struct {
	PackageName string             // name of the package
	SourceFile  string             // file the services were declared in
	FilePath    string             // path where the output should be written
	Content     string             // formatted Go source
	Services    []*ServiceMetadata // services rendered into this file
	Bundled     bool               // output carries the stripped source declarations
}

// GenerationSummary collects statistics about a run
type GenerationSummary struct {
	PackagesProcessed int      // packages scanned
	ServicesFound     int      // services with a //ctrlgen:service directive
	MethodsFound      int      // methods turned into variants
	GeneratedFiles    []string // written file paths
}
