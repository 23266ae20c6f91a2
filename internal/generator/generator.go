package generator

import (
	"bufio"
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/parser"
	"github.com/toyz/ctrlgen/internal/templates"
	"github.com/toyz/ctrlgen/internal/utils"
)

// Header is the first line of every generated file
const Header = "// Code generated by ctrlgen. DO NOT EDIT."

// Options configures a Generator
type Options struct {
	RuntimeImport string   // import path of the runtime library
	Suffix        string   // output file suffix
	Header        []string // extra comment lines written after Header
}

// Generator renders services into Go source files
type Generator struct {
	opts     Options
	registry *templates.TemplateRegistry
}

// NewGenerator creates a new code generator instance
func NewGenerator(opts Options) *Generator {
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = parser.RuntimeImportPath
	}
	if opts.Suffix == "" {
		opts.Suffix = utils.DefaultGeneratedSuffix
	}
	return &Generator{
		opts:     opts,
		registry: templates.DefaultTemplateRegistry,
	}
}

// GeneratePackage generates one file per source file declaring services.
// Bundle files always produce output since the compiler never sees them.
func (g *Generator) GeneratePackage(pkg *parser.Package, services []*models.ServiceMetadata) ([]*models.GeneratedFile, error) {
	bySource := make(map[string][]*models.ServiceMetadata)
	for _, svc := range services {
		bySource[svc.SourceFile] = append(bySource[svc.SourceFile], svc)
	}

	var files []*models.GeneratedFile
	for _, file := range pkg.Files {
		svcs := bySource[file.Path]
		if len(svcs) == 0 && !file.Bundle {
			continue
		}
		out, err := g.GenerateFile(pkg, file, svcs)
		if err != nil {
			return nil, err
		}
		files = append(files, out)
	}
	return files, nil
}

// GenerateFile assembles the output for one source file: the generated
// code alone, or for bundle files the stripped source followed by it
func (g *Generator) GenerateFile(pkg *parser.Package, file *parser.SourceFile, services []*models.ServiceMetadata) (*models.GeneratedFile, error) {
	var body strings.Builder
	for _, svc := range services {
		code, err := g.GenerateService(svc)
		if err != nil {
			return nil, err
		}
		body.WriteString("\n")
		body.WriteString(code)
	}

	needed := g.requiredImports(services)

	var src strings.Builder
	src.WriteString(g.header(file.Path))
	if file.Bundle {
		text, err := g.bundleSource(pkg, file, needed)
		if err != nil {
			return nil, err
		}
		src.WriteString(text)
	} else {
		im := templates.NewImportManager(parser.ImportName)
		for _, svc := range services {
			for _, imp := range svc.Imports {
				if err := im.AddNamedImport(imp.Name, imp.Path); err != nil {
					return nil, err
				}
			}
		}
		for _, imp := range needed {
			if err := im.AddNamedImport(imp.Name, imp.Path); err != nil {
				return nil, err
			}
		}
		fmt.Fprintf(&src, "package %s\n", pkg.Name)
		if !im.IsEmpty() {
			src.WriteString("\n" + im.GenerateImports())
		}
	}
	src.WriteString(body.String())

	outPath := strings.TrimSuffix(file.Path, ".go") + g.opts.Suffix
	content, err := utils.FormatGoCodeString(outPath, src.String())
	if err != nil {
		return nil, errors.WrapGenerateError(filepath.Base(outPath), err).
			WithContext("source", file.Path)
	}

	return &models.GeneratedFile{
		PackageName: pkg.Name,
		SourceFile:  file.Path,
		FilePath:    outPath,
		Content:     content,
		Services:    services,
		Bundled:     file.Bundle,
	}, nil
}

// GenerateService renders the message type, dispatcher and proxies of svc
func (g *Generator) GenerateService(svc *models.ServiceMetadata) (string, error) {
	enum, err := g.GenerateEnum(svc)
	if err != nil {
		return "", errors.WrapGenerateError("message type for "+svc.Name, err)
	}
	dispatch, err := g.GenerateDispatch(svc)
	if err != nil {
		return "", errors.WrapGenerateError("dispatcher for "+svc.Name, err)
	}
	proxies, err := g.GenerateProxies(svc)
	if err != nil {
		return "", errors.WrapGenerateError("proxies for "+svc.Name, err)
	}
	return enum + "\n" + dispatch + "\n" + proxies, nil
}

func (g *Generator) header(source string) string {
	var b strings.Builder
	b.WriteString(Header + "\n")
	fmt.Fprintf(&b, "// Source: %s\n", filepath.Base(source))
	for _, line := range g.opts.Header {
		b.WriteString("// " + line + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// bundleSource prints the directive-stripped source file without its build
// constraint, with the imports the generated code needs added
func (g *Generator) bundleSource(pkg *parser.Package, file *parser.SourceFile, needed []models.Import) (string, error) {
	im := templates.NewImportManager(parser.ImportName)
	for _, spec := range file.AST.Imports {
		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if err := im.AddNamedImport(name, strings.Trim(spec.Path.Value, "`\"")); err != nil {
			return "", err
		}
	}
	for _, imp := range needed {
		if err := im.AddNamedImport(imp.Name, imp.Path); err != nil {
			return "", err
		}
		astutil.AddNamedImport(pkg.Fset, file.AST, imp.Name, imp.Path)
	}

	parser.StripBuildConstraints(file.AST)

	var buf bytes.Buffer
	if err := format.Node(&buf, pkg.Fset, file.AST); err != nil {
		return "", errors.WrapGenerateError("bundle source "+filepath.Base(file.Path), err)
	}
	return buf.String(), nil
}

// requiredImports lists the imports generated code refers to
func (g *Generator) requiredImports(services []*models.ServiceMetadata) []models.Import {
	var out []models.Import
	add := func(imp models.Import) {
		if !slices.Contains(out, imp) {
			out = append(out, imp)
		}
	}

	for _, svc := range services {
		if svc.IsAsync() {
			add(models.Import{Path: parser.ContextImportPath})
		}
		if g.runtime(svc) != "" && usesRuntime(svc) {
			imp := models.Import{Path: g.opts.RuntimeImport}
			if parser.ImportName(imp.Path) != parser.RuntimeQualifier {
				imp.Name = parser.RuntimeQualifier
			}
			add(imp)
		}
		if len(svc.Config.Proxies) == 0 {
			continue
		}
		for _, m := range svc.Methods {
			for _, a := range m.Args {
				switch {
				case !a.ToOwned:
				case a.OwnedKind == models.OwnedSlice:
					add(models.Import{Path: "slices"})
				case a.OwnedKind == models.OwnedMap:
					add(models.Import{Path: "maps"})
				}
			}
		}
	}
	return out
}

func usesRuntime(svc *models.ServiceMetadata) bool {
	if len(svc.Config.Proxies) > 0 {
		return true
	}
	for _, m := range svc.Methods {
		if m.HasReturn() {
			return true
		}
	}
	return false
}

// runtime returns the runtime qualifier for svc, empty when svc lives in
// the runtime package
func (g *Generator) runtime(svc *models.ServiceMetadata) string {
	if svc.ImportPath != "" && svc.ImportPath == g.opts.RuntimeImport {
		return ""
	}
	return parser.RuntimeQualifier
}

func (g *Generator) renderer(svc *models.ServiceMetadata) *templates.Renderer {
	return templates.NewRenderer(g.registry, g.runtime(svc))
}

// HasHeader reports whether content starts with the generated-code header
func HasHeader(content []byte) bool {
	line, _, err := bufio.NewReader(bytes.NewReader(content)).ReadLine()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(line)) == Header
}
