package parser

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/toyz/ctrlgen/internal/annotations"
	"github.com/toyz/ctrlgen/internal/models"
)

// Analyzer turns annotated method blocks into service metadata
type Analyzer struct {
	directives *annotations.DirectiveParser
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{directives: annotations.NewDirectiveParser()}
}

// BlockMethod is one method of a block and the file declaring it
type BlockMethod struct {
	File *SourceFile
	Decl *ast.FuncDecl
}

// MethodBlock is an annotated type and its methods in source order
type MethodBlock struct {
	Package *Package
	File    *SourceFile // file declaring the type
	Decl    *ast.GenDecl
	Spec    *ast.TypeSpec
	Methods []BlockMethod
}

type serviceTarget struct {
	block MethodBlock
	cfg   models.Configuration
}

// AnalyzePackage finds every //ctrlgen:service type of pkg and analyzes its
// method block. ctrlgen directives are stripped from the ASTs.
func (a *Analyzer) AnalyzePackage(pkg *Package) ([]*models.ServiceMetadata, error) {
	r := errorReporter{fset: pkg.Fset}

	targets, order, err := a.findServices(pkg, r)
	if err != nil {
		return nil, err
	}

	for _, file := range pkg.Files {
		for _, decl := range file.AST.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			if fn.Recv == nil || len(fn.Recv.List) == 0 {
				if c := firstDirective(fn.Doc); c != nil {
					return nil, r.noReceiver(c.Slash, fn.Name.Name)
				}
				continue
			}

			base := receiverBase(fn.Recv.List[0].Type)
			target, ok := targets[base]
			if !ok {
				if c := firstDirective(fn.Doc); c != nil {
					return nil, r.strayDirective(r.at(c.Slash), base)
				}
				continue
			}
			target.block.Methods = append(target.block.Methods, BlockMethod{File: file, Decl: fn})
		}
	}

	services := make([]*models.ServiceMetadata, 0, len(order))
	for _, target := range order {
		svc, err := a.Analyze(target.block, target.cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}

	if err := checkPackageNames(pkg, services, r); err != nil {
		return nil, err
	}
	return services, nil
}

// findServices parses the service directives of every type declaration and
// strips them
func (a *Analyzer) findServices(pkg *Package, r errorReporter) (map[string]*serviceTarget, []*serviceTarget, error) {
	targets := make(map[string]*serviceTarget)
	var order []*serviceTarget

	for _, file := range pkg.Files {
		for _, decl := range file.AST.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			grouped := gen.Lparen.IsValid() && len(gen.Specs) > 1
			if grouped {
				if c := firstDirective(gen.Doc); c != nil {
					return nil, nil, r.groupDirective(r.at(c.Slash))
				}
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				docs := []**ast.CommentGroup{&ts.Doc}
				if !grouped {
					docs = append(docs, &gen.Doc)
				}

				cfg, found, err := a.serviceDirective(file, docs, ts.Name.Name, r)
				if err != nil {
					return nil, nil, err
				}
				if !found {
					continue
				}

				target := &serviceTarget{
					block: MethodBlock{Package: pkg, File: file, Decl: gen, Spec: ts},
					cfg:   cfg,
				}
				targets[ts.Name.Name] = target
				order = append(order, target)
			}
		}
	}
	return targets, order, nil
}

func (a *Analyzer) serviceDirective(file *SourceFile, docs []**ast.CommentGroup, name string, r errorReporter) (models.Configuration, bool, error) {
	var cfg models.Configuration
	found := false

	for _, doc := range docs {
		if *doc == nil {
			continue
		}
		for _, c := range (*doc).List {
			d, ok := annotations.SplitDirective(c.Text)
			if !ok {
				continue
			}
			loc := r.at(c.Slash)
			if d.Name != annotations.ServiceDirective {
				return cfg, false, r.typeDirective(loc, d.Name)
			}
			if found {
				return cfg, false, r.duplicateService(loc, name, cfg.Location)
			}

			parsed, err := a.directives.ParseService(d.Body, loc.Offset(d.BodyOffset))
			if err != nil {
				return cfg, false, err
			}
			cfg = parsed
			cfg.Location = loc
			found = true
		}
		stripDirectives(file.AST, doc)
	}
	return cfg, found, nil
}

// Analyze validates one method block against its configuration and builds
// the service metadata. Directives are stripped from the block's methods.
func (a *Analyzer) Analyze(block MethodBlock, cfg models.Configuration) (*models.ServiceMetadata, error) {
	pkg := block.Package
	r := errorReporter{fset: pkg.Fset}
	spec := block.Spec
	name := spec.Name.Name

	if spec.Assign.IsValid() {
		return nil, r.aliasTarget(spec.Name.Pos(), name)
	}
	if _, ok := spec.Type.(*ast.InterfaceType); ok {
		return nil, r.interfaceTarget(spec.Name.Pos(), name)
	}

	svc := &models.ServiceMetadata{
		Name:        name,
		PackageName: pkg.Name,
		ImportPath:  pkg.ImportPath,
		Config:      cfg,
		SourceFile:  block.File.Path,
		Location:    r.at(spec.Name.Pos()),
	}

	var declParams []string
	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			constraint, err := printExpr(pkg.Fset, field.Type)
			if err != nil {
				return nil, err
			}
			for _, id := range field.Names {
				svc.TypeParams = append(svc.TypeParams, models.TypeParam{Name: id.Name, Constraint: constraint})
				declParams = append(declParams, id.Name)
			}
		}
	}

	imports := newImportSet()
	if err := imports.addFile(pkg, block.File.AST); err != nil {
		return nil, err
	}
	seen := map[*SourceFile]bool{block.File: true}

	variants := make(map[string]models.MethodMetadata)
	for _, bm := range block.Methods {
		if !seen[bm.File] {
			seen[bm.File] = true
			if err := imports.addFile(pkg, bm.File.AST); err != nil {
				return nil, err
			}
		}

		m, err := a.method(r, &cfg, declParams, bm)
		if err != nil {
			return nil, err
		}
		if m.Skip {
			continue
		}

		if other, ok := variants[m.VariantName]; ok {
			return nil, r.variantCollision(m.Location, m.Name, other.Name, other.Location, m.VariantName)
		}
		variants[m.VariantName] = *m
		svc.Methods = append(svc.Methods, *m)
	}
	svc.Imports = imports.list

	if err := checkConfig(svc, imports, r); err != nil {
		return nil, err
	}
	return svc, nil
}

// checkConfig validates the directive against the analyzed block
func checkConfig(svc *models.ServiceMetadata, imports *importSet, r errorReporter) error {
	cfg := &svc.Config

	if cfg.EnumName == svc.Name {
		return r.enumIsService(cfg.Location, cfg.EnumName)
	}

	if cfg.Visibility.RequiresExported() {
		if !ast.IsExported(cfg.EnumName) {
			return r.unexported(cfg.Location, "message type", cfg.EnumName)
		}
		for _, p := range cfg.Proxies {
			if !ast.IsExported(p.Name) {
				return r.unexported(p.Location, "proxy", p.Name)
			}
		}
	}

	if cfg.Returnval != nil {
		if err := checkQualifiers(cfg.Returnval, "returnval", imports, r); err != nil {
			return err
		}
	}
	if cfg.Context != nil {
		if err := checkQualifiers(&cfg.Context.Type, "context", imports, r); err != nil {
			return err
		}
	}

	if len(cfg.Proxies) > 0 {
		for _, m := range svc.Methods {
			if m.Name == models.SendMethod {
				return r.sendCollision(m.Location)
			}
		}
	}
	return nil
}

func checkQualifiers(ref *models.TypeRef, clause string, imports *importSet, r errorReporter) error {
	expr, err := parseTypeExpr(ref.Expr)
	if err != nil {
		return err
	}
	for _, q := range qualifiers(expr) {
		if !imports.has(q) {
			return r.unknownQualifier(ref.Location, q, clause)
		}
	}
	return nil
}

// checkPackageNames reports generated identifiers that clash with each
// other or with declarations of the package
func checkPackageNames(pkg *Package, services []*models.ServiceMetadata, r errorReporter) error {
	declared := packageDecls(pkg)
	generated := make(map[string]string)

	for _, svc := range services {
		for _, n := range svc.GeneratedNames() {
			if pos, ok := declared[n.Name]; ok {
				return r.nameClash(svc.Config.Location, n.Name, n.What, fmt.Sprintf("the declaration at %s", r.at(pos)))
			}
			if other, ok := generated[n.Name]; ok {
				return r.nameClash(svc.Config.Location, n.Name, n.What, "the generated "+other)
			}
			generated[n.Name] = n.What + " of " + svc.Name
		}
	}
	return nil
}

// packageDecls returns the package-level identifiers declared by pkg
func packageDecls(pkg *Package) map[string]token.Pos {
	names := make(map[string]token.Pos)
	add := func(id *ast.Ident) {
		if id.Name != "_" {
			names[id.Name] = id.Pos()
		}
	}

	for _, file := range pkg.Files {
		for _, decl := range file.AST.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					add(d.Name)
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						add(s.Name)
					case *ast.ValueSpec:
						for _, id := range s.Names {
							add(id)
						}
					}
				}
			}
		}
	}
	return names
}

// receiverBase returns the type name of a receiver, or "" when the
// receiver is not a (possibly instantiated) identifier
func receiverBase(expr ast.Expr) string {
	e := ast.Unparen(expr)
	if star, ok := e.(*ast.StarExpr); ok {
		e = ast.Unparen(star.X)
	}
	switch t := e.(type) {
	case *ast.IndexExpr:
		e = t.X
	case *ast.IndexListExpr:
		e = t.X
	}
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}
