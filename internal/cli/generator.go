package cli

import (
	"context"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/generator"
	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/parser"
	"github.com/toyz/ctrlgen/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	config         Config
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	fileProcessor  *utils.FileProcessor
	codeGenerator  *generator.Generator
	diagnostics    *utils.DiagnosticSystem

	mu      sync.Mutex
	stdout  io.Writer
	summary models.GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	fp := utils.NewFileProcessor(config.Suffix)
	return &Generator{
		config:         config,
		scanner:        NewDirectoryScanner(fp, config.Exclude),
		moduleResolver: NewModuleResolver(config.ModuleName),
		fileProcessor:  fp,
		codeGenerator: generator.NewGenerator(generator.Options{
			RuntimeImport: config.Runtime,
			Suffix:        fp.Suffix(),
			Header:        config.Header,
		}),
		diagnostics: diagnostics,
		stdout:      os.Stdout,
	}
}

// SetOutput redirects dry-run output
func (g *Generator) SetOutput(w io.Writer) {
	g.stdout = w
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() models.GenerationSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	summary := g.summary
	summary.GeneratedFiles = slices.Clone(g.summary.GeneratedFiles)
	slices.Sort(summary.GeneratedFiles)
	return summary
}

// Run scans the configured directories and generates every package. The
// first failing package cancels the ones not yet started.
func (g *Generator) Run(ctx context.Context) error {
	start := time.Now()
	g.mu.Lock()
	g.summary = models.GenerationSummary{}
	g.mu.Unlock()

	g.diagnostics.Debug("Scanning directories: %v", g.config.Directories)
	dirs, err := g.scanner.ScanDirectories(g.config.Directories)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return errors.New(errors.ValidationErrorCode, "no Go packages found in specified directories").
			WithContext("directories", g.config.Directories).
			WithSuggestions(
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use the './...' pattern",
			)
	}
	g.diagnostics.Info("Found %d packages to process", len(dirs))

	limit := g.config.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, dir := range dirs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.ProcessPackage(dir)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	g.diagnostics.Verbose("Generation finished in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// ProcessPackage generates the package in dir and writes its output. Stale
// output of files that no longer declare services is removed.
func (g *Generator) ProcessPackage(dir string) error {
	fp := g.fileProcessor
	sources, err := fp.ListFiles(dir, fp.SourceFileFilter())
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}

	pkg, err := parser.LoadPackage(token.NewFileSet(), dir, sources)
	if err != nil {
		// every file excluded by a build constraint
		if errors.CodeOf(err) == errors.FileSystemErrorCode {
			g.diagnostics.Debug("%s: no files to process", relPath(dir))
			return nil
		}
		return err
	}
	if path, err := g.moduleResolver.ImportPath(dir); err != nil {
		g.diagnostics.Debug("%s: import path unknown: %v", relPath(dir), err)
	} else {
		pkg.ImportPath = path
	}

	services, err := parser.NewAnalyzer().AnalyzePackage(pkg)
	if err != nil {
		return err
	}
	files, err := g.codeGenerator.GeneratePackage(pkg, services)
	if err != nil {
		return err
	}

	written := make(map[string]bool, len(files))
	for _, file := range files {
		written[file.FilePath] = true
		if err := g.emit(file); err != nil {
			return err
		}
	}
	if !g.config.DryRun {
		if err := g.removeStale(dir, written); err != nil {
			return err
		}
	}

	g.record(pkg, services, files)
	return nil
}

func (g *Generator) emit(file *models.GeneratedFile) error {
	if g.config.DryRun {
		g.mu.Lock()
		defer g.mu.Unlock()
		_, err := fmt.Fprintf(g.stdout, "// ==> %s\n%s\n", file.FilePath, file.Content)
		return err
	}
	if err := g.fileProcessor.WriteFile(file.FilePath, file.Content); err != nil {
		return err
	}
	g.diagnostics.Verbose("Wrote %s", relPath(file.FilePath))
	return nil
}

// removeStale deletes generated files in dir that this run did not produce
func (g *Generator) removeStale(dir string, written map[string]bool) error {
	existing, err := g.fileProcessor.ListFiles(dir, g.fileProcessor.GeneratedFileFilter())
	if err != nil {
		return err
	}
	for _, path := range existing {
		if written[path] {
			continue
		}
		removed, err := removeGenerated(path)
		if err != nil {
			return err
		}
		if removed {
			g.diagnostics.Verbose("Removed stale %s", relPath(path))
		}
	}
	return nil
}

func (g *Generator) record(pkg *parser.Package, services []*models.ServiceMetadata, files []*models.GeneratedFile) {
	methods := 0
	for _, svc := range services {
		methods += len(svc.Methods)
		g.diagnostics.Debug("%s: service %s (%d methods) -> %s", pkg, svc.Name, len(svc.Methods), svc.Config.EnumName)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.summary.PackagesProcessed++
	g.summary.ServicesFound += len(services)
	g.summary.MethodsFound += methods
	for _, f := range files {
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, f.FilePath)
	}
}

// relPath shortens path for display
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
