package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/toyz/ctrlgen/internal/cli"
	"github.com/toyz/ctrlgen/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("ctrlgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		moduleFlag  = flags.String("module", "", "Custom module path for the scanned packages (defaults to go.mod module)")
		runtimeFlag = flags.String("runtime", "", "Import path of the runtime library (defaults to github.com/toyz/ctrlgen/pkg/ctrlgen)")
		configFlag  = flags.String("config", "", "Configuration file (defaults to ./"+cli.ConfigFileName+" when present)")
		suffixFlag  = flags.String("suffix", "", "Suffix of generated files (defaults to _ctrlgen.go)")
		cleanFlag   = flags.Bool("clean", false, "Delete generated files from the specified directories")
		watchFlag   = flags.Bool("watch", false, "Regenerate packages when their sources change")
		dryRunFlag  = flags.Bool("dry-run", false, "Print generated files to stdout instead of writing them")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors")
		helpFlag    = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ctrlgen [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "ctrlgen Message Code Generator\n")
		fmt.Fprintf(stderr, "Generates message enums, dispatchers and proxies for types annotated with //ctrlgen:service.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "                     Under go generate, the current package is used when none is given\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  ctrlgen ./...                  # Generate everything recursively\n")
		fmt.Fprintf(stderr, "  ctrlgen -dry-run ./internal/x  # Print the output for one package\n")
		fmt.Fprintf(stderr, "  ctrlgen -clean ./...           # Delete all generated files\n")
		fmt.Fprintf(stderr, "  ctrlgen -watch ./...           # Regenerate on change\n")
		fmt.Fprintf(stderr, "  //go:generate go run github.com/toyz/ctrlgen/cmd/ctrlgen\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *helpFlag {
		flags.Usage()
		return 0
	}

	dirs := flags.Args()
	if len(dirs) == 0 && os.Getenv("GOFILE") != "" {
		dirs = []string{"."}
	}
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		flags.Usage()
		return 1
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	// generated code owns stdout during a dry run
	if *dryRunFlag {
		diagnostics.SetOutput(stderr, stderr)
	} else {
		diagnostics.SetOutput(stdout, stderr)
	}

	config := cli.Config{
		Directories: dirs,
		ModuleName:  *moduleFlag,
		Runtime:     *runtimeFlag,
		Suffix:      *suffixFlag,
		DryRun:      *dryRunFlag,
		Verbose:     *verboseFlag,
	}
	configPath := *configFlag
	if configPath == "" {
		configPath = cli.FindConfigFile(".")
	}
	if configPath != "" {
		fc, err := cli.LoadConfigFile(configPath)
		if err != nil {
			diagnostics.ReportError(err)
			return 1
		}
		config.Merge(fc)
		diagnostics.Debug("Loaded %s", configPath)
	}

	diagnostics.Section("ctrlgen")

	if *cleanFlag {
		diagnostics.StartProgress("Cleaning generated files")
		cleaner := cli.NewCleaner(utils.NewFileProcessor(config.Suffix), config.Exclude)
		removed, err := cleaner.CleanGeneratedFiles(dirs)
		for _, path := range removed {
			diagnostics.Verbose("Removed %s", path)
		}
		if err != nil {
			diagnostics.EndProgress(false, "")
			diagnostics.ReportError(err)
			return 1
		}
		diagnostics.EndProgress(true, "")
		diagnostics.Success("Removed %d generated files", len(removed))
		return 0
	}

	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(dirs, ", "))
		if config.ModuleName != "" {
			diagnostics.List("Custom module: %s", config.ModuleName)
		}
		if config.Runtime != "" {
			diagnostics.List("Runtime: %s", config.Runtime)
		}
		if config.Suffix != "" {
			diagnostics.List("Suffix: %s", config.Suffix)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator := cli.NewGenerator(config, diagnostics)
	generator.SetOutput(stdout)

	diagnostics.StartProgress("Generating")
	err := generator.Run(ctx)
	if err != nil {
		diagnostics.EndProgress(false, "")
		diagnostics.ReportError(err)
		if !*watchFlag {
			return 1
		}
	} else {
		diagnostics.EndProgress(true, "")
		summary := generator.GetSummary()
		diagnostics.Summary("Generation Complete!", map[string]interface{}{
			"Packages processed": summary.PackagesProcessed,
			"Services found":     summary.ServicesFound,
			"Methods found":      summary.MethodsFound,
			"Files generated":    len(summary.GeneratedFiles),
		})
		if diagnostics.Level() >= utils.DiagnosticVerbose {
			diagnostics.Indent()
			for _, file := range summary.GeneratedFiles {
				diagnostics.List("%s", file)
			}
			diagnostics.Unindent()
		}
	}

	if *watchFlag {
		if err := cli.NewWatcher(generator, cli.DefaultDebounce).Watch(ctx); err != nil {
			diagnostics.ReportError(err)
			return 1
		}
	}
	return 0
}
