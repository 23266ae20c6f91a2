package cli

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/toyz/ctrlgen/internal/errors"
)

// ConfigFileName is the optional project configuration file
const ConfigFileName = "ctrlgen.yaml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// A trailing /... scans recursively.
	Directories []string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Runtime is the import path of the runtime library
	Runtime string

	// Suffix names generated files
	Suffix string

	// Header lines are written below the generated-code header
	Header []string

	// Concurrency bounds the packages processed at once; 0 means GOMAXPROCS
	Concurrency int

	// Exclude lists directory patterns to skip
	Exclude []string

	// DryRun prints generated files instead of writing them
	DryRun bool

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// FileConfig is the content of ctrlgen.yaml
type FileConfig struct {
	Runtime     string   `yaml:"runtime"`
	Suffix      string   `yaml:"suffix"`
	Header      []string `yaml:"header"`
	Concurrency int      `yaml:"concurrency"`
	Exclude     []string `yaml:"exclude"`
}

// LoadConfigFile reads a configuration file. Unknown keys are rejected.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig

	content, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.WrapFileSystemError("read", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !stderrors.Is(err, io.EOF) {
		return fc, errors.WrapConfigurationError(filepath.Base(path), "parse", err).
			WithContext("path", path).
			WithSuggestion("Known keys are runtime, suffix, header, concurrency and exclude")
	}
	if fc.Concurrency < 0 {
		return fc, errors.Newf(errors.ConfigurationErrorCode, "%s: concurrency must not be negative, got %d", path, fc.Concurrency)
	}
	return fc, nil
}

// FindConfigFile returns the ctrlgen.yaml in dir, or "" when there is none
func FindConfigFile(dir string) string {
	path := filepath.Join(dir, ConfigFileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Merge fills the settings not given on the command line from fc
func (c *Config) Merge(fc FileConfig) {
	if c.Runtime == "" {
		c.Runtime = fc.Runtime
	}
	if c.Suffix == "" {
		c.Suffix = fc.Suffix
	}
	if len(c.Header) == 0 {
		c.Header = fc.Header
	}
	if c.Concurrency == 0 {
		c.Concurrency = fc.Concurrency
	}
	c.Exclude = append(c.Exclude, fc.Exclude...)
}
