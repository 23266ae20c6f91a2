package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/utils"
)

// ModuleResolver maps package directories to import paths
type ModuleResolver struct {
	customModule string

	mu      sync.Mutex
	modules map[string]utils.GoModule // go.mod lookups by directory
}

// NewModuleResolver creates a new module resolver. A non-empty
// customModule is used as the module path of the working directory instead
// of reading go.mod.
func NewModuleResolver(customModule string) *ModuleResolver {
	return &ModuleResolver{
		customModule: customModule,
		modules:      make(map[string]utils.GoModule),
	}
}

// ImportPath returns the import path of the package in dir
func (r *ModuleResolver) ImportPath(dir string) (string, error) {
	if r.customModule != "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.WrapFileSystemError("resolve", ".", err)
		}
		return utils.GoModule{Path: r.customModule, Dir: wd}.ImportPath(dir)
	}

	mod, err := r.module(dir)
	if err != nil {
		return "", errors.Wrap(errors.ConfigurationErrorCode, "failed to determine module name", err).
			WithContext("directory", dir).
			WithSuggestions(
				"Check your go.mod file exists and is valid",
				"Try specifying -module explicitly",
			)
	}
	return mod.ImportPath(dir)
}

func (r *ModuleResolver) module(dir string) (utils.GoModule, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return utils.GoModule{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if mod, ok := r.modules[abs]; ok {
		return mod, nil
	}
	mod, err := utils.FindModule(abs)
	if err != nil {
		return utils.GoModule{}, err
	}
	r.modules[abs] = mod
	return mod, nil
}
