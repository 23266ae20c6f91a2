package cli

import (
	"bufio"
	"os"

	"go.uber.org/multierr"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/generator"
	"github.com/toyz/ctrlgen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner       *DirectoryScanner
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner(fp *utils.FileProcessor, exclude []string) *Cleaner {
	return &Cleaner{
		scanner:       NewDirectoryScanner(fp, exclude),
		fileProcessor: fp,
	}
}

// CleanGeneratedFiles removes the generated files in the given directories.
// Files with the generated suffix but without the ctrlgen header are left
// alone. Every failure is reported; cleaning continues past them.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	dirs, err := c.scanner.ScanDirectories(patterns)
	if err != nil {
		return nil, err
	}

	var removed []string
	var errs error
	for _, dir := range dirs {
		files, err := c.fileProcessor.ListFiles(dir, c.fileProcessor.GeneratedFileFilter())
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, file := range files {
			ok, err := removeGenerated(file)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if ok {
				removed = append(removed, file)
			}
		}
	}
	return removed, errs
}

// removeGenerated deletes path when it starts with the generated header
func removeGenerated(path string) (bool, error) {
	generated, err := isGenerated(path)
	if err != nil || !generated {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		return false, errors.WrapFileSystemError("remove", path, err)
	}
	return true, nil
}

func isGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	line, _, err := bufio.NewReader(f).ReadLine()
	if err != nil {
		return false, nil
	}
	return generator.HasHeader(line), nil
}
