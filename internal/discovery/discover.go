package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cybertec-postgresql/sqllimit/internal/errors"
)

// IsSQLFile reports whether name carries the .sql extension (any case)
func IsSQLFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".sql")
}

// Discover recursively finds all SQL files in the given directory, in
// lexical order
func Discover(rootPath string) ([]DiscoveredFile, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(rootPath, "directory not found")
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}

	if !info.IsDir() {
		return nil, errors.NewInputError(rootPath, "path is not a directory")
	}

	var files []DiscoveredFile

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if info.IsDir() {
			// Hidden directories (.git and friends) never hold inputs
			if path != absRoot && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsSQLFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, DiscoveredFile{
			Path:         path,
			RelativePath: relPath,
			Source:       SourceFile,
			ModTime:      info.ModTime(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// Resolve expands command-line arguments into inputs, keeping argument order.
//
// "-" stands for standard input and may appear once. A directory contributes
// every .sql file below it. A file is taken whatever its extension, since it
// was named explicitly. A path reached twice is returned once. No arguments
// means standard input.
func Resolve(args []string) ([]DiscoveredFile, error) {
	if len(args) == 0 {
		args = []string{StdinPath}
	}

	var files []DiscoveredFile
	seen := make(map[string]bool)
	add := func(f DiscoveredFile) {
		if !seen[f.Path] {
			seen[f.Path] = true
			files = append(files, f)
		}
	}

	for _, arg := range args {
		if arg == StdinPath {
			if seen[StdinPath] {
				return nil, errors.NewInputError(arg, "standard input given more than once")
			}
			add(DiscoveredFile{Path: StdinPath, RelativePath: StdinPath, Source: SourceStdin})
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewInputError(arg, "no such file or directory")
			}
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := Discover(arg)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}

		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		add(DiscoveredFile{
			Path:         abs,
			RelativePath: filepath.Base(arg),
			Source:       SourceFile,
			ModTime:      info.ModTime(),
		})
	}

	return files, nil
}
