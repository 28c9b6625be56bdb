// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// manifestNames are the file names recognized as a service manifest when a
// directory is given instead of a file. They are probed in order before the
// directory is scanned for other YAML candidates.
var manifestNames = []string{"service.yaml", "service.yml"}

// manifestExtensions are the extensions scanned for when a directory holds
// none of the well-known names.
var manifestExtensions = []string{".yaml", ".yml"}

// ResolveManifestPath turns a user-supplied path into the path of a single
// manifest file. A file path is returned as-is. For a directory the
// well-known manifest names are probed in order; failing that, the directory
// is scanned for YAML files, which must yield exactly one candidate.
func ResolveManifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range manifestNames {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	candidates, err := findByExtensions(path, manifestExtensions...)
	if err != nil {
		return "", err
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no manifest found in directory %s", path)
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("ambiguous manifest in directory %s: found %s", path, strings.Join(candidates, ", "))
	}
}

// findByExtensions recursively searches root for all files ending with any of
// the given extensions and returns their full paths, sorted.
func findByExtensions(root string, extensions ...string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
