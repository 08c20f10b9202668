// Package loader locates Python modules and packages on a search path.
// A package assembled from multiple directories under the same dotted name
// (namespace package) is merged, de-duplicated by module name with the
// earliest search-path entry winning.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ErrModuleNotFound reports that no search-path entry contains the module.
var ErrModuleNotFound = errors.New("module not found")

// ModuleFile pairs a dotted module name with its source file path.
type ModuleFile struct {
	Name string
	Path string
}

// FindModule locates a single module: either <name>.py or
// <name>/__init__.py relative to a search-path entry.
func FindModule(name string, searchPath []string) (string, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))
	for _, root := range searchPath {
		candidates := []string{
			filepath.Join(root, rel+".py"),
			filepath.Join(root, rel, "__init__.py"),
		}
		for _, path := range candidates {
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

// IterPackageFiles walks a package and every subpackage, yielding one
// (moduleName, filePath) pair per source file, sorted by module name.
// Directories without an __init__.py still contribute (namespace
// packages), and the same dotted name found under several roots is merged.
// A name that only resolves to a single module file yields that one file.
func IterPackageFiles(pkg string, searchPath []string) ([]ModuleFile, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/"))
	seen := make(map[string]bool)
	var files []ModuleFile
	found := false
	for _, root := range searchPath {
		dir := filepath.Join(root, rel)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		found = true
		collectPackage(pkg, dir, seen, &files)
	}
	if !found {
		path, err := FindModule(pkg, searchPath)
		if err != nil {
			return nil, err
		}
		return []ModuleFile{{Name: pkg, Path: path}}, nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func collectPackage(prefix, dir string, seen map[string]bool, files *[]ModuleFile) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if name == "__pycache__" || strings.HasPrefix(name, ".") {
				continue
			}
			collectPackage(prefix+"."+name, filepath.Join(dir, name), seen, files)
			continue
		}
		if !strings.HasSuffix(name, ".py") {
			continue
		}
		moduleName := prefix
		if stem := strings.TrimSuffix(name, ".py"); stem != "__init__" {
			moduleName = prefix + "." + stem
		}
		if seen[moduleName] {
			continue
		}
		seen[moduleName] = true
		*files = append(*files, ModuleFile{Name: moduleName, Path: filepath.Join(dir, name)})
	}
}

// DiscoveredItem is a top-level module or package found in a directory.
type DiscoveredItem struct {
	Name      string
	Path      string
	IsPackage bool
}

// Discover lists the importable top-level modules and packages directly
// under root. Exclude patterns are glob expressions matched against the
// discovered name.
func Discover(root string, excludes []string) ([]DiscoveredItem, error) {
	globs := make([]glob.Glob, 0, len(excludes))
	for _, pattern := range excludes {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var items []DiscoveredItem
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		var item DiscoveredItem
		if entry.IsDir() {
			initPath := filepath.Join(root, name, "__init__.py")
			if info, err := os.Stat(initPath); err != nil || info.IsDir() {
				continue
			}
			item = DiscoveredItem{Name: name, Path: filepath.Join(root, name), IsPackage: true}
		} else {
			if !strings.HasSuffix(name, ".py") {
				continue
			}
			item = DiscoveredItem{Name: strings.TrimSuffix(name, ".py"), Path: filepath.Join(root, name)}
		}
		if matchesAny(globs, item.Name) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
