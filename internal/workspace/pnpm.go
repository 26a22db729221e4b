// Package workspace detects multi-project (monorepo) layouts so the operator
// can be offered the sub-project names when adding project context.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names the workspace manifest that was found.
type Kind string

const (
	KindPnpm Kind = "pnpm"
	KindNpm  Kind = "npm" // package.json "workspaces", also used by yarn and bun
)

// Workspace is a detected monorepo.
type Workspace struct {
	Root     string
	Kind     Kind
	Packages []string // paths relative to Root, sorted
}

// PnpmWorkspace represents the structure of pnpm-workspace.yaml
type PnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// packageJSON holds both forms of the "workspaces" field.
type packageJSON struct {
	Workspaces json.RawMessage `json:"workspaces"`
}

// Detect looks for a workspace manifest in dir. It returns nil and no error when
// dir is not a monorepo root.
func Detect(dir string) (*Workspace, error) {
	if HasPnpmWorkspace(dir) {
		pkgs, err := ParsePnpmWorkspace(dir)
		if err != nil {
			return nil, err
		}
		return newWorkspace(dir, KindPnpm, pkgs), nil
	}

	patterns, err := npmWorkspacePatterns(dir)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	pkgs, err := expandPatterns(dir, patterns)
	if err != nil {
		return nil, err
	}
	return newWorkspace(dir, KindNpm, pkgs), nil
}

func newWorkspace(root string, kind Kind, pkgs []string) *Workspace {
	sort.Strings(pkgs)
	return &Workspace{Root: root, Kind: kind, Packages: pkgs}
}

// Names returns a display name per package, in package order: the base name,
// or the relative path when two packages share a base name.
func (w *Workspace) Names() []string {
	if w == nil {
		return nil
	}
	counts := make(map[string]int, len(w.Packages))
	for _, p := range w.Packages {
		counts[path.Base(p)]++
	}

	names := make([]string, 0, len(w.Packages))
	for _, p := range w.Packages {
		if base := path.Base(p); counts[base] == 1 {
			names = append(names, base)
		} else {
			names = append(names, p)
		}
	}
	return names
}

// ParsePnpmWorkspace parses pnpm-workspace.yaml and returns expanded package paths.
// It expands glob patterns like "packages/*" into actual directory paths.
func ParsePnpmWorkspace(workDir string) ([]string, error) {
	workspaceFile := filepath.Join(workDir, "pnpm-workspace.yaml")
	data, err := os.ReadFile(workspaceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read pnpm-workspace.yaml: %w", err)
	}

	var ws PnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse pnpm-workspace.yaml: %w", err)
	}

	return expandPatterns(workDir, ws.Packages)
}

// npmWorkspacePatterns reads the "workspaces" field of package.json, accepting
// both the array form and the yarn {"packages": [...]} form.
func npmWorkspacePatterns(workDir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(workDir, "package.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	if len(pkg.Workspaces) == 0 {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(pkg.Workspaces, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(pkg.Workspaces, &obj); err != nil {
		return nil, fmt.Errorf("unrecognised workspaces field in package.json: %w", err)
	}
	return obj.Packages, nil
}

func expandPatterns(workDir string, patterns []string) ([]string, error) {
	var packages []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		pattern = NormalizePackagePath(pattern)

		expanded, err := expandGlob(workDir, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to expand pattern %q: %w", pattern, err)
		}
		for _, p := range expanded {
			if !seen[p] {
				seen[p] = true
				packages = append(packages, p)
			}
		}
	}
	return packages, nil
}

// expandGlob expands a glob pattern relative to workDir and returns matching directories.
func expandGlob(workDir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(workDir, pattern))
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(workDir, match)
		if err != nil {
			continue
		}
		dirs = append(dirs, filepath.ToSlash(rel))
	}
	return dirs, nil
}

// NormalizePackagePath cleans up a package path by removing leading "./" and trailing "/".
func NormalizePackagePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimSuffix(path, "/")
	return path
}

// HasPnpmWorkspace checks if a pnpm-workspace.yaml file exists in the given directory.
func HasPnpmWorkspace(workDir string) bool {
	_, err := os.Stat(filepath.Join(workDir, "pnpm-workspace.yaml"))
	return err == nil
}

// ResolvePackagePath converts a package name to its path in the workspace.
// For example, "core" might resolve to "packages/core" or "apps/core". A base
// name shared by several packages is an error.
func (w *Workspace) ResolvePackagePath(packageName string) (string, error) {
	packageName = NormalizePackagePath(packageName)
	for _, pkg := range w.Packages {
		if pkg == packageName {
			return pkg, nil
		}
	}

	var matches []string
	for _, pkg := range w.Packages {
		if path.Base(pkg) == packageName {
			matches = append(matches, pkg)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("package %q not found in workspace (available: %v)", packageName, w.Packages)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("package %q is ambiguous (matches: %v)", packageName, matches)
	}
}
