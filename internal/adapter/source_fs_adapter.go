// Package adapter contains the infrastructure adapters of the k6lint CLI:
// script discovery, parsing and report persistence.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

const recursiveSuffix = "/..."

// skippedDirs are never descended into while discovering scripts.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when discovering scripts. It hides direct `os` access so the
// workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get resolves path patterns into the list of scripts to analyze, sorted
	// by path. Patterns ending in /... are scanned recursively.
	Get(ctx context.Context, paths []m.Path, exclude []string) ([]m.Source, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get expands path patterns into script sources. An explicitly named file is
// accepted only when its extension maps to a supported language.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude []string) ([]m.Source, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"." + recursiveSuffix}
	}

	seen := make(map[string]bool)

	var sources []m.Source

	for _, pattern := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, recursive := splitPattern(string(pattern))

		info, err := a.FileInfo(m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", pattern, err)
		}

		if !info.IsDir() {
			if err := a.collect(root, excludes, seen, &sources); err != nil {
				return nil, err
			}

			continue
		}

		err = a.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != root && skippedDirs[info.Name()] {
					return filepath.SkipDir
				}

				return nil
			}

			return a.collect(path, excludes, seen, &sources)
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", pattern, err)
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Origin.ShortPath < sources[j].Origin.ShortPath
	})

	return sources, nil
}

func (a *LocalSourceFSAdapter) collect(path string, excludes []*regexp.Regexp, seen map[string]bool, sources *[]m.Source) error {
	lang, ok := m.LanguageOf(m.Path(path))
	if !ok {
		return nil
	}

	short := filepath.ToSlash(filepath.Clean(path))
	if seen[short] || isExcluded(short, excludes) {
		return nil
	}

	seen[short] = true

	full, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path of %s: %w", path, err)
	}

	hash, err := a.HashFile(m.Path(path))
	if err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}

	*sources = append(*sources, m.Source{
		Origin: &m.File{
			FullPath:  m.Path(full),
			ShortPath: m.Path(short),
			Hash:      hash,
		},
		Language: lang,
	})

	return nil
}

func splitPattern(pattern string) (string, bool) {
	normalized := filepath.ToSlash(pattern)
	if normalized == "..." {
		return ".", true
	}

	if strings.HasSuffix(normalized, recursiveSuffix) {
		root := strings.TrimSuffix(normalized, recursiveSuffix)
		if root == "" {
			root = "/"
		}

		return filepath.FromSlash(root), true
	}

	return pattern, false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func isExcluded(path string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}
