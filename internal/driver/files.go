package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Filter selects walked files by glob patterns matched against slash
// separated paths relative to the walked directory. `*` stays inside one
// path segment, `**` crosses them.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles the patterns. An empty include list accepts every file.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compileGlobs(include); err != nil {
		return nil, err
	}
	if f.exclude, err = compileGlobs(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Match reports whether rel passes the filter.
func (f *Filter) Match(rel string) bool {
	if f == nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, g := range f.exclude {
		if g.Match(rel) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// ListFiles expands args into a sorted, duplicate-free file list. Files named
// directly are always kept; directories are walked and filtered. Hidden
// directories below a walked root are skipped.
func ListFiles(args []string, filter *Filter) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// missing files surface as load failures of the check
			add(arg)
			continue
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		root := arg
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if filter.Match(rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
