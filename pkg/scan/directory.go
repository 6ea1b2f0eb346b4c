package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
)

// DirectoryTarget scans Root/<namespace dir> recursively. Nested
// directories extend the namespace.
type DirectoryTarget struct {
	Root      string
	Namespace manifest.Namespace
}

func (t DirectoryTarget) String() string { return t.Root }

func (t DirectoryTarget) collect(ctx context.Context, p *pass) error {
	base := filepath.Join(t.Root, filepath.FromSlash(t.Namespace.Dir()))
	fi, err := os.Stat(base)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrRootUnavailable, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", core.ErrRootUnavailable, base)
	}

	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == base {
				return fmt.Errorf("%w: %w", core.ErrRootUnavailable, err)
			}
			// Unreadable subtree: record it and keep walking siblings.
			p.skip(path, fmt.Errorf("%w: %w", core.ErrLoadFailure, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, rerr := filepath.Rel(base, path)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if path != base && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isCandidate(rel) {
			return nil
		}
		src, rerr := os.ReadFile(path)
		if rerr != nil {
			p.skip(path, fmt.Errorf("%w: %w", core.ErrLoadFailure, rerr))
			return nil
		}
		dir := filepath.ToSlash(filepath.Dir(rel))
		ns := t.Namespace
		if dir != "." {
			ns = manifest.Namespace(string(t.Namespace) + "." + string(manifest.FromDir(dir)))
		}
		p.add(ns, sourceFile{name: path, src: src})
		return nil
	})
}
