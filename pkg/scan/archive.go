package scan

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

type archiveFormat int

const (
	formatUnknown archiveFormat = iota
	formatZip
	formatTarGz
)

// maxEntrySize caps how much of a single archive entry is read into memory.
const maxEntrySize = 8 << 20

func archiveFormatOf(name string) archiveFormat {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return formatZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return formatTarGz
	}
	return formatUnknown
}

// ArchiveTarget scans the entries of a source archive whose names fall
// under the namespace directory. Entries may sit below a wrapper directory
// (module zips are laid out as "example.com/mod@v1.0.0/...").
type ArchiveTarget struct {
	Path      string
	Namespace manifest.Namespace
	format    archiveFormat
}

func (t ArchiveTarget) String() string { return t.Path }

func (t ArchiveTarget) collect(ctx context.Context, p *pass) error {
	f := t.format
	if f == formatUnknown {
		f = archiveFormatOf(t.Path)
	}
	switch f {
	case formatZip:
		return t.collectZip(ctx, p)
	case formatTarGz:
		return t.collectTarGz(ctx, p)
	}
	return fmt.Errorf("%w: unknown archive format %s", core.ErrRootUnavailable, t.Path)
}

func (t ArchiveTarget) collectZip(ctx context.Context, p *pass) error {
	zr, err := zip.OpenReader(t.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrRootUnavailable, err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if zf.FileInfo().IsDir() {
			continue
		}
		ns, ok := t.match(zf.Name)
		if !ok {
			continue
		}
		name := t.entryName(zf.Name)
		rc, err := zf.Open()
		if err != nil {
			p.skip(name, fmt.Errorf("%w: %w", core.ErrLoadFailure, err))
			continue
		}
		src, err := readEntry(rc)
		rc.Close()
		if err != nil {
			p.skip(name, fmt.Errorf("%w: %w", core.ErrLoadFailure, err))
			continue
		}
		p.add(ns, sourceFile{name: name, src: src})
	}
	return nil
}

func (t ArchiveTarget) collectTarGz(ctx context.Context, p *pass) error {
	fh, err := os.Open(t.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrRootUnavailable, err)
	}
	defer fh.Close()

	gz, err := gzip.NewReader(fh)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrRootUnavailable, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// A truncated stream keeps whatever was read before the damage.
			p.skip(t.Path, fmt.Errorf("%w: %w", core.ErrLoadFailure, err))
			return nil
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		ns, ok := t.match(hdr.Name)
		if !ok {
			continue
		}
		name := t.entryName(hdr.Name)
		src, err := readEntry(tr)
		if err != nil {
			p.skip(name, fmt.Errorf("%w: %w", core.ErrLoadFailure, err))
			continue
		}
		p.add(ns, sourceFile{name: name, src: src})
	}
}

// match reports whether entry lies under the namespace directory and, if
// so, the namespace of the directory it sits in.
func (t ArchiveTarget) match(entry string) (manifest.Namespace, bool) {
	entry = strings.TrimPrefix(path.Clean("/"+entry), "/")
	prefix := t.Namespace.Dir() + "/"

	rel, ok := strings.CutPrefix(entry, prefix)
	if !ok {
		// A single wrapper directory is allowed, nothing deeper.
		if _, inner, cut := strings.Cut(entry, "/"); cut {
			rel, ok = strings.CutPrefix(inner, prefix)
		}
	}
	if !ok || !isCandidate(rel) {
		return "", false
	}
	ns := t.Namespace
	if dir := path.Dir(rel); dir != "." {
		ns = manifest.Namespace(string(t.Namespace) + "." + string(manifest.FromDir(dir)))
	}
	return ns, true
}

func (t ArchiveTarget) entryName(entry string) string { return t.Path + "!/" + entry }

func readEntry(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxEntrySize {
		return nil, fmt.Errorf("entry larger than %d bytes", maxEntrySize)
	}
	return b, nil
}
