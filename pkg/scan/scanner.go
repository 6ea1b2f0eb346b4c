// Package scan discovers route descriptors by parsing Go source under a
// namespace. Types opt in with a "//frontctl:controller <prefix>" directive
// and their methods with "//frontctl:get <suffix>".
//
// Roots are either directories or source archives (.zip, .tar.gz, .tgz).
// Nothing found during a scan is fatal: unreadable roots and candidates that
// cannot be inspected are reported in Result.Skipped and scanning continues.
package scan

import (
	"context"
	"sort"
	"strings"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"go.uber.org/zap"
)

// Result is the outcome of one scan pass.
type Result struct {
	Descriptors []core.Descriptor // scan order; later entries win on key collisions
	Skipped     []core.Skipped
	Roots       int
}

// Target is one root to scan.
type Target interface {
	// collect adds every candidate source file under the namespace to p.
	collect(ctx context.Context, p *pass) error
	String() string
}

// Scanner scans a namespace across a fixed list of roots.
// A Scanner holds no per-scan state, so concurrent Scan calls are independent.
type Scanner struct {
	ns    manifest.Namespace
	roots []string
	log   *zap.Logger
}

type Option func(*Scanner)

func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

func New(ns manifest.Namespace, roots []string, opts ...Option) *Scanner {
	s := &Scanner{ns: ns, roots: append([]string(nil), roots...), log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Targets classifies each configured root by its file extension.
func (s *Scanner) Targets() []Target {
	out := make([]Target, 0, len(s.roots))
	for _, r := range s.roots {
		out = append(out, TargetFor(r, s.ns))
	}
	return out
}

// TargetFor returns an ArchiveTarget for .zip/.tar.gz/.tgz paths and a
// DirectoryTarget otherwise.
func TargetFor(root string, ns manifest.Namespace) Target {
	if f := archiveFormatOf(root); f != formatUnknown {
		return ArchiveTarget{Path: root, Namespace: ns, format: f}
	}
	return DirectoryTarget{Root: root, Namespace: ns}
}

// Scan runs one full pass. It only fails when ctx is done.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	var res Result
	for _, t := range s.Targets() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		p := newPass(t.String())
		if err := t.collect(ctx, p); err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			s.log.Warn("scan root unavailable", zap.String("root", t.String()), zap.Error(err))
			res.Skipped = append(res.Skipped, core.Skipped{Source: t.String(), Kind: core.SkipRootUnavailable, Err: err})
			continue
		}
		res.Roots++
		descs, skipped := p.inspect()
		for _, sk := range skipped {
			s.log.Debug("scan candidate skipped", zap.String("source", sk.Source), zap.Error(sk.Err))
		}
		res.Descriptors = append(res.Descriptors, descs...)
		res.Skipped = append(res.Skipped, skipped...)
	}
	s.log.Info("scan complete",
		zap.String("namespace", s.ns.String()),
		zap.Int("roots", res.Roots),
		zap.Int("descriptors", len(res.Descriptors)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// pass holds the source files gathered from one root, grouped by package.
type pass struct {
	root     string
	packages map[manifest.Namespace][]sourceFile
	skipped  []core.Skipped
}

type sourceFile struct {
	name string // display name: file path or archive!/entry
	src  []byte
}

func newPass(root string) *pass {
	return &pass{root: root, packages: make(map[manifest.Namespace][]sourceFile)}
}

func (p *pass) add(ns manifest.Namespace, f sourceFile) {
	p.packages[ns] = append(p.packages[ns], f)
}

func (p *pass) skip(source string, err error) {
	p.skipped = append(p.skipped, core.Skipped{Source: source, Kind: core.SkipLoadFailure, Err: err})
}

// inspect parses every collected package in namespace then file-name order.
func (p *pass) inspect() ([]core.Descriptor, []core.Skipped) {
	nss := make([]manifest.Namespace, 0, len(p.packages))
	for ns := range p.packages {
		nss = append(nss, ns)
	}
	sort.Slice(nss, func(i, j int) bool { return nss[i] < nss[j] })

	var out []core.Descriptor
	for _, ns := range nss {
		files := p.packages[ns]
		sort.SliceStable(files, func(i, j int) bool { return files[i].name < files[j].name })
		out = append(out, inspectPackage(ns, files, p)...)
	}
	return out, p.skipped
}

// isCandidate reports whether a slash-separated relative path is a Go source
// file the scanner should read.
func isCandidate(rel string) bool {
	if !strings.HasSuffix(rel, ".go") || strings.HasSuffix(rel, "_test.go") {
		return false
	}
	segs := strings.Split(rel, "/")
	if strings.HasPrefix(segs[len(segs)-1], "_") {
		return false
	}
	for _, seg := range segs {
		if skipDir(seg) {
			return false
		}
	}
	return true
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" || (len(name) > 1 && strings.HasPrefix(name, "."))
}
