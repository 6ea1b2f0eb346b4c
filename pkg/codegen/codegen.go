// Package codegen writes the registration files that bind scanned route
// descriptors to compiled code. Go cannot resolve a type from its name at
// runtime, so every tagged method gets an explicit core.Register call in an
// init function living next to the controller.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
)

// FileName is the name of the file Generate's output is written to.
const FileName = "routes_gen.go"

const coreImport = "github.com/joeydtaylor/frontctl/pkg/core"

var ErrNoPackage = errors.New("codegen: no Go package found")

var fileTmpl = template.Must(template.New("routes").Parse(`// Code generated by frontctl gen. DO NOT EDIT.

package {{.Package}}

import (
	"context"

	"{{.CoreImport}}"
)

func init() {
{{- range .Entries}}
	core.Register({{printf "%q" .Qualified}}, {{printf "%q" .Method}}, func(context.Context) (string, error) {
	{{- if .ReturnsError}}
		return new({{.Type}}).{{.Method}}()
	{{- else}}
		return new({{.Type}}).{{.Method}}(), nil
	{{- end}}
	})
{{- end}}
}
`))

type entry struct {
	Qualified    string
	Type         string
	Method       string
	ReturnsError bool
}

// Generate renders the registration file for the descriptors of one
// namespace. Descriptors from other namespaces are ignored, duplicates
// collapse to one call and the output order is stable.
func Generate(pkg string, ns manifest.Namespace, descs []core.Descriptor) ([]byte, error) {
	if pkg == "" {
		return nil, ErrNoPackage
	}
	seen := make(map[string]bool)
	var entries []entry
	for _, d := range descs {
		if d.Namespace != ns {
			continue
		}
		k := d.QualifiedType() + "#" + d.MethodName
		if seen[k] {
			continue
		}
		seen[k] = true
		entries = append(entries, entry{
			Qualified:    d.QualifiedType(),
			Type:         d.TypeName,
			Method:       d.MethodName,
			ReturnsError: d.ReturnsError,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type < entries[j].Type
		}
		return entries[i].Method < entries[j].Method
	})

	var buf bytes.Buffer
	err := fileTmpl.Execute(&buf, struct {
		Package    string
		CoreImport string
		Entries    []entry
	}{pkg, coreImport, entries})
	if err != nil {
		return nil, fmt.Errorf("codegen: render: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: format: %w", err)
	}
	return out, nil
}

// Namespaces returns the distinct namespaces in descs, sorted.
func Namespaces(descs []core.Descriptor) []manifest.Namespace {
	set := make(map[manifest.Namespace]struct{})
	for _, d := range descs {
		set[d.Namespace] = struct{}{}
	}
	out := make([]manifest.Namespace, 0, len(set))
	for ns := range set {
		out = append(out, ns)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PackageName reads the package clause of the first non-test Go file in dir.
func PackageName(dir string) (string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	for _, e := range ents {
		n := e.Name()
		if e.IsDir() || !strings.HasSuffix(n, ".go") || strings.HasSuffix(n, "_test.go") || n == FileName {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, n), nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		return f.Name.Name, nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoPackage, dir)
}

// WriteDir generates and writes the registration file for ns under root.
// It returns the written path, or "" when ns has no descriptors.
func WriteDir(root string, ns manifest.Namespace, descs []core.Descriptor) (string, error) {
	has := false
	for _, d := range descs {
		if d.Namespace == ns {
			has = true
			break
		}
	}
	if !has {
		return "", nil
	}
	dir := filepath.Join(root, filepath.FromSlash(ns.Dir()))
	pkg, err := PackageName(dir)
	if err != nil {
		return "", err
	}
	src, err := Generate(pkg, ns, descs)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, FileName)
	if err := os.WriteFile(dst, src, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}
