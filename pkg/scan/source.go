package scan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
)

const (
	DirectivePrefix = "//frontctl:"
	VerbController  = "controller"
	VerbGet         = "get"
)

var (
	errEmptyPrefix    = errors.New("controller directive needs a non-empty prefix")
	errGenericType    = errors.New("generic types cannot be controllers")
	errReceiver       = errors.New("unsupported receiver type")
	errMethodParams   = errors.New("route methods take no arguments")
	errMethodResults  = errors.New("route methods must return string or (string, error)")
	errDirectiveValue = errors.New("malformed directive value")
)

type controllerTag struct {
	prefix string
}

type methodTag struct {
	recv       string
	name       string
	suffix     string
	source     string
	returnsErr bool
	err        error
}

// inspectPackage parses the files of one package and emits a descriptor per
// tagged method of a tagged type, in file then source order. A method may
// live in a different file than its type.
func inspectPackage(ns manifest.Namespace, files []sourceFile, p *pass) []core.Descriptor {
	fset := token.NewFileSet()
	controllers := make(map[string]controllerTag)
	var methods []methodTag

	for _, f := range files {
		af, err := parser.ParseFile(fset, f.name, f.src, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			p.skip(f.name, fmt.Errorf("%w: %w", core.ErrLoadFailure, err))
			continue
		}
		for _, decl := range af.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					doc := ts.Doc
					if doc == nil && !d.Lparen.IsValid() {
						doc = d.Doc
					}
					prefix, found, err := directiveValue(doc, VerbController)
					if !found {
						continue
					}
					src := f.name + ":" + ts.Name.Name
					switch {
					case err != nil:
					case strings.Trim(prefix, "/") == "":
						err = errEmptyPrefix
					case ts.TypeParams != nil:
						err = errGenericType
					}
					if err != nil {
						p.skip(src, fmt.Errorf("%w: %w", core.ErrLoadFailure, err))
						continue
					}
					controllers[ts.Name.Name] = controllerTag{prefix: prefix}
				}

			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) != 1 {
					continue
				}
				suffix, found, err := directiveValue(d.Doc, VerbGet)
				if !found {
					continue
				}
				m := methodTag{
					recv:   receiverName(d.Recv.List[0].Type),
					name:   d.Name.Name,
					suffix: suffix,
					err:    err,
				}
				m.source = f.name + ":" + m.recv + "." + m.name
				if m.err == nil && m.recv == "" {
					m.err = errReceiver
				}
				if m.err == nil {
					m.returnsErr, m.err = methodShape(d.Type)
				}
				methods = append(methods, m)
			}
		}
	}

	var out []core.Descriptor
	for _, m := range methods {
		c, ok := controllers[m.recv]
		if !ok {
			// Route directives on untagged types do not participate.
			continue
		}
		if m.err != nil {
			p.skip(m.source, fmt.Errorf("%w: %w", core.ErrLoadFailure, m.err))
			continue
		}
		out = append(out, core.Descriptor{
			Namespace:    ns,
			TypeName:     m.recv,
			MethodName:   m.name,
			PathPrefix:   c.prefix,
			PathSuffix:   m.suffix,
			Source:       m.source,
			ReturnsError: m.returnsErr,
		})
	}
	return out
}

// directiveValue finds "//frontctl:<verb> [value]" in cg. The value may be
// bare or a Go string literal.
func directiveValue(cg *ast.CommentGroup, verb string) (value string, found bool, err error) {
	if cg == nil {
		return "", false, nil
	}
	for _, c := range cg.List {
		rest, ok := strings.CutPrefix(c.Text, DirectivePrefix)
		if !ok {
			continue
		}
		v, arg := rest, ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			v, arg = rest[:i], rest[i+1:]
		}
		if v != verb {
			continue
		}
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) || strings.HasPrefix(arg, "`") {
			uq, uerr := strconv.Unquote(arg)
			if uerr != nil {
				return "", true, fmt.Errorf("%w %q", errDirectiveValue, arg)
			}
			arg = uq
		}
		return arg, true, nil
	}
	return "", false, nil
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func methodShape(ft *ast.FuncType) (returnsErr bool, err error) {
	if ft.Params.NumFields() != 0 {
		return false, errMethodParams
	}
	var results []string
	if ft.Results != nil {
		for _, f := range ft.Results.List {
			id, _ := f.Type.(*ast.Ident)
			name := ""
			if id != nil {
				name = id.Name
			}
			n := len(f.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, name)
			}
		}
	}
	switch {
	case len(results) == 1 && results[0] == "string":
		return false, nil
	case len(results) == 2 && results[0] == "string" && results[1] == "error":
		return true, nil
	}
	return false, errMethodResults
}
