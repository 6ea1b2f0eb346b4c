package codegen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = manifest.Namespace("internal.controllers")

func descs() []core.Descriptor {
	return []core.Descriptor{
		{Namespace: ns, TypeName: "TestController", MethodName: "List", PathPrefix: "test", PathSuffix: "list", ReturnsError: true},
		{Namespace: ns, TypeName: "TestController", MethodName: "Hello", PathPrefix: "test", PathSuffix: "hello"},
		{Namespace: ns, TypeName: "TestController", MethodName: "Hello", PathPrefix: "test", PathSuffix: "hello/"},
		{Namespace: ns.Child("admin"), TypeName: "Panel", MethodName: "Index", PathPrefix: "admin"},
	}
}

func TestGenerate(t *testing.T) {
	out, err := Generate("controllers", ns, descs())
	require.NoError(t, err)
	src := string(out)

	assert.True(t, strings.HasPrefix(src, "// Code generated by frontctl gen. DO NOT EDIT."))
	assert.Contains(t, src, "package controllers")
	assert.Contains(t, src, `"github.com/joeydtaylor/frontctl/pkg/core"`)
	assert.Equal(t, 2, strings.Count(src, "core.Register("))
	assert.Contains(t, src, `core.Register("internal.controllers.TestController", "Hello"`)
	assert.Contains(t, src, "return new(TestController).Hello(), nil")
	assert.Contains(t, src, "return new(TestController).List()\n")
	assert.NotContains(t, src, "Panel")
	assert.Less(t, strings.Index(src, `"Hello"`), strings.Index(src, `"List"`))

	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", out, parser.AllErrors)
	require.NoError(t, err)
}

func TestGenerateIsDeterministic(t *testing.T) {
	d := descs()
	a, err := Generate("controllers", ns, d)
	require.NoError(t, err)
	d[0], d[1] = d[1], d[0]
	b, err := Generate("controllers", ns, d)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerateRequiresPackage(t *testing.T) {
	_, err := Generate("", ns, descs())
	assert.ErrorIs(t, err, ErrNoPackage)
}

func TestNamespaces(t *testing.T) {
	assert.Equal(t, []manifest.Namespace{ns, ns.Child("admin")}, Namespaces(descs()))
}

func TestWriteDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "internal", "controllers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_controller.go"), []byte("package controllers\n"), 0o644))

	dst, err := WriteDir(root, ns, descs())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), dst)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(b), "package controllers")

	pkg, err := PackageName(dir)
	require.NoError(t, err)
	assert.Equal(t, "controllers", pkg)

	dst, err = WriteDir(root, manifest.Namespace("nothing.here"), descs())
	require.NoError(t, err)
	assert.Empty(t, dst)
}
