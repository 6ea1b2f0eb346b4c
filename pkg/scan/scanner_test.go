package scan

import (
	"archive/tar"
	"bytes"
	"context"
	"go/ast"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = manifest.Namespace("com.aki.controllers")

const testController = `package controllers

//frontctl:controller test
type TestController struct{}

//frontctl:get hello
func (c *TestController) Hello() string {
	return "<h1>Hello from TestController!</h1>"
}

//frontctl:get list
func (c TestController) List() (string, error) {
	return "<h1>List from TestController!</h1>", nil
}

// Untagged methods do not participate.
func (c *TestController) helper() string { return "" }
`

const adminController = `package admin

type (
	//frontctl:controller "admin"
	Panel struct{}

	Other struct{}
)

//frontctl:get
func (p *Panel) Index() string { return "index" }

//frontctl:get stats
func (o *Other) Stats() string { return "not a controller" }
`

const splitMethods = `package controllers

//frontctl:get bye
func (c *TestController) Bye() string { return "bye" }
`

const badShapes = `package controllers

//frontctl:controller shapes
type Shapes struct{}

//frontctl:get args
func (s *Shapes) Args(n int) string { return "" }

//frontctl:get int
func (s *Shapes) Int() int { return 0 }

//frontctl:get ok
func (s *Shapes) OK() string { return "ok" }
`

const emptyPrefix = `package controllers

//frontctl:controller
type Nameless struct{}

//frontctl:get x
func (n *Nameless) X() string { return "" }
`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, src := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	}
}

func exampleTree() map[string]string {
	return map[string]string{
		"com/aki/controllers/test_controller.go":             testController,
		"com/aki/controllers/test_controller_test.go":        "package controllers\n\n//frontctl:controller nope\ntype T struct{}\n",
		"com/aki/controllers/admin/panel.go":                 adminController,
		"com/aki/controllers/testdata/x.go":                  "not go at all",
		"com/aki/other/ignored.go":                           testController,
		"vendor/other.example/x/com/aki/controllers/evil.go": testController,
	}
}

func keys(descs []core.Descriptor) []string {
	out := make([]string, 0, len(descs))
	for _, d := range descs {
		out = append(out, d.Key())
	}
	return out
}

func TestScanDirectoryExample(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, exampleTree())

	res, err := New(ns, []string{root}).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Roots)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, []string{"/test/hello", "/test/list", "/admin"}, keys(res.Descriptors))

	hello := res.Descriptors[0]
	assert.Equal(t, ns, hello.Namespace)
	assert.Equal(t, "TestController", hello.TypeName)
	assert.Equal(t, "Hello", hello.MethodName)
	assert.False(t, hello.ReturnsError)
	assert.True(t, res.Descriptors[1].ReturnsError)

	admin := res.Descriptors[2]
	assert.Equal(t, ns.Child("admin"), admin.Namespace)
	assert.Equal(t, "Panel", admin.TypeName)
	assert.Equal(t, "", admin.PathSuffix)
}

func TestScanIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, exampleTree())
	s := New(ns, []string{root})

	first, err := s.Scan(context.Background())
	require.NoError(t, err)
	second, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanMethodsInOtherFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"com/aki/controllers/a_split.go":         splitMethods,
		"com/aki/controllers/test_controller.go": testController,
	})

	res, err := New(ns, []string{root}).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/test/bye", "/test/hello", "/test/list"}, keys(res.Descriptors))
}

func TestScanSkipsLoadFailures(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"com/aki/controllers/broken.go":          "package controllers\nfunc {",
		"com/aki/controllers/shapes.go":          badShapes,
		"com/aki/controllers/nameless.go":        emptyPrefix,
		"com/aki/controllers/test_controller.go": testController,
	})

	res, err := New(ns, []string{root}).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/shapes/ok", "/test/hello", "/test/list"}, keys(res.Descriptors))

	require.Len(t, res.Skipped, 4)
	for _, sk := range res.Skipped {
		assert.Equal(t, core.SkipLoadFailure, sk.Kind, sk.Source)
		assert.ErrorIs(t, sk, core.ErrLoadFailure)
	}
}

func TestScanMissingRootIsSoftFailure(t *testing.T) {
	good := t.TempDir()
	writeTree(t, good, exampleTree())
	missing := filepath.Join(t.TempDir(), "nope")
	corrupt := filepath.Join(t.TempDir(), "corrupt.zip")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o644))

	res, err := New(ns, []string{missing, corrupt, good}).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Roots)
	assert.Len(t, res.Descriptors, 3)

	require.Len(t, res.Skipped, 2)
	for _, sk := range res.Skipped {
		assert.Equal(t, core.SkipRootUnavailable, sk.Kind)
		assert.ErrorIs(t, sk, core.ErrRootUnavailable)
	}
}

func TestScanLaterRootsComeLast(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeTree(t, a, map[string]string{"com/aki/controllers/one.go": `package controllers

//frontctl:controller x
type One struct{}

//frontctl:get y
func (o *One) Y() string { return "one" }
`})
	writeTree(t, b, map[string]string{"com/aki/controllers/two.go": `package controllers

//frontctl:controller x
type Two struct{}

//frontctl:get y/
func (o *Two) Y() string { return "two" }
`})

	res, err := New(ns, []string{a, b}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Descriptors, 2)
	assert.Equal(t, "One", res.Descriptors[0].TypeName)
	assert.Equal(t, "Two", res.Descriptors[1].TypeName)
	assert.Equal(t, res.Descriptors[0].Key(), res.Descriptors[1].Key())
}

func buildZip(t *testing.T, dst, wrapper string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for rel, src := range files {
		w, err := zw.Create(wrapper + rel)
		require.NoError(t, err)
		_, err = w.Write([]byte(src))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(dst, buf.Bytes(), 0o644))
}

func buildTarGz(t *testing.T, dst string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for rel, src := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: rel, Mode: 0o644, Size: int64(len(src)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(src))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(dst, buf.Bytes(), 0o644))
}

func TestScanArchivesMatchDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, exampleTree())
	want, err := New(ns, []string{dir}).Scan(context.Background())
	require.NoError(t, err)

	tmp := t.TempDir()
	plainZip := filepath.Join(tmp, "controllers.zip")
	wrappedZip := filepath.Join(tmp, "module.zip")
	tgz := filepath.Join(tmp, "controllers.tar.gz")
	buildZip(t, plainZip, "", exampleTree())
	buildZip(t, wrappedZip, "app@v1.0.0/", exampleTree())
	buildTarGz(t, tgz, exampleTree())

	for _, archive := range []string{plainZip, wrappedZip, tgz} {
		t.Run(filepath.Base(archive), func(t *testing.T) {
			assert.IsType(t, ArchiveTarget{}, TargetFor(archive, ns))

			res, err := New(ns, []string{archive}).Scan(context.Background())
			require.NoError(t, err)
			assert.Empty(t, res.Skipped)
			assert.Equal(t, keys(want.Descriptors), keys(res.Descriptors))
			for i, d := range res.Descriptors {
				assert.Equal(t, want.Descriptors[i].QualifiedType(), d.QualifiedType())
				assert.Equal(t, want.Descriptors[i].MethodName, d.MethodName)
				assert.Contains(t, d.Source, archive+"!/")
				assert.NotContains(t, d.Source, "vendor/")
			}
		})
	}
}

func TestScanArchiveWrapperIsOneLevel(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "deep.zip")
	buildZip(t, zipPath, "mod@v1/", map[string]string{
		"vendor/other.example/x/com/aki/controllers/evil.go": testController,
		"a/b/com/aki/controllers/deep.go":                    testController,
	})

	res, err := New(ns, []string{zipPath}).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Descriptors)
}

func TestScanHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, exampleTree())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ns, []string{root}).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirectiveValue(t *testing.T) {
	cases := []struct {
		in    string
		verb  string
		want  string
		found bool
	}{
		{"//frontctl:get hello", VerbGet, "hello", true},
		{"//frontctl:get\thello", VerbGet, "hello", true},
		{"//frontctl:get \t hello ", VerbGet, "hello", true},
		{"//frontctl:get", VerbGet, "", true},
		{`//frontctl:get "with space"`, VerbGet, "with space", true},
		{"//frontctl:getter x", VerbGet, "", false},
		{"// frontctl:get x", VerbGet, "", false},
		{"//frontctl:controller test", VerbGet, "", false},
	}
	for _, tc := range cases {
		cg := commentGroup(tc.in)
		got, found, err := directiveValue(cg, tc.verb)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.found, found, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func commentGroup(lines ...string) *ast.CommentGroup {
	cg := &ast.CommentGroup{}
	for _, l := range lines {
		cg.List = append(cg.List, &ast.Comment{Text: l})
	}
	return cg
}
