package dispatch

import (
	"os"
	"path"
	"path/filepath"
)

const indexFile = "index.html"

// staticFile reports the file under the static directory that p names.
// A directory counts only when it holds an index.html, which is served in
// its place.
func (e *Engine) staticFile(p string) (string, bool) {
	if e.staticDir == "" {
		return "", false
	}
	name := filepath.Join(e.staticDir, filepath.FromSlash(path.Clean("/"+p)))
	fi, err := os.Stat(name)
	if err != nil {
		return "", false
	}
	if fi.Mode().IsRegular() {
		return name, true
	}
	if fi.IsDir() {
		idx := filepath.Join(name, indexFile)
		if ii, err := os.Stat(idx); err == nil && ii.Mode().IsRegular() {
			return idx, true
		}
	}
	return "", false
}
