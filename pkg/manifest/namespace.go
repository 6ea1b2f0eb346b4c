package manifest

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Namespace is a dotted logical package path ("internal.controllers").
// Its directory form ("internal/controllers") is resolved against each scan root.
type Namespace string

// ParseNamespace accepts dot or slash separated paths and returns the dotted form.
func ParseNamespace(s string) (Namespace, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(strings.ReplaceAll(s, "/", "."), ".")
	if s == "" {
		return "", errors.New("namespace is required")
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return "", fmt.Errorf("namespace %q has an empty segment", s)
		}
		for _, r := range seg {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
				return "", fmt.Errorf("namespace %q: invalid character %q", s, r)
			}
		}
	}
	return Namespace(s), nil
}

// Dir is the slash-separated form used for filesystem and archive lookups.
func (n Namespace) Dir() string { return strings.ReplaceAll(string(n), ".", "/") }

// Child extends the namespace by one nested directory.
func (n Namespace) Child(name string) Namespace {
	if n == "" {
		return Namespace(name)
	}
	return Namespace(string(n) + "." + name)
}

// FromDir converts a slash-separated directory back into a namespace.
func FromDir(dir string) Namespace {
	return Namespace(strings.Trim(strings.ReplaceAll(dir, "/", "."), "."))
}

// Contains reports whether other is n or nested below it.
func (n Namespace) Contains(other Namespace) bool {
	return other == n || strings.HasPrefix(string(other), string(n)+".")
}

// Leaf is the last segment, which is also the Go package directory name.
func (n Namespace) Leaf() string {
	s := string(n)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (n Namespace) String() string { return string(n) }
