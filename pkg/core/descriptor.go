package core

import (
	"strings"

	"github.com/joeydtaylor/frontctl/pkg/manifest"
)

// Descriptor is one discovered route target: a tagged method on a tagged type.
type Descriptor struct {
	Namespace    manifest.Namespace
	TypeName     string
	MethodName   string
	PathPrefix   string // from the type tag, non-empty
	PathSuffix   string // from the method tag, may be empty
	Source       string // file path or archive entry the method was read from
	ReturnsError bool   // method shape is func() (string, error)
}

// QualifiedType is the registry key for the owning type.
func (d Descriptor) QualifiedType() string {
	return QualifyType(d.Namespace, d.TypeName)
}

// FullPath joins the rooted prefix and the suffix without normalizing.
func (d Descriptor) FullPath() string {
	return "/" + strings.TrimPrefix(d.PathPrefix, "/") + "/" + d.PathSuffix
}

// Key is the normalized full path used as the table key.
func (d Descriptor) Key() string { return NormalizePath(d.FullPath()) }

// QualifyType joins a namespace and a type name.
func QualifyType(ns manifest.Namespace, typeName string) string {
	if ns == "" {
		return typeName
	}
	return string(ns) + "." + typeName
}

// NormalizePath strips every trailing "/"; an empty result becomes "/".
// Applying it twice gives the same result as applying it once.
func NormalizePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}
