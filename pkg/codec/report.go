package codec

import "github.com/joeydtaylor/frontctl/pkg/core"

// Report is the machine-readable form of the route table.
type Report struct {
	Generation string       `json:"generation,omitempty"`
	Routes     []RouteEntry `json:"routes"`
	Skipped    []SkipEntry  `json:"skipped"`
	Collisions []string     `json:"collisions"`
}

type RouteEntry struct {
	URL    string `json:"url"`
	Class  string `json:"class"`
	Method string `json:"method"`
	Source string `json:"source,omitempty"`
}

type SkipEntry struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
	Cause  string `json:"cause"`
}

// NewReport snapshots t in table order. A nil table yields an empty report.
func NewReport(t *core.Table) Report {
	r := Report{Generation: t.Generation(), Routes: []RouteEntry{}, Skipped: []SkipEntry{}, Collisions: []string{}}
	for _, rt := range t.Routes() {
		r.Routes = append(r.Routes, RouteEntry{
			URL:    rt.Key(),
			Class:  rt.QualifiedType(),
			Method: rt.MethodName,
			Source: rt.Source,
		})
	}
	for _, s := range t.Skipped() {
		cause := ""
		if s.Err != nil {
			cause = s.Err.Error()
		}
		r.Skipped = append(r.Skipped, SkipEntry{Kind: string(s.Kind), Source: s.Source, Cause: cause})
	}
	for _, c := range t.Collisions() {
		r.Collisions = append(r.Collisions, c.Key)
	}
	return r
}
