package core

import "fmt"

// Bind turns scanned descriptors into a Table. Descriptors are added in
// scan order, so on a key collision the most recently scanned one wins.
// Descriptors whose invoker is not in reg are recorded as unbound skips.
func Bind(descs []Descriptor, skipped []Skipped, reg *Registry) *Table {
	b := NewTableBuilder()
	b.Skip(skipped...)
	for _, d := range descs {
		inv, ok := reg.Lookup(d.QualifiedType(), d.MethodName)
		if !ok {
			b.Skip(Skipped{
				Source: d.Source,
				Kind:   SkipUnbound,
				Err:    fmt.Errorf("%s.%s: %w", d.QualifiedType(), d.MethodName, ErrUnbound),
			})
			continue
		}
		b.Add(Route{Descriptor: d, Invoke: inv})
	}
	return b.Build()
}
