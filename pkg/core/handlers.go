// core/handlers.go
package core

import (
	"context"
	"sync"
)

// Invoker is the signature every route target is registered under.
// It returns the HTML text to emit; the context is the request context.
type Invoker func(ctx context.Context) (string, error)

// Registry maps "<namespace>.<Type>" + method name to an Invoker.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Invoker
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Invoker)}
}

// Default is the process registry that generated registration files write to.
var Default = NewRegistry()

func registryKey(qualifiedType, method string) string { return qualifiedType + "#" + method }

// Register makes an invoker available for a type/method pair. Re-registering overwrites.
func (r *Registry) Register(qualifiedType, method string, inv Invoker) {
	if qualifiedType == "" || method == "" || inv == nil {
		panic("core: qualified type, method and invoker required")
	}
	r.mu.Lock()
	r.entries[registryKey(qualifiedType, method)] = inv
	r.mu.Unlock()
}

// Lookup retrieves a registered invoker.
func (r *Registry) Lookup(qualifiedType, method string) (Invoker, bool) {
	r.mu.RLock()
	inv, ok := r.entries[registryKey(qualifiedType, method)]
	r.mu.RUnlock()
	return inv, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Register adds an invoker to the Default registry.
func Register(qualifiedType, method string, inv Invoker) {
	Default.Register(qualifiedType, method, inv)
}

// Lookup retrieves an invoker from the Default registry.
func Lookup(qualifiedType, method string) (Invoker, bool) {
	return Default.Lookup(qualifiedType, method)
}

// RegisterController binds every method of T in one call. Each invocation
// runs against a freshly allocated zero T; instances are never reused.
func RegisterController[T any](r *Registry, qualifiedType string, methods map[string]func(*T) (string, error)) {
	for name, fn := range methods {
		fn := fn
		r.Register(qualifiedType, name, func(context.Context) (string, error) {
			return fn(new(T))
		})
	}
}
