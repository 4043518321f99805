// Package reflector resolves stable, fully qualified type names for
// message values. Lookups are cached since the set of message types in a
// program is small and fixed.
package reflector

import (
	"reflect"
	"sync"
)

var (
	mu    sync.RWMutex
	names = make(map[reflect.Type]string)
)

// TypeNameOf returns the qualified type name ("pkg/path.TypeName") of the
// dynamic type of x. Pointers are unwrapped to their element type.
func TypeNameOf(x any) string {
	return TypeName(reflect.TypeOf(x))
}

// TypeNameFor returns the qualified type name for type parameter T.
func TypeNameFor[T any]() string {
	return TypeName(reflect.TypeFor[T]())
}

// TypeName returns the qualified name for t. Results are cached;
// safe for concurrent use.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	mu.RLock()
	name, ok := names[t]
	mu.RUnlock()
	if ok {
		return name
	}

	name = t.Name()
	if pkg := t.PkgPath(); pkg != "" {
		name = pkg + "." + name
	}

	mu.Lock()
	names[t] = name
	mu.Unlock()
	return name
}
