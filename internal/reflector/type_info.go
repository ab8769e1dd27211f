// Package reflector provides cached type metadata used when describing
// wrapped capability contracts.
package reflector

import (
	"reflect"
	"strings"
	"sync"
)

// maxCacheSize bounds the type cache. The number of distinct contract and
// parameter types in a program is small, so the limit is rarely hit; when it
// is, the cache is simply cleared.
const maxCacheSize = 1024

var (
	muCache sync.RWMutex
	cache   = make(map[reflect.Type]TypeInfo)
)

// TypeInfo holds metadata about a reflected type.
type TypeInfo struct {
	Name string       // Fully qualified name: "pkg/path.TypeName"
	Type reflect.Type // The underlying reflect.Type
}

// TypeInfoFor returns TypeInfo for type parameter T. T itself is described,
// never its pointee: contracts are interface types and must not be unwrapped.
func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

// TypeInfoOf returns TypeInfo for the dynamic type of x.
func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

// TypeInfoForType returns TypeInfo for the given reflect.Type.
// Results are cached; safe for concurrent use.
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}

	muCache.RLock()
	ti, ok := cache[t]
	muCache.RUnlock()
	if ok {
		return ti
	}

	ti = TypeInfo{
		Name: qualifiedName(t),
		Type: t,
	}

	muCache.Lock()
	if existing, ok := cache[t]; ok {
		muCache.Unlock()
		return existing
	}
	if len(cache) >= maxCacheSize {
		cache = make(map[reflect.Type]TypeInfo)
	}
	cache[t] = ti
	muCache.Unlock()

	return ti
}

// ShortName renders t without its package path, suitable for compact method
// signatures: "string", "*Config", "[]byte", "map[string]int". Unnamed
// composite types fall back to reflect's own rendering.
func ShortName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + ShortName(t.Elem())
	case reflect.Slice:
		return "[]" + ShortName(t.Elem())
	case reflect.Map:
		return "map[" + ShortName(t.Key()) + "]" + ShortName(t.Elem())
	}
	if t.Name() != "" {
		return t.Name()
	}
	// Unnamed interface/func/struct/chan types: reflect renders them fully.
	return t.String()
}

func qualifiedName(t reflect.Type) string {
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// PackageShortName trims the package path from a fully qualified name,
// e.g. "github.com/acme/thing.Greeter" -> "thing.Greeter".
func PackageShortName(qualified string) string {
	if i := strings.LastIndex(qualified, "/"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
