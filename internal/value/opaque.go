package value

// OpaqueCategory classifies a handle that is never cloned.
type OpaqueCategory string

const (
	OpaqueFunction OpaqueCategory = "function"
	OpaqueError    OpaqueCategory = "error"
	OpaquePromise  OpaqueCategory = "promise"
	OpaqueWeakMap  OpaqueCategory = "weak-map"
	OpaqueWeakSet  OpaqueCategory = "weak-set"
	OpaqueBoxed    OpaqueCategory = "boxed"
	OpaqueSymbol   OpaqueCategory = "symbol"
	OpaqueProxy    OpaqueCategory = "proxy"
	OpaqueExternal OpaqueCategory = "external"
)

// OpaqueCategories lists every category.
var OpaqueCategories = []OpaqueCategory{
	OpaqueFunction, OpaqueError, OpaquePromise, OpaqueWeakMap, OpaqueWeakSet,
	OpaqueBoxed, OpaqueSymbol, OpaqueProxy, OpaqueExternal,
}

// Opaque is a handle to something the engine must not duplicate:
// a callable, an error, a live connection and the like. Handle carries
// the host's payload untouched.
type Opaque struct {
	Category OpaqueCategory
	Name     string
	Handle   any
}

func (*Opaque) Kind() Kind { return KindOpaque }
func (*Opaque) value()     {}

// NewOpaque creates an opaque handle.
func NewOpaque(category OpaqueCategory, name string, handle any) *Opaque {
	return &Opaque{Category: category, Name: name, Handle: handle}
}

// Func wraps a Go function as an opaque callable.
func Func(name string, fn any) *Opaque {
	return NewOpaque(OpaqueFunction, name, fn)
}

// ValidOpaqueCategory reports whether c is a known category.
func ValidOpaqueCategory(c OpaqueCategory) bool {
	for _, known := range OpaqueCategories {
		if known == c {
			return true
		}
	}
	return false
}
