// env.go — lexical environments.
//
// An Env is a mutable name → binding table with an optional parent, forming
// the lexical scope chain. Bindings carry an immutability flag ('final') and
// an optional type annotation that is re-validated on every assignment.
// Closures share their defining Env by reference: frames stay alive as long
// as any closure still points at them (Go's garbage collector owns the
// lifetime; nothing here is destroyed explicitly).
package korio

import "fmt"

type binding struct {
	value Value
	final bool
	typ   string // canonical type category, "" when unannotated
}

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward; Define binds in the current frame only.
type Env struct {
	parent *Env
	table  map[string]*binding
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]*binding)}
}

// Define binds name in the current frame. A name may be declared at most once
// per frame; redeclaration is an error. A non-empty type annotation is
// resolved to its canonical category and validated against v before the
// binding is created.
func (e *Env) Define(name string, v Value, final bool, typ string) error {
	if _, ok := e.table[name]; ok {
		return &RuntimeError{Kind: ErrRedeclaredVariable, Msg: fmt.Sprintf("variable already declared in this scope: %s", name)}
	}
	canonical := ""
	if typ != "" {
		var err *RuntimeError
		canonical, err = checkAnnot(name, v, typ)
		if err != nil {
			return err
		}
	}
	e.table[name] = &binding{value: v, final: final, typ: canonical}
	return nil
}

// Set updates the nearest existing binding of name to v. Final bindings are
// never reassigned; annotated bindings re-validate v first. If no binding
// exists in any visible frame, Set returns an error (it does not define).
func (e *Env) Set(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		b, ok := env.table[name]
		if !ok {
			continue
		}
		if b.final {
			return &RuntimeError{Kind: ErrConstReassignment, Msg: fmt.Sprintf("cannot reassign final variable: %s", name)}
		}
		if b.typ != "" {
			if _, err := checkAnnot(name, v, b.typ); err != nil {
				return err
			}
		}
		b.value = v
		return nil
	}
	return &RuntimeError{Kind: ErrUndefinedVariable, Msg: fmt.Sprintf("undefined variable: %s", name)}
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.table[name]; ok {
			return b.value, nil
		}
	}
	return Value{}, &RuntimeError{Kind: ErrUndefinedVariable, Msg: fmt.Sprintf("undefined variable: %s", name)}
}

// Has reports whether name resolves anywhere along the chain.
func (e *Env) Has(name string) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			return true
		}
	}
	return false
}

// ----- type annotations -----

// canonicalType collapses an annotation alias onto one of the five accepted
// categories. The bool reports whether the alias is known at all.
func canonicalType(typ string) (string, bool) {
	switch typ {
	case "numeric", "number", "num", "int", "float":
		return "numeric", true
	case "string", "str":
		return "string", true
	case "boolean", "bool":
		return "boolean", true
	case "list", "array":
		return "list", true
	case "map", "dict", "object":
		return "map", true
	}
	return "", false
}

// typeMatches reports whether v belongs to the canonical category.
func typeMatches(v Value, canonical string) bool {
	switch canonical {
	case "numeric":
		return v.Tag == VTNum
	case "string":
		return v.Tag == VTStr
	case "boolean":
		return v.Tag == VTBool
	case "list":
		return v.Tag == VTList
	case "map":
		return v.Tag == VTMap
	}
	return false
}

// checkAnnot resolves the annotation and validates v against it, returning
// the canonical category on success.
func checkAnnot(name string, v Value, typ string) (string, *RuntimeError) {
	canonical, ok := canonicalType(typ)
	if !ok {
		return "", &RuntimeError{Kind: ErrTypeMismatch, Msg: fmt.Sprintf("unknown type annotation %q on %s", typ, name)}
	}
	if !typeMatches(v, canonical) {
		return "", &RuntimeError{Kind: ErrTypeMismatch, Msg: fmt.Sprintf("%s expects %s, got %s", name, canonical, typeName(v))}
	}
	return canonical, nil
}
