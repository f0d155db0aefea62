// interpreter.go — public API surface for the Korio interpreter.
//
// This file exposes the runtime value model (Value, ValueTag, constructors),
// ordered maps (MapObject), functions/closures (Fun) and host builtins
// (Builtin) as first-class values, and the Interpreter type with its entry
// points. Evaluation internals live in interpreter_exec.go and
// interpreter_ops.go; none of them are part of the API.
//
// Scoping model: code evaluates against *Env frames forming a lexical chain.
// The Interpreter exposes two well-known frames:
//   - Core:   builtins installed by NewInterpreter (parent of Global).
//   - Global: persistent program state (REPL globals).
//
// EvalSource runs in a fresh child of Global, so a sandboxed run leaves
// Global untouched; EvalPersistentSource runs in Global itself (REPL-style);
// EvalAST evaluates in exactly the environment the host provides. The root
// environment is always built explicitly and passed around — there is no
// hidden process-wide state, and multiple interpreters coexist freely.
//
// All Eval* methods return (Value, error); errors are *LexError, *ParseError
// or *RuntimeError (see errors.go). A top-level `return` is not an error: it
// terminates the program with its value as the result.
package korio

import (
	"io"
	"os"
)

// Version of the Korio language and toolchain.
const Version = "0.4.0"

////////////////////////////////////////////////////////////////////////////////
//                              VALUE MODEL
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull    ValueTag = iota // null (no payload)
	VTBool                    // bool
	VTNum                     // float64
	VTStr                     // string
	VTList                    // []Value
	VTMap                     // *MapObject (insertion-ordered)
	VTFun                     // *Fun (user-defined closure)
	VTBuiltin                 // *Builtin (host-provided callable)
)

// Value is the universal runtime carrier used by the interpreter. Tag is the
// discriminant; Data holds the Go value appropriate for Tag (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders the display form (see FormatValue in printer.go).
func (v Value) String() string { return FormatValue(v) }

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// Primitive constructors.
func Bool(b bool) Value     { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value   { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value    { return Value{Tag: VTStr, Data: s} }
func List(xs []Value) Value { return Value{Tag: VTList, Data: xs} }

// MapObject is an ordered map preserving insertion order. Entries is the
// key/value storage; Keys records insertion order (unique keys) and is the
// iteration order for `for` loops and printing.
type MapObject struct {
	Entries map[string]Value
	Keys    []string
}

// NewMapObject returns an empty ordered map.
func NewMapObject() *MapObject {
	return &MapObject{Entries: map[string]Value{}}
}

// SetKey inserts or updates k; a new key is appended to the insertion order.
func (m *MapObject) SetKey(k string, v Value) {
	if _, ok := m.Entries[k]; !ok {
		m.Keys = append(m.Keys, k)
	}
	m.Entries[k] = v
}

// GetKey retrieves k, reporting whether it is present.
func (m *MapObject) GetKey(k string) (Value, bool) {
	v, ok := m.Entries[k]
	return v, ok
}

// DeleteKey removes k and its slot in the insertion order.
func (m *MapObject) DeleteKey(k string) {
	if _, ok := m.Entries[k]; !ok {
		return
	}
	delete(m.Entries, k)
	for i, key := range m.Keys {
		if key == k {
			m.Keys = append(m.Keys[:i], m.Keys[i+1:]...)
			break
		}
	}
}

// MapVal wraps a MapObject into a Value (Tag=VTMap).
func MapVal(m *MapObject) Value { return Value{Tag: VTMap, Data: m} }

// Map constructs a VTMap from a plain Go map. Literal maps built from source
// preserve exact key order; this helper synthesizes Keys from the map
// contents and is meant for hosts and tests.
func Map(entries map[string]Value) Value {
	m := NewMapObject()
	for k, v := range entries {
		m.SetKey(k, v)
	}
	return MapVal(m)
}

// Param is a function parameter: its name and optional type annotation
// ("" when unannotated).
type Param struct {
	Name string
	Type string
}

// Fun represents a user-defined function. Env is the environment captured by
// reference at definition time; calls are evaluated in a fresh child of it,
// which is what makes lexical scoping and closures work.
type Fun struct {
	Params []Param
	Body   S
	Env    *Env
}

// FunVal wraps *Fun into a Value (Tag=VTFun).
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// BuiltinImpl is the implementation signature for host builtins. args is the
// already-evaluated argument list; env is the caller's environment (builtins
// rarely need it). Implementations report failures through the interpreter's
// error helpers (failKind and friends), never by returning Go errors.
type BuiltinImpl func(ip *Interpreter, args []Value, env *Env) Value

// Builtin is a host-provided callable installed in the Core environment and
// invoked exactly like a user-defined function.
type Builtin struct {
	Name string
	Fn   BuiltinImpl
}

// BuiltinVal wraps *Builtin into a Value (Tag=VTBuiltin).
func BuiltinVal(b *Builtin) Value { return Value{Tag: VTBuiltin, Data: b} }

////////////////////////////////////////////////////////////////////////////////
//                              INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter is the entry point for evaluating Korio programs.
type Interpreter struct {
	Global *Env // program-global environment (persistent across EvalPersistentSource)
	Core   *Env // builtins; parent of Global

	// Stdout receives the output of print/println. Hosts and tests may
	// replace it before evaluating.
	Stdout io.Writer
}

// NewInterpreter constructs an interpreter with the standard builtins
// installed in Core and an empty Global inheriting from it.
func NewInterpreter() *Interpreter {
	ip := NewBareInterpreter()
	registerCoreBuiltins(ip)
	registerListBuiltins(ip)
	registerStringBuiltins(ip)
	registerMathBuiltins(ip)
	registerMapBuiltins(ip)
	return ip
}

// NewBareInterpreter constructs an interpreter whose Core is empty. Hosts
// embedding the evaluator install their own builtin table via
// RegisterBuiltin before evaluating.
func NewBareInterpreter() *Interpreter {
	ip := &Interpreter{}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	ip.Stdout = os.Stdout
	return ip
}

// RegisterBuiltin installs a host callable into Core under name. Builtins are
// final bindings: programs cannot shadow them in the root scope.
func (ip *Interpreter) RegisterBuiltin(name string, fn BuiltinImpl) {
	// Core is engine-owned, so a duplicate registration is a programming
	// error on the host side; last one wins to keep embedding simple.
	if ip.Core.Has(name) {
		ip.Core.table[name] = &binding{value: BuiltinVal(&Builtin{Name: name, Fn: fn}), final: true}
		return
	}
	_ = ip.Core.Define(name, BuiltinVal(&Builtin{Name: name, Fn: fn}), true, "")
}

// EvalSource parses and evaluates source in a fresh child of Global.
// Declarations land in that ephemeral child; Global is unchanged.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	ast, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.runTop(ast, NewEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates source in Global (REPL-style):
// declarations and assignments persist across calls.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	ast, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.runTop(ast, ip.Global)
}

// EvalAST evaluates a parsed AST in the provided environment exactly as
// given. Hosts use this to control scoping explicitly.
func (ip *Interpreter) EvalAST(ast S, env *Env) (Value, error) {
	return ip.runTop(ast, env)
}

// Apply invokes a function or builtin Value with the given arguments. It is
// the call path used by higher-order builtins (map, filter, reduce, each) to
// run user-defined callbacks: the callee's closure environment parents the
// call frame, parameters are bound positionally and validated, and a
// `return` inside the body is caught at this boundary.
//
// Apply follows the engine's internal error discipline (panic signals); call
// it from builtin implementations or wrap it like runTop does.
func (ip *Interpreter) Apply(fn Value, args []Value) Value {
	return ip.applyArgs(fn, args, nil)
}
