// interpreter_exec.go — PRIVATE: the tree-walking evaluation and call engine.
//
// evalNode dispatches on the S-expression tag and recurses against an *Env.
// Two panic signals thread through statement evaluation:
//   - returnSig — the non-error control transfer raised by `return`. It
//     unwinds through blocks, ifs and loops untouched and is caught exactly
//     at the nearest function-call boundary (or at runTop for a top-level
//     return, which treats it as the program result).
//   - rtErr     — a structured runtime failure. Nothing between the failure
//     site and runTop recovers it; it surfaces as *RuntimeError.
//
// The two signals are never mixed: returnSig is reserved for `return` and is
// not used for error reporting.
//
// Operator semantics, indexing, assignment and iteration live in
// interpreter_ops.go. The public facade is interpreter.go.
package korio

import "fmt"

////////////////////////////////////////////////////////////////////////////////
//                         PANIC SIGNALS & HELPERS
////////////////////////////////////////////////////////////////////////////////

type returnSig struct{ v Value }

type rtErr struct {
	kind RuntimeErrKind
	msg  string
}

func failKind(kind RuntimeErrKind, format string, args ...any) {
	panic(rtErr{kind: kind, msg: fmt.Sprintf(format, args...)})
}

// mustEnv escalates an Env error (already a *RuntimeError) into the panic
// discipline.
func mustEnv(err error) {
	if err == nil {
		return
	}
	if re, ok := err.(*RuntimeError); ok {
		panic(rtErr{kind: re.Kind, msg: re.Msg})
	}
	panic(rtErr{kind: ErrTypeMismatch, msg: err.Error()})
}

////////////////////////////////////////////////////////////////////////////////
//                              TOP-LEVEL DRIVER
////////////////////////////////////////////////////////////////////////////////

// runTop evaluates a ("block", ...) program directly in env (no extra frame,
// so persistent runs mutate env as expected) and converts panic signals into
// the public result shape.
func (ip *Interpreter) runTop(ast S, env *Env) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case returnSig:
				// A top-level return ends the program with its value.
				out, err = sig.v, nil
			case rtErr:
				out, err = Null, &RuntimeError{Kind: sig.kind, Msg: sig.msg}
			default:
				panic(r)
			}
		}
	}()
	return ip.evalStmts(ast[1:], env), nil
}

// evalStmts runs statements in order directly in env and yields the last
// statement's value (Null when empty).
func (ip *Interpreter) evalStmts(stmts []any, env *Env) Value {
	out := Null
	for _, st := range stmts {
		out = ip.evalNode(st.(S), env)
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
//                              NODE DISPATCH
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) evalNode(n S, env *Env) Value {
	switch n[0].(string) {

	// ----- literals / identifiers -----
	case "num":
		return Num(n[1].(float64))
	case "str":
		return Str(n[1].(string))
	case "bool":
		return Bool(n[1].(bool))
	case "null":
		return Null
	case "id":
		v, err := env.Get(n[1].(string))
		mustEnv(err)
		return v

	// ----- collections -----
	case "array":
		xs := make([]Value, 0, len(n)-1)
		for i := 1; i < len(n); i++ {
			xs = append(xs, ip.evalNode(n[i].(S), env))
		}
		return List(xs)
	case "map":
		m := NewMapObject()
		for i := 1; i < len(n); i++ {
			p := n[i].(S)
			m.SetKey(p[1].(string), ip.evalNode(p[2].(S), env))
		}
		return MapVal(m)

	// ----- operators -----
	case "unop":
		return ip.evalUnary(n[1].(string), ip.evalNode(n[2].(S), env))
	case "binop":
		// Both operands always evaluate; '&&'/'||' deliberately do not
		// short-circuit.
		l := ip.evalNode(n[2].(S), env)
		r := ip.evalNode(n[3].(S), env)
		return ip.evalBinary(n[1].(string), l, r)

	// ----- assignment / indexing -----
	case "assign":
		return ip.evalAssign(n[1].(S), ip.evalNode(n[2].(S), env), env)
	case "idx":
		target := ip.evalNode(n[1].(S), env)
		index := ip.evalNode(n[2].(S), env)
		return ip.evalIndex(target, index)

	// ----- functions & calls -----
	case "fun":
		return FunVal(&Fun{Params: funParams(n[1].(S)), Body: n[2].(S), Env: env})
	case "def":
		f := FunVal(&Fun{Params: funParams(n[2].(S)), Body: n[3].(S), Env: env})
		mustEnv(env.Define(n[1].(string), f, false, ""))
		return f
	case "call":
		callee := ip.evalNode(n[1].(S), env)
		args := make([]Value, 0, len(n)-2)
		for i := 2; i < len(n); i++ {
			args = append(args, ip.evalNode(n[i].(S), env))
		}
		return ip.applyArgs(callee, args, env)
	case "return":
		panic(returnSig{v: ip.evalNode(n[1].(S), env)})

	// ----- declarations -----
	case "let":
		v := ip.evalNode(n[4].(S), env)
		mustEnv(env.Define(n[1].(string), v, n[3].(bool), n[2].(string)))
		return v

	// ----- blocks & control -----
	case "block":
		return ip.evalStmts(n[1:], NewEnv(env))
	case "if":
		cond := ip.evalNode(n[1].(S), env)
		if cond.Tag != VTBool {
			failKind(ErrTypeMismatch, "if condition must be a boolean, got %s", typeName(cond))
		}
		if cond.Data.(bool) {
			return ip.evalNode(n[2].(S), env)
		}
		if len(n) > 3 {
			return ip.evalNode(n[3].(S), env)
		}
		return Null
	case "while":
		out := Null
		for {
			cond := ip.evalNode(n[1].(S), env)
			if cond.Tag != VTBool {
				failKind(ErrTypeMismatch, "while condition must be a boolean, got %s", typeName(cond))
			}
			if !cond.Data.(bool) {
				return out
			}
			// fresh frame per iteration
			out = ip.evalNode(n[2].(S), env)
		}
	case "for":
		name := n[1].(string)
		iter := ip.evalNode(n[2].(S), env)
		out := Null
		for _, elem := range iterElements(iter) {
			frame := NewEnv(env)
			mustEnv(frame.Define(name, elem, false, ""))
			out = ip.evalNode(n[3].(S), frame)
		}
		return out
	}

	failKind(ErrTypeMismatch, "unknown AST node: %v", n[0])
	return Null
}

func funParams(params S) []Param {
	out := make([]Param, 0, len(params)-1)
	for i := 1; i < len(params); i++ {
		p := params[i].(S)
		out = append(out, Param{Name: p[1].(string), Type: p[2].(string)})
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
//                              CALL ENGINE
////////////////////////////////////////////////////////////////////////////////

// applyArgs invokes fn with evaluated args. callerEnv is handed to builtins;
// user functions never see it — their call frame parents the closure env,
// which is what makes scoping lexical rather than dynamic.
func (ip *Interpreter) applyArgs(fn Value, args []Value, callerEnv *Env) Value {
	switch fn.Tag {
	case VTBuiltin:
		return fn.Data.(*Builtin).Fn(ip, args, callerEnv)
	case VTFun:
		return ip.callFun(fn.Data.(*Fun), args)
	}
	failKind(ErrTypeMismatch, "not a function: cannot call a %s value", typeName(fn))
	return Null
}

func (ip *Interpreter) callFun(f *Fun, args []Value) (out Value) {
	if len(args) != len(f.Params) {
		failKind(ErrTypeMismatch, "arity mismatch: function expects %d argument(s), got %d", len(f.Params), len(args))
	}
	callEnv := NewEnv(f.Env)
	for i, p := range f.Params {
		mustEnv(callEnv.Define(p.Name, args[i], false, p.Type))
	}

	// `return` anywhere inside the body is caught exactly here and becomes
	// the call's result; errors keep unwinding.
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSig)
			if !ok {
				panic(r)
			}
			out = sig.v
		}
	}()

	// Without an explicit return, the last evaluated statement's value is
	// the result.
	out = ip.evalNode(f.Body, callEnv)
	return out
}
