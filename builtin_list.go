package korio

import (
	"math"
	"sort"
)

// List builtins are value-oriented: push, pop, reverse and sort return fresh
// lists and leave their argument untouched. In-place element updates go
// through index assignment instead.
func registerListBuiltins(ip *Interpreter) {
	ip.RegisterBuiltin("push", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("push", args, 2)
		xs := argList("push", args[0])
		out := make([]Value, 0, len(xs)+1)
		out = append(out, xs...)
		out = append(out, args[1])
		return List(out)
	})

	ip.RegisterBuiltin("pop", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("pop", args, 1)
		xs := argList("pop", args[0])
		if len(xs) == 0 {
			failKind(ErrIndex, "pop on an empty list")
		}
		out := make([]Value, len(xs)-1)
		copy(out, xs[:len(xs)-1])
		return List(out)
	})

	ip.RegisterBuiltin("first", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("first", args, 1)
		xs := argList("first", args[0])
		if len(xs) == 0 {
			failKind(ErrIndex, "first on an empty list")
		}
		return xs[0]
	})

	ip.RegisterBuiltin("last", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("last", args, 1)
		xs := argList("last", args[0])
		if len(xs) == 0 {
			failKind(ErrIndex, "last on an empty list")
		}
		return xs[len(xs)-1]
	})

	// range(n) -> [0, 1, ..., n-1]; range(a, b) -> [a, a+1, ..., b-1]
	ip.RegisterBuiltin("range", func(_ *Interpreter, args []Value, _ *Env) Value {
		var lo, hi float64
		switch len(args) {
		case 1:
			hi = argNum("range", args[0])
		case 2:
			lo = argNum("range", args[0])
			hi = argNum("range", args[1])
		default:
			failKind(ErrTypeMismatch, "range expects 1 or 2 arguments, got %d", len(args))
		}
		if lo != math.Trunc(lo) || hi != math.Trunc(hi) {
			failKind(ErrTypeMismatch, "range expects integer bounds")
		}
		out := make([]Value, 0)
		for i := lo; i < hi; i++ {
			out = append(out, Num(i))
		}
		return List(out)
	})

	ip.RegisterBuiltin("contains", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("contains", args, 2)
		for _, it := range argList("contains", args[0]) {
			if valuesEqual(it, args[1]) {
				return Bool(true)
			}
		}
		return Bool(false)
	})

	ip.RegisterBuiltin("reverse", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("reverse", args, 1)
		xs := argList("reverse", args[0])
		out := make([]Value, len(xs))
		for i, it := range xs {
			out[len(xs)-1-i] = it
		}
		return List(out)
	})

	// sort orders all-number lists numerically and all-string lists
	// lexically; anything mixed is a type error.
	ip.RegisterBuiltin("sort", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("sort", args, 1)
		xs := argList("sort", args[0])
		out := make([]Value, len(xs))
		copy(out, xs)
		if len(out) == 0 {
			return List(out)
		}
		switch out[0].Tag {
		case VTNum:
			for _, it := range out {
				if it.Tag != VTNum {
					failKind(ErrTypeMismatch, "sort expects a homogeneous list, got number and %s", typeName(it))
				}
			}
			sort.SliceStable(out, func(i, j int) bool {
				return out[i].Data.(float64) < out[j].Data.(float64)
			})
		case VTStr:
			for _, it := range out {
				if it.Tag != VTStr {
					failKind(ErrTypeMismatch, "sort expects a homogeneous list, got string and %s", typeName(it))
				}
			}
			sort.SliceStable(out, func(i, j int) bool {
				return out[i].Data.(string) < out[j].Data.(string)
			})
		default:
			failKind(ErrTypeMismatch, "sort expects numbers or strings, got %s", typeName(out[0]))
		}
		return List(out)
	})

	ip.RegisterBuiltin("map", func(ip *Interpreter, args []Value, _ *Env) Value {
		argCount("map", args, 2)
		xs := argList("map", args[0])
		f := argCallable("map", args[1])
		out := make([]Value, len(xs))
		for i, it := range xs {
			out[i] = ip.Apply(f, []Value{it})
		}
		return List(out)
	})

	ip.RegisterBuiltin("filter", func(ip *Interpreter, args []Value, _ *Env) Value {
		argCount("filter", args, 2)
		xs := argList("filter", args[0])
		f := argCallable("filter", args[1])
		out := make([]Value, 0)
		for _, it := range xs {
			keep := ip.Apply(f, []Value{it})
			if keep.Tag != VTBool {
				failKind(ErrTypeMismatch, "filter predicate must return a boolean, got %s", typeName(keep))
			}
			if keep.Data.(bool) {
				out = append(out, it)
			}
		}
		return List(out)
	})

	ip.RegisterBuiltin("reduce", func(ip *Interpreter, args []Value, _ *Env) Value {
		argCount("reduce", args, 3)
		xs := argList("reduce", args[0])
		f := argCallable("reduce", args[1])
		acc := args[2]
		for _, it := range xs {
			acc = ip.Apply(f, []Value{acc, it})
		}
		return acc
	})

	ip.RegisterBuiltin("each", func(ip *Interpreter, args []Value, _ *Env) Value {
		argCount("each", args, 2)
		xs := argList("each", args[0])
		f := argCallable("each", args[1])
		for _, it := range xs {
			ip.Apply(f, []Value{it})
		}
		return Null
	})
}
