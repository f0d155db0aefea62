package korio

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ---- argument helpers shared by all builtin files --------------------------

func argCount(name string, args []Value, n int) {
	if len(args) != n {
		failKind(ErrTypeMismatch, "%s expects %d argument(s), got %d", name, n, len(args))
	}
}

func argNum(name string, v Value) float64 {
	if v.Tag != VTNum {
		failKind(ErrTypeMismatch, "%s expects a number, got %s", name, typeName(v))
	}
	return v.Data.(float64)
}

func argStr(name string, v Value) string {
	if v.Tag != VTStr {
		failKind(ErrTypeMismatch, "%s expects a string, got %s", name, typeName(v))
	}
	return v.Data.(string)
}

func argList(name string, v Value) []Value {
	if v.Tag != VTList {
		failKind(ErrTypeMismatch, "%s expects a list, got %s", name, typeName(v))
	}
	return v.Data.([]Value)
}

func argMap(name string, v Value) *MapObject {
	if v.Tag != VTMap {
		failKind(ErrTypeMismatch, "%s expects a map, got %s", name, typeName(v))
	}
	return v.Data.(*MapObject)
}

func argCallable(name string, v Value) Value {
	if v.Tag != VTFun && v.Tag != VTBuiltin {
		failKind(ErrTypeMismatch, "%s expects a function, got %s", name, typeName(v))
	}
	return v
}

// ---- core builtins ---------------------------------------------------------

func registerCoreBuiltins(ip *Interpreter) {
	ip.RegisterBuiltin("print", func(ip *Interpreter, args []Value, _ *Env) Value {
		fmt.Fprint(ip.Stdout, joinDisplay(args))
		return Null
	})

	ip.RegisterBuiltin("println", func(ip *Interpreter, args []Value, _ *Env) Value {
		fmt.Fprintln(ip.Stdout, joinDisplay(args))
		return Null
	})

	ip.RegisterBuiltin("type", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("type", args, 1)
		return Str(typeName(args[0]))
	})

	ip.RegisterBuiltin("len", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("len", args, 1)
		switch args[0].Tag {
		case VTStr:
			return Num(float64(utf8.RuneCountInString(args[0].Data.(string))))
		case VTList:
			return Num(float64(len(args[0].Data.([]Value))))
		case VTMap:
			return Num(float64(len(args[0].Data.(*MapObject).Keys)))
		}
		failKind(ErrTypeMismatch, "len expects a string, list or map, got %s", typeName(args[0]))
		return Null
	})

	ip.RegisterBuiltin("str", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("str", args, 1)
		return Str(DisplayValue(args[0]))
	})

	ip.RegisterBuiltin("num", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("num", args, 1)
		switch args[0].Tag {
		case VTNum:
			return args[0]
		case VTBool:
			if args[0].Data.(bool) {
				return Num(1)
			}
			return Num(0)
		case VTStr:
			s := strings.TrimSpace(args[0].Data.(string))
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				failKind(ErrTypeMismatch, "num: cannot parse %q as a number", s)
			}
			return Num(f)
		}
		failKind(ErrTypeMismatch, "num expects a number, string or boolean, got %s", typeName(args[0]))
		return Null
	})

	ip.RegisterBuiltin("assert", func(_ *Interpreter, args []Value, _ *Env) Value {
		if len(args) != 1 && len(args) != 2 {
			failKind(ErrTypeMismatch, "assert expects 1 or 2 arguments, got %d", len(args))
		}
		if args[0].Tag != VTBool {
			failKind(ErrTypeMismatch, "assert expects a boolean condition, got %s", typeName(args[0]))
		}
		if !args[0].Data.(bool) {
			msg := "assertion failed"
			if len(args) == 2 {
				msg = "assertion failed: " + DisplayValue(args[1])
			}
			failKind(ErrTypeMismatch, "%s", msg)
		}
		return Null
	})
}

func joinDisplay(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = DisplayValue(a)
	}
	return strings.Join(parts, " ")
}
