package korio

import "strings"

func registerStringBuiltins(ip *Interpreter) {
	ip.RegisterBuiltin("upper", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("upper", args, 1)
		return Str(strings.ToUpper(argStr("upper", args[0])))
	})

	ip.RegisterBuiltin("lower", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("lower", args, 1)
		return Str(strings.ToLower(argStr("lower", args[0])))
	})

	ip.RegisterBuiltin("trim", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("trim", args, 1)
		return Str(strings.TrimSpace(argStr("trim", args[0])))
	})

	ip.RegisterBuiltin("split", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("split", args, 2)
		s := argStr("split", args[0])
		sep := argStr("split", args[1])
		parts := strings.Split(s, sep)
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = Str(p)
		}
		return List(out)
	})

	ip.RegisterBuiltin("join", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("join", args, 2)
		xs := argList("join", args[0])
		sep := argStr("join", args[1])
		parts := make([]string, len(xs))
		for i, it := range xs {
			if it.Tag != VTStr {
				failKind(ErrTypeMismatch, "join expects a list of strings, got %s", typeName(it))
			}
			parts[i] = it.Data.(string)
		}
		return Str(strings.Join(parts, sep))
	})

	ip.RegisterBuiltin("replace", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("replace", args, 3)
		s := argStr("replace", args[0])
		old := argStr("replace", args[1])
		new := argStr("replace", args[2])
		return Str(strings.ReplaceAll(s, old, new))
	})

	ip.RegisterBuiltin("startsWith", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("startsWith", args, 2)
		return Bool(strings.HasPrefix(argStr("startsWith", args[0]), argStr("startsWith", args[1])))
	})

	ip.RegisterBuiltin("endsWith", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("endsWith", args, 2)
		return Bool(strings.HasSuffix(argStr("endsWith", args[0]), argStr("endsWith", args[1])))
	})

	ip.RegisterBuiltin("chars", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("chars", args, 1)
		s := argStr("chars", args[0])
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, Str(string(r)))
		}
		return List(out)
	})
}
