package korio

// Map builtins mirror the list ones: keys and values expose insertion order,
// remove returns a fresh map without the key.
func registerMapBuiltins(ip *Interpreter) {
	ip.RegisterBuiltin("keys", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("keys", args, 1)
		m := argMap("keys", args[0])
		out := make([]Value, 0, len(m.Keys))
		for _, k := range m.Keys {
			out = append(out, Str(k))
		}
		return List(out)
	})

	ip.RegisterBuiltin("values", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("values", args, 1)
		m := argMap("values", args[0])
		out := make([]Value, 0, len(m.Keys))
		for _, k := range m.Keys {
			out = append(out, m.Entries[k])
		}
		return List(out)
	})

	ip.RegisterBuiltin("has", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("has", args, 2)
		m := argMap("has", args[0])
		_, ok := m.GetKey(mapKey(args[1]))
		return Bool(ok)
	})

	ip.RegisterBuiltin("remove", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("remove", args, 2)
		m := argMap("remove", args[0])
		out := NewMapObject()
		for _, k := range m.Keys {
			out.SetKey(k, m.Entries[k])
		}
		out.DeleteKey(mapKey(args[1]))
		return MapVal(out)
	})
}
