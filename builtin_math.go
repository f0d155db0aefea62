package korio

import "math"

func registerMathBuiltins(ip *Interpreter) {
	unary := func(name string, fn func(float64) float64) {
		ip.RegisterBuiltin(name, func(_ *Interpreter, args []Value, _ *Env) Value {
			argCount(name, args, 1)
			return Num(fn(argNum(name, args[0])))
		})
	}

	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)

	ip.RegisterBuiltin("sqrt", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("sqrt", args, 1)
		f := argNum("sqrt", args[0])
		if f < 0 {
			failKind(ErrTypeMismatch, "sqrt of a negative number")
		}
		return Num(math.Sqrt(f))
	})

	ip.RegisterBuiltin("pow", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("pow", args, 2)
		return Num(math.Pow(argNum("pow", args[0]), argNum("pow", args[1])))
	})

	ip.RegisterBuiltin("min", func(_ *Interpreter, args []Value, _ *Env) Value {
		if len(args) == 0 {
			failKind(ErrTypeMismatch, "min expects at least 1 argument")
		}
		best := argNum("min", args[0])
		for _, a := range args[1:] {
			if f := argNum("min", a); f < best {
				best = f
			}
		}
		return Num(best)
	})

	ip.RegisterBuiltin("max", func(_ *Interpreter, args []Value, _ *Env) Value {
		if len(args) == 0 {
			failKind(ErrTypeMismatch, "max expects at least 1 argument")
		}
		best := argNum("max", args[0])
		for _, a := range args[1:] {
			if f := argNum("max", a); f > best {
				best = f
			}
		}
		return Num(best)
	})
}
