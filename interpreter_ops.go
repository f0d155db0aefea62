// interpreter_ops.go — PRIVATE: operator semantics, indexing, assignment and
// iteration. Every entry point here is a type-dispatch matrix over already
// evaluated operands; combinations outside the matrix raise a TypeMismatch
// naming both operand types and the operator.
package korio

import "math"

// typeName renders a Value's dynamic type for error messages.
func typeName(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTList:
		return "list"
	case VTMap:
		return "map"
	case VTFun:
		return "function"
	case VTBuiltin:
		return "builtin"
	}
	return "unknown"
}

////////////////////////////////////////////////////////////////////////////////
//                              UNARY / BINARY
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) evalUnary(op string, v Value) Value {
	switch op {
	case "-":
		if v.Tag != VTNum {
			failKind(ErrTypeMismatch, "unary '-' expects a number, got %s", typeName(v))
		}
		return Num(-v.Data.(float64))
	case "!":
		if v.Tag != VTBool {
			failKind(ErrTypeMismatch, "unary '!' expects a boolean, got %s", typeName(v))
		}
		return Bool(!v.Data.(bool))
	}
	failKind(ErrTypeMismatch, "unknown unary operator %q", op)
	return Null
}

func (ip *Interpreter) evalBinary(op string, l, r Value) Value {
	// number × number
	if l.Tag == VTNum && r.Tag == VTNum {
		a, b := l.Data.(float64), r.Data.(float64)
		switch op {
		case "+":
			return Num(a + b)
		case "-":
			return Num(a - b)
		case "*":
			return Num(a * b)
		case "/":
			return Num(a / b)
		case "%":
			return Num(math.Mod(a, b))
		case "==":
			return Bool(a == b)
		case "!=":
			return Bool(a != b)
		case "<":
			return Bool(a < b)
		case "<=":
			return Bool(a <= b)
		case ">":
			return Bool(a > b)
		case ">=":
			return Bool(a >= b)
		}
	}

	// '+' with a string side coerces a number/boolean other side to text.
	if op == "+" && (l.Tag == VTStr || r.Tag == VTStr) {
		ls, lok := concatText(l)
		rs, rok := concatText(r)
		if lok && rok {
			return Str(ls + rs)
		}
	}

	// string × string
	if l.Tag == VTStr && r.Tag == VTStr {
		a, b := l.Data.(string), r.Data.(string)
		switch op {
		case "==":
			return Bool(a == b)
		case "!=":
			return Bool(a != b)
		case "<":
			return Bool(a < b)
		case "<=":
			return Bool(a <= b)
		case ">":
			return Bool(a > b)
		case ">=":
			return Bool(a >= b)
		}
	}

	// boolean × boolean
	if l.Tag == VTBool && r.Tag == VTBool {
		a, b := l.Data.(bool), r.Data.(bool)
		switch op {
		case "&&":
			return Bool(a && b)
		case "||":
			return Bool(a || b)
		case "==":
			return Bool(a == b)
		case "!=":
			return Bool(a != b)
		}
	}

	// list + list: concatenation; the spine is new, the elements are shared.
	if op == "+" && l.Tag == VTList && r.Tag == VTList {
		a, b := l.Data.([]Value), r.Data.([]Value)
		out := make([]Value, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return List(out)
	}

	// map + map: right-biased merge; left keys keep their slots, new right
	// keys append in right order.
	if op == "+" && l.Tag == VTMap && r.Tag == VTMap {
		a, b := l.Data.(*MapObject), r.Data.(*MapObject)
		out := NewMapObject()
		for _, k := range a.Keys {
			out.SetKey(k, a.Entries[k])
		}
		for _, k := range b.Keys {
			out.SetKey(k, b.Entries[k])
		}
		return MapVal(out)
	}

	// ==/!= extend to same-tag structural equality (lists, maps, callables)
	// and to null on either side; cross-type comparisons stay errors.
	if l.Tag == r.Tag || l.Tag == VTNull || r.Tag == VTNull {
		switch op {
		case "==":
			return Bool(valuesEqual(l, r))
		case "!=":
			return Bool(!valuesEqual(l, r))
		}
	}

	failKind(ErrTypeMismatch, "unsupported operand types for %q: %s and %s", op, typeName(l), typeName(r))
	return Null
}

// valuesEqual is deep structural equality: lists compare elementwise, maps
// compare key sets and values (insertion order is irrelevant), functions and
// builtins compare by identity.
func valuesEqual(l, r Value) bool {
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case VTNull:
		return true
	case VTBool:
		return l.Data.(bool) == r.Data.(bool)
	case VTNum:
		return l.Data.(float64) == r.Data.(float64)
	case VTStr:
		return l.Data.(string) == r.Data.(string)
	case VTList:
		a, b := l.Data.([]Value), r.Data.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !valuesEqual(a[i], b[i]) {
				return false
			}
		}
		return true
	case VTMap:
		a, b := l.Data.(*MapObject), r.Data.(*MapObject)
		if len(a.Keys) != len(b.Keys) {
			return false
		}
		for _, k := range a.Keys {
			bv, ok := b.GetKey(k)
			if !ok || !valuesEqual(a.Entries[k], bv) {
				return false
			}
		}
		return true
	case VTFun, VTBuiltin:
		return l.Data == r.Data
	}
	return false
}

// concatText coerces a '+' operand next to a string: strings pass through,
// numbers and booleans render textually, anything else refuses.
func concatText(v Value) (string, bool) {
	switch v.Tag {
	case VTStr:
		return v.Data.(string), true
	case VTNum:
		return formatNumber(v.Data.(float64)), true
	case VTBool:
		if v.Data.(bool) {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

////////////////////////////////////////////////////////////////////////////////
//                                INDEXING
////////////////////////////////////////////////////////////////////////////////

// seqIndex validates a list/string index: a non-negative integer-valued
// number within bounds. Everything else is an IndexError.
func seqIndex(index Value, length int, what string) int {
	if index.Tag != VTNum {
		failKind(ErrIndex, "%s index must be a number, got %s", what, typeName(index))
	}
	f := index.Data.(float64)
	if f != math.Trunc(f) {
		failKind(ErrIndex, "%s index must be an integer, got %s", what, formatNumber(f))
	}
	i := int(f)
	if i < 0 || i >= length {
		failKind(ErrIndex, "%s index %d out of bounds for length %d", what, i, length)
	}
	return i
}

// mapKey coerces a string/number/boolean index to a string key.
func mapKey(index Value) string {
	s, ok := concatText(index)
	if !ok {
		failKind(ErrIndex, "map key must be a string, number or boolean, got %s", typeName(index))
	}
	return s
}

func (ip *Interpreter) evalIndex(target, index Value) Value {
	switch target.Tag {
	case VTList:
		xs := target.Data.([]Value)
		return xs[seqIndex(index, len(xs), "list")]
	case VTStr:
		rs := []rune(target.Data.(string))
		return Str(string(rs[seqIndex(index, len(rs), "string")]))
	case VTMap:
		// a missing key yields null, not an error
		if v, ok := target.Data.(*MapObject).GetKey(mapKey(index)); ok {
			return v
		}
		return Null
	}
	failKind(ErrTypeMismatch, "cannot index a %s value", typeName(target))
	return Null
}

////////////////////////////////////////////////////////////////////////////////
//                               ASSIGNMENT
////////////////////////////////////////////////////////////////////////////////

// evalAssign stores v through an "id" or "idx" target and yields v. Index
// assignment resolves the container and coerces the index exactly like
// reading does, then mutates in place (map assignment inserts missing keys).
func (ip *Interpreter) evalAssign(target S, v Value, env *Env) Value {
	switch target[0].(string) {
	case "id":
		mustEnv(env.Set(target[1].(string), v))
		return v
	case "idx":
		container := ip.evalNode(target[1].(S), env)
		index := ip.evalNode(target[2].(S), env)
		switch container.Tag {
		case VTList:
			xs := container.Data.([]Value)
			xs[seqIndex(index, len(xs), "list")] = v
			return v
		case VTMap:
			container.Data.(*MapObject).SetKey(mapKey(index), v)
			return v
		case VTStr:
			failKind(ErrTypeMismatch, "strings are immutable: cannot assign into a string")
		}
		failKind(ErrTypeMismatch, "cannot index a %s value", typeName(container))
	}
	failKind(ErrTypeMismatch, "invalid assignment target")
	return Null
}

////////////////////////////////////////////////////////////////////////////////
//                                ITERATION
////////////////////////////////////////////////////////////////////////////////

// iterElements normalizes a for-loop iterable: lists iterate elements,
// strings iterate one-character strings left to right, maps iterate keys in
// insertion order.
func iterElements(v Value) []Value {
	switch v.Tag {
	case VTList:
		return v.Data.([]Value)
	case VTStr:
		s := v.Data.(string)
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, Str(string(r)))
		}
		return out
	case VTMap:
		m := v.Data.(*MapObject)
		out := make([]Value, 0, len(m.Keys))
		for _, k := range m.Keys {
			out = append(out, Str(k))
		}
		return out
	}
	failKind(ErrTypeMismatch, "for loop expects a list, string or map, got %s", typeName(v))
	return nil
}
