package korio

import (
	"errors"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

func mustEvalPersistent(t *testing.T, ip *Interpreter, src string) Value {
	t.Helper()
	v, err := ip.EvalPersistentSource(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func wantNum(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTNum {
		t.Fatalf("want num %g, got %#v", f, v)
	}
	if got := v.Data.(float64); got != f {
		t.Fatalf("want num %g, got %g (%#v)", f, got, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != s {
		t.Fatalf("want str %q, got %#v", s, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantNull(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNull {
		t.Fatalf("want null, got %#v", v)
	}
}

// wantRuntimeErr evaluates src and demands a runtime error of the given kind.
func wantRuntimeErr(t *testing.T, src string, kind RuntimeErrKind) *RuntimeError {
	t.Helper()
	ip := NewInterpreter()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("want %s error, got success\nsource:\n%s", kind, src)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if re.Kind != kind {
		t.Fatalf("want kind %s, got %s: %v", kind, re.Kind, re)
	}
	return re
}

// --- literals and operators ------------------------------------------------

func Test_Interpreter_Literals(t *testing.T) {
	wantNum(t, evalSrc(t, "42"), 42)
	wantNum(t, evalSrc(t, "3.25"), 3.25)
	wantStr(t, evalSrc(t, `"hi"`), "hi")
	wantBool(t, evalSrc(t, "true"), true)
	wantBool(t, evalSrc(t, "false"), false)
	wantNull(t, evalSrc(t, "null"))
}

func Test_Interpreter_Arithmetic_And_Precedence(t *testing.T) {
	wantNum(t, evalSrc(t, "1 + 2 * 3"), 7)
	wantNum(t, evalSrc(t, "(1 + 2) * 3"), 9)
	wantNum(t, evalSrc(t, "5 / 2"), 2.5)
	wantNum(t, evalSrc(t, "7 % 4"), 3)
	wantNum(t, evalSrc(t, "-3 + 1"), -2)
	wantBool(t, evalSrc(t, "3 < 4"), true)
	wantBool(t, evalSrc(t, "3 >= 3"), true)
	wantBool(t, evalSrc(t, "1 == 2"), false)
	wantBool(t, evalSrc(t, "1 != 2"), true)
}

func Test_Interpreter_String_Operators(t *testing.T) {
	wantStr(t, evalSrc(t, `"foo" + "bar"`), "foobar")
	wantStr(t, evalSrc(t, `"n=" + 3`), "n=3")
	wantStr(t, evalSrc(t, `1 + "x"`), "1x")
	wantStr(t, evalSrc(t, `"ok=" + true`), "ok=true")
	wantBool(t, evalSrc(t, `"abc" < "abd"`), true)
	wantBool(t, evalSrc(t, `"a" == "a"`), true)
}

func Test_Interpreter_Boolean_Operators(t *testing.T) {
	wantBool(t, evalSrc(t, "true && false"), false)
	wantBool(t, evalSrc(t, "true || false"), true)
	wantBool(t, evalSrc(t, "true and true"), true)
	wantBool(t, evalSrc(t, "false or false"), false)
	wantBool(t, evalSrc(t, "!false"), true)
}

func Test_Interpreter_Operators_Do_Not_Short_Circuit(t *testing.T) {
	// both operands evaluate, so the right-hand call always runs
	v := evalSrc(t, `
		let hits = {"n": 0}
		def bump() {
			hits["n"] = hits["n"] + 1
			return true
		}
		let a = false && bump()
		let b = true || bump()
		hits["n"]
	`)
	wantNum(t, v, 2)
}

func Test_Interpreter_Null_Equality(t *testing.T) {
	wantBool(t, evalSrc(t, "null == null"), true)
	wantBool(t, evalSrc(t, "null != 1"), true)
	wantBool(t, evalSrc(t, `let x = null; x == null`), true)
}

func Test_Interpreter_Structural_Equality_Same_Type(t *testing.T) {
	wantBool(t, evalSrc(t, "[1, [2]] == [1, [2]]"), true)
	wantBool(t, evalSrc(t, "[1] == [1, 2]"), false)
	wantBool(t, evalSrc(t, `{"a": 1, "b": 2} == {"b": 2, "a": 1}`), true)
	wantBool(t, evalSrc(t, `{"a": 1} != {"a": 2}`), true)
	wantBool(t, evalSrc(t, "len == len"), true)
}

func Test_Interpreter_CrossType_Equality_Is_Error(t *testing.T) {
	wantRuntimeErr(t, `1 == "1"`, ErrTypeMismatch)
	wantRuntimeErr(t, `true == 1`, ErrTypeMismatch)
	wantRuntimeErr(t, `[1] != "x"`, ErrTypeMismatch)
}

func Test_Interpreter_TypeMismatch_On_Bad_Operands(t *testing.T) {
	wantRuntimeErr(t, `1 + null`, ErrTypeMismatch)
	wantRuntimeErr(t, `"a" - "b"`, ErrTypeMismatch)
	wantRuntimeErr(t, `true + true`, ErrTypeMismatch)
	wantRuntimeErr(t, `[1] * [2]`, ErrTypeMismatch)
	wantRuntimeErr(t, `-"x"`, ErrTypeMismatch)
	wantRuntimeErr(t, `!1`, ErrTypeMismatch)
}

// --- variables and scope ---------------------------------------------------

func Test_Interpreter_Let_And_Assign(t *testing.T) {
	wantNum(t, evalSrc(t, "let x = 1; x = x + 2; x"), 3)
	wantNum(t, evalSrc(t, "let x: number = 4; x"), 4)
}

func Test_Interpreter_Undefined_Variable(t *testing.T) {
	wantRuntimeErr(t, "mystery + 1", ErrUndefinedVariable)
	wantRuntimeErr(t, "y = 3", ErrUndefinedVariable)
}

func Test_Interpreter_Redeclaration_Same_Frame(t *testing.T) {
	wantRuntimeErr(t, "let x = 1; let x = 2", ErrRedeclaredVariable)
}

func Test_Interpreter_Final_Reassignment(t *testing.T) {
	wantRuntimeErr(t, "final x = 1; x = 2", ErrConstReassignment)
	// a final binding still reads fine
	wantNum(t, evalSrc(t, "final x = 7; x"), 7)
}

func Test_Interpreter_Shadowing_In_Nested_Block(t *testing.T) {
	v := evalSrc(t, `
		let x = "outer"
		{
			let x = "inner"
			assert(x == "inner")
		}
		x
	`)
	wantStr(t, v, "outer")
}

func Test_Interpreter_Assignment_Walks_Scope_Chain(t *testing.T) {
	v := evalSrc(t, `
		let x = 1
		{
			x = 42
		}
		x
	`)
	wantNum(t, v, 42)
}

func Test_Interpreter_Type_Annotations(t *testing.T) {
	// aliases map onto the same category
	wantNum(t, evalSrc(t, "let n: int = 3; n"), 3)
	wantStr(t, evalSrc(t, `let s: str = "a"; s`), "a")
	wantRuntimeErr(t, `let n: number = "oops"`, ErrTypeMismatch)
	wantRuntimeErr(t, `let n: number = 1; n = "two"`, ErrTypeMismatch)
	wantRuntimeErr(t, `let n: widget = 1`, ErrTypeMismatch)
}

// --- control flow ----------------------------------------------------------

func Test_Interpreter_If_Else(t *testing.T) {
	wantStr(t, evalSrc(t, `if (true) { "yes" } else { "no" }`), "yes")
	wantStr(t, evalSrc(t, `if (false) { "yes" } else { "no" }`), "no")
	wantNull(t, evalSrc(t, `if (false) { "yes" }`))
	wantStr(t, evalSrc(t, `
		let n = 2
		if (n == 1) { "one" } else if (n == 2) { "two" } else { "many" }
	`), "two")
}

func Test_Interpreter_Condition_Must_Be_Boolean(t *testing.T) {
	wantRuntimeErr(t, "if (1) { 2 }", ErrTypeMismatch)
	wantRuntimeErr(t, "while (null) { 2 }", ErrTypeMismatch)
}

func Test_Interpreter_While(t *testing.T) {
	v := evalSrc(t, `
		let i = 0
		let sum = 0
		while (i < 5) {
			sum = sum + i
			i = i + 1
		}
		sum
	`)
	wantNum(t, v, 10)
}

func Test_Interpreter_For_Over_List(t *testing.T) {
	v := evalSrc(t, `
		let sum = 0
		for x in [1, 2, 3] {
			sum = sum + x
		}
		sum
	`)
	wantNum(t, v, 6)
}

func Test_Interpreter_For_Over_String(t *testing.T) {
	v := evalSrc(t, `
		let out = ""
		for c in "abc" {
			out = c + out
		}
		out
	`)
	wantStr(t, v, "cba")
}

func Test_Interpreter_For_Over_Map_Insertion_Order(t *testing.T) {
	v := evalSrc(t, `
		let m = {"b": 1, "a": 2, "z": 3}
		let out = ""
		for k in m {
			out = out + k
		}
		out
	`)
	wantStr(t, v, "baz")
}

func Test_Interpreter_Implicit_Last_Statement_Result(t *testing.T) {
	wantNum(t, evalSrc(t, "1; 2; 3"), 3)
	wantNull(t, evalSrc(t, ""))
}

func Test_Interpreter_TopLevel_Return(t *testing.T) {
	wantNum(t, evalSrc(t, "return 5; 99"), 5)
}

// --- functions and closures ------------------------------------------------

func Test_Interpreter_Def_And_Call(t *testing.T) {
	wantNum(t, evalSrc(t, `
		def add(a, b) { return a + b }
		add(2, 3)
	`), 5)
}

func Test_Interpreter_Implicit_Function_Return(t *testing.T) {
	wantNum(t, evalSrc(t, `
		def twice(n) { n * 2 }
		twice(4)
	`), 8)
}

func Test_Interpreter_Lambda_Forms(t *testing.T) {
	wantNum(t, evalSrc(t, `
		let inc = lambda (n) -> n + 1
		inc(41)
	`), 42)
	wantNum(t, evalSrc(t, `
		let sq = lambda (n) { return n * n }
		sq(6)
	`), 36)
	wantNum(t, evalSrc(t, `
		let f = def (a, b) { a * b }
		f(3, 4)
	`), 12)
}

func Test_Interpreter_Closure_Captures_By_Reference(t *testing.T) {
	// the closure sees the mutated binding, not a copy of its value
	v := evalSrc(t, `
		let x = 1
		def addX(n) { return n + x }
		x = 5
		addX(1)
	`)
	wantNum(t, v, 6)
}

func Test_Interpreter_Counter_Closure(t *testing.T) {
	v := evalSrc(t, `
		def makeCounter() {
			let n = 0
			return lambda () {
				n = n + 1
				return n
			}
		}
		let c = makeCounter()
		c()
		c()
		c()
	`)
	wantNum(t, v, 3)
}

func Test_Interpreter_Nested_Return_Unwinds_One_Call(t *testing.T) {
	v := evalSrc(t, `
		def inner() {
			while (true) {
				if (true) {
					return "deep"
				}
			}
		}
		def outer() {
			let got = inner()
			return got + "!"
		}
		outer()
	`)
	wantStr(t, v, "deep!")
}

func Test_Interpreter_Recursion_Factorial(t *testing.T) {
	wantNum(t, evalSrc(t, `
		def fact(n) {
			if (n <= 1) { return 1 }
			return n * fact(n - 1)
		}
		fact(5)
	`), 120)
}

func Test_Interpreter_Arity_Mismatch(t *testing.T) {
	wantRuntimeErr(t, `
		def f(a, b) { a + b }
		f(1)
	`, ErrTypeMismatch)
}

func Test_Interpreter_Param_Type_Annotation(t *testing.T) {
	wantNum(t, evalSrc(t, `
		def double(n: number) { n * 2 }
		double(21)
	`), 42)
	wantRuntimeErr(t, `
		def double(n: number) { n * 2 }
		double("x")
	`, ErrTypeMismatch)
}

func Test_Interpreter_Calling_A_NonFunction(t *testing.T) {
	wantRuntimeErr(t, "let x = 3; x(1)", ErrTypeMismatch)
}

// --- collections -----------------------------------------------------------

func Test_Interpreter_List_Indexing(t *testing.T) {
	wantNum(t, evalSrc(t, "[10, 20, 30][1]"), 20)
	wantStr(t, evalSrc(t, `"hello"[1]`), "e")
	wantRuntimeErr(t, "[1, 2][5]", ErrIndex)
	wantRuntimeErr(t, "[1, 2][-1]", ErrIndex)
	wantRuntimeErr(t, "[1, 2][0.5]", ErrIndex)
	wantRuntimeErr(t, `[1, 2]["x"]`, ErrIndex)
}

func Test_Interpreter_List_Concatenation(t *testing.T) {
	v := evalSrc(t, "[1, 2] + [3]")
	xs := v.Data.([]Value)
	if v.Tag != VTList || len(xs) != 3 {
		t.Fatalf("want 3-element list, got %#v", v)
	}
	wantNum(t, xs[2], 3)

	// the spine is fresh: growing the result leaves the operands alone
	wantNum(t, evalSrc(t, `
		let a = [1, 2]
		let b = a + [3]
		len(a)
	`), 2)
}

func Test_Interpreter_Index_Assignment(t *testing.T) {
	wantNum(t, evalSrc(t, `
		let xs = [1, 2, 3]
		xs[1] = 99
		xs[1]
	`), 99)
	wantRuntimeErr(t, `
		let xs = [1]
		xs[4] = 0
	`, ErrIndex)
	wantRuntimeErr(t, `
		let s = "abc"
		s[0] = "z"
	`, ErrTypeMismatch)
}

func Test_Interpreter_Map_Literals_And_Lookup(t *testing.T) {
	wantNum(t, evalSrc(t, `{"a": 1, "b": 2}["b"]`), 2)
	// bare identifier keys read as strings
	wantNum(t, evalSrc(t, `{a: 1}["a"]`), 1)
	// missing keys yield null, not an error
	wantNull(t, evalSrc(t, `{"a": 1}["zzz"]`))
	// non-string keys coerce to strings
	wantNum(t, evalSrc(t, `let m = {}; m[1] = 10; m["1"]`), 10)
}

func Test_Interpreter_Map_Insert_And_Update(t *testing.T) {
	v := evalSrc(t, `
		let m = {"a": 1}
		m["b"] = 2
		m["a"] = 10
		m
	`)
	m := v.Data.(*MapObject)
	if len(m.Keys) != 2 || m.Keys[0] != "a" || m.Keys[1] != "b" {
		t.Fatalf("want keys [a b], got %v", m.Keys)
	}
	wantNum(t, m.Entries["a"], 10)
}

func Test_Interpreter_Map_Merge_Is_Right_Biased(t *testing.T) {
	v := evalSrc(t, `{"a": 1, "b": 2} + {"b": 9, "c": 3}`)
	m := v.Data.(*MapObject)
	if len(m.Keys) != 3 {
		t.Fatalf("want 3 keys, got %v", m.Keys)
	}
	if m.Keys[0] != "a" || m.Keys[1] != "b" || m.Keys[2] != "c" {
		t.Fatalf("want keys [a b c], got %v", m.Keys)
	}
	wantNum(t, m.Entries["b"], 9)
}

// --- public API ------------------------------------------------------------

func Test_Interpreter_EvalSource_Does_Not_Pollute_Global(t *testing.T) {
	ip := NewInterpreter()
	if _, err := ip.EvalSource("let x = 1; x"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if _, err := ip.EvalSource("x"); err == nil {
		t.Fatalf("want undefined variable after fresh EvalSource, got success")
	}
}

func Test_Interpreter_EvalPersistentSource_Accumulates(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "let x = 40")
	wantNum(t, mustEvalPersistent(t, ip, "x + 2"), 42)
}

func Test_Interpreter_RegisterBuiltin(t *testing.T) {
	ip := NewInterpreter()
	ip.RegisterBuiltin("twice", func(_ *Interpreter, args []Value, _ *Env) Value {
		argCount("twice", args, 1)
		return Num(argNum("twice", args[0]) * 2)
	})
	wantNum(t, mustEvalPersistent(t, ip, "twice(21)"), 42)
}

func Test_Interpreter_Apply_Calls_Script_Functions(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "def inc(n) { n + 1 }")
	fn, err := ip.Global.Get("inc")
	if err != nil {
		t.Fatalf("lookup inc: %v", err)
	}
	wantNum(t, ip.Apply(fn, []Value{Num(41)}), 42)
}

func Test_Interpreter_Apply_With_Host_Map(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, `def pick(m) { m["b"] }`)
	fn, err := ip.Global.Get("pick")
	if err != nil {
		t.Fatalf("lookup pick: %v", err)
	}
	arg := Map(map[string]Value{"a": Num(1), "b": Num(2)})
	wantNum(t, ip.Apply(fn, []Value{arg}), 2)
}

func Test_Interpreter_Stdout_Capture(t *testing.T) {
	ip := NewInterpreter()
	var out strings.Builder
	ip.Stdout = &out
	mustEvalPersistent(t, ip, `println("hi", 1 + 1)`)
	if got := out.String(); got != "hi 2\n" {
		t.Fatalf("want %q, got %q", "hi 2\n", got)
	}
}
