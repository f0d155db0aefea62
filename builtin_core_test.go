package korio

import (
	"strings"
	"testing"
)

func Test_Builtin_Print_And_Println(t *testing.T) {
	ip := NewInterpreter()
	var out strings.Builder
	ip.Stdout = &out

	mustEvalPersistent(t, ip, `print("a", 1)`)
	mustEvalPersistent(t, ip, `println("b", [1, 2])`)
	mustEvalPersistent(t, ip, `println()`)

	want := "a 1b [1, 2]\n\n"
	if got := out.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func Test_Builtin_Type(t *testing.T) {
	wantStr(t, evalSrc(t, "type(null)"), "null")
	wantStr(t, evalSrc(t, "type(1)"), "number")
	wantStr(t, evalSrc(t, `type("x")`), "string")
	wantStr(t, evalSrc(t, "type(true)"), "boolean")
	wantStr(t, evalSrc(t, "type([])"), "list")
	wantStr(t, evalSrc(t, "type({})"), "map")
	wantStr(t, evalSrc(t, "type(lambda (x) -> x)"), "function")
	wantStr(t, evalSrc(t, "type(len)"), "builtin")
}

func Test_Builtin_Len(t *testing.T) {
	wantNum(t, evalSrc(t, `len("hello")`), 5)
	wantNum(t, evalSrc(t, `len("héllo")`), 5) // runes, not bytes
	wantNum(t, evalSrc(t, "len([1, 2, 3])"), 3)
	wantNum(t, evalSrc(t, `len({"a": 1})`), 1)
	wantRuntimeErr(t, "len(5)", ErrTypeMismatch)
	wantRuntimeErr(t, "len()", ErrTypeMismatch)
}

func Test_Builtin_Str(t *testing.T) {
	wantStr(t, evalSrc(t, "str(3)"), "3")
	wantStr(t, evalSrc(t, "str(3.5)"), "3.5")
	wantStr(t, evalSrc(t, `str("x")`), "x")
	wantStr(t, evalSrc(t, "str(true)"), "true")
	wantStr(t, evalSrc(t, "str(null)"), "null")
	wantStr(t, evalSrc(t, "str([1, 2])"), "[1, 2]")
}

func Test_Builtin_Num(t *testing.T) {
	wantNum(t, evalSrc(t, `num("3.5")`), 3.5)
	wantNum(t, evalSrc(t, `num(" 7 ")`), 7)
	wantNum(t, evalSrc(t, "num(true)"), 1)
	wantNum(t, evalSrc(t, "num(false)"), 0)
	wantNum(t, evalSrc(t, "num(9)"), 9)
	wantRuntimeErr(t, `num("abc")`, ErrTypeMismatch)
	wantRuntimeErr(t, "num([])", ErrTypeMismatch)
}

func Test_Builtin_Assert(t *testing.T) {
	wantNull(t, evalSrc(t, "assert(1 == 1)"))
	re := wantRuntimeErr(t, `assert(false, "boom")`, ErrTypeMismatch)
	if !strings.Contains(re.Msg, "boom") {
		t.Fatalf("want message to carry %q, got %q", "boom", re.Msg)
	}
	wantRuntimeErr(t, "assert(1)", ErrTypeMismatch)
}

func Test_Builtin_Bindings_Are_Final(t *testing.T) {
	wantRuntimeErr(t, "len = 5", ErrConstReassignment)
}
