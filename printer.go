package korio

import (
	"strconv"
	"strings"
)

/* ---------- tiny helpers ---------- */

// formatNumber renders a float the way the language shows numbers: integral
// values lose their fractional part ("3", not "3.000000"), everything else
// keeps the shortest round-trip form.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

/* ---------- runtime value printers ---------- */

// FormatValue renders a Value in display form: strings are quoted, lists
// print as [1, 2, 3] and maps as {"a": 1, "b": 2} in insertion order.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// DisplayValue renders a Value the way print and str show it: top-level
// strings stay bare, everything else matches FormatValue.
func DisplayValue(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	return FormatValue(v)
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Tag {
	case VTNull:
		b.WriteString("null")
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case VTNum:
		b.WriteString(formatNumber(v.Data.(float64)))
	case VTStr:
		b.WriteString(quoteString(v.Data.(string)))
	case VTList:
		b.WriteByte('[')
		for i, it := range v.Data.([]Value) {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, it)
		}
		b.WriteByte(']')
	case VTMap:
		m := v.Data.(*MapObject)
		b.WriteByte('{')
		for i, k := range m.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteString(k))
			b.WriteString(": ")
			writeValue(b, m.Entries[k])
		}
		b.WriteByte('}')
	case VTFun:
		f := v.Data.(*Fun)
		names := make([]string, len(f.Params))
		for i, p := range f.Params {
			names[i] = p.Name
		}
		b.WriteString("<fun(" + strings.Join(names, ", ") + ")>")
	case VTBuiltin:
		b.WriteString("<builtin " + v.Data.(*Builtin).Name + ">")
	default:
		b.WriteString("<unknown>")
	}
}
