package eval

import (
	"math"
	"strconv"
	"strings"
)

// Repr は値を読み戻せる形式の文字列にする
func Repr(v Value) string {
	var sb strings.Builder
	writeRepr(&sb, v)
	return sb.String()
}

// Str は文字列をそのまま、それ以外をReprで文字列にする
func Str(v Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

func writeRepr(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case float64:
		sb.WriteString(formatFloat(v))
	case string:
		sb.WriteString(quote(v))
	case Symbol:
		sb.WriteString(string(v))
	case Keyword:
		sb.WriteString(":" + string(v))
	case *List:
		writeItems(sb, "(", v.Items, ")")
	case *Vector:
		writeItems(sb, "[", v.Items, "]")
	case *Map:
		sb.WriteString("{")
		for i, k := range v.keys {
			if i > 0 {
				sb.WriteString(" ")
			}
			writeRepr(sb, k)
			sb.WriteString(" ")
			writeRepr(sb, v.vals[i])
		}
		sb.WriteString("}")
	case *Fn:
		name := v.Name
		if name == "" {
			name = "anonymous"
		}
		sb.WriteString("<fn " + name + ">")
	case *Builtin:
		sb.WriteString("<builtin " + v.Name + ">")
	default:
		sb.WriteString("<unknown>")
	}
}

func writeItems(sb *strings.Builder, open string, items []Value, closer string) {
	sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(" ")
		}
		writeRepr(sb, item)
	}
	sb.WriteString(closer)
}

// 整数値の浮動小数点数にも小数点を付ける
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
