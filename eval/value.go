// Package eval は方言の値、環境、評価時の状態と組み込み関数を提供する
package eval

import (
	"github.com/kakkky/lispsole/lexer"
)

// Value は方言の値。
// nil, bool, int64, float64, string, Symbol, Keyword, *List, *Vector, *Map, *Fn, *Builtin のいずれか
type Value = any

// Symbol は名前を表す値
type Symbol string

// Keyword は先頭のコロンを除いた名前を持つキーワード
type Keyword string

// List は丸括弧のリスト。読み込み時の位置を持つ
type List struct {
	Items []Value
	Pos   lexer.Position
}

func NewList(items ...Value) *List {
	return &List{Items: items}
}

// Vector は角括弧のベクタ
type Vector struct {
	Items []Value
	Pos   lexer.Position
}

func NewVector(items ...Value) *Vector {
	return &Vector{Items: items}
}

// Op はコンパイル済みの式。評価時の状態を受け取って値を返す
type Op func(s *State) (Value, error)

// Fn はユーザー定義の関数
type Fn struct {
	Name   string
	Params []Symbol
	// 可変長引数を受け取る名前。ない場合は空文字
	Rest Symbol
	Body Op
	Env  *Env
}

// Builtin はGoで実装された組み込み関数
type Builtin struct {
	Name string
	Doc  string
	Impl func(s *State, args []Value) (Value, error)
}

// Truthy はnilとfalse以外を真とみなす
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// TypeName は値の型名を返す
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case Symbol:
		return "symbol"
	case Keyword:
		return "keyword"
	case *List:
		return "list"
	case *Vector:
		return "vector"
	case *Map:
		return "dict"
	case *Fn:
		return "fn"
	case *Builtin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Items は列として扱える値の要素を返す
func Items(v Value) ([]Value, bool) {
	switch v := v.(type) {
	case nil:
		return nil, true
	case *List:
		return v.Items, true
	case *Vector:
		return v.Items, true
	case *Map:
		pairs := make([]Value, 0, v.Len())
		for i, k := range v.keys {
			pairs = append(pairs, NewVector(k, v.vals[i]))
		}
		return pairs, true
	case string:
		chars := make([]Value, 0, len(v))
		for _, r := range v {
			chars = append(chars, string(r))
		}
		return chars, true
	default:
		return nil, false
	}
}

// Equal は値を構造的に比較する。整数と浮動小数点数は数値として比較する
func Equal(a, b Value) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	switch a := a.(type) {
	case *List:
		b, ok := b.(*List)
		return ok && equalItems(a.Items, b.Items)
	case *Vector:
		b, ok := b.(*Vector)
		return ok && equalItems(a.Items, b.Items)
	case *Map:
		b, ok := b.(*Map)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for i, k := range a.keys {
			v, ok := b.Get(k)
			if !ok || !Equal(a.vals[i], v) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func equalItems(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
