package compiler

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/lexer"
)

func newCompiler(t *testing.T) *Compiler {
	t.Helper()
	c, err := New(eval.NewInterp(&bytes.Buffer{}))
	require.NoError(t, err)
	return c
}

func run(t *testing.T, c *Compiler, src string) (eval.Value, error) {
	t.Helper()
	forms, err := ReadString(src)
	require.NoError(t, err)
	prog, err := c.Compile(forms)
	if err != nil {
		return nil, err
	}
	return prog.Run(context.Background(), c.Interp())
}

func TestCompile_Evaluates(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{name: "arithmetic", src: "(+ 1 (* 2 3))", expected: "7"},
		{name: "hex literal", src: "0x10", expected: "16"},
		{name: "float literal", src: "1.5e3", expected: "1500.0"},
		{name: "string escapes", src: `(str "a\tb")`, expected: `"a\tb"`},
		{name: "if else", src: "(if false 1 2)", expected: "2"},
		{name: "if without else", src: "(if nil 1)", expected: "nil"},
		{name: "defn and call", src: "(defn sq [x] (* x x)) (sq 5)", expected: "25"},
		{name: "recursion", src: "(defn fact [n] (if (<= n 1) 1 (* n (fact (dec n))))) (fact 10)", expected: "3628800"},
		{name: "let is sequential", src: "(let [a 1 b (+ a 1)] (* a b))", expected: "2"},
		{name: "setv", src: "(setv x 10 y 2) (+ x y)", expected: "12"},
		{name: "rest parameters", src: "((fn [a &rest r] r) 1 2 3)", expected: "(2 3)"},
		{name: "closure", src: "(defn adder [n] (fn [x] (+ x n))) ((adder 3) 4)", expected: "7"},
		{name: "while", src: "(setv i 0 acc 0) (while (< i 5) (setv acc (+ acc i)) (setv i (inc i))) acc", expected: "10"},
		{name: "and short circuits", src: "(and 1 2 nil 3)", expected: "nil"},
		{name: "empty and", src: "(and)", expected: "true"},
		{name: "or", src: "(or nil false 3)", expected: "3"},
		{name: "quote", src: "'(a b)", expected: "(a b)"},
		{name: "quasiquote", src: "(setv xs [1 2]) `(a ~(first xs) ~@xs)", expected: "(a 1 1 2)"},
		{name: "quasiquote vector", src: "(setv x 1) `[x ~x]", expected: "[x 1]"},
		{name: "dict literal", src: "{:a (+ 1 2)}", expected: "{:a 3}"},
		{name: "vector literal", src: "[1 (+ 1 1)]", expected: "[1 2]"},
		{name: "empty list", src: "()", expected: "()"},
		{name: "when", src: "(when true 1 2)", expected: "2"},
		{name: "unless", src: "(unless true 1)", expected: "nil"},
		{name: "cond", src: "(cond false 1 (= 1 1) 2)", expected: "2"},
		{name: "empty cond", src: "(cond)", expected: "nil"},
		{name: "thread first", src: "(-> 5 (- 1) inc)", expected: "5"},
		{name: "thread last", src: "(->> 5 (- 1))", expected: "-4"},
		{name: "comment", src: "(comment (undefined))", expected: "nil"},
		{name: "user macro", src: "(defmacro twice [x] `(do ~x ~x)) (setv n 0) (twice (setv n (inc n))) n", expected: "2"},
		{name: "try catch", src: `(try (/ 1 0) (catch e (str "caught: " e)))`, expected: `"caught: division by zero"`},
		{name: "throw any value", src: "(try (throw {:code 1}) (catch e (get e :code)))", expected: "1"},
		{name: "try without error", src: "(try 1 2 (catch e 3))", expected: "2"},
		{name: "dot form", src: `(setv p {:name "x" :age 3}) (. p age)`, expected: "3"},
		{name: "nested dot form", src: "(setv p {:a {:b 2}}) (. p a b)", expected: "2"},
		{name: "macroexpand", src: "(macroexpand '(when x y))", expected: "(if x (do y))"},
		{name: "higher order with fn", src: "(map (fn [x] (* x 10)) [1 2])", expected: "(10 20)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCompiler(t)
			got, err := run(t, c, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, eval.Repr(got))
		})
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{name: "if arity", src: "(if)", wantMsg: "1:1: if requires 2 or 3 arguments"},
		{name: "setv non symbol", src: "(setv 1 2)", wantMsg: "setv: expected a symbol, got 1"},
		{name: "setv odd", src: "(setv x)", wantMsg: "setv requires an even number of arguments"},
		{name: "params not a vector", src: "(defn f x 1)", wantMsg: "parameters must be a vector, got symbol"},
		{name: "let odd bindings", src: "(let [a] a)", wantMsg: "let bindings must be a vector with an even number of forms"},
		{name: "unquote outside quasiquote", src: "~x", wantMsg: "unquote used outside of quasiquote"},
		{name: "dangling rest", src: "(fn [&rest] 1)", wantMsg: "&rest must be followed by exactly one name"},
		{name: "bad macro expansion", src: "(cond 1)", wantMsg: `macro expansion of "cond" failed: index out of range`},
		{name: "special form as value", src: "(map if [1])", wantMsg: `cannot use special form "if" as a value`},
		{name: "catch not last", src: "(try (catch e 1) 2)", wantMsg: "catch must be the last form of try"},
		{name: "redefine special form", src: "(defmacro if [x] x)", wantMsg: `cannot redefine special form "if"`},
		{name: "self recursive macro", src: "(defmacro m [] '(m)) (m)", wantMsg: `maximum macro expansion depth exceeded in "m"`},
		{name: "macro recursing through arguments", src: "(defmacro m [] '(+ 1 (m))) (m)", wantMsg: "maximum macro expansion depth exceeded"},
		{name: "macro recursing through fn body", src: "(defmacro m [] '(fn [] (m))) (m)", wantMsg: "maximum macro expansion depth exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCompiler(t)
			_, err := run(t, c, tt.src)
			require.Error(t, err)
			assert.Equal(t, errs.SYNTAX_ERROR, errs.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMacroExpand_SelfRecursiveMacro(t *testing.T) {
	c := newCompiler(t)
	_, err := run(t, c, "(defmacro m [] '(m))")
	require.NoError(t, err)

	_, err = run(t, c, "(macroexpand '(m))")
	var exc *eval.Exception
	require.ErrorAs(t, err, &exc)
	assert.Equal(t, "maximum macro expansion depth exceeded", exc.Error())

	// 上限に達しても後続の入力は評価できる
	v, err := run(t, c, "(+ 1 2)")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestCompile_MacroNamesAreNormalized(t *testing.T) {
	c := newCompiler(t)
	_, err := run(t, c, "(defmacro my_mac [x] `(+ ~x 1))")
	require.NoError(t, err)

	assert.True(t, c.IsSpecialForm("my-mac"))
	assert.True(t, c.IsSpecialForm("my_mac"))
	assert.Contains(t, c.MacroNames(), "my-mac")

	for _, src := range []string{"(my-mac 1)", "(my_mac 1)"} {
		v, err := run(t, c, src)
		require.NoError(t, err, src)
		assert.Equal(t, int64(2), v, src)
	}
	v, err := run(t, c, "(macroexpand '(my-mac 1))")
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 1)", eval.Repr(v))
}

func TestCompile_RuntimeErrorsCarryFrames(t *testing.T) {
	c := newCompiler(t)
	_, err := run(t, c, "(defn f [x] (/ x 0))\n(f 1)")
	require.Error(t, err)

	var exc *eval.Exception
	require.ErrorAs(t, err, &exc)
	assert.Equal(t, "division by zero", exc.Error())
	require.Len(t, exc.Stack, 2)
	assert.Equal(t, eval.Frame{Name: "<input>", Pos: lexer.Position{Offset: 21, Line: 2, Column: 1}}, exc.Stack[0])
	assert.Equal(t, eval.Frame{Name: "f", Pos: lexer.Position{Offset: 12, Line: 1, Column: 13}}, exc.Stack[1])
}

func TestCompile_UndefinedName(t *testing.T) {
	c := newCompiler(t)
	_, err := run(t, c, "undefined-name")
	require.Error(t, err)
	assert.Equal(t, "name 'undefined-name' is not defined", err.Error())
}

func TestCompiler_IsSpecialForm(t *testing.T) {
	c := newCompiler(t)

	for _, name := range []string{"if", "defn", "let", "setv", "when", "cond", "->", "comment"} {
		assert.True(t, c.IsSpecialForm(name), name)
	}
	for _, name := range []string{"print", "map", "foo"} {
		assert.False(t, c.IsSpecialForm(name), name)
	}

	// defmacroで登録した名前はすぐに特殊形式として扱われる
	assert.False(t, c.IsSpecialForm("my-when"))
	_, err := run(t, c, "(defmacro my-when [t &rest b] `(if ~t (do ~@b)))")
	require.NoError(t, err)
	assert.True(t, c.IsSpecialForm("my-when"))
	assert.Contains(t, c.MacroNames(), "my-when")
	assert.Contains(t, c.SpecialFormNames(), "defmacro")
}

func TestRead(t *testing.T) {
	tokens, err := lexer.Tokenize(`(a [b] {:c 1} 'd "e\n" nil true -2.5)`)
	require.NoError(t, err)
	forms, err := Read(tokens)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, `(a [b] {:c 1} (quote d) "e\n" nil true -2.5)`, eval.Repr(forms[0]))

	list := forms[0].(*eval.List)
	assert.Equal(t, lexer.Position{Offset: 0, Line: 1, Column: 1}, list.Pos)
}

func TestRead_ReaderMacros(t *testing.T) {
	forms, err := ReadString("`(a ~b ~@c)")
	require.NoError(t, err)
	assert.Equal(t, "(quasiquote (a (unquote b) (unquote-splicing c)))", eval.Repr(forms[0]))
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantKind errs.Kind
	}{
		{name: "odd dict literal", src: "{:a}", wantKind: errs.SYNTAX_ERROR},
		{name: "invalid escape", src: `"\q"`, wantKind: errs.SYNTAX_ERROR},
		{name: "invalid number", src: "1x", wantKind: errs.SYNTAX_ERROR},
		{name: "unclosed list", src: "(a", wantKind: errs.INCOMPLETE_INPUT},
		{name: "stray closer", src: ")", wantKind: errs.SYNTAX_ERROR},
		{name: "dangling quote", src: "(a) '", wantKind: errs.INCOMPLETE_INPUT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 括弧の対応を検査しない字句解析の結果を直接読む
			tokens, _ := lexer.Lex(tt.src)
			_, err := Read(tokens)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errs.KindOf(err))
		})
	}
}
