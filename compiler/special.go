package compiler

import (
	"context"

	"github.com/kakkky/lispsole/eval"
)

type specialForm func(c *Compiler, sc scope, args []eval.Value) eval.Op

// specialForms はコンパイラが直接扱う形式の表。
// 初期化の循環を避けるためinitで埋める
var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"quote":      compileQuote,
		"quasiquote": compileQuasiquote,
		"if":         compileIf,
		"do":         compileDo,
		"setv":       compileSetv,
		"fn":         compileFn,
		"defn":       compileDefn,
		"let":        compileLet,
		"defmacro":   compileDefmacro,
		"while":      compileWhile,
		"and":        compileAnd,
		"or":         compileOr,
		"try":        compileTry,
		".":          compileDot,
	}
}

func compileQuote(_ *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) != 1 {
		errorpf(sc, "quote requires exactly 1 argument")
	}
	return constOp(args[0])
}

func compileQuasiquote(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) != 1 {
		errorpf(sc, "quasiquote requires exactly 1 argument")
	}
	return c.quasi(sc, args[0])
}

// (if test then [else])
func compileIf(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) != 2 && len(args) != 3 {
		errorpf(sc, "if requires 2 or 3 arguments")
	}
	testOp := c.compile(sc, args[0])
	thenOp := c.compile(sc, args[1])
	elseOp := constOp(nil)
	if len(args) == 3 {
		elseOp = c.compile(sc, args[2])
	}
	return func(s *eval.State) (eval.Value, error) {
		test, err := testOp(s)
		if err != nil {
			return nil, err
		}
		if eval.Truthy(test) {
			return thenOp(s)
		}
		return elseOp(s)
	}
}

func compileDo(c *Compiler, sc scope, args []eval.Value) eval.Op {
	ops := c.compileAll(sc, args)
	return func(s *eval.State) (eval.Value, error) {
		return runBody(s, ops)
	}
}

// (setv name value [name value]...) は現在のスコープに束縛する
func compileSetv(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) == 0 || len(args)%2 != 0 {
		errorpf(sc, "setv requires an even number of arguments")
	}
	names := make([]string, 0, len(args)/2)
	valueOps := make([]eval.Op, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		names = append(names, symbolName(sc, "setv", args[i]))
		valueOps = append(valueOps, c.compile(sc, args[i+1]))
	}
	return func(s *eval.State) (eval.Value, error) {
		for i, name := range names {
			v, err := valueOps[i](s)
			if err != nil {
				return nil, err
			}
			if fn, ok := v.(*eval.Fn); ok && fn.Name == "" {
				fn.Name = name
			}
			s.Env().Define(name, v)
		}
		return nil, nil
	}
}

// (fn [params] body...)
func compileFn(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) == 0 {
		errorpf(sc, "fn requires a parameter vector")
	}
	return c.lambda(sc, "", args[0], args[1:])
}

// (defn name [params] body...)
func compileDefn(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) < 2 {
		errorpf(sc, "defn requires a name and a parameter vector")
	}
	name := symbolName(sc, "defn", args[0])
	fnOp := c.lambda(sc, name, args[1], args[2:])
	return func(s *eval.State) (eval.Value, error) {
		fn, err := fnOp(s)
		if err != nil {
			return nil, err
		}
		s.Env().Define(name, fn)
		return nil, nil
	}
}

// (defmacro name [params] body...) はコンパイル時に評価して登録する
func compileDefmacro(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) < 2 {
		errorpf(sc, "defmacro requires a name and a parameter vector")
	}
	name := symbolName(sc, "defmacro", args[0])
	if _, ok := specialForms[name]; ok {
		errorpf(sc, "cannot redefine special form %q", name)
	}
	fnOp := c.lambda(sc, name, args[1], args[2:])
	v, err := fnOp(c.interp.NewState(context.Background()))
	if err != nil {
		errorpf(sc, "failed to define macro %q: %v", name, err)
	}
	c.macros[eval.Mangle(name)] = v.(*eval.Fn)
	logger.Printf("registered macro %s", name)
	return constOp(nil)
}

func (c *Compiler) lambda(sc scope, name string, params eval.Value, body []eval.Value) eval.Op {
	vec, ok := params.(*eval.Vector)
	if !ok {
		errorpf(sc, "parameters must be a vector, got %s", eval.TypeName(params))
	}
	var fixed []eval.Symbol
	var rest eval.Symbol
	for i := 0; i < len(vec.Items); i++ {
		p := symbolName(sc, "parameter", vec.Items[i])
		if p != "&rest" {
			fixed = append(fixed, eval.Symbol(p))
			continue
		}
		if i != len(vec.Items)-2 {
			errorpf(sc, "&rest must be followed by exactly one name")
		}
		rest = eval.Symbol(symbolName(sc, "parameter", vec.Items[i+1]))
		break
	}
	inner := scope{fn: name, pos: sc.pos, expansions: sc.expansions}
	if inner.fn == "" {
		inner.fn = "<fn>"
	}
	bodyOps := c.compileAll(inner, body)
	return func(s *eval.State) (eval.Value, error) {
		return &eval.Fn{
			Name:   name,
			Params: fixed,
			Rest:   rest,
			Env:    s.Env(),
			Body: func(s *eval.State) (eval.Value, error) {
				return runBody(s, bodyOps)
			},
		}, nil
	}
}

// (let [name value...] body...) は束縛を順に評価する
func compileLet(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) == 0 {
		errorpf(sc, "let requires a binding vector")
	}
	bindings, ok := args[0].(*eval.Vector)
	if !ok || len(bindings.Items)%2 != 0 {
		errorpf(sc, "let bindings must be a vector with an even number of forms")
	}
	var names []string
	var valueOps []eval.Op
	for i := 0; i < len(bindings.Items); i += 2 {
		names = append(names, symbolName(sc, "let", bindings.Items[i]))
		valueOps = append(valueOps, c.compile(sc, bindings.Items[i+1]))
	}
	bodyOps := c.compileAll(sc, args[1:])
	return func(s *eval.State) (eval.Value, error) {
		inner := s.Fork(eval.NewEnv(s.Env()))
		for i, name := range names {
			v, err := valueOps[i](inner)
			if err != nil {
				return nil, err
			}
			inner.Env().Define(name, v)
		}
		return runBody(inner, bodyOps)
	}
}

// (while test body...)
func compileWhile(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) == 0 {
		errorpf(sc, "while requires a condition")
	}
	testOp := c.compile(sc, args[0])
	bodyOps := c.compileAll(sc, args[1:])
	return func(s *eval.State) (eval.Value, error) {
		for {
			if err := s.Interrupted(); err != nil {
				return nil, err
			}
			test, err := testOp(s)
			if err != nil {
				return nil, err
			}
			if !eval.Truthy(test) {
				return nil, nil
			}
			if _, err := runBody(s, bodyOps); err != nil {
				return nil, err
			}
		}
	}
}

func compileAnd(c *Compiler, sc scope, args []eval.Value) eval.Op {
	ops := c.compileAll(sc, args)
	return func(s *eval.State) (eval.Value, error) {
		var v eval.Value = true
		for _, op := range ops {
			var err error
			if v, err = op(s); err != nil {
				return nil, err
			}
			if !eval.Truthy(v) {
				return v, nil
			}
		}
		return v, nil
	}
}

func compileOr(c *Compiler, sc scope, args []eval.Value) eval.Op {
	ops := c.compileAll(sc, args)
	return func(s *eval.State) (eval.Value, error) {
		var v eval.Value
		for _, op := range ops {
			var err error
			if v, err = op(s); err != nil {
				return nil, err
			}
			if eval.Truthy(v) {
				return v, nil
			}
		}
		return v, nil
	}
}

// (try body... (catch name handler...))
func compileTry(c *Compiler, sc scope, args []eval.Value) eval.Op {
	var body []eval.Value
	var catchName string
	var handler []eval.Value
	hasCatch := false
	for i, arg := range args {
		list, ok := arg.(*eval.List)
		if !ok || len(list.Items) == 0 || list.Items[0] != eval.Symbol("catch") {
			if hasCatch {
				errorpf(sc, "catch must be the last form of try")
			}
			body = append(body, arg)
			continue
		}
		if i != len(args)-1 {
			errorpf(sc, "catch must be the last form of try")
		}
		if len(list.Items) < 2 {
			errorpf(sc, "catch requires a name")
		}
		catchName = symbolName(sc, "catch", list.Items[1])
		handler = list.Items[2:]
		hasCatch = true
	}
	bodyOps := c.compileAll(sc, body)
	handlerOps := c.compileAll(sc, handler)
	return func(s *eval.State) (eval.Value, error) {
		v, err := runBody(s, bodyOps)
		if err == nil || !hasCatch {
			return v, err
		}
		// 中断は捕捉しない
		if interrupted := s.Interrupted(); interrupted != nil {
			return nil, err
		}
		inner := s.Fork(eval.NewEnv(s.Env()))
		inner.Env().Define(catchName, eval.AsException(err).Reason)
		return runBody(inner, handlerOps)
	}
}

// (. target key...) は辞書を順にたどる。シンボルのキーはキーワードとして扱う
func compileDot(c *Compiler, sc scope, args []eval.Value) eval.Op {
	if len(args) < 2 {
		errorpf(sc, ". requires a target and at least one key")
	}
	targetOp := c.compile(sc, args[0])
	keys := make([]eval.Value, 0, len(args)-1)
	names := make([]string, 0, len(args)-1)
	for _, k := range args[1:] {
		names = append(names, eval.Str(k))
		if sym, ok := k.(eval.Symbol); ok {
			keys = append(keys, eval.Keyword(sym))
			continue
		}
		keys = append(keys, k)
	}
	return func(s *eval.State) (eval.Value, error) {
		v, err := targetOp(s)
		if err != nil {
			return nil, err
		}
		for i, k := range keys {
			m, ok := v.(*eval.Map)
			if !ok {
				return nil, eval.NewException("'%s' object has no attribute '%s'", eval.TypeName(v), names[i])
			}
			if v, ok = m.Get(k); !ok {
				return nil, eval.NewException("'dict' object has no attribute '%s'", names[i])
			}
		}
		return v, nil
	}
}

func symbolName(sc scope, what string, v eval.Value) string {
	sym, ok := v.(eval.Symbol)
	if !ok {
		errorpf(sc, "%s: expected a symbol, got %s", what, eval.Repr(v))
	}
	return string(sym)
}
