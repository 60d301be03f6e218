// Package compiler は読み込んだ式をクロージャの列にコンパイルする
package compiler

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/lexer"
	"github.com/kakkky/lispsole/logutil"
)

var logger = logutil.GetLogger("[compiler] ")

// MaxExpansionDepth はマクロ展開を入れ子にできる最大の深さ
const MaxExpansionDepth = 1000

//go:embed prelude.lisp
var prelude string

// Compiler は特殊形式の表とマクロの登録簿を持ち、式をeval.Programにコンパイルする。
// defmacroはコンパイル時に評価され、以降のコンパイルとIsSpecialFormにすぐ反映される
type Compiler struct {
	interp *eval.Interp
	macros map[string]*eval.Fn
}

// New はプレリュードのマクロを登録したCompilerを生成する
func New(interp *eval.Interp) (*Compiler, error) {
	c := &Compiler{
		interp: interp,
		macros: map[string]*eval.Fn{},
	}
	interp.Globals.Define("macroexpand", &eval.Builtin{
		Name: "macroexpand",
		Doc:  "expand macros at the head of a form",
		Impl: func(_ *eval.State, args []eval.Value) (eval.Value, error) {
			if len(args) != 1 {
				return nil, eval.NewException("macroexpand() takes exactly 1 argument (%d given)", len(args))
			}
			return c.MacroExpand(args[0])
		},
	})

	forms, err := ReadString(prelude)
	if err != nil {
		return nil, errs.NewInternalError("failed to read prelude").Wrap(err)
	}
	prog, err := c.Compile(forms)
	if err != nil {
		return nil, errs.NewInternalError("failed to compile prelude").Wrap(err)
	}
	if _, err := prog.Run(context.Background(), interp); err != nil {
		return nil, errs.NewInternalError("failed to run prelude").Wrap(err)
	}
	return c, nil
}

// IsSpecialForm は名前が特殊形式または登録済みのマクロであればtrueを返す
func (c *Compiler) IsSpecialForm(name string) bool {
	if _, ok := specialForms[name]; ok {
		return true
	}
	_, ok := c.macros[eval.Mangle(name)]
	return ok
}

// SpecialFormNames は特殊形式の名前をソートして返す
func (c *Compiler) SpecialFormNames() []string {
	return slices.Sorted(maps.Keys(specialForms))
}

// MacroNames は登録済みのマクロの名前をソートして返す
func (c *Compiler) MacroNames() []string {
	return slices.Sorted(maps.Keys(c.macros))
}

// Macro は登録済みのマクロを返す
func (c *Compiler) Macro(name string) (*eval.Fn, bool) {
	m, ok := c.macros[eval.Mangle(name)]
	return m, ok
}

// Interp はコンパイル時の評価に使うInterpを返す
func (c *Compiler) Interp() *eval.Interp {
	return c.interp
}

// Compile は式の列をコンパイルする。失敗した場合はSYNTAX_ERRORを返す
func (c *Compiler) Compile(forms []eval.Value) (prog eval.Program, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ce, ok := r.(*compileError); ok {
			err = ce.err
			return
		}
		panic(r)
	}()
	ops := make([]eval.Op, 0, len(forms))
	for _, form := range forms {
		ops = append(ops, c.compile(scope{fn: "<input>"}, form))
	}
	return eval.NewProgram(ops...), nil
}

// scope はコンパイル中の位置情報。トレースバックのフレームに使う
type scope struct {
	fn         string
	pos        lexer.Position
	expansions int // この位置に至るまでのマクロ展開の回数
}

type compileError struct {
	err *errs.Error
}

// errorpf はコンパイルエラーをpanicで送出する。Compileのrecoverで捕捉される
func errorpf(sc scope, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if sc.pos.Line > 0 {
		msg = sc.pos.String() + ": " + msg
	}
	panic(&compileError{err: errs.NewSyntaxError(msg)})
}

func (c *Compiler) compile(sc scope, form eval.Value) eval.Op {
	switch form := form.(type) {
	case eval.Symbol:
		return c.symbolOp(sc, form)
	case *eval.List:
		return c.listOp(sc, form)
	case *eval.Vector:
		itemOps := c.compileAll(sc, form.Items)
		return func(s *eval.State) (eval.Value, error) {
			items, err := runAll(s, itemOps)
			if err != nil {
				return nil, err
			}
			return eval.NewVector(items...), nil
		}
	case *eval.Map:
		keyOps := c.compileAll(sc, form.Keys())
		valOps := c.compileAll(sc, form.Vals())
		return func(s *eval.State) (eval.Value, error) {
			keys, err := runAll(s, keyOps)
			if err != nil {
				return nil, err
			}
			vals, err := runAll(s, valOps)
			if err != nil {
				return nil, err
			}
			m := eval.NewMap()
			for i := range keys {
				m = m.Assoc(keys[i], vals[i])
			}
			return m, nil
		}
	default:
		return constOp(form)
	}
}

func (c *Compiler) compileAll(sc scope, forms []eval.Value) []eval.Op {
	ops := make([]eval.Op, len(forms))
	for i, f := range forms {
		ops[i] = c.compile(sc, f)
	}
	return ops
}

func (c *Compiler) symbolOp(sc scope, sym eval.Symbol) eval.Op {
	if _, ok := specialForms[string(sym)]; ok {
		errorpf(sc, "cannot use special form %q as a value", sym)
	}
	if _, ok := c.macros[eval.Mangle(string(sym))]; ok {
		errorpf(sc, "cannot use macro %q as a value", sym)
	}
	name := string(sym)
	return func(s *eval.State) (eval.Value, error) {
		v, ok := s.Env().Get(name)
		if !ok {
			return nil, eval.NewException("name '%s' is not defined", name)
		}
		return v, nil
	}
}

func (c *Compiler) listOp(sc scope, list *eval.List) eval.Op {
	if list.Pos.Line > 0 {
		sc.pos = list.Pos
	}
	if len(list.Items) == 0 {
		return func(*eval.State) (eval.Value, error) { return eval.NewList(), nil }
	}
	if head, ok := list.Items[0].(eval.Symbol); ok {
		name := string(head)
		if special, ok := specialForms[name]; ok {
			return special(c, sc, list.Items[1:])
		}
		if macro, ok := c.macros[eval.Mangle(name)]; ok {
			if sc.expansions >= MaxExpansionDepth {
				errorpf(sc, "maximum macro expansion depth exceeded in %q", name)
			}
			expanded, err := c.expand(macro, list.Items[1:])
			if err != nil {
				errorpf(sc, "macro expansion of %q failed: %v", name, err)
			}
			sc.expansions++
			return c.compile(sc, expanded)
		}
		if name == "unquote" || name == "unquote-splicing" {
			errorpf(sc, "%s used outside of quasiquote", name)
		}
	}
	return c.callOp(sc, list)
}

func (c *Compiler) callOp(sc scope, list *eval.List) eval.Op {
	headOp := c.compile(sc, list.Items[0])
	argOps := c.compileAll(sc, list.Items[1:])
	frame := eval.Frame{Name: sc.fn, Pos: sc.pos}
	return func(s *eval.State) (eval.Value, error) {
		f, err := headOp(s)
		if err != nil {
			return nil, err
		}
		args, err := runAll(s, argOps)
		if err != nil {
			return nil, err
		}
		v, err := eval.Call(s, f, args)
		if err != nil {
			return nil, eval.WithFrame(err, frame)
		}
		return v, nil
	}
}

func (c *Compiler) expand(macro *eval.Fn, args []eval.Value) (eval.Value, error) {
	return eval.Call(c.interp.NewState(context.Background()), macro, args)
}

// MacroExpand は先頭がマクロである限り式を展開する
func (c *Compiler) MacroExpand(form eval.Value) (eval.Value, error) {
	for range MaxExpansionDepth {
		list, ok := form.(*eval.List)
		if !ok || len(list.Items) == 0 {
			return form, nil
		}
		head, ok := list.Items[0].(eval.Symbol)
		if !ok {
			return form, nil
		}
		macro, ok := c.macros[eval.Mangle(string(head))]
		if !ok {
			return form, nil
		}
		expanded, err := c.expand(macro, list.Items[1:])
		if err != nil {
			return nil, err
		}
		form = expanded
	}
	return nil, eval.NewException("maximum macro expansion depth exceeded")
}

func constOp(v eval.Value) eval.Op {
	return func(*eval.State) (eval.Value, error) { return v, nil }
}

func runAll(s *eval.State, ops []eval.Op) ([]eval.Value, error) {
	values := make([]eval.Value, len(ops))
	for i, op := range ops {
		v, err := op(s)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// runBody は式を順に評価し最後の値を返す
func runBody(s *eval.State, ops []eval.Op) (eval.Value, error) {
	var result eval.Value
	for _, op := range ops {
		v, err := op(s)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}
