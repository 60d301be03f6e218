package eval

import (
	"context"
	"fmt"
	"io"
	"os"
)

// MaxDepth は関数呼び出しの最大の深さ
const MaxDepth = 1000

// Interp はセッションを通して共有される評価器の状態
type Interp struct {
	Globals *Env
	Out     io.Writer
	gensym  int
}

// NewInterp は組み込み関数を束縛したグローバル環境を持つInterpを生成する
func NewInterp(out io.Writer) *Interp {
	if out == nil {
		out = os.Stdout
	}
	in := &Interp{
		Globals: NewEnv(nil),
		Out:     out,
	}
	for _, b := range builtins() {
		in.Globals.Define(b.Name, b)
	}
	return in
}

// Gensym は衝突しないシンボルを生成する
func (in *Interp) Gensym(prefix string) Symbol {
	in.gensym++
	if prefix == "" {
		prefix = "G"
	}
	return Symbol(fmt.Sprintf("_%s__%d", prefix, in.gensym))
}

// NewState はグローバル環境で評価を始めるためのStateを生成する
func (in *Interp) NewState(ctx context.Context) *State {
	return &State{
		ctx:    ctx,
		interp: in,
		env:    in.Globals,
	}
}

// State は評価中の状態。スコープごとにForkされる
type State struct {
	ctx    context.Context
	interp *Interp
	env    *Env
	depth  int
}

func (s *State) Context() context.Context {
	return s.ctx
}

func (s *State) Interp() *Interp {
	return s.interp
}

func (s *State) Env() *Env {
	return s.env
}

// Fork は環境を差し替えたStateを返す
func (s *State) Fork(env *Env) *State {
	c := *s
	c.env = env
	return &c
}

// Interrupted は評価の中断が要求されていれば例外を返す
func (s *State) Interrupted() error {
	if err := s.ctx.Err(); err != nil {
		return NewException("interrupted")
	}
	return nil
}

// Call は関数または組み込み関数を呼び出す
func Call(s *State, f Value, args []Value) (Value, error) {
	switch f := f.(type) {
	case *Builtin:
		return f.Impl(s, args)
	case *Fn:
		if err := s.Interrupted(); err != nil {
			return nil, err
		}
		if s.depth >= MaxDepth {
			return nil, NewException("maximum recursion depth exceeded")
		}
		env := NewEnv(f.Env)
		if err := bindParams(f, env, args); err != nil {
			return nil, err
		}
		callee := s.Fork(env)
		callee.depth++
		return f.Body(callee)
	default:
		return nil, NewException("'%s' object is not callable", TypeName(f))
	}
}

func bindParams(f *Fn, env *Env, args []Value) error {
	switch {
	case len(args) < len(f.Params):
		return NewException("%s() missing %d required positional argument(s)", fnName(f), len(f.Params)-len(args))
	case len(args) > len(f.Params) && f.Rest == "":
		return NewException("%s() takes %d positional argument(s) but %d were given", fnName(f), len(f.Params), len(args))
	}
	for i, p := range f.Params {
		env.Define(string(p), args[i])
	}
	if f.Rest != "" {
		rest := append([]Value(nil), args[len(f.Params):]...)
		env.Define(string(f.Rest), NewList(rest...))
	}
	return nil
}

func fnName(f *Fn) string {
	if f.Name == "" {
		return "<fn>"
	}
	return f.Name
}

// Program はコンパイル済みのトップレベルの式の列
type Program struct {
	ops []Op
}

func NewProgram(ops ...Op) Program {
	return Program{ops: ops}
}

func (p Program) Len() int {
	return len(p.ops)
}

// Run はグローバル環境で式を順に評価し、最後の値を返す
func (p Program) Run(ctx context.Context, in *Interp) (Value, error) {
	s := in.NewState(ctx)
	var result Value
	for _, op := range p.ops {
		v, err := op(s)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}
