package compiler

import (
	"github.com/kakkky/lispsole/eval"
)

// quasi はquasiquoteの中身をコンパイルする。
// unquoteは式として評価し、unquote-splicingは評価結果の要素を展開する
func (c *Compiler) quasi(sc scope, form eval.Value) eval.Op {
	switch form := form.(type) {
	case *eval.List:
		if arg, ok := unquoted(form, "unquote"); ok {
			return c.compile(sc, arg)
		}
		if _, ok := unquoted(form, "unquote-splicing"); ok {
			errorpf(sc, "unquote-splicing used outside of a list")
		}
		itemsOp := c.quasiItems(sc, form.Items)
		return func(s *eval.State) (eval.Value, error) {
			items, err := itemsOp(s)
			if err != nil {
				return nil, err
			}
			return eval.NewList(items...), nil
		}
	case *eval.Vector:
		itemsOp := c.quasiItems(sc, form.Items)
		return func(s *eval.State) (eval.Value, error) {
			items, err := itemsOp(s)
			if err != nil {
				return nil, err
			}
			return eval.NewVector(items...), nil
		}
	case *eval.Map:
		keyOps := make([]eval.Op, 0, form.Len())
		valOps := make([]eval.Op, 0, form.Len())
		for _, k := range form.Keys() {
			keyOps = append(keyOps, c.quasi(sc, k))
		}
		for _, v := range form.Vals() {
			valOps = append(valOps, c.quasi(sc, v))
		}
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

type quasiItem struct {
	op     eval.Op
	splice bool
}

func (c *Compiler) quasiItems(sc scope, forms []eval.Value) func(s *eval.State) ([]eval.Value, error) {
	items := make([]quasiItem, len(forms))
	for i, f := range forms {
		if list, ok := f.(*eval.List); ok {
			if arg, ok := unquoted(list, "unquote-splicing"); ok {
				items[i] = quasiItem{op: c.compile(sc, arg), splice: true}
				continue
			}
		}
		items[i] = quasiItem{op: c.quasi(sc, f)}
	}
	return func(s *eval.State) ([]eval.Value, error) {
		out := make([]eval.Value, 0, len(items))
		for _, item := range items {
			v, err := item.op(s)
			if err != nil {
				return nil, err
			}
			if !item.splice {
				out = append(out, v)
				continue
			}
			spliced, ok := eval.Items(v)
			if !ok {
				return nil, eval.NewException("cannot splice '%s' object", eval.TypeName(v))
			}
			out = append(out, spliced...)
		}
		return out, nil
	}
}

// unquoted は(name x)の形であればxを返す
func unquoted(list *eval.List, name eval.Symbol) (eval.Value, bool) {
	if len(list.Items) != 2 {
		return nil, false
	}
	if head, ok := list.Items[0].(eval.Symbol); !ok || head != name {
		return nil, false
	}
	return list.Items[1], true
}
