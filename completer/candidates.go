package completer

import (
	"strings"

	"github.com/kakkky/lispsole/compiler"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/registry"
	"github.com/kakkky/lispsole/types"
)

// candidate は補完候補の元になる名前
type candidate struct {
	name        string
	suggestType suggestType
	description string
}

// collectCandidates はセッションの宣言、特殊形式、マクロ、組み込み関数の順に候補を集める。
// 同じ名前は先に見つかったものを優先する
func collectCandidates(c *compiler.Compiler, r *registry.Registry) []candidate {
	var cands []candidate
	seen := map[string]bool{}
	add := func(cand candidate) {
		if seen[cand.name] {
			return
		}
		seen[cand.name] = true
		cands = append(cands, cand)
	}

	for _, decl := range r.Decls() {
		switch decl.Kind {
		case registry.DeclKindFunc:
			add(candidate{name: string(decl.Name), suggestType: suggestTypeFunction, description: string(decl.Params)})
		case registry.DeclKindMacro:
			add(candidate{name: string(decl.Name), suggestType: suggestTypeMacro, description: string(decl.Params)})
		default:
			add(candidate{name: string(decl.Name), suggestType: suggestTypeVariable})
		}
	}
	for _, name := range c.SpecialFormNames() {
		add(candidate{name: name, suggestType: suggestTypeSpecialForm})
	}
	for _, name := range c.MacroNames() {
		m, _ := c.Macro(name)
		add(candidate{name: name, suggestType: suggestTypeMacro, description: params(m)})
	}
	globals := c.Interp().Globals
	for _, name := range globals.Names() {
		v, _ := globals.Get(name)
		if b, ok := v.(*eval.Builtin); ok {
			add(candidate{name: name, suggestType: suggestTypeBuiltin, description: b.Doc})
		}
	}
	return cands
}

// collectKeys は.形式の対象となるマップのキーを候補にする
func collectKeys(r *registry.Registry, target string, path []string) []candidate {
	v, ok := r.Lookup(types.DeclName(target))
	if !ok {
		return nil
	}
	for _, key := range path {
		m, ok := v.(*eval.Map)
		if !ok {
			return nil
		}
		if v, ok = m.Get(eval.Keyword(key)); !ok {
			return nil
		}
	}
	m, ok := v.(*eval.Map)
	if !ok {
		return nil
	}
	cands := make([]candidate, 0, m.Len())
	for _, k := range m.Keys() {
		kw, ok := k.(eval.Keyword)
		if !ok {
			continue
		}
		val, _ := m.Get(k)
		cands = append(cands, candidate{name: string(kw), suggestType: suggestTypeKey, description: eval.TypeName(val)})
	}
	return cands
}

func params(fn *eval.Fn) string {
	if fn == nil {
		return ""
	}
	names := make([]string, 0, len(fn.Params)+2)
	for _, p := range fn.Params {
		names = append(names, string(p))
	}
	if fn.Rest != "" {
		names = append(names, "&rest", string(fn.Rest))
	}
	return "[" + strings.Join(names, " ") + "]"
}
