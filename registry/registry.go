package registry

import (
	"slices"

	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/types"
)

// Registry はReplセッション中に宣言された名前を管理する。
// 値そのものはグローバル環境から引く
type Registry struct {
	decls   []Decl
	globals *eval.Env
}

// NewRegistry はRegistryのインスタンスを生成する
func NewRegistry(globals *eval.Env) *Registry {
	return &Registry{
		decls:   []Decl{},
		globals: globals,
	}
}

// RegisterForms は式の列からsetv、defn、defmacroの宣言を登録する。doの中もたどる
func (r *Registry) RegisterForms(forms []eval.Value) {
	for _, form := range forms {
		list, ok := form.(*eval.List)
		if !ok || len(list.Items) < 2 {
			continue
		}
		head, _ := list.Items[0].(eval.Symbol)
		args := list.Items[1:]
		switch head {
		case "setv":
			for i := 0; i+1 < len(args); i += 2 {
				name, ok := args[i].(eval.Symbol)
				if !ok {
					continue
				}
				r.register(declFromValueForm(name, args[i+1]))
			}
		case "defn", "defmacro":
			name, ok := args[0].(eval.Symbol)
			if !ok {
				continue
			}
			kind := DeclKindFunc
			if head == "defmacro" {
				kind = DeclKindMacro
			}
			decl := Decl{Name: declName(name), Kind: kind}
			if len(args) > 1 {
				decl.Params = signature(args[1])
			}
			r.register(decl)
		case "do":
			r.RegisterForms(args)
		}
	}
}

// 右辺が(fn [...] ...)であれば関数として登録する
func declFromValueForm(name eval.Symbol, value eval.Value) Decl {
	decl := Decl{Name: declName(name), Kind: DeclKindVar}
	list, ok := value.(*eval.List)
	if !ok || len(list.Items) < 2 || list.Items[0] != eval.Symbol("fn") {
		return decl
	}
	decl.Kind = DeclKindFunc
	decl.Params = signature(list.Items[1])
	return decl
}

// 宣言名は-の形にそろえる
func declName(name eval.Symbol) types.DeclName {
	return types.DeclName(eval.Mangle(string(name)))
}

func signature(params eval.Value) types.Signature {
	if vec, ok := params.(*eval.Vector); ok {
		return types.Signature(eval.Repr(vec))
	}
	return ""
}

// 同じ名前が再宣言された場合は古いものを取り除いて末尾に追加する
func (r *Registry) register(decl Decl) {
	r.decls = slices.DeleteFunc(r.decls, func(d Decl) bool {
		return d.Name == decl.Name
	})
	r.decls = append(r.decls, decl)
}

// Decls は登録された宣言を宣言順に返す
func (r *Registry) Decls() []Decl {
	return slices.Clone(r.decls)
}

func (r *Registry) isRegisteredDecl(name types.DeclName) bool {
	name = types.DeclName(eval.Mangle(string(name)))
	return slices.ContainsFunc(r.decls, func(d Decl) bool {
		return d.Name == name
	})
}

// Lookup は宣言された名前の現在の値をグローバル環境から取得する。
// セッションで宣言していない名前は組み込みであっても見つからない扱いにする
func (r *Registry) Lookup(name types.DeclName) (eval.Value, bool) {
	if r.globals == nil || !r.isRegisteredDecl(name) {
		return nil, false
	}
	return r.globals.Get(string(name))
}
