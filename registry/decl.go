package registry

import "github.com/kakkky/lispsole/types"

// DeclKind は宣言の種類を表す
type DeclKind int

const (
	DeclKindUnknown DeclKind = iota // 種類が不明な場合
	DeclKindVar                     // setvで束縛された値
	DeclKindFunc                    // defn、またはsetvで束縛された関数
	DeclKindMacro                   // defmacroで定義されたマクロ
)

func (k DeclKind) String() string {
	switch k {
	case DeclKindVar:
		return "Variable"
	case DeclKindFunc:
		return "Function"
	case DeclKindMacro:
		return "Macro"
	default:
		return "Unknown"
	}
}

// Decl はReplセッション内で宣言された名前の情報を表す
type Decl struct {
	Name types.DeclName
	Kind DeclKind
	// 関数とマクロの場合のみ設定される
	Params types.Signature
}
