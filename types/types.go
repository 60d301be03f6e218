package types

// DeclName はセッション内で宣言された名前を表す。
type DeclName string

// Signature は関数やマクロの引数ベクタを表示用に文字列化したもの。
type Signature string

// SuggestText は補完候補として挿入されるテキストを表す。
type SuggestText string
