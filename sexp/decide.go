package sexp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kakkky/lispsole/lexer"
)

// Action は確定キーが押されたときの振る舞いを表す
type Action int

const (
	// Continue は改行とインデントを挿入して編集を続ける
	Continue Action = iota
	// Accept は入力を確定して評価に回す
	Accept
)

func (a Action) String() string {
	if a == Accept {
		return "accept"
	}
	return "continue"
}

// Decision は確定キーに対する判定結果
type Decision struct {
	Action Action
	// Acceptの場合は末尾の空白を取り除いたバッファ全体
	Text string
	// Continueの場合に次の行へ挿入するインデント幅
	Indent int
}

// AtTheEnd はカーソルより後ろに意味のあるテキストがないかを判定する。
// 後続テキストが空、または改行を含まない空白だけであればtrue
func AtTheEnd(after string) bool {
	if after == "" {
		return true
	}
	return strings.TrimSpace(after) == "" && !strings.Contains(after, "\n")
}

// Decide は確定キーが押されたときに入力を確定するか編集を続けるかを決める。
// beforeとafterはカーソルの前後のテキスト。
// 字句解析の失敗は編集継続のシグナルとして扱い、エラーとしては返さない
func Decide(before, after string, forms SpecialForms) Decision {
	if AtTheEnd(after) {
		text := before + after
		if lexer.Lexes(text) {
			return Decision{
				Action: Accept,
				Text:   strings.TrimRightFunc(text, unicode.IsSpace),
			}
		}
	}
	return Decision{
		Action: Continue,
		Indent: IndentAt(before, forms),
	}
}

// IndentAt はカーソル直前までのテキストに対してインデント幅を計算する
func IndentAt(before string, forms SpecialForms) int {
	return IndentColumn(CurrentForm(before), CursorColumn(before), forms)
}

// CurrentForm はカーソル直前までのテキストを寛容に字句解析し、カーソルを囲む式のトークン列を返す
func CurrentForm(before string) []lexer.Token {
	// 途中で失敗しても、それまでのトークンで判断する
	tokens, _ := lexer.Lex(before)
	return Enclosing(tokens)
}

// CursorColumn はテキスト末尾にあるカーソルの行内の桁(0始まり)を返す
func CursorColumn(before string) int {
	return utf8.RuneCountInString(before[strings.LastIndexByte(before, '\n')+1:])
}

// InsertNewline はカーソル位置に改行とインデントを挿入したテキストを返す
func InsertNewline(before, after string, indent int) string {
	return before + "\n" + strings.Repeat(" ", max(indent, 0)) + after
}
