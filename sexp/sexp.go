// Package sexp はカーソル位置の式の切り出しと自動インデントの計算を行う
package sexp

import (
	"unicode/utf8"

	"github.com/kakkky/lispsole/lexer"
)

// SpecialForms は特殊形式またはマクロの名前を問い合わせるための読み取り専用のルックアップ
type SpecialForms interface {
	IsSpecialForm(name string) bool
}

// FormSet は固定の名前集合によるSpecialFormsの実装
type FormSet map[string]bool

func (f FormSet) IsSpecialForm(name string) bool {
	return f[name]
}

// Enclosing はカーソル直前までのトークン列から、カーソル位置でまだ閉じていない
// 最も内側の括弧で始まる末尾部分を返す。
// 後ろから走査し、3種類の括弧それぞれのカウンタがすべて0のときに現れた開き括弧を式の始まりとみなす。
// 見つからなければトークン列全体を返す
func Enclosing(tokens []lexer.Token) []lexer.Token {
	var counts [lexer.BracketKinds]int
	for i := len(tokens) - 1; i >= 0; i-- {
		kind := tokens[i].Kind
		switch {
		case kind.IsCloser():
			counts[kind.Bracket()]++
		case kind.IsOpener():
			if counts == [lexer.BracketKinds]int{} {
				return tokens[i:]
			}
			if counts[kind.Bracket()] > 0 {
				counts[kind.Bracket()]--
			}
		}
	}
	return tokens
}

// IndentColumn は改行後に挿入するインデント幅(0始まりの桁)を返す。
// enclosingはEnclosingの結果、cursorColはカーソルの現在の桁
func IndentColumn(enclosing []lexer.Token, cursorCol int, forms SpecialForms) int {
	if len(enclosing) == 0 {
		return max(cursorCol, 0)
	}
	if !isOpenScope(enclosing) {
		return 0
	}

	opener := enclosing[0]
	body := enclosing[1:]
	switch {
	case len(body) == 0:
		return column(opener) + 1
	case len(body) == 1 || body[0].Kind.IsOpener():
		return column(body[0])
	case isSpecialForm(body[0], forms):
		return column(body[0]) + 1
	default:
		return column(body[1])
	}
}

// 先頭の開き括弧がトークン列の中で閉じていなければtrue
func isOpenScope(tokens []lexer.Token) bool {
	if !tokens[0].Kind.IsOpener() {
		return false
	}
	depth := 0
	for _, t := range tokens {
		switch {
		case t.Kind.IsOpener():
			depth++
		case t.Kind.IsCloser():
			depth--
			if depth == 0 {
				return false
			}
		}
	}
	return true
}

// 1文字の名前は特殊形式として扱わない
func isSpecialForm(head lexer.Token, forms SpecialForms) bool {
	if forms == nil || head.Kind != lexer.IDENTIFIER {
		return false
	}
	if utf8.RuneCountInString(head.Value) <= 1 {
		return false
	}
	return forms.IsSpecialForm(head.Value)
}

func column(t lexer.Token) int {
	return max(t.Pos.Column-1, 0)
}
