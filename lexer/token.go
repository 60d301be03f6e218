package lexer

import "fmt"

// Kind はトークンの種類を表す
type Kind int

const (
	OTHER Kind = iota
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	IDENTIFIER
	KEYWORD
	NUMBER
	STRING
	QUOTE
)

func (k Kind) String() string {
	switch k {
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case IDENTIFIER:
		return "IDENTIFIER"
	case KEYWORD:
		return "KEYWORD"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case QUOTE:
		return "QUOTE"
	default:
		return "OTHER"
	}
}

// Bracket は括弧の系統を表す。丸括弧、角括弧、波括弧の3系統がある
type Bracket int

const (
	NoBracket Bracket = iota - 1
	Paren
	Square
	Curly
)

// BracketKinds は括弧の系統の数
const BracketKinds = 3

// Bracket はトークンが属する括弧の系統を返す。括弧でなければNoBracketを返す
func (k Kind) Bracket() Bracket {
	switch k {
	case LPAREN, RPAREN:
		return Paren
	case LBRACKET, RBRACKET:
		return Square
	case LBRACE, RBRACE:
		return Curly
	default:
		return NoBracket
	}
}

func (k Kind) IsOpener() bool {
	return k == LPAREN || k == LBRACKET || k == LBRACE
}

func (k Kind) IsCloser() bool {
	return k == RPAREN || k == RBRACKET || k == RBRACE
}

// Position はトークンのソース上の位置を表す。
// Offsetは0始まりのバイト位置、LineとColumnは1始まり
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token は字句解析の結果得られる字句の単位
type Token struct {
	Kind  Kind
	Value string
	Pos   Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Value, t.Pos)
}
