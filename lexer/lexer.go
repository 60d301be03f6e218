// Package lexer は方言のソースをトークン列に分解する
package lexer

import (
	"errors"
	"fmt"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/kakkky/lispsole/errs"
)

const (
	symbolStart = `[\p{L}*+!\-_?<>=/.&%$]`
	symbolChars = `[\p{L}\p{N}*+!\-_?<>=/.&%$]`
)

var definition = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s,]+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "OpenString", Pattern: `"(?:\\.|[^"\\])*\\?`}, // 閉じられていない文字列
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Quote", Pattern: "~@|['`~]"},
	{Name: "Keyword", Pattern: `:` + symbolChars + `+`},
	{Name: "Number", Pattern: `[-+]?\d` + symbolChars + `*`},
	{Name: "Identifier", Pattern: symbolStart + symbolChars + `*`},
})

var (
	kinds     = map[plexer.TokenType]Kind{}
	elided    = map[plexer.TokenType]bool{}
	openQuote plexer.TokenType
)

func init() {
	symbols := definition.Symbols()
	for name, kind := range map[string]Kind{
		"String":     STRING,
		"LParen":     LPAREN,
		"RParen":     RPAREN,
		"LBracket":   LBRACKET,
		"RBracket":   RBRACKET,
		"LBrace":     LBRACE,
		"RBrace":     RBRACE,
		"Quote":      QUOTE,
		"Keyword":    KEYWORD,
		"Number":     NUMBER,
		"Identifier": IDENTIFIER,
	} {
		kinds[symbols[name]] = kind
	}
	elided[symbols["Comment"]] = true
	elided[symbols["Whitespace"]] = true
	openQuote = symbols["OpenString"]
}

// Lex はテキストを先頭から走査してトークン列を返す。括弧の対応は検査しない。
// 途中で失敗した場合は、それまでに得られたトークン列とエラーを返す。
// 閉じられていない文字列は末尾のSTRINGトークンとして含めた上でINCOMPLETE_INPUTを返す
func Lex(text string) ([]Token, error) {
	lex, err := definition.LexString("", text)
	if err != nil {
		return nil, errs.NewInternalError("failed to start lexer").Wrap(err)
	}
	tokens := make([]Token, 0, len(text)/2)
	for {
		t, err := lex.Next()
		if err != nil {
			var lexErr *plexer.Error
			if errors.As(err, &lexErr) {
				return tokens, errs.Newf(errs.MALFORMED_TOKEN, "%d:%d: %s", lexErr.Pos.Line, lexErr.Pos.Column, lexErr.Msg)
			}
			return tokens, errs.NewMalformedToken("failed to lex input").Wrap(err)
		}
		if t.EOF() {
			return tokens, nil
		}
		if elided[t.Type] {
			continue
		}
		token := Token{
			Kind:  kinds[t.Type],
			Value: t.Value,
			Pos: Position{
				Offset: t.Pos.Offset,
				Line:   t.Pos.Line,
				Column: t.Pos.Column,
			},
		}
		if t.Type == openQuote {
			token.Kind = STRING
			tokens = append(tokens, token)
			return tokens, errs.Newf(errs.INCOMPLETE_INPUT, "%s: unterminated string", token.Pos)
		}
		tokens = append(tokens, token)
	}
}

// Tokenize はテキストを完結した入力として字句解析する。
// 括弧が閉じていない場合はINCOMPLETE_INPUT、
// 不正な文字や対応しない閉じ括弧がある場合はMALFORMED_TOKENを返す
func Tokenize(text string) ([]Token, error) {
	tokens, err := Lex(text)
	if err != nil {
		return nil, err
	}
	if err := checkBalance(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func checkBalance(tokens []Token) error {
	var stack []Token
	for _, t := range tokens {
		switch {
		case t.Kind.IsOpener():
			stack = append(stack, t)
		case t.Kind.IsCloser():
			if len(stack) == 0 {
				return errs.Newf(errs.MALFORMED_TOKEN, "%s: unexpected %q", t.Pos, t.Value)
			}
			open := stack[len(stack)-1]
			if open.Kind.Bracket() != t.Kind.Bracket() {
				return errs.Newf(errs.MALFORMED_TOKEN, "%s: %q does not close %q opened at %s", t.Pos, t.Value, open.Value, open.Pos)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return errs.New(errs.INCOMPLETE_INPUT, fmt.Sprintf("unexpected end of input: %q opened at %s is not closed", open.Value, open.Pos))
	}
	if n := len(tokens); n > 0 && tokens[n-1].Kind == QUOTE {
		return errs.Newf(errs.INCOMPLETE_INPUT, "%s: unexpected end of input after %q", tokens[n-1].Pos, tokens[n-1].Value)
	}
	return nil
}

// Lexes はテキストが完結した入力として字句解析できるかを返す
func Lexes(text string) bool {
	_, err := Tokenize(text)
	return err == nil
}
