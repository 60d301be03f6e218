package compiler

import (
	"strconv"
	"strings"

	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/lexer"
)

var readerMacros = map[string]eval.Symbol{
	"'":  "quote",
	"`":  "quasiquote",
	"~":  "unquote",
	"~@": "unquote-splicing",
}

// Read はトークン列を式の列に変換する
func Read(tokens []lexer.Token) ([]eval.Value, error) {
	r := &reader{tokens: tokens}
	var forms []eval.Value
	for !r.done() {
		form, err := r.form()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// ReadString はテキストを字句解析して式の列に変換する
func ReadString(text string) ([]eval.Value, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Read(tokens)
}

type reader struct {
	tokens []lexer.Token
	pos    int
}

func (r *reader) done() bool {
	return r.pos >= len(r.tokens)
}

func (r *reader) next() lexer.Token {
	t := r.tokens[r.pos]
	r.pos++
	return t
}

func (r *reader) form() (eval.Value, error) {
	if r.done() {
		return nil, errs.NewIncompleteInput("unexpected end of input")
	}
	t := r.next()
	switch t.Kind {
	case lexer.LPAREN:
		items, err := r.items(lexer.RPAREN, t)
		if err != nil {
			return nil, err
		}
		return &eval.List{Items: items, Pos: t.Pos}, nil
	case lexer.LBRACKET:
		items, err := r.items(lexer.RBRACKET, t)
		if err != nil {
			return nil, err
		}
		return &eval.Vector{Items: items, Pos: t.Pos}, nil
	case lexer.LBRACE:
		items, err := r.items(lexer.RBRACE, t)
		if err != nil {
			return nil, err
		}
		if len(items)%2 != 0 {
			return nil, errs.Newf(errs.SYNTAX_ERROR, "%s: dict literal requires an even number of forms", t.Pos)
		}
		return eval.MapOf(items...), nil
	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		return nil, errs.Newf(errs.SYNTAX_ERROR, "%s: unexpected %q", t.Pos, t.Value)
	case lexer.QUOTE:
		if r.done() {
			return nil, errs.Newf(errs.INCOMPLETE_INPUT, "%s: unexpected end of input after %q", t.Pos, t.Value)
		}
		quoted, err := r.form()
		if err != nil {
			return nil, err
		}
		return &eval.List{Items: []eval.Value{readerMacros[t.Value], quoted}, Pos: t.Pos}, nil
	case lexer.NUMBER:
		return readNumber(t)
	case lexer.STRING:
		return readString(t)
	case lexer.KEYWORD:
		return eval.Keyword(strings.TrimPrefix(t.Value, ":")), nil
	case lexer.IDENTIFIER:
		switch t.Value {
		case "nil":
			return nil, nil
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return eval.Symbol(t.Value), nil
	default:
		return nil, errs.Newf(errs.SYNTAX_ERROR, "%s: unexpected token %q", t.Pos, t.Value)
	}
}

func (r *reader) items(closer lexer.Kind, open lexer.Token) ([]eval.Value, error) {
	items := []eval.Value{}
	for {
		if r.done() {
			return nil, errs.Newf(errs.INCOMPLETE_INPUT, "%s: %q is not closed", open.Pos, open.Value)
		}
		if r.tokens[r.pos].Kind == closer {
			r.pos++
			return items, nil
		}
		item, err := r.form()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func readNumber(t lexer.Token) (eval.Value, error) {
	if i, err := strconv.ParseInt(t.Value, 10, 64); err == nil {
		return i, nil
	}
	// 0x, 0o, 0b の接頭辞つき整数
	if digits := strings.TrimLeft(t.Value, "+-"); len(digits) > 2 && digits[0] == '0' && strings.ContainsRune("xXoObB", rune(digits[1])) {
		if i, err := strconv.ParseInt(t.Value, 0, 64); err == nil {
			return i, nil
		}
	}
	if f, err := strconv.ParseFloat(t.Value, 64); err == nil {
		return f, nil
	}
	return nil, errs.Newf(errs.SYNTAX_ERROR, "%s: invalid number literal %q", t.Pos, t.Value)
}

func readString(t lexer.Token) (eval.Value, error) {
	if len(t.Value) < 2 || !strings.HasSuffix(t.Value, `"`) {
		return nil, errs.Newf(errs.INCOMPLETE_INPUT, "%s: unterminated string", t.Pos)
	}
	body := t.Value[1 : len(t.Value)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return nil, errs.Newf(errs.INCOMPLETE_INPUT, "%s: unterminated string", t.Pos)
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			return nil, errs.Newf(errs.SYNTAX_ERROR, "%s: invalid escape sequence \\%c", t.Pos, body[i])
		}
	}
	return sb.String(), nil
}
