package highlight

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"

	"github.com/kakkky/lispsole/lexer"
	"github.com/kakkky/lispsole/logutil"
)

var logger = logutil.GetLogger("[highlight] ")

const (
	// DefaultStyle は設定がない場合に使う配色
	DefaultStyle = "monokai"
	// 対応の取れていない括弧の色
	unmatchedBracketColor = "bold #FF6600"
	// 対応の取れていない括弧に割り当てるトークン種別
	unmatchedBracket = chroma.GenericError

	red   = "\033[31m"
	reset = "\033[0m"
)

// Highlighter はソースコードや評価結果に色を付ける。
// 無効な場合は入力をそのまま返す
type Highlighter struct {
	enabled   bool
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// New は配色名を指定してHighlighterを生成する。
// 存在しない配色名の場合はmonokaiを使う
func New(styleName string, enabled bool) *Highlighter {
	l := lexers.Get("hy")
	if l == nil {
		l = lexers.Fallback
	}
	base, ok := styles.Registry[styleName]
	if !ok {
		logger.Printf("unknown style %q, falling back to %s", styleName, DefaultStyle)
		base = styles.Get(DefaultStyle)
	}
	style, err := base.Builder().Add(unmatchedBracket, unmatchedBracketColor).Build()
	if err != nil {
		logger.Printf("failed to build style: %v", err)
		style = base
	}
	return &Highlighter{
		enabled:   enabled,
		lexer:     chroma.Coalesce(l),
		style:     style,
		formatter: formatters.Get("terminal256"),
	}
}

// Disabled は色を付けないHighlighterを返す
func Disabled() *Highlighter {
	return &Highlighter{}
}

// ColorEnabled はfが端末に接続されているかを判定する
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (h *Highlighter) Enabled() bool {
	return h.enabled
}

// Code はソースコードに色を付ける。対応の取れていない括弧は強調する
func (h *Highlighter) Code(src string) string {
	if !h.enabled || src == "" {
		return src
	}
	it, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		logger.Printf("failed to tokenise: %v", err)
		return src
	}
	tokens := markUnmatched(it.Tokens(), UnmatchedBrackets(src))
	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, chroma.Literator(tokens...)); err != nil {
		logger.Printf("failed to format: %v", err)
		return src
	}
	return sb.String()
}

// Error はエラーメッセージを赤で表示する
func (h *Highlighter) Error(msg string) string {
	if !h.enabled {
		return msg
	}
	return red + msg + reset
}

// UnmatchedBrackets はsrcの中で対応の取れていない括弧のバイトオフセットを返す
func UnmatchedBrackets(src string) map[int]bool {
	tokens, _ := lexer.Lex(src)
	unmatched := map[int]bool{}
	var open []lexer.Token
	for _, t := range tokens {
		switch {
		case t.Kind.IsOpener():
			open = append(open, t)
		case t.Kind.IsCloser():
			if len(open) > 0 && open[len(open)-1].Kind.Bracket() == t.Kind.Bracket() {
				open = open[:len(open)-1]
				continue
			}
			unmatched[t.Pos.Offset] = true
		}
	}
	for _, t := range open {
		unmatched[t.Pos.Offset] = true
	}
	return unmatched
}

// markUnmatched はオフセットで指定された括弧を独立したトークンに切り出して種別を差し替える
func markUnmatched(tokens []chroma.Token, offsets map[int]bool) []chroma.Token {
	if len(offsets) == 0 {
		return tokens
	}
	out := make([]chroma.Token, 0, len(tokens))
	offset := 0
	for _, t := range tokens {
		start := 0
		for i := 0; i < len(t.Value); i++ {
			if !offsets[offset+i] {
				continue
			}
			if i > start {
				out = append(out, chroma.Token{Type: t.Type, Value: t.Value[start:i]})
			}
			out = append(out, chroma.Token{Type: unmatchedBracket, Value: t.Value[i : i+1]})
			start = i + 1
		}
		if start < len(t.Value) {
			out = append(out, chroma.Token{Type: t.Type, Value: t.Value[start:]})
		}
		offset += len(t.Value)
	}
	return out
}
