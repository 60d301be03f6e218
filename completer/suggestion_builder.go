package completer

import (
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/lexer"
	"github.com/kakkky/lispsole/sexp"
)

// WordSeparator は補完対象の単語の区切りとなる文字。
// go-promptのOptionCompletionWordSeparatorにも同じものを渡す
const WordSeparator = " \t\n()[]{}'`~@,\""

type suggestionBuilder struct {
	input input
}

type input struct {
	raw    string   // カーソルより前の入力全体
	word   string   // 補完対象の単語
	target string   // (. target ...)の形のときの対象の名前
	path   []string // (. target a b ...)の形のときの対象以降のキー
}

type suggestType int

const (
	suggestTypeUnknown suggestType = iota
	suggestTypeSpecialForm
	suggestTypeMacro
	suggestTypeBuiltin
	suggestTypeVariable
	suggestTypeFunction
	suggestTypeKey
)

func newSuggestionBuilder(doc prompt.Document) *suggestionBuilder {
	sb := &suggestionBuilder{
		input: input{
			raw:  doc.TextBeforeCursor(),
			word: doc.GetWordBeforeCursorUntilSeparator(WordSeparator),
		},
	}
	sb.input.target, sb.input.path = dotFormTarget(sb.input.raw, sb.input.word)
	return sb
}

// dotFormTarget はカーソルが(. target ...)の引数位置にあれば対象とキーの並びを返す
func dotFormTarget(before, word string) (string, []string) {
	form := sexp.CurrentForm(before)
	if len(form) < 3 || form[0].Kind != lexer.LPAREN {
		return "", nil
	}
	if form[1].Kind != lexer.IDENTIFIER || form[1].Value != "." || form[2].Kind != lexer.IDENTIFIER {
		return "", nil
	}
	args := form[3:]
	if word != "" {
		// 入力途中の単語は対象に含めない
		if len(args) == 0 {
			return "", nil
		}
		args = args[:len(args)-1]
	}
	path := make([]string, 0, len(args))
	for _, t := range args {
		if t.Kind != lexer.IDENTIFIER {
			return "", nil
		}
		path = append(path, t.Value)
	}
	return form[2].Value, path
}

func (sb *suggestionBuilder) isDotForm() bool {
	return sb.input.target != ""
}

// matches は候補が入力途中の単語で始まるかを判定する。-と_は同じ文字として扱う
func (sb *suggestionBuilder) matches(name string) bool {
	return strings.HasPrefix(eval.Mangle(name), eval.Mangle(sb.input.word))
}

// マップのキーはそのまま、それ以外は-の形で表示する
func (sb *suggestionBuilder) build(cand candidate) prompt.Suggest {
	text := cand.name
	if cand.suggestType != suggestTypeKey {
		text = eval.Mangle(text)
	}
	return prompt.Suggest{
		Text:        text,
		Description: sb.buildSuggestDescription(cand.suggestType, cand.description),
	}
}

func (sb *suggestionBuilder) buildSuggestDescription(suggestType suggestType, description string) string {
	suggestTypeStr := convertSuggestTypeToString(suggestType)
	if description == "" {
		return suggestTypeStr
	}
	return suggestTypeStr + ": " + description
}

func convertSuggestTypeToString(suggestType suggestType) string {
	switch suggestType {
	case suggestTypeSpecialForm:
		return "Special form"
	case suggestTypeMacro:
		return "Macro"
	case suggestTypeBuiltin:
		return "Builtin"
	case suggestTypeVariable:
		return "Variable"
	case suggestTypeFunction:
		return "Function"
	case suggestTypeKey:
		return "Key"
	default:
		return "Unknown"
	}
}
