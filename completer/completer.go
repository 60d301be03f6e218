package completer

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/c-bata/go-prompt"

	"github.com/kakkky/lispsole/compiler"
	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/lexer"
	"github.com/kakkky/lispsole/logutil"
	"github.com/kakkky/lispsole/registry"
)

var logger = logutil.GetLogger("[completer] ")

// Completer は補完エンジンを担う
// go-promptのCompleterインターフェースを実装している
type Completer struct {
	compiler *compiler.Compiler
	registry *registry.Registry
}

// NewCompleter はCompleterのインスタンスを生成する
func NewCompleter(c *compiler.Compiler, r *registry.Registry) *Completer {
	return &Completer{
		compiler: c,
		registry: r,
	}
}

// Complete はgo-promptのCompleterインターフェースを実装するメソッドで、補完候補を返す。
// 補完の失敗はログにだけ残し、候補なしとして扱う
func (c *Completer) Complete(input prompt.Document) (suggestions []prompt.Suggest) {
	defer func() {
		if r := recover(); r != nil {
			err := errs.NewCompletionFailure(fmt.Sprintf("%v", r))
			logger.Println(err)
			suggestions = []prompt.Suggest{}
		}
	}()

	if !shouldComplete(input) {
		return []prompt.Suggest{}
	}

	sb := newSuggestionBuilder(input)
	if sb.isDotForm() {
		return c.findKeySuggestions(sb)
	}
	return c.findSuggestions(sb)
}

func (c *Completer) findSuggestions(sb *suggestionBuilder) []prompt.Suggest {
	suggestions := make([]prompt.Suggest, 0)
	if sb.input.word == "" {
		return suggestions
	}
	for _, cand := range collectCandidates(c.compiler, c.registry) {
		if sb.matches(cand.name) {
			suggestions = append(suggestions, sb.build(cand))
		}
	}
	sortSuggestions(suggestions)
	return suggestions
}

func (c *Completer) findKeySuggestions(sb *suggestionBuilder) []prompt.Suggest {
	suggestions := make([]prompt.Suggest, 0)
	for _, cand := range collectKeys(c.registry, sb.input.target, sb.input.path) {
		if strings.HasPrefix(cand.name, sb.input.word) {
			suggestions = append(suggestions, sb.build(cand))
		}
	}
	sortSuggestions(suggestions)
	return suggestions
}

// shouldComplete は入力中に自動で補完候補を出すかを判定する。
// Tabが押された場合は常に補完する
func shouldComplete(doc prompt.Document) bool {
	before := doc.TextBeforeCursor()
	if doc.LastKeyStroke() != prompt.Tab {
		r, _ := utf8.DecodeLastRuneInString(before)
		if r == utf8.RuneError || !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_.-", r)) {
			return false
		}
	}
	// 文字列の途中では補完しない
	if _, err := lexer.Lex(before); errs.IsIncomplete(err) {
		return false
	}
	return true
}

// -- で始まるもの、- で始まるものを後ろに回し、残りは大文字小文字を区別せずに並べる
func sortSuggestions(suggestions []prompt.Suggest) {
	rank := func(s string) int {
		switch {
		case strings.HasPrefix(s, "--"):
			return 2
		case strings.HasPrefix(s, "-"):
			return 1
		default:
			return 0
		}
	}
	slices.SortStableFunc(suggestions, func(a, b prompt.Suggest) int {
		if ra, rb := rank(a.Text), rank(b.Text); ra != rb {
			return ra - rb
		}
		return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
	})
}
