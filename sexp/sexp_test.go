package sexp

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kakkky/lispsole/lexer"
)

func mustLex(t *testing.T, text string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Lex(text)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", text, err)
	}
	return tokens
}

func values(tokens []lexer.Token) []string {
	out := []string{}
	for _, t := range tokens {
		out = append(out, t.Value)
	}
	return out
}

var forms = FormSet{
	"defn": true,
	"let":  true,
	"if":   true,
	"when": true,
	// 1文字の名前は登録されていても特殊形式として扱われない
	".": true,
}

func TestEnclosing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
		{
			name:     "balanced top level returns everything",
			input:    "(foo [1 2] {:a 3}) bar",
			expected: []string{"(", "foo", "[", "1", "2", "]", "{", ":a", "3", "}", ")", "bar"},
		},
		{
			name:     "atoms only",
			input:    "a b c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "single unmatched paren at the end",
			input:    "(print (inc 1) (foo",
			expected: []string{"(", "foo"},
		},
		{
			name:     "unmatched paren with closed inner forms",
			input:    "(defn foo [x]",
			expected: []string{"(", "defn", "foo", "[", "x", "]"},
		},
		{
			name:     "innermost bracket of another kind",
			input:    "(let [x 1 y",
			expected: []string{"[", "x", "1", "y"},
		},
		{
			name:     "innermost brace",
			input:    "(f {:a [1 2] :b",
			expected: []string{"{", ":a", "[", "1", "2", "]", ":b"},
		},
		{
			name:     "bare opener",
			input:    "(a (",
			expected: []string{"("},
		},
		{
			name:     "mismatched square inside unmatched brace does not stop early",
			input:    "{:k [1 2}",
			expected: []string{"{", ":k", "[", "1", "2", "}"},
		},
		{
			name:     "mismatched closer kinds fall back to the whole list",
			input:    "(a [b c) d",
			expected: []string{"(", "a", "[", "b", "c", ")", "d"},
		},
		{
			name:     "stray closer",
			input:    "a) (b",
			expected: []string{"(", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enclosing(mustLex(t, tt.input))
			if diff := cmp.Diff(tt.expected, values(got)); diff != "" {
				t.Errorf("Enclosing() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnclosing_IsSuffix(t *testing.T) {
	inputs := []string{
		"(a (b [c {d",
		"(a) (b) (c",
		"]]] (x",
		"({[",
		"(defn f [x] (if x",
	}
	for _, input := range inputs {
		tokens := mustLex(t, input)
		got := Enclosing(tokens)
		if len(got) == 0 {
			t.Errorf("Enclosing(%q) returned no tokens", input)
			continue
		}
		suffix := tokens[len(tokens)-len(got):]
		if diff := cmp.Diff(values(suffix), values(got)); diff != "" {
			t.Errorf("Enclosing(%q) is not a suffix (-want +got):\n%s", input, diff)
		}
	}
}

func TestIndentColumn(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursorCol int
		forms     SpecialForms
		expected  int
	}{
		{
			name:      "no tokens uses cursor column",
			input:     "",
			cursorCol: 4,
			forms:     forms,
			expected:  4,
		},
		{
			name:      "closed form has no open scope",
			input:     "(foo 1) bar",
			cursorCol: 11,
			forms:     forms,
			expected:  0,
		},
		{
			name:      "atom has no open scope",
			input:     "foo",
			cursorCol: 3,
			forms:     forms,
			expected:  0,
		},
		{
			name:      "defn registered aligns right of the operator",
			input:     "(defn foo [x]",
			cursorCol: 13,
			forms:     forms,
			expected:  2,
		},
		{
			name:      "defn unregistered aligns under the first argument",
			input:     "(defn foo [x]",
			cursorCol: 13,
			forms:     FormSet{},
			expected:  6,
		},
		{
			name:      "nil lookup treats everything as a call",
			input:     "(defn foo [x]",
			cursorCol: 13,
			forms:     nil,
			expected:  6,
		},
		{
			name:      "ordinary call aligns under the first argument",
			input:     "(print-all 1 2",
			cursorCol: 14,
			forms:     forms,
			expected:  11,
		},
		{
			name:      "single character operator is never special",
			input:     "(. obj attr",
			cursorCol: 11,
			forms:     forms,
			expected:  3,
		},
		{
			name:      "bare opener aligns just inside it",
			input:     "  (",
			cursorCol: 3,
			forms:     forms,
			expected:  3,
		},
		{
			name:      "single token aligns under it",
			input:     "(foo",
			cursorCol: 4,
			forms:     forms,
			expected:  1,
		},
		{
			name:      "nested opener aligns under it",
			input:     "((a b)",
			cursorCol: 6,
			forms:     forms,
			expected:  1,
		},
		{
			name:      "vector literal aligns under the second element",
			input:     "(f [1 2",
			cursorCol: 7,
			forms:     forms,
			expected:  6,
		},
		{
			name:      "columns are taken from the current line",
			input:     "(defn foo [x]\n  (let [y 1]",
			cursorCol: 12,
			forms:     forms,
			expected:  4,
		},
		{
			name:      "argument on a later line",
			input:     "(foo\n    bar",
			cursorCol: 7,
			forms:     forms,
			expected:  4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enclosing := Enclosing(mustLex(t, tt.input))
			got := IndentColumn(enclosing, tt.cursorCol, tt.forms)
			if got != tt.expected {
				t.Errorf("IndentColumn() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestIndentColumn_NeverNegative(t *testing.T) {
	if got := IndentColumn(nil, -3, forms); got != 0 {
		t.Errorf("IndentColumn() = %d, want 0", got)
	}
	broken := []lexer.Token{{Kind: lexer.LPAREN, Value: "(", Pos: lexer.Position{}}}
	if got := IndentColumn(broken, 0, forms); got < 0 {
		t.Errorf("IndentColumn() = %d, want non-negative", got)
	}
}
