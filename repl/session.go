package repl

import (
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/kakkky/lispsole/history"
	"github.com/kakkky/lispsole/logutil"
	"github.com/kakkky/lispsole/sexp"
)

var logger = logutil.GetLogger("[repl] ")

//go:generate mockgen -package=repl -source=./session.go -destination=./session_mock.go
type executor interface {
	Execute(input string)
}

// Session は確定キーごとに入力を受理するか編集を続けるかを判断し、
// 受理するまでの行を保持する。
// go-promptは1行ずつしか入力を渡さないので、複数行の式はここで組み立てる
type Session struct {
	forms    sexp.SpecialForms
	executor executor
	history  history.Store

	continuationPrompt string

	pending  string  // まだ受理していない行
	accepted *string // 受理した入力。Executeで評価される
	carry    string  // 確定キーを押した時点でカーソルより後ろにあった入力
	indent   int
	exit     bool
}

// NewSession はSessionのインスタンスを生成する
func NewSession(forms sexp.SpecialForms, e executor, h history.Store, continuationPrompt string) *Session {
	return &Session{
		forms:              forms,
		executor:           e,
		history:            h,
		continuationPrompt: continuationPrompt,
	}
}

// OnBreakLine はgo-promptが行を確定する直前に呼ばれる
func (s *Session) OnBreakLine(doc *prompt.Document) {
	s.breakLine(doc.LastKeyStroke(), doc.TextBeforeCursor(), doc.TextAfterCursor())
}

func (s *Session) breakLine(key prompt.Key, before, after string) {
	switch key {
	case prompt.Enter, prompt.ControlJ, prompt.ControlM:
	case prompt.ControlC:
		// 途中まで入力した式を捨てる
		s.reset()
		return
	default:
		return
	}

	d := sexp.Decide(s.pending+before, after, s.forms)
	switch d.Action {
	case sexp.Accept:
		text := d.Text
		s.reset()
		s.accepted = &text
	case sexp.Continue:
		s.pending += before + "\n"
		s.indent = d.Indent
		s.carry = ""
		if !sexp.AtTheEnd(after) {
			s.carry = after
		}
	}
}

// Execute はgo-promptのExecutorとして呼ばれ、受理した入力があれば評価する
func (s *Session) Execute(string) {
	if s.accepted == nil {
		return
	}
	text := *s.accepted
	s.accepted = nil
	if strings.TrimSpace(text) == "" {
		return
	}

	if err := s.history.Append(text); err != nil {
		logger.Printf("failed to append history: %v", err)
	}
	if isExitCommand(text) {
		s.exit = true
		return
	}
	s.executor.Execute(text)
}

// InsertIndent は継続行の先頭にインデントと持ち越した入力を挿入する。
// 確定キーのキーバインドとして、新しいバッファに対して呼ばれる
func (s *Session) InsertIndent(buf *prompt.Buffer) {
	if s.pending == "" {
		return
	}
	buf.InsertText(strings.Repeat(" ", s.indent)+s.carry, false, true)
	if s.carry != "" {
		buf.CursorLeft(len([]rune(s.carry)))
		s.carry = ""
	}
}

// LivePrefix は継続行の間だけ継続用のプロンプトを返す
func (s *Session) LivePrefix() (string, bool) {
	if s.pending == "" {
		return "", false
	}
	return s.continuationPrompt, true
}

// ShouldExit は(exit)か(quit)が入力されたらtrueを返す
func (s *Session) ShouldExit(_ string, breakline bool) bool {
	return breakline && s.exit
}

func (s *Session) reset() {
	s.pending = ""
	s.accepted = nil
	s.carry = ""
	s.indent = 0
}

func isExitCommand(text string) bool {
	switch strings.Join(strings.Fields(text), " ") {
	case "(exit)", "(quit)":
		return true
	}
	return false
}
