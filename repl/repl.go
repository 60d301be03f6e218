package repl

import (
	// go:embedディレクティブ用
	_ "embed"
	"fmt"
	"io"

	"github.com/c-bata/go-prompt"

	"github.com/kakkky/lispsole/completer"
	"github.com/kakkky/lispsole/config"
	"github.com/kakkky/lispsole/history"
)

//go:embed lispsole_ascii.txt
var ascii []byte

// Repl は対話モードのREPL。go-promptで入力を受け付ける
type Repl struct {
	pt      *prompt.Prompt
	session *Session
	history history.Store
}

// NewRepl はgo-promptの設定を組み立ててReplを生成する。
// 履歴はcfg.History.Size件まで読み込む
func NewRepl(cfg config.Config, session *Session, c *completer.Completer, h history.Store) *Repl {
	entries, err := h.Load(cfg.History.Size)
	if err != nil {
		logger.Printf("failed to load history: %v", err)
		entries = []string{}
	}

	opts := []prompt.Option{
		prompt.OptionTitle("lispsole"),
		prompt.OptionPrefix(cfg.Prompt),
		prompt.OptionLivePrefix(session.LivePrefix),
		prompt.OptionHistory(entries),
		prompt.OptionCompletionWordSeparator(completer.WordSeparator),
		prompt.OptionMaxSuggestion(cfg.MaxSuggestions),
		prompt.OptionBreakLineCallback(session.OnBreakLine),
		prompt.OptionSetExitCheckerOnInput(session.ShouldExit),
		prompt.OptionAddKeyBind(keyBinds(session)...),
		prompt.OptionSwitchKeyBindMode(keyBindMode(cfg.KeybindMode)),
	}
	if !cfg.Color {
		opts = append(opts,
			prompt.OptionPrefixTextColor(prompt.DefaultColor),
			prompt.OptionInputTextColor(prompt.DefaultColor),
		)
	}
	return &Repl{
		pt:      prompt.New(session.Execute, c.Complete, opts...),
		session: session,
		history: h,
	}
}

// Run はバナーを表示してから入力待ちのループに入る。Ctrl-Dか(exit)で終了する
func (r *Repl) Run(out io.Writer) error {
	fmt.Fprint(out, string(ascii))
	r.pt.Run()
	return r.history.Close()
}

// 確定キーの後に継続行のインデントを挿入する
func keyBinds(session *Session) []prompt.KeyBind {
	binds := make([]prompt.KeyBind, 0, 3)
	for _, key := range []prompt.Key{prompt.Enter, prompt.ControlJ, prompt.ControlM} {
		binds = append(binds, prompt.KeyBind{
			Key: key,
			Fn:  session.InsertIndent,
		})
	}
	return binds
}

func keyBindMode(mode string) prompt.KeyBindMode {
	if mode == config.KeybindModeCommon {
		return prompt.CommonKeyBind
	}
	return prompt.EmacsKeyBind
}
