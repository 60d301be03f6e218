package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"

	"github.com/kakkky/lispsole/compiler"
	"github.com/kakkky/lispsole/completer"
	"github.com/kakkky/lispsole/config"
	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/executor"
	"github.com/kakkky/lispsole/highlight"
	"github.com/kakkky/lispsole/history"
	"github.com/kakkky/lispsole/logutil"
	"github.com/kakkky/lispsole/registry"
	"github.com/kakkky/lispsole/repl"
	"github.com/kakkky/lispsole/version"
)

type options struct {
	Config         string `short:"c" long:"config" description:"path to the config file"`
	Eval           string `short:"e" long:"eval" description:"evaluate the given source and exit"`
	HistoryBackend string `long:"history-backend" choice:"file" choice:"bolt" description:"history storage backend"`
	History        string `long:"history" description:"path to the history file"`
	NoColor        bool   `long:"no-color" description:"disable syntax highlighting"`
	Style          string `long:"style" description:"chroma style used for highlighting"`
	Log            string `long:"log" description:"write debug logs to the given file"`
	Version        bool   `short:"v" long:"version" description:"print the version and exit"`
	Args           struct {
		Scripts []string `positional-arg-name:"script"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.Version {
		version.PrintVersion(os.Stdout)
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		// 設定ファイルが壊れていても既定値で起動する
		errs.FprintError(os.Stderr, err)
	}
	if cfg.LogFile != "" {
		if err := logutil.SetOutputFile(cfg.LogFile); err != nil {
			errs.FprintError(os.Stderr, err)
		}
	}

	interp := eval.NewInterp(os.Stdout)
	c, err := compiler.New(interp)
	if err != nil {
		errs.FprintError(os.Stderr, err)
		os.Exit(1)
	}
	r := registry.NewRegistry(interp.Globals)
	h := highlight.New(cfg.Style, cfg.Color && highlight.ColorEnabled(os.Stdout))
	e := executor.NewExecutor(c, r, os.Stdout, h)

	if opts.Eval != "" || len(opts.Args.Scripts) > 0 || !isatty.IsTerminal(os.Stdin.Fd()) {
		if err := runBatch(opts, e); err != nil {
			os.Exit(1)
		}
		return
	}

	if cfg.CheckUpdate {
		noteLatestVersion(os.Stdout)
	}
	store, err := history.OpenOrMemory(history.Backend(cfg.History.Backend), cfg.History.Path)
	if err != nil {
		// 履歴を保存できなくてもREPLは使える
		errs.FprintError(os.Stderr, err)
	}
	session := repl.NewSession(c, e, store, cfg.ContinuationPrompt)
	cfg.Color = h.Enabled()
	rp := repl.NewRepl(cfg, session, completer.NewCompleter(c, r), store)
	if err := rp.Run(os.Stdout); err != nil {
		errs.HandleError(err)
	}
}

// loadConfig は設定ファイルを読み込み、コマンドラインの指定で上書きする
func loadConfig(opts options) (config.Config, error) {
	path := opts.Config
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return applyFlags(config.Default(), opts), err
		}
		path = p
	}
	cfg, err := config.Load(path)
	return applyFlags(cfg, opts), err
}

func applyFlags(cfg config.Config, opts options) config.Config {
	if opts.HistoryBackend != "" {
		cfg.History.Backend = opts.HistoryBackend
	}
	if opts.History != "" {
		cfg.History.Path = opts.History
	}
	if opts.NoColor {
		cfg.Color = false
	}
	if opts.Style != "" {
		cfg.Style = opts.Style
	}
	if opts.Log != "" {
		cfg.LogFile = opts.Log
	}
	return cfg
}

// runBatch は-eの入力、スクリプト、標準入力の順に評価対象を選んで評価する
func runBatch(opts options, e *executor.Executor) error {
	switch {
	case opts.Eval != "":
		return repl.RunBatch(strings.NewReader(opts.Eval), e)
	case len(opts.Args.Scripts) > 0:
		var lastErr error
		for _, script := range opts.Args.Scripts {
			if err := runScript(script, e); err != nil {
				lastErr = err
			}
		}
		return lastErr
	default:
		return repl.RunBatch(os.Stdin, e)
	}
}

func runScript(path string, e *executor.Executor) error {
	f, err := os.Open(path)
	if err != nil {
		err = errs.NewInternalError(fmt.Sprintf("failed to open %s", path)).Wrap(err)
		errs.FprintError(os.Stderr, err)
		return err
	}
	defer f.Close()
	return repl.RunBatch(f, e)
}

// 新しいバージョンがあれば起動時に知らせる。確認に失敗しても起動は続ける
func noteLatestVersion(w io.Writer) {
	checker, err := version.NewChecker()
	if err != nil {
		return
	}
	isLatest, latest, err := checker.IsLatestVersion()
	if err != nil {
		return
	}
	if !isLatest {
		version.PrintNoteLatestVersion(w, latest)
	}
}
