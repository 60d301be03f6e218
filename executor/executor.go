package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"time"
	"unicode"

	"github.com/kakkky/lispsole/compiler"
	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/highlight"
	"github.com/kakkky/lispsole/lexer"
	"github.com/kakkky/lispsole/logutil"
	"github.com/kakkky/lispsole/registry"
)

var logger = logutil.GetLogger("[executor] ")

// Executor はREPLセッション内でのコード実行を担う
// go-promptのExecutorインターフェースを実装する
type Executor struct {
	compiler *compiler.Compiler
	registry *registry.Registry
	printer
}

// NewExecutor はExecutorのインスタンスを生成する。
// 評価結果とエラーはoutに書き出す
func NewExecutor(c *compiler.Compiler, r *registry.Registry, out io.Writer, h *highlight.Highlighter) *Executor {
	return &Executor{
		compiler: c,
		registry: r,
		printer:  newDefaultPrinter(out, h),
	}
}

// ====================以下にメソッドを定義する======================

// Execute は入力されたコードを実行する
func (e *Executor) Execute(input string) {
	_ = e.ExecuteSource(input)
}

// ExecuteSource は入力されたコードを実行し、表示したエラーを返す
func (e *Executor) ExecuteSource(input string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.NewRuntimeFailure(fmt.Sprintf("%v", r))
			e.printError(err)
			logger.Println(string(debug.Stack()))
		}
	}()

	src := strings.TrimRightFunc(input, unicode.IsSpace)
	if strings.TrimSpace(src) == "" {
		return nil
	}

	// 評価する前に字句解析とコンパイルを済ませる
	forms, prog, err := e.Validate(src)
	if err != nil {
		e.printError(err)
		return err
	}

	// 評価中のCtrl-Cは評価の中断として扱う
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, runErr := prog.Run(ctx, e.compiler.Interp())
	logger.Printf("evaluated %d form(s) in %s", prog.Len(), time.Since(start))
	if runErr != nil {
		e.printTraceback(src, eval.AsException(runErr))
		return errs.NewRuntimeFailure("evaluation failed").Wrap(runErr)
	}

	// 実行結果を表示する
	if result != nil {
		e.printResult(result)
	}

	// 宣言を登録する
	e.registry.RegisterForms(forms)
	return nil
}

// Validate は入力を字句解析してコンパイルする。評価はしない
func (e *Executor) Validate(src string) ([]eval.Value, eval.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, eval.Program{}, err
	}
	forms, err := compiler.Read(tokens)
	if err != nil {
		return nil, eval.Program{}, err
	}
	prog, err := e.compiler.Compile(forms)
	if err != nil {
		return nil, eval.Program{}, err
	}
	return forms, prog, nil
}
