package executor

import (
	"fmt"
	"io"

	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/highlight"
)

//go:generate mockgen -package=executor -source=./printer.go -destination=./printer_mock.go
type printer interface {
	printResult(v eval.Value)
	printError(err error)
	printTraceback(src string, exc *eval.Exception)
}

type defaultPrinter struct {
	out         io.Writer
	highlighter *highlight.Highlighter
}

func newDefaultPrinter(out io.Writer, h *highlight.Highlighter) *defaultPrinter {
	return &defaultPrinter{
		out:         out,
		highlighter: h,
	}
}

func (dp *defaultPrinter) printResult(v eval.Value) {
	fmt.Fprintln(dp.out, dp.highlighter.Code(eval.Repr(v)))
}

// 入力の誤りはその場で一行で示し、それ以外は種別つきで表示する
func (dp *defaultPrinter) printError(err error) {
	switch errs.KindOf(err) {
	case errs.INCOMPLETE_INPUT, errs.MALFORMED_TOKEN, errs.SYNTAX_ERROR:
		fmt.Fprintln(dp.out, dp.highlighter.Error("Syntax Error: "+err.Error()))
	default:
		errs.FprintError(dp.out, err)
	}
}

func (dp *defaultPrinter) printTraceback(src string, exc *eval.Exception) {
	fmt.Fprintln(dp.out, dp.highlighter.Traceback(src, exc))
}
