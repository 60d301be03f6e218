// Package logutil はコンポーネントごとのロガーを提供する。
// SetOutputかSetOutputFileが呼ばれるまで、出力はすべて捨てられる
package logutil

import (
	"io"
	"log"
	"os"

	"github.com/kakkky/lispsole/errs"
)

var (
	out     io.Writer = io.Discard
	loggers []*log.Logger
)

// GetLogger はprefixつきのロガーを返す
func GetLogger(prefix string) *log.Logger {
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput はGetLoggerで作ったすべてのロガーの出力先をnewoutに切り替える。
// それまでの出力先がSetOutputFileで開いたファイルであれば閉じる
func SetOutput(newout io.Writer) {
	if f, ok := out.(*os.File); ok {
		f.Close()
	}
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile はすべてのロガーの出力先を追記モードで開いたfnameに切り替える。
// fnameが空なら出力を捨てる
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errs.NewInternalError("failed to open log file").Wrap(err)
	}
	SetOutput(file)
	return nil
}
