package repl

import (
	"bufio"
	"io"
	"strings"

	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/lexer"
)

type sourceExecutor interface {
	ExecuteSource(input string) error
}

// RunBatch は端末を使わずにrから読んだソースを評価する。
// 1行ずつ読み、括弧が閉じるまで行を継ぎ足してから評価する。
// 評価に失敗した入力があれば最後のエラーを返す
func RunBatch(r io.Reader, e sourceExecutor) error {
	var (
		b       strings.Builder
		lastErr error
	)
	run := func() {
		src := b.String()
		b.Reset()
		if strings.TrimSpace(src) == "" {
			return
		}
		if err := e.ExecuteSource(src); err != nil {
			lastErr = err
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(scanner.Text())

		if _, err := lexer.Tokenize(b.String()); errs.IsIncomplete(err) {
			continue
		}
		run()
	}
	if err := scanner.Err(); err != nil {
		return errs.NewInternalError("failed to read input").Wrap(err)
	}
	// 閉じていない入力も評価してエラーを表示させる
	run()
	return lastErr
}
