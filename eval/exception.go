package eval

import (
	"errors"
	"fmt"

	"github.com/kakkky/lispsole/lexer"
)

// Frame はトレースバックの1段分。関数名と呼び出し式の位置を持つ
type Frame struct {
	Name string
	Pos  lexer.Position
}

// Exception は評価中に送出された例外。Stackは外側の呼び出しから順に並ぶ
type Exception struct {
	Reason Value
	Stack  []Frame
}

// NewException はメッセージを理由とする例外を生成する
func NewException(format string, args ...any) *Exception {
	return &Exception{Reason: fmt.Sprintf(format, args...)}
}

func (e *Exception) Error() string {
	return Str(e.Reason)
}

// AsException はerrをExceptionに変換する
func AsException(err error) *Exception {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc
	}
	return &Exception{Reason: err.Error()}
}

// WithFrame は例外の呼び出し履歴の先頭にフレームを積む
func WithFrame(err error, f Frame) error {
	exc := AsException(err)
	exc.Stack = append([]Frame{f}, exc.Stack...)
	return exc
}
