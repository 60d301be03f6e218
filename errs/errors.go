package errs

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Kind はエラーの種別を表す
type Kind string

const (
	// 括弧が閉じていない、文字列が終端していない入力。編集を続けるシグナルとして扱う
	INCOMPLETE_INPUT Kind = "INCOMPLETE INPUT"
	// 字句解析器が受け付けない文字を含む入力
	MALFORMED_TOKEN Kind = "MALFORMED TOKEN"
	// 字句としては正しいが、構文として誤っている入力
	SYNTAX_ERROR Kind = "SYNTAX ERROR"
	// 補完候補の計算中に発生したエラー。ユーザーには表示しない
	COMPLETION_FAILURE Kind = "COMPLETION FAILURE"
	// 評価中に発生したエラー
	RUNTIME_FAILURE Kind = "RUNTIME FAILURE"
	// 設定ファイルや履歴ファイルなど、入力に起因しない内部的なエラー
	INTERNAL_ERROR Kind = "INTERNAL ERROR"
	UNKNOWN_ERROR  Kind = "UNKNOWN ERROR"
)

// Error は種別とメッセージを持つ単一のエラー型
type Error struct {
	kind    Kind
	message string
	wrapped error
}

// New は種別を指定してErrorを生成する
func New(kind Kind, message string) *Error {
	return &Error{
		kind:    kind,
		message: message,
	}
}

// Newf はフォーマット指定でErrorを生成する
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func NewIncompleteInput(message string) *Error { return New(INCOMPLETE_INPUT, message) }
func NewMalformedToken(message string) *Error { return New(MALFORMED_TOKEN, message) }
func NewSyntaxError(message string) *Error { return New(SYNTAX_ERROR, message) }
func NewCompletionFailure(message string) *Error { return New(COMPLETION_FAILURE, message) }
func NewRuntimeFailure(message string) *Error { return New(RUNTIME_FAILURE, message) }
func NewInternalError(message string) *Error { return New(INTERNAL_ERROR, message) }

func (e *Error) Wrap(err error) error {
	e.wrapped = err
	return e
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

// KindOf はエラーチェーンの中で最も外側にある*Errorの種別を返す
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return UNKNOWN_ERROR
}

// IsIncomplete は入力が途中であることを示すエラーかどうかを判定する
func IsIncomplete(err error) bool {
	return err != nil && KindOf(err) == INCOMPLETE_INPUT
}

// HandleError はエラーを種別つきで標準出力に表示する
func HandleError(err error) {
	FprintError(os.Stdout, err)
}

// FprintError はエラーを種別つきでwに書き出す
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "\n\033[31m[%s]\n %s\033[0m\n\n", KindOf(err), err.Error())
}
