package errs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedKind Kind
	}{
		{
			name:         "InternalError",
			err:          NewInternalError("internal error occurred"),
			expectedKind: INTERNAL_ERROR,
		},
		{
			name:         "SyntaxError",
			err:          NewSyntaxError("unexpected )"),
			expectedKind: SYNTAX_ERROR,
		},
		{
			name:         "MalformedToken",
			err:          NewMalformedToken("invalid input text \"#\""),
			expectedKind: MALFORMED_TOKEN,
		},
		{
			name:         "RuntimeFailure",
			err:          NewRuntimeFailure("division by zero"),
			expectedKind: RUNTIME_FAILURE,
		},
		{
			name:         "UnknownError",
			err:          errors.New("unknown error"),
			expectedKind: UNKNOWN_ERROR,
		},
		{
			name:         "WrappedInternalError",
			err:          NewInternalError("wrapped error").Wrap(errors.New("original error")),
			expectedKind: INTERNAL_ERROR,
		},
		{
			name:         "fmt.Errorfで包まれたエラー",
			err:          fmt.Errorf("outer: %w", NewRuntimeFailure("boom")),
			expectedKind: RUNTIME_FAILURE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 標準出力を一時的に差し替え
			oldStdout := os.Stdout
			r, w, _ := os.Pipe()
			os.Stdout = w

			defer func() {
				os.Stdout = oldStdout
			}()

			HandleError(tt.err)

			w.Close()
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(r); err != nil {
				t.Fatalf("failed to read from pipe: %v", err)
			}
			output := buf.String()

			if !strings.Contains(output, string(tt.expectedKind)) {
				t.Errorf("expected error kind %s in output, got %s", tt.expectedKind, output)
			}
			if !strings.Contains(output, tt.err.Error()) {
				t.Errorf("expected message %q in output, got %s", tt.err.Error(), output)
			}
		})
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "incomplete", err: NewIncompleteInput("unexpected end of input"), want: true},
		{name: "wrapped incomplete", err: fmt.Errorf("lex: %w", NewIncompleteInput("eof")), want: true},
		{name: "malformed", err: NewMalformedToken("bad"), want: false},
		{name: "plain error", err: errors.New("x"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIncomplete(tt.err); got != tt.want {
				t.Errorf("IsIncomplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Wrap(t *testing.T) {
	inner := errors.New("permission denied")
	err := NewInternalError("failed to open history").Wrap(inner)

	if got, want := err.Error(), "failed to open history: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, inner) {
		t.Errorf("errors.Is should find the wrapped error")
	}
}
