package executor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	gomock "go.uber.org/mock/gomock"

	"github.com/kakkky/lispsole/compiler"
	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/eval"
	"github.com/kakkky/lispsole/highlight"
	"github.com/kakkky/lispsole/registry"
)

func newTestExecutor(t *testing.T, p printer) (*Executor, *registry.Registry) {
	t.Helper()
	interp := eval.NewInterp(&bytes.Buffer{})
	c, err := compiler.New(interp)
	if err != nil {
		t.Fatalf("compiler.New() error = %v", err)
	}
	r := registry.NewRegistry(interp.Globals)
	return &Executor{compiler: c, registry: r, printer: p}, r
}

// kindIs はエラーの種別が一致することを検査するMatcher
type kindIs errs.Kind

func (k kindIs) Matches(x any) bool {
	err, ok := x.(error)
	return ok && errs.KindOf(err) == errs.Kind(k)
}

func (k kindIs) String() string {
	return "error of kind " + string(k)
}

// MEMO: 表示の整形はprinterの責務なので、ここではどのメソッドが呼ばれるかまでを検証する
func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name          string
		setup         []string // 事前に評価しておく入力
		input         string
		setupMocks    func(*Mockprinter)
		expectedDecls []registry.Decl
		wantErr       bool
	}{
		{
			name:          "empty input",
			input:         "  \n ",
			setupMocks:    func(mp *Mockprinter) {},
			expectedDecls: []registry.Decl{},
		},
		{
			name:  "expression prints its result",
			input: "(+ 1 2)\n",
			setupMocks: func(mp *Mockprinter) {
				mp.EXPECT().printResult(int64(3)).Times(1)
			},
			expectedDecls: []registry.Decl{},
		},
		{
			name:          "nil result is not printed",
			input:         "(setv x 10)",
			setupMocks:    func(mp *Mockprinter) {},
			expectedDecls: []registry.Decl{{Name: "x", Kind: registry.DeclKindVar}},
		},
		{
			name:  "defn is registered",
			input: "(defn sq [n] (* n n)) (sq 4)",
			setupMocks: func(mp *Mockprinter) {
				mp.EXPECT().printResult(int64(16)).Times(1)
			},
			expectedDecls: []registry.Decl{{Name: "sq", Kind: registry.DeclKindFunc, Params: "[n]"}},
		},
		{
			name:  "uses earlier declarations",
			setup: []string{"(setv base 100)"},
			input: "(+ base 1)",
			setupMocks: func(mp *Mockprinter) {
				mp.EXPECT().printResult(int64(101)).Times(1)
			},
			expectedDecls: []registry.Decl{{Name: "base", Kind: registry.DeclKindVar}},
		},
		{
			name:  "malformed token",
			input: "(a #b)",
			setupMocks: func(mp *Mockprinter) {
				mp.EXPECT().printError(kindIs(errs.MALFORMED_TOKEN)).Times(1)
			},
			expectedDecls: []registry.Decl{},
			wantErr:       true,
		},
		{
			name:  "syntax error is not evaluated",
			input: "(setv y 1) (if)",
			setupMocks: func(mp *Mockprinter) {
				mp.EXPECT().printError(kindIs(errs.SYNTAX_ERROR)).Times(1)
			},
			expectedDecls: []registry.Decl{},
			wantErr:       true,
		},
		{
			name:  "runtime failure prints traceback",
			input: "(setv z 1) (/ 1 0)",
			setupMocks: func(mp *Mockprinter) {
				mp.EXPECT().printTraceback("(setv z 1) (/ 1 0)", gomock.Any()).DoAndReturn(func(_ string, exc *eval.Exception) {
					if exc.Error() != "division by zero" {
						t.Errorf("unexpected exception: %v", exc)
					}
				}).Times(1)
			},
			expectedDecls: []registry.Decl{},
			wantErr:       true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockPrinter := NewMockprinter(ctrl)

			e, r := newTestExecutor(t, mockPrinter)
			for _, src := range tt.setup {
				forms, prog, err := e.Validate(src)
				if err != nil {
					t.Fatalf("Validate(%q) error = %v", src, err)
				}
				if _, err := prog.Run(t.Context(), e.compiler.Interp()); err != nil {
					t.Fatalf("Run(%q) error = %v", src, err)
				}
				r.RegisterForms(forms)
			}
			tt.setupMocks(mockPrinter)

			err := e.ExecuteSource(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExecuteSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.expectedDecls, r.Decls()); diff != "" {
				t.Errorf("Decls() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecutor_ExecuteRecoversPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockPrinter := NewMockprinter(ctrl)
	e, _ := newTestExecutor(t, mockPrinter)

	mockPrinter.EXPECT().printResult(gomock.Any()).Do(func(eval.Value) {
		panic("boom")
	}).Times(1)
	mockPrinter.EXPECT().printError(kindIs(errs.RUNTIME_FAILURE)).Times(1)

	err := e.ExecuteSource("1")
	if errs.KindOf(err) != errs.RUNTIME_FAILURE {
		t.Errorf("ExecuteSource() error kind = %v", errs.KindOf(err))
	}
}

func TestDefaultPrinter(t *testing.T) {
	tests := []struct {
		name     string
		print    func(p *defaultPrinter)
		expected string
	}{
		{
			name:     "result is printed as repr",
			print:    func(p *defaultPrinter) { p.printResult("a\nb") },
			expected: "\"a\\nb\"\n",
		},
		{
			name:     "syntax error is printed inline",
			print:    func(p *defaultPrinter) { p.printError(errs.NewSyntaxError("1:1: if requires 2 or 3 arguments")) },
			expected: "Syntax Error: 1:1: if requires 2 or 3 arguments\n",
		},
		{
			name: "traceback",
			print: func(p *defaultPrinter) {
				p.printTraceback("(/ 1 0)", &eval.Exception{Reason: "division by zero"})
			},
			expected: "Traceback (most recent call last):\nException: division by zero\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(newDefaultPrinter(&buf, highlight.Disabled()))
			if diff := cmp.Diff(tt.expected, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultPrinter_InternalErrorHasKindHeader(t *testing.T) {
	var buf bytes.Buffer
	p := newDefaultPrinter(&buf, highlight.Disabled())
	p.printError(errs.NewInternalError("history").Wrap(errors.New("disk full")))
	if !strings.Contains(buf.String(), string(errs.INTERNAL_ERROR)) {
		t.Errorf("output = %q, want kind header", buf.String())
	}
}
