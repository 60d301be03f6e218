package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordingExecutor は渡されたソースを記録し、failに含まれるソースに対してエラーを返す
type recordingExecutor struct {
	sources []string
	fail    map[string]bool
}

func (r *recordingExecutor) ExecuteSource(src string) error {
	r.sources = append(r.sources, src)
	if r.fail[src] {
		return errors.New("failed: " + src)
	}
	return nil
}

func TestRunBatch(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		fail            map[string]bool
		expectedSources []string
		wantErr         bool
	}{
		{
			name:            "one form per line",
			input:           "(setv a 1)\n(print a)\n",
			expectedSources: []string{"(setv a 1)", "(print a)"},
		},
		{
			name:            "multi line form is joined",
			input:           "(defn f [x]\n  (+ x 1))\n(f 1)",
			expectedSources: []string{"(defn f [x]\n  (+ x 1))", "(f 1)"},
		},
		{
			name:            "blank lines are skipped",
			input:           "\n  \n(f)\n\n",
			expectedSources: []string{"(f)"},
		},
		{
			name:            "unclosed form at the end is still executed",
			input:           "(print 1)\n(print\n",
			expectedSources: []string{"(print 1)", "(print"},
		},
		{
			name:            "continues after a failure and returns it",
			input:           "(bad)\n(good)\n",
			fail:            map[string]bool{"(bad)": true},
			expectedSources: []string{"(bad)", "(good)"},
			wantErr:         true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &recordingExecutor{fail: tt.fail}
			err := RunBatch(strings.NewReader(tt.input), e)
			if (err != nil) != tt.wantErr {
				t.Errorf("RunBatch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.expectedSources, e.sources); diff != "" {
				t.Errorf("sources mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
