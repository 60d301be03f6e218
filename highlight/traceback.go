package highlight

import (
	"fmt"
	"strings"

	"github.com/cznic/mathutil"

	"github.com/kakkky/lispsole/eval"
)

const tracebackHeader = "Traceback (most recent call last):"

// Traceback は例外の呼び出し履歴をsrcの該当行とともに整形する
func (h *Highlighter) Traceback(src string, exc *eval.Exception) string {
	lines := strings.Split(src, "\n")
	var sb strings.Builder
	sb.WriteString(tracebackHeader + "\n")
	for _, f := range exc.Stack {
		fmt.Fprintf(&sb, "  Input %s, in %s\n", f.Pos, f.Name)
		if len(lines) == 0 || f.Pos.Line == 0 {
			continue
		}
		line := lines[mathutil.Clamp(f.Pos.Line-1, 0, len(lines)-1)]
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		// キャレットは行頭の空白を除いた位置に合わせる
		indent := len([]rune(line)) - len([]rune(trimmed))
		caret := mathutil.Clamp(f.Pos.Column-1-indent, 0, len([]rune(trimmed)))
		fmt.Fprintf(&sb, "    %s\n", h.Code(trimmed))
		fmt.Fprintf(&sb, "    %s^\n", strings.Repeat(" ", caret))
	}
	sb.WriteString(h.Error(exceptionLine(exc)))
	return sb.String()
}

func exceptionLine(exc *eval.Exception) string {
	if _, ok := exc.Reason.(string); ok {
		return "Exception: " + exc.Error()
	}
	return "Exception: " + eval.Repr(exc.Reason)
}
