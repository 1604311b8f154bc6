package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	fcolor "github.com/fatih/color"

	"github.com/spec-kit/invoich-web/internal/domain"
)

// ColorNotifier prints notices as coloured, symbol-prefixed lines.
type ColorNotifier struct {
	out io.Writer
}

// NewColorNotifier writes to out, or stdout when out is nil.
func NewColorNotifier(out io.Writer) *ColorNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &ColorNotifier{out: out}
}

// Notify prints notice.
func (n *ColorNotifier) Notify(_ context.Context, notice domain.Notice) {
	style := noticeStyle(notice.Kind)
	text := notice.Message
	if notice.Title != "" {
		text = notice.Title + " " + text
	}
	if _, err := style.color.Fprintf(n.out, "%s%s\n", style.symbol, text); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

type styleConfig struct {
	symbol string
	color  *fcolor.Color
}

func noticeStyle(kind domain.NoticeKind) styleConfig {
	switch kind {
	case domain.NoticeError:
		return styleConfig{symbol: "✗ ", color: fcolor.New(fcolor.FgRed)}
	case domain.NoticeWarning:
		return styleConfig{symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)}
	case domain.NoticeSuccess:
		return styleConfig{symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)}
	case domain.NoticeInfo:
		return styleConfig{symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)}
	default:
		return styleConfig{symbol: "", color: fcolor.New(fcolor.Reset)}
	}
}
