package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cgull/internal/diag"
	"cgull/internal/source"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	noteColor  = color.New(color.FgCyan)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает
// Line <line>:<col> - <Label>: <Message>
// затем, опционально, контекст строки с подчёркиванием ^~~~ по Span.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		pos := fs.Position(d.Primary)
		label := d.Code.Label()
		if opts.Color {
			if d.Severity >= diag.SevError {
				label = errorColor.Sprint(label)
			} else {
				label = warnColor.Sprint(label)
			}
		}
		fmt.Fprintf(w, "Line %d:%d - %s: %s\n", pos.Line, pos.Column, label, d.Message)

		if !opts.ShowContext {
			continue
		}
		file := fs.Get(d.Primary.File)
		if file == nil {
			continue
		}
		lineText := file.LineText(pos.Line)
		if lineText == "" {
			continue
		}
		fmt.Fprintf(w, "  %s\n", lineText)

		// ширина подчёркивания учитывает широкие руны
		prefix := lineText
		if int(pos.Column) <= len(lineText) {
			prefix = lineText[:pos.Column]
		}
		pad := runewidth.StringWidth(prefix)
		span := int(d.Primary.Len())
		if span < 1 {
			span = 1
		}
		marker := "^" + strings.Repeat("~", span-1)
		if opts.Color {
			marker = noteColor.Sprint(marker)
		}
		fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostics suppressed (raise --max-diagnostics to see them)\n", n)
	}
}
