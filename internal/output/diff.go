package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

type lineOp struct {
	kind diffmatchpatch.Operation
	text string
}

// UnifiedDiff returns a unified diff of before and after labelled with path.
// It returns "" when the contents are equal.
func UnifiedDiff(path, before, after string, useColors bool) string {
	if before == after {
		return ""
	}
	ops := lineOps(before, after)

	red, green, cyan := fmt.Sprint, fmt.Sprint, fmt.Sprint
	if useColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		cyan = color.New(color.FgCyan).SprintFunc()
	}

	var sb strings.Builder
	from := "a/" + path
	if before == "" {
		from = "/dev/null"
	}
	fmt.Fprintf(&sb, "--- %s\n+++ b/%s\n", from, path)

	for _, h := range hunks(ops) {
		oldStart, newStart := h.oldStart, h.newStart
		if h.oldLen > 0 {
			oldStart++
		}
		if h.newLen > 0 {
			newStart++
		}
		sb.WriteString(cyan(fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, h.oldLen, newStart, h.newLen)))
		sb.WriteByte('\n')
		for _, op := range ops[h.from:h.to] {
			switch op.kind {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(red("-" + op.text))
			case diffmatchpatch.DiffInsert:
				sb.WriteString(green("+" + op.text))
			default:
				sb.WriteString(" " + op.text)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// lineOps diffs before and after line by line.
func lineOps(before, after string) []lineOp {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []lineOp
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			ops = append(ops, lineOp{kind: d.Type, text: line})
		}
	}
	return ops
}

type hunk struct {
	from, to         int // range in ops
	oldStart, oldLen int
	newStart, newLen int
}

// hunks groups changed lines with their surrounding context. Changes closer
// than twice the context share a hunk.
func hunks(ops []lineOp) []hunk {
	var out []hunk
	oldLine, newLine := 0, 0
	var cur *hunk
	lastChange := -1

	for i, op := range ops {
		if op.kind != diffmatchpatch.DiffEqual {
			if cur == nil || i-lastChange > 2*diffContext {
				if cur != nil {
					out = append(out, closeHunk(*cur, ops, lastChange))
				}
				start := max(0, i-diffContext)
				cur = &hunk{from: start, oldStart: oldLine - (i - start), newStart: newLine - (i - start)}
			}
			lastChange = i
		}
		switch op.kind {
		case diffmatchpatch.DiffDelete:
			oldLine++
		case diffmatchpatch.DiffInsert:
			newLine++
		default:
			oldLine++
			newLine++
		}
	}
	if cur != nil {
		out = append(out, closeHunk(*cur, ops, lastChange))
	}
	return out
}

func closeHunk(h hunk, ops []lineOp, lastChange int) hunk {
	h.to = min(len(ops), lastChange+diffContext+1)
	for _, op := range ops[h.from:h.to] {
		switch op.kind {
		case diffmatchpatch.DiffDelete:
			h.oldLen++
		case diffmatchpatch.DiffInsert:
			h.newLen++
		default:
			h.oldLen++
			h.newLen++
		}
	}
	return h
}
