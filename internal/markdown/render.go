package markdown

import (
	"bytes"
	"strings"
)

// Render serializes a node back to markdown. Top-level blocks of a document
// are separated by the blank lines recorded on each block (one for blocks
// built in code) and the output ends with a newline. Parsed blocks are
// written from their verbatim source lines, so a parsed document renders
// byte-for-byte identical to its source apart from leading and trailing
// blank lines and whitespace-only lines between blocks.
func Render(n *Node) []byte {
	var b bytes.Buffer
	if n.Kind != KindDocument {
		writeBlock(&b, n)
		return b.Bytes()
	}
	for i, c := range n.children {
		if i > 0 {
			b.WriteString(strings.Repeat("\n", c.BlankBefore()))
		}
		writeBlock(&b, c)
	}
	return b.Bytes()
}

// RenderString is a convenience wrapper around Render.
func RenderString(n *Node) string {
	return string(Render(n))
}

func writeBlock(b *bytes.Buffer, n *Node) {
	if n.Kind == KindDocument {
		b.Write(Render(n))
		return
	}
	for _, line := range blockLines(n) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func blockLines(n *Node) []string {
	if len(n.Lines) > 0 {
		return n.Lines
	}
	switch n.Kind {
	case KindHeading:
		marker := strings.Repeat("#", n.Level)
		if n.Text == "" {
			return []string{marker}
		}
		return []string{marker + " " + n.Text}
	case KindThematicBreak:
		return []string{"---"}
	default:
		return strings.Split(n.Text, "\n")
	}
}

// Clone returns a deep copy of n that shares no nodes with it. Documents are
// copied by rendering and re-parsing them.
func Clone(n *Node) *Node {
	if n.Kind == KindDocument {
		return Parse(Render(n))
	}
	return &Node{
		Kind:  n.Kind,
		Level: n.Level,
		Text:  n.Text,
		Lines: cloneLines(n.Lines),
		gap:   n.gap,
	}
}
