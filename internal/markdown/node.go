// Package markdown provides a block-level markdown document tree.
//
// The tree is deliberately shallow: a Document owns an ordered list of block
// nodes, and each block keeps the verbatim source lines it was parsed from.
// Headings additionally expose their level and text. Every node has at most
// one parent; inserting a node that already has a parent moves it.
package markdown

import "strings"

// Kind is the closed set of node kinds.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindList
	KindCodeBlock
	KindBlockQuote
	KindThematicBreak
	KindHTMLBlock
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindCodeBlock:
		return "code_block"
	case KindBlockQuote:
		return "block_quote"
	case KindThematicBreak:
		return "thematic_break"
	case KindHTMLBlock:
		return "html_block"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Node is a node of the document tree.
type Node struct {
	Kind Kind
	// Level is the heading level (1-6); zero for other kinds.
	Level int
	// Text is the heading text, or the joined paragraph text.
	Text string
	// Lines holds the verbatim source lines of a parsed block. Nodes built in
	// code have no Lines and are rendered from Level and Text.
	Lines []string

	// gap is one more than the number of blank lines that preceded a parsed
	// block. Zero means the node was built in code.
	gap int

	parent   *Node
	children []*Node
}

// NewDocument returns an empty document node, optionally populated.
func NewDocument(children ...*Node) *Node {
	doc := &Node{Kind: KindDocument}
	for _, c := range children {
		doc.AppendChild(c)
	}
	return doc
}

// NewHeading returns a heading node.
func NewHeading(level int, text string) *Node {
	return &Node{Kind: KindHeading, Level: level, Text: text}
}

// NewParagraph returns a paragraph node. Multi-line text is kept as lines.
func NewParagraph(text string) *Node {
	return &Node{Kind: KindParagraph, Text: text, Lines: strings.Split(text, "\n")}
}

// BlankBefore returns how many blank lines separate n from its previous
// sibling when rendered. Parsed blocks keep the count from their source;
// nodes built in code default to one.
func (n *Node) BlankBefore() int {
	if n.gap == 0 {
		return 1
	}
	return n.gap - 1
}

// SetBlankBefore overrides the blank lines rendered before n. A negative
// count restores the default of one.
func (n *Node) SetBlankBefore(count int) {
	if count < 0 {
		n.gap = 0
		return
	}
	n.gap = count + 1
}

// Parent returns the owning node, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Next returns the following sibling, or nil if n is last or detached.
func (n *Node) Next() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// AppendChild adds c as the last child of n, detaching it from any previous parent.
func (n *Node) AppendChild(c *Node) {
	c.detach()
	c.parent = n
	n.children = append(n.children, c)
}

// InsertAfter inserts c immediately after anchor, which must be a child of n.
// It panics if anchor is not a child of n.
func (n *Node) InsertAfter(anchor, c *Node) {
	if anchor.parent != n {
		panic("markdown: InsertAfter anchor is not a child of the receiver")
	}
	c.detach()
	i := n.indexOf(anchor)
	n.children = append(n.children, nil)
	copy(n.children[i+2:], n.children[i+1:])
	n.children[i+1] = c
	c.parent = n
}

// RemoveChild detaches c from n. It is a no-op when c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c.parent != n {
		return
	}
	c.detach()
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

func (n *Node) indexOf(c *Node) int {
	for i, child := range n.children {
		if child == c {
			return i
		}
	}
	return -1
}

// IsHeading reports whether n is a heading of the given level with the given text.
func (n *Node) IsHeading(level int, text string) bool {
	return n != nil && n.Kind == KindHeading && n.Level == level && n.Text == text
}
