// Package descriptor reads and edits XML build descriptors (pom.xml) by
// named paths.
//
// Parsing keeps the original bytes. Edits made with SetText are spliced
// back into those bytes by Document.Bytes, so comments, whitespace and
// attribute order outside the edited elements survive unchanged.
package descriptor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Node is one XML element.
type Node struct {
	Name     string
	Children []*Node

	parent *Node
	prefix string

	tagStart    int // offset of '<'
	innerStart  int // offset after the start tag
	innerEnd    int // offset of the end tag ('<' of "</")
	selfClosing bool

	text    string
	edited  bool
	newText string
}

// Parent returns the enclosing element, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Text returns the trimmed character data directly inside the element,
// reflecting any pending SetText.
func (n *Node) Text() string {
	if n.edited {
		return n.newText
	}
	return strings.TrimSpace(n.text)
}

// SetText replaces the element's content with text. The value is not
// validated; it is escaped when the document is serialized.
func (n *Node) SetText(text string) {
	n.edited = true
	n.newText = text
}

// Child returns the first child element with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildText returns the text of the first child with the given name, or "".
func (n *Node) ChildText(name string) string {
	if c := n.Child(name); c != nil {
		return c.Text()
	}
	return ""
}

// Path returns the names from the root down to n.
func (n *Node) Path() Path {
	var p Path
	for cur := n; cur != nil; cur = cur.parent {
		p = append(p, cur.Name)
	}
	slices.Reverse(p)
	return p
}

// Document is a parsed descriptor.
type Document struct {
	Root *Node
	src  []byte
}

// Parse builds a Document from XML source.
func Parse(src []byte) (*Document, error) {
	doc := &Document{src: bytes.Clone(src)}

	dec := xml.NewDecoder(bytes.NewReader(doc.src))
	var stack []*Node

	for {
		start := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing descriptor: %w", err)
		}
		end := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Name:        t.Name.Local,
				prefix:      t.Name.Space,
				tagStart:    start,
				innerStart:  end,
				selfClosing: bytes.HasSuffix(doc.src[start:end], []byte("/>")),
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("parsing descriptor: multiple root elements (%s, %s)", doc.Root.Name, n.Name)
				}
				doc.Root = n
			} else {
				parent := stack[len(stack)-1]
				n.parent = parent
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parsing descriptor: unexpected </%s>", t.Name.Local)
			}
			n := stack[len(stack)-1]
			if n.Name != t.Name.Local || n.prefix != t.Name.Space {
				return nil, fmt.Errorf("parsing descriptor: element <%s> closed by </%s>", n.Name, t.Name.Local)
			}
			if n.selfClosing {
				n.innerEnd = n.innerStart
			} else {
				n.innerEnd = start
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("parsing descriptor: element <%s> is not closed", stack[len(stack)-1].Name)
	}
	if doc.Root == nil {
		return nil, errors.New("parsing descriptor: no root element")
	}
	return doc, nil
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Modified reports whether any element has a pending edit.
func (d *Document) Modified() bool {
	return len(d.edits()) > 0
}

// Original returns the source bytes the document was parsed from.
func (d *Document) Original() []byte {
	return bytes.Clone(d.src)
}

// Bytes serializes the document: the original source with every pending
// edit spliced in.
func (d *Document) Bytes() []byte {
	edits := d.edits()
	if len(edits) == 0 {
		return bytes.Clone(d.src)
	}

	var out bytes.Buffer
	cursor := 0
	for _, n := range edits {
		from, to, replacement := n.splice()
		if from < cursor {
			// Nested inside an element that was already replaced.
			continue
		}
		out.Write(d.src[cursor:from])
		out.WriteString(replacement)
		cursor = to
	}
	out.Write(d.src[cursor:])
	return out.Bytes()
}

func (n *Node) splice() (from, to int, replacement string) {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(n.newText))

	if !n.selfClosing {
		return n.innerStart, n.innerEnd, escaped.String()
	}
	name := n.Name
	if n.prefix != "" {
		name = n.prefix + ":" + name
	}
	// Turn "<x .../>" into "<x ...>text</x>".
	tagEnd := n.innerStart
	return tagEnd - 2, tagEnd, ">" + escaped.String() + "</" + name + ">"
}

func (d *Document) edits() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.edited {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if d.Root != nil {
		walk(d.Root)
	}
	return out
}
