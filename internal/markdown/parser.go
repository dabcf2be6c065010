package markdown

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

var (
	atxHeadingRE    = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	setextRE        = regexp.MustCompile(`^ {0,3}(=+|-+)[ \t]*$`)
	thematicBreakRE = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	fenceOpenRE     = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
	listItemRE      = regexp.MustCompile(`^ {0,3}(?:[-*+]|\d{1,9}[.)])(?:[ \t]|$)`)
	blockQuoteRE    = regexp.MustCompile(`^ {0,3}>`)
	htmlBlockRE     = regexp.MustCompile(`^ {0,3}<(?:[A-Za-z][A-Za-z0-9-]*|/[A-Za-z]|!--|!|\?)`)
	tableDelimRE    = regexp.MustCompile(`^ {0,3}\|?[ \t]*:?-+:?[ \t]*(?:\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse builds a document tree from markdown source. It never fails: any
// line that does not open a recognized block becomes part of a paragraph.
func Parse(src []byte) *Node {
	p := &parser{lines: splitLines(src)}
	doc := NewDocument()
	blanks := 0
	for p.pos < len(p.lines) {
		if isBlank(p.lines[p.pos]) {
			blanks++
			p.pos++
			continue
		}
		n := p.block()
		n.SetBlankBefore(blanks)
		doc.AppendChild(n)
		blanks = 0
	}
	return doc
}

// ParseString is a convenience wrapper around Parse.
func ParseString(src string) *Node {
	return Parse([]byte(src))
}

type parser struct {
	lines []string
	pos   int
}

// block consumes one block starting at a non-blank line.
func (p *parser) block() *Node {
	line := p.lines[p.pos]
	switch {
	case fenceOpenRE.MatchString(line):
		return p.fencedCode()
	case atxHeadingRE.MatchString(line):
		m := atxHeadingRE.FindStringSubmatch(line)
		p.pos++
		return &Node{Kind: KindHeading, Level: len(m[1]), Text: strings.TrimSpace(m[2]), Lines: []string{line}}
	case thematicBreakRE.MatchString(line):
		p.pos++
		return &Node{Kind: KindThematicBreak, Lines: []string{line}}
	case blockQuoteRE.MatchString(line):
		return p.untilBlank(KindBlockQuote)
	case listItemRE.MatchString(line):
		return p.list()
	case htmlBlockRE.MatchString(line):
		return p.untilBlank(KindHTMLBlock)
	case isIndentedCode(line):
		return p.indentedCode()
	case p.tableStartsHere():
		return p.untilBlank(KindTable)
	default:
		return p.paragraph()
	}
}

func (p *parser) fencedCode() *Node {
	start := p.pos
	marker := fenceOpenRE.FindStringSubmatch(p.lines[p.pos])[1]
	closing := regexp.MustCompile(`^ {0,3}` + regexp.QuoteMeta(marker[:1]) + `{` + strconv.Itoa(len(marker)) + `,}[ \t]*$`)

	p.pos++
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		if closing.MatchString(line) {
			break
		}
	}
	return &Node{Kind: KindCodeBlock, Lines: cloneLines(p.lines[start:p.pos])}
}

func (p *parser) indentedCode() *Node {
	start := p.pos
	end := p.pos
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isBlank(line) {
			p.pos++
			continue
		}
		if !isIndentedCode(line) {
			break
		}
		p.pos++
		end = p.pos
	}
	p.pos = end
	return &Node{Kind: KindCodeBlock, Lines: cloneLines(p.lines[start:end])}
}

func (p *parser) list() *Node {
	start := p.pos
	p.pos++
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if !isBlank(line) {
			if thematicBreakRE.MatchString(line) {
				break
			}
			if isContinuation(line) || listItemRE.MatchString(line) {
				p.pos++
				continue
			}
			if interruptsParagraph(line) {
				break
			}
			// Lazy continuation of the previous item's paragraph.
			p.pos++
			continue
		}

		next := p.nextNonBlank(p.pos)
		if next < 0 {
			break
		}
		nl := p.lines[next]
		if thematicBreakRE.MatchString(nl) || !(isContinuation(nl) || listItemRE.MatchString(nl)) {
			break
		}
		p.pos = next
	}
	return &Node{Kind: KindList, Lines: cloneLines(p.lines[start:p.pos])}
}

func (p *parser) paragraph() *Node {
	start := p.pos
	p.pos++
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isBlank(line) {
			break
		}
		if m := setextRE.FindStringSubmatch(line); m != nil {
			level := 2
			if m[1][0] == '=' {
				level = 1
			}
			text := joinTrimmed(p.lines[start:p.pos], " ")
			p.pos++
			return &Node{Kind: KindHeading, Level: level, Text: text, Lines: cloneLines(p.lines[start:p.pos])}
		}
		if interruptsParagraph(line) {
			break
		}
		p.pos++
	}
	lines := cloneLines(p.lines[start:p.pos])
	return &Node{Kind: KindParagraph, Text: joinTrimmed(lines, "\n"), Lines: lines}
}

func (p *parser) untilBlank(kind Kind) *Node {
	start := p.pos
	for p.pos < len(p.lines) && !isBlank(p.lines[p.pos]) {
		p.pos++
	}
	return &Node{Kind: kind, Lines: cloneLines(p.lines[start:p.pos])}
}

func (p *parser) tableStartsHere() bool {
	if p.pos+1 >= len(p.lines) {
		return false
	}
	header, delim := p.lines[p.pos], p.lines[p.pos+1]
	return strings.Contains(header, "|") &&
		strings.Contains(delim, "-") &&
		tableDelimRE.MatchString(delim)
}

func (p *parser) nextNonBlank(from int) int {
	for i := from; i < len(p.lines); i++ {
		if !isBlank(p.lines[i]) {
			return i
		}
	}
	return -1
}

func interruptsParagraph(line string) bool {
	return atxHeadingRE.MatchString(line) ||
		fenceOpenRE.MatchString(line) ||
		blockQuoteRE.MatchString(line) ||
		thematicBreakRE.MatchString(line) ||
		htmlBlockRE.MatchString(line) ||
		listItemRE.MatchString(line)
}

// splitLines normalizes line endings and drops a UTF-8 BOM.
func splitLines(src []byte) []string {
	src = bytes.TrimPrefix(src, utf8BOM)
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}

func joinTrimmed(lines []string, sep string) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strings.TrimSpace(l)
	}
	return strings.Join(parts, sep)
}

func cloneLines(lines []string) []string {
	return append([]string(nil), lines...)
}
