package treevec

import (
	"strconv"
	"strings"
)

// Newick interchange: the recursive parenthesized grammar
// (child,child)label:length terminated by ';'.  Leaf labels are unique
// non-negative integers; internal labels and branch lengths are optional and
// kept as auxiliary metadata.  Multifurcating or otherwise malformed input
// is rejected with a ParseError carrying the byte offset, never silently
// corrected.

// ParseNewick parses a strictly binary Newick string into a Tree.
func ParseNewick(s string) (*Tree, error) {
	p := newickParser{
		src:  s,
		tree: &Tree{root: nilIndex},
		seen: map[int]bool{},
	}

	root, err := p.subtree()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eat(';') {
		return nil, ParseError{p.pos, "expected ';'"}
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, ParseError{p.pos, "trailing input after ';'"}
	}

	p.tree.root = root
	return p.tree, nil
}

// Newick renders the tree in Newick form, including internal labels and
// branch lengths where present.
func (t *Tree) Newick() string {
	var b strings.Builder
	t.writeNewick(&b, t.root)
	b.WriteByte(';')
	return b.String()
}

func (t *Tree) writeNewick(b *strings.Builder, x NodeIndex) {
	n := t.nodes[x]
	if n.isLeaf() {
		b.WriteString(strconv.Itoa(n.Label))
	} else {
		b.WriteByte('(')
		t.writeNewick(b, n.Left)
		b.WriteByte(',')
		t.writeNewick(b, n.Right)
		b.WriteByte(')')
		if n.Label >= 0 {
			b.WriteString(strconv.Itoa(n.Label))
		}
	}
	if n.HasLength {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
	}
}

type newickParser struct {
	src  string
	pos  int
	tree *Tree
	seen map[int]bool
}

func (p *newickParser) subtree() (NodeIndex, error) {
	p.skipSpace()
	if !p.eat('(') {
		return p.leaf()
	}

	left, err := p.subtree()
	if err != nil {
		return nilIndex, err
	}
	p.skipSpace()
	if !p.eat(',') {
		return nilIndex, ParseError{p.pos, "expected ','"}
	}
	right, err := p.subtree()
	if err != nil {
		return nilIndex, err
	}
	p.skipSpace()
	if p.peek() == ',' {
		return nilIndex, ParseError{p.pos, "multifurcation is not supported"}
	}
	if !p.eat(')') {
		return nilIndex, ParseError{p.pos, "expected ')'"}
	}

	label := -1
	if isDigit(p.peek()) {
		label, err = p.integer()
		if err != nil {
			return nilIndex, err
		}
	}

	x := NodeIndex(len(p.tree.nodes))
	p.tree.nodes = append(p.tree.nodes, node{Parent: nilIndex, Left: left, Right: right, Label: label})
	p.tree.nodes[left].Parent = x
	p.tree.nodes[right].Parent = x
	return x, p.length(x)
}

func (p *newickParser) leaf() (NodeIndex, error) {
	p.skipSpace()
	if !isDigit(p.peek()) {
		return nilIndex, ParseError{p.pos, "expected a leaf label"}
	}
	at := p.pos
	label, err := p.integer()
	if err != nil {
		return nilIndex, err
	}
	if p.seen[label] {
		return nilIndex, ParseError{at, "duplicate leaf label " + strconv.Itoa(label)}
	}
	p.seen[label] = true

	x := NodeIndex(len(p.tree.nodes))
	p.tree.nodes = append(p.tree.nodes, node{Parent: nilIndex, Left: nilIndex, Right: nilIndex, Label: label})
	p.tree.leaves++
	return x, p.length(x)
}

// length parses an optional ":<branch length>" suffix onto node x.
func (p *newickParser) length(x NodeIndex) error {
	p.skipSpace()
	if !p.eat(':') {
		return nil
	}
	p.skipSpace()

	at := p.pos
	end := p.pos
	for end < len(p.src) && isFloatChar(p.src[end]) {
		end++
	}
	val, err := strconv.ParseFloat(p.src[at:end], 64)
	if err != nil {
		return ParseError{at, "bad branch length"}
	}
	p.pos = end
	p.tree.nodes[x].Length = val
	p.tree.nodes[x].HasLength = true
	return nil
}

func (p *newickParser) integer() (int, error) {
	at := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	val, err := strconv.Atoi(p.src[at:p.pos])
	if err != nil {
		return 0, ParseError{at, "bad label"}
	}
	return val, nil
}

func (p *newickParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *newickParser) eat(c byte) bool {
	if p.peek() != c {
		return false
	}
	p.pos++
	return true
}

func (p *newickParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isFloatChar(c byte) bool {
	return isDigit(c) || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E'
}
