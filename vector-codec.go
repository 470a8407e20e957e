package treevec

import (
	"strconv"
	"strings"
)

// A Vector is the fixed-length integer serialization of a labeled rooted
// binary tree: n-1 entries for an n-leaf tree, entry i (0-based) recording
// which canonical slot leaf i+1 was attached to, so entry i lies in
// [0, Boundary(i)].  Encode and Decode are exact inverses over the canonical
// labeling: Encode(Decode(v)) == v for every valid v, and Decode(Encode(T))
// is structurally identical to T for every valid T.
//
// The empty vector is the one-leaf tree; [0,0] is the minimal three-leaf
// tree ((0,2)3,1).
type Vector []int

// Boundary returns the largest valid value of entry i: 2i, the number of
// slots in an (i+1)-leaf tree minus one.  Strictly increasing in i.
func Boundary(i int) int {
	return 2 * i
}

// Validate performs the cheap range pre-check without decoding, reporting
// the first out-of-range entry.
func (v Vector) Validate() error {
	for i, e := range v {
		if b := Boundary(i); e < 0 || e > b {
			return InvalidEncodingError{Index: i, Value: e, Boundary: b}
		}
	}
	return nil
}

// Decode replays the insertion history recorded in v from the trivial
// one-leaf tree: at step i, leaf i+1 is attached at slot v[i] of the partial
// tree's canonical slot sequence.  The replay works on the merge pairs
// directly: a pendant slot prepends the new pair, an internal slot inserts
// the new pair right after the merge the slot points at, so each step is one
// O(log n) positional insert into the pair list.  The finished pairs then
// build the canonically numbered arena in a single pass, internal node of
// canonical row r at index n+r.  An out-of-range entry fails with
// InvalidEncodingError and no tree is built.
func Decode(v Vector) (*Tree, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return NewLeafTree(), nil
	}

	var pl pairList
	pl.Insert(0, pair{0, 1})
	for i := 1; i < len(v); i++ {
		if s := v[i]; s <= i {
			pl.Insert(0, pair{s, i + 1})
		} else {
			// Slot s points at the merge of row 2i-s; the new merge
			// joins that row's clade and is processed right after it.
			q := 2*i - s
			pl.Insert(q+1, pair{pl.At(q).rep, i + 1})
		}
	}
	return treeFromPairs(pl.Pairs()), nil
}

// treeFromPairs builds the arena for a canonical pairs sequence: leaf l at
// index l, the internal node of row r at n+r carrying n+r as its label, the
// root at 2n-2.
func treeFromPairs(pairs []pair) *Tree {
	n := len(pairs) + 1
	t := &Tree{
		nodes:  make([]node, 2*n-1),
		root:   NodeIndex(2*n - 2),
		leaves: n,
	}

	// top[l] is the root of the subtree currently containing leaf l, for
	// leaves that are their clade's representative.
	top := make([]NodeIndex, n)
	for l := 0; l < n; l++ {
		t.nodes[l] = node{Parent: nilIndex, Left: nilIndex, Right: nilIndex, Label: l}
		top[l] = NodeIndex(l)
	}
	for r, p := range pairs {
		x := NodeIndex(n + r)
		lc, rc := top[p.rep], top[p.def]
		t.nodes[x] = node{Parent: nilIndex, Left: lc, Right: rc, Label: n + r}
		t.nodes[lc].Parent = x
		t.nodes[rc].Parent = x
		top[p.rep] = x
	}
	return t
}

// Encode derives the vector of a valid tree by inverting the replay.  The
// canonical merge order is computed once; the merge defined by leaf j then
// sits at some position among the merges of leaves smaller than j, and that
// position recovers v[j-1]: position zero means leaf j was attached to the
// pendant slot of the merge's representative, any later position p mirrors
// back to internal slot 2(j-1)-p+1.  Positions are ranked with a Fenwick
// tree, visiting defining leaves in increasing order.  The input tree is not
// modified.  Trees that fail Validate (including non-canonical leaf labels;
// see Canonicalize) are rejected with StructuralError.
func Encode(t *Tree) (Vector, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	n := t.NumLeaves()
	v := make(Vector, n-1)
	if n == 1 {
		return v, nil
	}

	at := make([]int, n)
	rep := make([]int, n)
	for pos, m := range canonicalMerges(t) {
		at[m.def] = pos
		rep[m.def] = m.rep
	}

	ranks := newFenwick(n - 1)
	for j := 1; j < n; j++ {
		if p := ranks.prefix(at[j]); p == 0 {
			v[j-1] = rep[j]
		} else {
			v[j-1] = 2*(j-1) - p + 1
		}
		ranks.add(at[j])
	}
	return v, nil
}

// fenwick is a binary indexed tree counting marked positions, for the
// prefix ranks Encode needs.
type fenwick []int

func newFenwick(n int) fenwick {
	return make(fenwick, n+1)
}

// add marks position i.
func (f fenwick) add(i int) {
	for i++; i < len(f); i += i & -i {
		f[i]++
	}
}

// prefix counts the marked positions strictly before i.
func (f fenwick) prefix(i int) int {
	s := 0
	for ; i > 0; i -= i & -i {
		s += f[i]
	}
	return s
}

// String returns the canonical textual form: comma-separated integers, the
// empty string for the one-leaf tree.
func (v Vector) String() string {
	var b strings.Builder
	for i, e := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(e))
	}
	return b.String()
}

// ParseVector parses the comma-separated textual form.  Range checking is
// left to Validate.
func ParseVector(s string) (Vector, error) {
	if strings.TrimSpace(s) == "" {
		return Vector{}, nil
	}

	v := make(Vector, 0, strings.Count(s, ",")+1)
	pos := 0
	for _, part := range strings.Split(s, ",") {
		e, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, ParseError{Pos: pos, Msg: "expected an integer entry"}
		}
		v = append(v, e)
		pos += len(part) + 1
	}
	return v, nil
}
