package treevec

import (
	"container/heap"
)

// The codec's single degree of freedom is the order in which insertion slots
// are enumerated for a partially built tree.  The functions below define
// that order as a pure function of tree structure and leaf labels, so that
// independently invoked encode and decode paths can never disagree.
//
// Every internal node u has a representative rep(u), the smallest leaf label
// below it, and a defining leaf def(u), the larger of its two children's
// representatives.  Defining leaves are pairwise distinct and cover exactly
// {1, ..., n-1}.  The canonical merge order processes, repeatedly, the
// available internal node (both children leaves or already processed) with
// the largest defining leaf.  Decode numbers the internal node at canonical
// row r as n+r, which puts the root at 2n-2.

// A Slot is a structural attachment point for a new leaf: the edge above
// Node.  When Node is the root, attaching there creates a new root.
type Slot struct {
	Node NodeIndex
}

// EnumerateSlots returns the canonical slot order for a tree with j leaves
// labeled 0..j-1.  The sequence has 2j-1 entries: first the pendant edges of
// leaves 0..j-1 in label order, then the edges above internal nodes from the
// root down to the deepest canonical merge.  Attaching leaf j at slot s of
// this sequence is exactly the insertion step the codec replays for vector
// entry v[j-1] == s.
func EnumerateSlots(t *Tree) []Slot {
	n := t.leaves
	slots := make([]Slot, 0, 2*n-1)

	leafAt := make([]NodeIndex, n)
	for i := range t.nodes {
		if t.nodes[i].dead || !t.nodes[i].isLeaf() {
			continue
		}
		if l := t.nodes[i].Label; l >= 0 && l < n {
			leafAt[l] = NodeIndex(i)
		}
	}
	for l := 0; l < n; l++ {
		slots = append(slots, Slot{leafAt[l]})
	}

	merges := canonicalMerges(t)
	for r := len(merges) - 1; r >= 0; r-- {
		slots = append(slots, Slot{merges[r].node})
	}
	return slots
}

// Canonicalize returns a copy of the tree whose leaf labels are replaced by
// their rank in ascending label order, together with the old-to-new mapping.
// Topology and child order are unchanged.  Trees imported from Newick with
// sparse or shifted labels become codec-ready this way; isomorphic inputs
// map to the same canonical tree and hence the same vector.
func (t *Tree) Canonicalize() (*Tree, map[int]int, error) {
	labels := t.Leaves()
	for i := 1; i < len(labels); i++ {
		if labels[i] == labels[i-1] {
			return nil, nil, StructuralError{"duplicate leaf labels"}
		}
	}

	mapping := make(map[int]int, len(labels))
	for rank, l := range labels {
		mapping[l] = rank
	}

	next := t.clone()
	for i := range next.nodes {
		if !next.nodes[i].dead && next.nodes[i].isLeaf() {
			next.nodes[i].Label = mapping[next.nodes[i].Label]
		}
	}
	return next, mapping, nil
}

type mergeRow struct {
	node NodeIndex
	rep  int
	def  int
}

// canonicalMerges returns the internal nodes in canonical merge order.
func canonicalMerges(t *Tree) []mergeRow {
	if t.leaves < 2 {
		return nil
	}

	// Bottom-up sweep for rep and def: walk down collecting a preorder,
	// then fold it in reverse.
	order := make([]NodeIndex, 0, 2*t.leaves-1)
	stack := []NodeIndex{t.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, x)
		if !t.nodes[x].isLeaf() {
			stack = append(stack, t.nodes[x].Left, t.nodes[x].Right)
		}
	}

	rep := make([]int, len(t.nodes))
	def := make([]int, len(t.nodes))
	for i := len(order) - 1; i >= 0; i-- {
		x := order[i]
		n := t.nodes[x]
		if n.isLeaf() {
			rep[x] = n.Label
			continue
		}
		l, r := rep[n.Left], rep[n.Right]
		if l < r {
			rep[x], def[x] = l, r
		} else {
			rep[x], def[x] = r, l
		}
	}

	// Greedy replay: among internal nodes whose children are all settled,
	// always take the one with the largest defining leaf.
	pending := make([]int, len(t.nodes))
	h := &mergeHeap{}
	for _, x := range order {
		n := t.nodes[x]
		if n.isLeaf() {
			continue
		}
		if !t.nodes[n.Left].isLeaf() {
			pending[x]++
		}
		if !t.nodes[n.Right].isLeaf() {
			pending[x]++
		}
		if pending[x] == 0 {
			heap.Push(h, mergeRow{x, rep[x], def[x]})
		}
	}

	out := make([]mergeRow, 0, t.leaves-1)
	for h.Len() > 0 {
		m := heap.Pop(h).(mergeRow)
		out = append(out, m)
		if p := t.nodes[m.node].Parent; p != nilIndex {
			pending[p]--
			if pending[p] == 0 {
				heap.Push(h, mergeRow{p, rep[p], def[p]})
			}
		}
	}
	return out
}

type mergeHeap []mergeRow

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return h[i].def > h[j].def }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(mergeRow)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
