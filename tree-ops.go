package treevec

import (
	"fmt"
	"math/rand"
)

///
/// Sampling
///

// SampleRandom draws a uniform random vector of length n-1: entry i uniform
// on [0, Boundary(i)].  Because the codec is a bijection, this is a uniform
// draw over all labeled rooted binary topologies with n leaves.  The caller
// supplies the RNG, so sampling is reproducible and parallel workers can use
// independent streams.
func SampleRandom(n int, rng *rand.Rand) (Vector, error) {
	if n < 1 {
		return nil, InvalidOperationError{"sample", fmt.Sprintf("tree size %d, need at least one leaf", n)}
	}

	v := make(Vector, n-1)
	for i := range v {
		v[i] = rng.Intn(Boundary(i) + 1)
	}
	return v, nil
}

// SampleOrdered draws each entry uniformly on [0, i] instead of the full
// range, which restricts the draw to ordered trees (every leaf attached to a
// pendant edge of a smaller leaf).
func SampleOrdered(n int, rng *rand.Rand) (Vector, error) {
	if n < 1 {
		return nil, InvalidOperationError{"sample", fmt.Sprintf("tree size %d, need at least one leaf", n)}
	}

	v := make(Vector, n-1)
	for i := range v {
		v[i] = rng.Intn(i + 1)
	}
	return v, nil
}

///
/// Incremental edits in vector space
///

// AddLeaf appends the insertion of leaf n at the given slot, growing an
// n-leaf vector to n+1 leaves without decoding.  The slot is checked against
// Boundary(len(v)).
func AddLeaf(v Vector, slot int) (Vector, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if b := Boundary(len(v)); slot < 0 || slot > b {
		return nil, InvalidOperationError{"add", fmt.Sprintf("slot %d outside [0, %d]", slot, b)}
	}

	out := make(Vector, len(v)+1)
	copy(out, v)
	out[len(v)] = slot
	return out, nil
}

// AddLeafAt inserts a new leaf under an arbitrary label: existing leaves
// labeled label or higher shift up by one, and the new leaf is attached at
// the given slot of the grown tree.  label == n reduces to AddLeaf.
func AddLeafAt(v Vector, label, slot int) (Vector, error) {
	n := len(v) + 1
	if label < 0 || label > n {
		return nil, InvalidOperationError{"add", fmt.Sprintf("leaf %d not in 0..%d", label, n)}
	}

	grown, err := AddLeaf(v, slot)
	if err != nil {
		return nil, err
	}
	if label == n {
		return grown, nil
	}

	t, err := Decode(grown)
	if err != nil {
		return nil, err
	}
	for i := range t.nodes {
		nd := &t.nodes[i]
		if !nd.isLeaf() {
			continue
		}
		switch {
		case nd.Label == n:
			nd.Label = label
		case nd.Label >= label:
			nd.Label++
		}
	}
	return Encode(t)
}

// RemoveLeaf removes one leaf from the encoded tree.  Dropping the most
// recently added leaf (label n-1) is a truncation; any other label couples
// slot indices and labels through the canonical ordering, so the tree is
// decoded, the leaf removed structurally, the remaining leaves relabeled
// into 0..n-2, and the result re-encoded.
func RemoveLeaf(v Vector, label int) (Vector, error) {
	n := len(v) + 1
	if label < 0 || label >= n {
		return nil, InvalidOperationError{"remove", fmt.Sprintf("leaf %d not in 0..%d", label, n-1)}
	}
	if n == 1 {
		return nil, InvalidOperationError{"remove", "cannot remove the last leaf"}
	}

	if label == n-1 {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		return dupVector(v[:len(v)-1]), nil
	}

	t, err := Decode(v)
	if err != nil {
		return nil, err
	}
	reduced, err := t.RemoveLeaf(label)
	if err != nil {
		return nil, err
	}
	relabeled, _, err := reduced.Canonicalize()
	if err != nil {
		return nil, err
	}
	return Encode(relabeled)
}

///
/// Ancestry queries
///

// MRCA describes the most recent common ancestor of two leaves: its arena
// index, its canonical internal label (n+r for decoded trees, -1 when the
// tree was built another way), and the number of edges from each leaf up to
// it.
type MRCA struct {
	Node   NodeIndex
	Label  int
	DepthA int
	DepthB int
}

// MRCA walks parent links from the two labeled leaves to their lowest
// common ancestor.
func (t *Tree) MRCA(a, b int) (MRCA, error) {
	xa, ok := t.Leaf(a)
	if !ok {
		return MRCA{}, UnknownLeafError{a}
	}
	xb, ok := t.Leaf(b)
	if !ok {
		return MRCA{}, UnknownLeafError{b}
	}

	above := map[NodeIndex]int{}
	for x, d := xa, 0; ; d++ {
		above[x] = d
		p, ok := t.Parent(x)
		if !ok {
			break
		}
		x = p
	}
	for x, d := xb, 0; ; d++ {
		if da, hit := above[x]; hit {
			return MRCA{Node: x, Label: t.Label(x), DepthA: da, DepthB: d}, nil
		}
		p, ok := t.Parent(x)
		if !ok {
			break
		}
		x = p
	}
	return MRCA{}, StructuralError{"leaves do not share a root"}
}

// Ancestry decodes v and reports the MRCA descriptor for two leaf labels.
func Ancestry(v Vector, a, b int) (MRCA, error) {
	t, err := Decode(v)
	if err != nil {
		return MRCA{}, err
	}
	return t.MRCA(a, b)
}

///
/// Distance matrices
///

type DistanceMetric uint8

const (
	// MetricRooted counts edges along the path through the rooted tree.
	MetricRooted DistanceMetric = iota

	// MetricUnrooted treats the root as a degree-2 point whose two edges
	// are one: paths whose MRCA is the root count one edge fewer.
	MetricUnrooted
)

// PairwiseDistances decodes v and returns the n-by-n matrix of topological
// leaf-to-leaf path lengths under the chosen metric, indexed by leaf label.
func PairwiseDistances(v Vector, metric DistanceMetric) ([][]int, error) {
	if metric != MetricRooted && metric != MetricUnrooted {
		return nil, InvalidOperationError{"distance", fmt.Sprintf("unknown metric %d", metric)}
	}

	t, err := Decode(v)
	if err != nil {
		return nil, err
	}

	n := t.NumLeaves()
	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
	}

	order, depth, below := t.leafSets()
	for _, u := range order {
		if t.nodes[u].isLeaf() {
			continue
		}
		rootHop := 0
		if metric == MetricUnrooted && u == t.root {
			rootHop = 1
		}
		for _, a := range below[t.nodes[u].Left] {
			for _, b := range below[t.nodes[u].Right] {
				d := depth[a.node] + depth[b.node] - 2*depth[u] - rootHop
				dist[a.label][b.label] = d
				dist[b.label][a.label] = d
			}
		}
	}
	return dist, nil
}

// CopheneticDistances returns the branch-length-weighted leaf distance
// matrix for a valid tree whose edges all carry lengths, as parsed from
// annotated Newick.
func (t *Tree) CopheneticDistances() ([][]float64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	wdepth := make([]float64, len(t.nodes))
	order, _, below := t.leafSets()
	for _, x := range order {
		p, ok := t.Parent(x)
		if !ok {
			continue
		}
		l, hasLen := t.BranchLength(x)
		if !hasLen {
			return nil, InvalidOperationError{"distance", fmt.Sprintf("edge above node %d has no branch length", x)}
		}
		wdepth[x] = wdepth[p] + l
	}

	n := t.NumLeaves()
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for _, u := range order {
		if t.nodes[u].isLeaf() {
			continue
		}
		for _, a := range below[t.nodes[u].Left] {
			for _, b := range below[t.nodes[u].Right] {
				d := wdepth[a.node] + wdepth[b.node] - 2*wdepth[u]
				dist[a.label][b.label] = d
				dist[b.label][a.label] = d
			}
		}
	}
	return dist, nil
}

type leafRef struct {
	node  NodeIndex
	label int
}

// leafSets returns a preorder walk (parents before children), per-node edge
// depths, and the set of leaves below every node.
func (t *Tree) leafSets() (order []NodeIndex, depth []int, below [][]leafRef) {
	order = make([]NodeIndex, 0, 2*t.leaves-1)
	stack := []NodeIndex{t.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, x)
		if !t.nodes[x].isLeaf() {
			stack = append(stack, t.nodes[x].Left, t.nodes[x].Right)
		}
	}

	depth = make([]int, len(t.nodes))
	for _, x := range order {
		if !t.nodes[x].isLeaf() {
			depth[t.nodes[x].Left] = depth[x] + 1
			depth[t.nodes[x].Right] = depth[x] + 1
		}
	}

	below = make([][]leafRef, len(t.nodes))
	for i := len(order) - 1; i >= 0; i-- {
		x := order[i]
		if t.nodes[x].isLeaf() {
			below[x] = []leafRef{{x, t.nodes[x].Label}}
			continue
		}
		below[x] = append(below[x], below[t.nodes[x].Left]...)
		below[x] = append(below[x], below[t.nodes[x].Right]...)
	}
	return order, depth, below
}
