package treevec

// A pair records one canonical merge: the smallest leaf label below the
// merged node and the defining leaf whose insertion created it.  The full
// pairs sequence, in canonical merge order, determines the tree.
type pair struct {
	rep int
	def int
}

// A pairList is an order-statistic AVL tree over pairs: a self-balancing
// sequence supporting insertion at an arbitrary position and positional
// lookup in O(log n).  The decoder uses it to maintain the canonical merge
// order incrementally instead of re-deriving it at every insertion step.
type pairList struct {
	root *avlNode
}

type avlNode struct {
	value  pair
	height int
	size   int
	left   *avlNode
	right  *avlNode
}

func nodeHeight(n *avlNode) int {
	if n == nil {
		return 0
	}
	return n.height
}

func nodeSize(n *avlNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func (n *avlNode) update() {
	h := nodeHeight(n.left)
	if r := nodeHeight(n.right); r > h {
		h = r
	}
	n.height = 1 + h
	n.size = 1 + nodeSize(n.left) + nodeSize(n.right)
}

func rotateRight(y *avlNode) *avlNode {
	x := y.left
	y.left = x.right
	x.right = y
	y.update()
	x.update()
	return x
}

func rotateLeft(x *avlNode) *avlNode {
	y := x.right
	x.right = y.left
	y.left = x
	x.update()
	y.update()
	return y
}

func balanceFactor(n *avlNode) int {
	return nodeHeight(n.left) - nodeHeight(n.right)
}

func rebalance(n *avlNode) *avlNode {
	n.update()
	bf := balanceFactor(n)
	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// Len returns the number of pairs in the sequence.
func (l *pairList) Len() int {
	return nodeSize(l.root)
}

// Insert places value at the given position, shifting later pairs right.
// The position must be in [0, Len()].
func (l *pairList) Insert(index int, value pair) {
	l.root = insertAt(l.root, index, value)
}

func insertAt(n *avlNode, index int, value pair) *avlNode {
	if n == nil {
		return &avlNode{value: value, height: 1, size: 1}
	}

	if left := nodeSize(n.left); index <= left {
		n.left = insertAt(n.left, index, value)
	} else {
		n.right = insertAt(n.right, index-left-1, value)
	}
	return rebalance(n)
}

// At returns the pair at the given position, which must be in [0, Len()).
func (l *pairList) At(index int) pair {
	n := l.root
	for {
		left := nodeSize(n.left)
		switch {
		case index < left:
			n = n.left
		case index > left:
			index -= left + 1
			n = n.right
		default:
			return n.value
		}
	}
}

// Pairs returns the sequence as a slice, in order.
func (l *pairList) Pairs() []pair {
	out := make([]pair, 0, nodeSize(l.root))
	var stack []*avlNode
	n := l.root
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n.value)
		n = n.right
	}
	return out
}
