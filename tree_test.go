package treevec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLeafTree(t *testing.T) {
	tree := NewLeafTree()
	require.Equal(t, 1, tree.NumLeaves())
	require.Equal(t, 1, tree.NumNodes())
	require.True(t, tree.IsLeaf(tree.Root()))
	require.Equal(t, 0, tree.Label(tree.Root()))
	require.NoError(t, tree.Validate())
	require.Equal(t, []int{0}, tree.Leaves())
}

func TestAttachIsImmutable(t *testing.T) {
	tree := NewLeafTree()
	root := tree.Root()

	grown, err := tree.Attach(Slot{root}, 1)
	require.NoError(t, err)
	require.NoError(t, grown.Validate())

	require.Equal(t, 1, tree.NumLeaves())
	require.Equal(t, 2, grown.NumLeaves())
	require.Equal(t, "0;", tree.Newick())
	require.Equal(t, "(0,1);", grown.Newick())

	l, r, ok := grown.Children(grown.Root())
	require.True(t, ok)
	require.Equal(t, 0, grown.Label(l))
	require.Equal(t, 1, grown.Label(r))

	p, ok := grown.Parent(l)
	require.True(t, ok)
	require.Equal(t, grown.Root(), p)
	_, ok = grown.Parent(grown.Root())
	require.False(t, ok)
}

func TestAttachErrors(t *testing.T) {
	tree, err := Decode(Vector{0})
	require.NoError(t, err)

	_, err = tree.Attach(Slot{NodeIndex(99)}, 2)
	require.IsType(t, InvalidOperationError{}, err)

	_, err = tree.Attach(Slot{tree.Root()}, 1)
	require.IsType(t, InvalidOperationError{}, err)
}

func TestRemoveLeafUndoesAttach(t *testing.T) {
	tree, err := Decode(Vector{0, 0, 1})
	require.NoError(t, err)

	for _, slot := range EnumerateSlots(tree) {
		grown, err := tree.Attach(slot, 4)
		require.NoError(t, err)

		back, err := grown.RemoveLeaf(4)
		require.NoError(t, err)

		v1, err := Encode(tree)
		require.NoError(t, err)
		v2, err := Encode(back)
		require.NoError(t, err)
		require.Equal(t, v1, v2)
	}
}

func TestRemoveLeafErrors(t *testing.T) {
	tree := NewLeafTree()
	_, err := tree.RemoveLeaf(0)
	require.IsType(t, InvalidOperationError{}, err)

	tree, err = Decode(Vector{0})
	require.NoError(t, err)
	_, err = tree.RemoveLeaf(5)
	require.IsType(t, InvalidOperationError{}, err)
}

func TestRemoveLeafMergesBranchLengths(t *testing.T) {
	tree, err := ParseNewick("((0:1.5,1:2)3:0.25,2:3);")
	require.NoError(t, err)

	pruned, err := tree.RemoveLeaf(1)
	require.NoError(t, err)
	require.Equal(t, "(0:1.75,2:3);", pruned.Newick())
}

func TestValidateDetectsBrokenTrees(t *testing.T) {
	base, err := Decode(Vector{0, 0})
	require.NoError(t, err)
	require.NoError(t, base.Validate())

	// Duplicate leaf label.
	broken := base.clone()
	broken.nodes[2].Label = 0
	require.IsType(t, StructuralError{}, broken.Validate())

	// Label outside 0..n-1.
	broken = base.clone()
	broken.nodes[1].Label = 9
	require.IsType(t, StructuralError{}, broken.Validate())

	// Detached second root.
	broken = base.clone()
	broken.nodes[3].Parent = nilIndex
	require.IsType(t, StructuralError{}, broken.Validate())

	// Inconsistent child link.
	broken = base.clone()
	broken.nodes[0].Parent = broken.root
	require.IsType(t, StructuralError{}, broken.Validate())

	// Child link back up into the root.
	broken = base.clone()
	broken.nodes[3].Left = broken.root
	require.IsType(t, StructuralError{}, broken.Validate())

	// Unreachable subtree: the root's right child replaced by the left.
	broken = base.clone()
	broken.nodes[4].Right = broken.nodes[4].Left
	require.IsType(t, StructuralError{}, broken.Validate())
}

func TestLeafLookup(t *testing.T) {
	tree, err := Decode(Vector{0, 1, 2})
	require.NoError(t, err)

	for l := 0; l < 4; l++ {
		x, ok := tree.Leaf(l)
		require.True(t, ok)
		require.Equal(t, l, tree.Label(x))
	}
	_, ok := tree.Leaf(4)
	require.False(t, ok)

	require.Equal(t, []int{0, 1, 2, 3}, tree.Leaves())
}
