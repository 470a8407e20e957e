package treevec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumerateSlotsShape(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for _, n := range []int{1, 2, 3, 5, 8, 21, 64} {
		v, err := SampleRandom(n, rng)
		require.NoError(t, err)
		tree, err := Decode(v)
		require.NoError(t, err)

		slots := EnumerateSlots(tree)
		require.Len(t, slots, 2*n-1)

		// Pendant slots first, in label order.
		for l := 0; l < n; l++ {
			require.True(t, tree.IsLeaf(slots[l].Node))
			require.Equal(t, l, tree.Label(slots[l].Node))
		}

		// Internal slots from the root down.
		if n > 1 {
			require.Equal(t, tree.Root(), slots[n].Node)
			for s := n; s < 2*n-1; s++ {
				require.False(t, tree.IsLeaf(slots[s].Node))
			}
		}
	}
}

func TestEnumerateSlotsFixture(t *testing.T) {
	// ((0,2)3,1)4 in canonical numbering: pendant slots 0,1,2, then the
	// root, then the deeper cherry.
	tree, err := Decode(Vector{0, 0})
	require.NoError(t, err)

	slots := EnumerateSlots(tree)
	require.Equal(t, []Slot{{0}, {1}, {2}, {4}, {3}}, slots)
}

// Attaching at slot s of an encoded tree must be exactly the insertion that
// decode replays for a trailing vector entry s.
func TestAttachMatchesDecode(t *testing.T) {
	base := Vector{0, 0}
	tree, err := Decode(base)
	require.NoError(t, err)

	slots := EnumerateSlots(tree)
	for s := range slots {
		attached, err := tree.Attach(slots[s], 3)
		require.NoError(t, err)

		v, err := Encode(attached)
		require.NoError(t, err)
		require.Equal(t, Vector{0, 0, s}, v)
	}
}

func TestCanonicalizeSparseLabels(t *testing.T) {
	tree, err := ParseNewick("((10,2),(5,30));")
	require.NoError(t, err)

	canon, mapping, err := tree.Canonicalize()
	require.NoError(t, err)
	require.Equal(t, map[int]int{2: 0, 5: 1, 10: 2, 30: 3}, mapping)
	require.Equal(t, "((2,0),(1,3));", canon.Newick())
	require.NoError(t, canon.Validate())
}

func TestCanonicalizeIdentity(t *testing.T) {
	tree, err := Decode(Vector{0, 0, 1})
	require.NoError(t, err)

	canon, mapping, err := tree.Canonicalize()
	require.NoError(t, err)
	require.Equal(t, map[int]int{0: 0, 1: 1, 2: 2, 3: 3}, mapping)
	require.Equal(t, tree.Newick(), canon.Newick())
}

// Isomorphic inputs with the same leaf names map to the same vector no
// matter how the input was written.
func TestCanonicalFormIsStable(t *testing.T) {
	renditions := []string{
		"((10,2),(5,30));",
		"((2,10),(30,5));",
		"((30,5),(10,2));",
	}

	var want Vector
	for i, s := range renditions {
		tree, err := ParseNewick(s)
		require.NoError(t, err)
		canon, _, err := tree.Canonicalize()
		require.NoError(t, err)
		v, err := Encode(canon)
		require.NoError(t, err)

		if i == 0 {
			want = v
		} else {
			require.Equal(t, want, v)
		}
	}
}

func TestCanonicalizeRejectsDuplicates(t *testing.T) {
	tree, err := Decode(Vector{0})
	require.NoError(t, err)

	// Force two leaves onto the same label.
	broken := tree.clone()
	for i := range broken.nodes {
		if broken.nodes[i].isLeaf() {
			broken.nodes[i].Label = 7
		}
	}

	_, _, err = broken.Canonicalize()
	require.IsType(t, StructuralError{}, err)
}
