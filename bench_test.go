package treevec

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var benchSizes = []int{10, 100, 1000, 10000}

func BenchmarkDecode(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			v, err := SampleRandom(n, rng)
			require.NoError(b, err)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, err := Decode(v)
				require.NoError(b, err)
			}
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			v, err := SampleRandom(n, rng)
			require.NoError(b, err)
			tree, err := Decode(v)
			require.NoError(b, err)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, err := Encode(tree)
				require.NoError(b, err)
			}
		})
	}
}

func BenchmarkSampleRoundTrip(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				v, err := SampleRandom(n, rng)
				require.NoError(b, err)
				tree, err := Decode(v)
				require.NoError(b, err)
				_, err = Encode(tree)
				require.NoError(b, err)
			}
		})
	}
}

func BenchmarkNewick(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			v, err := SampleRandom(n, rng)
			require.NoError(b, err)
			tree, err := Decode(v)
			require.NoError(b, err)
			text := tree.Newick()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, err := ParseNewick(text)
				require.NoError(b, err)
			}
		})
	}
}
