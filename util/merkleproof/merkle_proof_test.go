package merkleproof

import (
	"fmt"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/util/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafHashes(n int) []chainhash.Hash {
	leaves := make([]chainhash.Hash, n)
	for i := range leaves {
		leaves[i] = hashing.DoubleHash([]byte(fmt.Sprintf("leaf %d", i)))
	}

	return leaves
}

func TestGenerateProofsAndRootEmpty(t *testing.T) {
	_, _, err := GenerateProofsAndRoot(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = Root([]chainhash.Hash{})
	require.Error(t, err)
}

func TestSingleLeaf(t *testing.T) {
	leaves := leafHashes(1)

	root, proofs, err := GenerateProofsAndRoot(leaves)
	require.NoError(t, err)
	assert.Equal(t, leaves[0], root)
	require.Len(t, proofs, 1)
	assert.Empty(t, proofs[0].Path)
	assert.True(t, proofs[0].Verify(leaves[0]))
}

func TestTwoLeaves(t *testing.T) {
	leaves := leafHashes(2)

	root, proofs, err := GenerateProofsAndRoot(leaves)
	require.NoError(t, err)
	assert.Equal(t, hashing.DoubleHashConcat(&leaves[0], &leaves[1]), root)

	require.Len(t, proofs, 2)
	assert.Equal(t, []PathStep{{Sibling: leaves[1], SiblingIsLeft: true}}, proofs[0].Path)
	assert.Equal(t, []PathStep{{Sibling: leaves[0], SiblingIsLeft: false}}, proofs[1].Path)

	for i, p := range proofs {
		assert.True(t, p.Verify(leaves[i]), "leaf %d", i)
	}
}

func TestPaddingMatchesDuplicatedLeaves(t *testing.T) {
	leaves := leafHashes(3)

	l01 := hashing.DoubleHashConcat(&leaves[0], &leaves[1])
	l22 := hashing.DoubleHashConcat(&leaves[2], &leaves[2])
	expected := hashing.DoubleHashConcat(&l01, &l22)

	root, err := Root(leaves)
	require.NoError(t, err)
	assert.Equal(t, expected, root)

	four := append(leafHashes(3), leaves[2])
	paddedRoot, err := Root(four)
	require.NoError(t, err)
	assert.Equal(t, root, paddedRoot)
}

func TestEveryProofVerifies(t *testing.T) {
	for n := 1; n <= 17; n++ {
		t.Run(fmt.Sprintf("%d leaves", n), func(t *testing.T) {
			leaves := leafHashes(n)

			root, proofs, err := GenerateProofsAndRoot(leaves)
			require.NoError(t, err)
			require.Len(t, proofs, n)

			rootOnly, err := Root(leaves)
			require.NoError(t, err)
			assert.Equal(t, root, rootOnly)

			for i, p := range proofs {
				assert.Equal(t, root, p.Root)
				assert.True(t, p.Verify(leaves[i]), "leaf %d", i)
				assert.True(t, VerifyProof(leaves[i], p, root))
			}

			// changing any leaf changes the root
			for i := range leaves {
				changed := leafHashes(n)
				changed[i] = hashing.Hash([]byte("other"))

				changedRoot, err := Root(changed)
				require.NoError(t, err)
				assert.NotEqual(t, root, changedRoot, "leaf %d", i)
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	leaves := leafHashes(7)

	root1, proofs1, err := GenerateProofsAndRoot(leaves)
	require.NoError(t, err)

	root2, proofs2, err := GenerateProofsAndRoot(leaves)
	require.NoError(t, err)

	assert.Equal(t, root1, root2)
	assert.Equal(t, proofs1, proofs2)
}

func TestFourLeavesEndToEnd(t *testing.T) {
	var leaves []chainhash.Hash
	for _, s := range []string{"H1", "H2", "H3", "H4"} {
		leaves = append(leaves, hashing.DoubleHash([]byte(s)))
	}

	root, proofs, err := GenerateProofsAndRoot(leaves)
	require.NoError(t, err)

	for i, p := range proofs {
		require.Len(t, p.Path, 2)
		assert.Equal(t, root, p.ComputeRoot(leaves[i]))
	}

	altered := append([]chainhash.Hash{}, leaves...)
	altered[2] = hashing.DoubleHash([]byte("H3 altered"))

	newRoot, err := Root(altered)
	require.NoError(t, err)
	require.NotEqual(t, root, newRoot)

	// the old proof for H1 carries the old sibling of H3 and no longer reaches the new root
	assert.False(t, VerifyProof(leaves[0], proofs[0], newRoot))

	// a wrong leaf never verifies by replay
	assert.False(t, proofs[0].Verify(leaves[1]))
	assert.False(t, VerifyProof(leaves[1], proofs[0], newRoot))

	// matching stored root short-circuits
	assert.True(t, VerifyProof(leaves[1], proofs[0], root))
	assert.False(t, VerifyProof(leaves[0], nil, root))
}

func TestProofEncoding(t *testing.T) {
	leaves := leafHashes(5)

	_, proofs, err := GenerateProofsAndRoot(leaves)
	require.NoError(t, err)

	b := proofs[3].Bytes()
	assert.Len(t, b, 32+1+3*33)

	decoded, err := NewMerkleProofFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, proofs[3], decoded)
	assert.True(t, decoded.Verify(leaves[3]))

	_, err = NewMerkleProofFromBytes(b[:len(b)-1])
	require.Error(t, err)

	bad := append([]byte{}, b...)
	bad[len(bad)-1] = 2
	_, err = NewMerkleProofFromBytes(bad)
	require.Error(t, err)
}
