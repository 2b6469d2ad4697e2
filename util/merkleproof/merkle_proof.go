// Package merkleproof commits an ordered list of hashes to a single root and
// produces an inclusion proof for every leaf.
//
// Lists whose length is not a power of two are padded by repeating the last
// leaf until they are. The padding is part of consensus and must stay bit exact.
package merkleproof

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/util"
	"github.com/earthbucks/ebxnode/util/hashing"
)

// PathStep is one level of an audit path.
//
// SiblingIsLeft keeps the flag exactly as the chain's proof data stores it:
// it is set when the proven node is the left child of the pair, so replaying
// the step hashes running||sibling. When it is clear the step hashes
// sibling||running.
type PathStep struct {
	Sibling       chainhash.Hash
	SiblingIsLeft bool
}

// MerkleProof proves that a leaf is committed to by Root. Path is ordered
// from the leaf level up to the level just below the root.
type MerkleProof struct {
	Root chainhash.Hash
	Path []PathStep
}

// Verify replays the path from leaf and compares the result with the root.
func (p *MerkleProof) Verify(leaf chainhash.Hash) bool {
	return p.ComputeRoot(leaf) == p.Root
}

// ComputeRoot replays the path from leaf.
func (p *MerkleProof) ComputeRoot(leaf chainhash.Hash) chainhash.Hash {
	running := leaf

	for _, step := range p.Path {
		if step.SiblingIsLeft {
			running = hashing.DoubleHashConcat(&running, &step.Sibling)
		} else {
			running = hashing.DoubleHashConcat(&step.Sibling, &running)
		}
	}

	return running
}

// VerifyProof accepts the proof if its stored root already equals root, and
// otherwise replays the path from leaf against root.
func VerifyProof(leaf chainhash.Hash, proof *MerkleProof, root chainhash.Hash) bool {
	if proof == nil {
		return false
	}

	if proof.Root == root {
		return true
	}

	return proof.ComputeRoot(leaf) == root
}

// padded returns the leaves extended to a power of two by repeating the last one.
func padded(leaves []chainhash.Hash) []chainhash.Hash {
	if util.IsPowerOfTwo(len(leaves)) {
		return leaves
	}

	level := make([]chainhash.Hash, util.NextPowerOfTwo(len(leaves)))
	copy(level, leaves)

	last := leaves[len(leaves)-1]
	for i := len(leaves); i < len(level); i++ {
		level[i] = last
	}

	return level
}

// levels builds every tree level bottom up. levels[0] is the padded leaf
// level and the last level holds only the root.
func levels(leaves []chainhash.Hash) [][]chainhash.Hash {
	level := padded(leaves)
	out := [][]chainhash.Hash{level}

	for len(level) > 1 {
		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			next[i] = hashing.DoubleHashConcat(&level[2*i], &level[2*i+1])
		}

		out = append(out, next)
		level = next
	}

	return out
}

// Root computes only the merkle root of leaves.
func Root(leaves []chainhash.Hash) (chainhash.Hash, error) {
	if len(leaves) == 0 {
		return chainhash.Hash{}, errors.NewInvalidArgumentError("cannot build a merkle tree from no leaves")
	}

	if len(leaves) == 1 {
		return leaves[0], nil
	}

	tree := levels(leaves)

	return tree[len(tree)-1][0], nil
}

// GenerateProofsAndRoot returns the root of leaves and one proof per leaf, in
// leaf order.
func GenerateProofsAndRoot(leaves []chainhash.Hash) (chainhash.Hash, []*MerkleProof, error) {
	if len(leaves) == 0 {
		return chainhash.Hash{}, nil, errors.NewInvalidArgumentError("cannot build a merkle tree from no leaves")
	}

	if len(leaves) == 1 {
		return leaves[0], []*MerkleProof{{Root: leaves[0], Path: []PathStep{}}}, nil
	}

	tree := levels(leaves)
	root := tree[len(tree)-1][0]
	depth := len(tree) - 1

	proofs := make([]*MerkleProof, len(leaves))

	for leaf := range leaves {
		path := make([]PathStep, depth)
		index := leaf

		for d := 0; d < depth; d++ {
			path[d] = PathStep{
				Sibling:       tree[d][index^1],
				SiblingIsLeft: index&1 == 0,
			}
			index >>= 1
		}

		proofs[leaf] = &MerkleProof{Root: root, Path: path}
	}

	return root, proofs, nil
}

// Bytes encodes root | VarInt(len(path)) | (sibling | flag u8)*.
func (p *MerkleProof) Bytes() []byte {
	b := make([]byte, 0, chainhash.HashSize+9+len(p.Path)*(chainhash.HashSize+1))
	b = append(b, p.Root[:]...)
	b = util.AppendVarint(b, uint64(len(p.Path)))

	for _, step := range p.Path {
		b = append(b, step.Sibling[:]...)

		if step.SiblingIsLeft {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	}

	return b
}

func NewMerkleProofFromBytes(b []byte) (*MerkleProof, error) {
	r := util.NewReader(b)

	rootBytes, err := r.ReadBytes(chainhash.HashSize)
	if err != nil {
		return nil, err
	}

	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}

	if n != uint64(r.Remaining())/(chainhash.HashSize+1) || uint64(r.Remaining())%(chainhash.HashSize+1) != 0 {
		return nil, errors.NewInvalidArgumentError("proof claims %d steps with %d bytes left", n, r.Remaining())
	}

	p := &MerkleProof{Root: chainhash.Hash(rootBytes), Path: make([]PathStep, n)}

	for i := range p.Path {
		sibling, err := r.ReadBytes(chainhash.HashSize)
		if err != nil {
			return nil, err
		}

		flag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		if flag > 1 {
			return nil, errors.NewInvalidArgumentError("invalid side flag %d at step %d", flag, i)
		}

		p.Path[i] = PathStep{Sibling: chainhash.Hash(sibling), SiblingIsLeft: flag == 1}
	}

	return p, nil
}
