// Package hashing provides the BLAKE3 based hash commitment used for
// transaction ids, block ids, merkle nodes and public key hashes.
package hashing

import (
	"encoding/hex"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"lukechampine.com/blake3"
)

// Size is the width in bytes of every hash.
const Size = chainhash.HashSize

// Hash returns BLAKE3-256(b).
func Hash(b []byte) chainhash.Hash {
	return chainhash.Hash(blake3.Sum256(b))
}

// DoubleHash returns BLAKE3-256(BLAKE3-256(b)).
func DoubleHash(b []byte) chainhash.Hash {
	first := blake3.Sum256(b)
	return chainhash.Hash(blake3.Sum256(first[:]))
}

// DoubleHashConcat hashes the concatenation a||b without extra allocations.
func DoubleHashConcat(a, b *chainhash.Hash) chainhash.Hash {
	var buf [2 * Size]byte

	copy(buf[:Size], a[:])
	copy(buf[Size:], b[:])

	return DoubleHash(buf[:])
}

// NewHash copies b into a Hash. A slice of the wrong width means corrupted
// data or a broken primitive, so it is reported as an invariant violation.
func NewHash(b []byte) (chainhash.Hash, error) {
	var h chainhash.Hash

	if len(b) != Size {
		return h, errors.NewInvariantViolationError("hash must be %d bytes, got %d", Size, len(b))
	}

	copy(h[:], b)

	return h, nil
}

// Hex renders h in natural byte order. chainhash.Hash.String reverses bytes,
// which is not how ids are displayed on this chain.
func Hex(h chainhash.Hash) string {
	return hex.EncodeToString(h[:])
}

// NewHashFromHex is the inverse of Hex.
func NewHashFromHex(s string) (chainhash.Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return chainhash.Hash{}, errors.NewInvalidArgumentError("invalid hash hex %q", s, err)
	}

	if len(b) != Size {
		return chainhash.Hash{}, errors.NewInvalidArgumentError("hash must be %d bytes, got %d", Size, len(b))
	}

	return chainhash.Hash(b), nil
}
