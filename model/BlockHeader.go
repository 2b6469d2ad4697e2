package model

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/util/hashing"
)

// BlockHeaderSize is the fixed encoded size of a header.
const BlockHeaderSize = 4 + 32 + 32 + 8 + 4 + 32 + 32

type BlockHeader struct {
	// Version of the block header format.
	Version uint32

	// Id of the previous block header in the chain.
	PrevBlockID chainhash.Hash

	// Merkle root over the ids of every transaction in the block.
	MerkleRoot chainhash.Hash

	// Time the block was created in unix seconds.
	Timestamp uint64

	// Height of the block.
	BlockNum uint32

	// Proof of work target, owned by the header chain.
	Target chainhash.Hash

	// Nonce used to meet the target.
	Nonce chainhash.Hash
}

func NewBlockHeaderFromBytes(headerBytes []byte) (*BlockHeader, error) {
	if len(headerBytes) != BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block header should be %d bytes long, got %d", BlockHeaderSize, len(headerBytes))
	}

	return &BlockHeader{
		Version:     binary.BigEndian.Uint32(headerBytes[:4]),
		PrevBlockID: chainhash.Hash(headerBytes[4:36]),
		MerkleRoot:  chainhash.Hash(headerBytes[36:68]),
		Timestamp:   binary.BigEndian.Uint64(headerBytes[68:76]),
		BlockNum:    binary.BigEndian.Uint32(headerBytes[76:80]),
		Target:      chainhash.Hash(headerBytes[80:112]),
		Nonce:       chainhash.Hash(headerBytes[112:]),
	}, nil
}

func NewBlockHeaderFromString(headerHex string) (*BlockHeader, error) {
	headerBytes, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding hex string to bytes", err)
	}

	return NewBlockHeaderFromBytes(headerBytes)
}

func (bh *BlockHeader) Bytes() []byte {
	b := make([]byte, 0, BlockHeaderSize)
	b = binary.BigEndian.AppendUint32(b, bh.Version)
	b = append(b, bh.PrevBlockID[:]...)
	b = append(b, bh.MerkleRoot[:]...)
	b = binary.BigEndian.AppendUint64(b, bh.Timestamp)
	b = binary.BigEndian.AppendUint32(b, bh.BlockNum)
	b = append(b, bh.Target[:]...)

	return append(b, bh.Nonce[:]...)
}

// ID is the double hash of the encoded header.
func (bh *BlockHeader) ID() chainhash.Hash {
	return hashing.DoubleHash(bh.Bytes())
}

func (bh *BlockHeader) String() string {
	return hashing.Hex(bh.ID())
}
