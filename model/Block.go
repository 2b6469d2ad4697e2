package model

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/util"
	"github.com/earthbucks/ebxnode/util/hashing"
	"github.com/earthbucks/ebxnode/util/merkleproof"
)

type Block struct {
	Header *BlockHeader
	Txs    []*Tx
}

func NewBlock(header *BlockHeader, txs []*Tx) *Block {
	return &Block{Header: header, Txs: txs}
}

// NewBlockFromBytes decodes header | VarInt(n_tx) | txs and rejects trailing bytes.
func NewBlockFromBytes(blockBytes []byte) (*Block, error) {
	if len(blockBytes) < BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block should be at least %d bytes long, got %d", BlockHeaderSize, len(blockBytes))
	}

	header, err := NewBlockHeaderFromBytes(blockBytes[:BlockHeaderSize])
	if err != nil {
		return nil, err
	}

	r := util.NewReader(blockBytes[BlockHeaderSize:])

	txCount, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}

	// the smallest possible tx is 7 bytes
	if txCount > uint64(r.Remaining()/7) {
		return nil, errors.NewInvalidArgumentError("block claims %d txs with %d bytes left", txCount, r.Remaining())
	}

	block := &Block{Header: header, Txs: make([]*Tx, 0, txCount)}

	for i := uint64(0); i < txCount; i++ {
		tx, err := ReadTx(r)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("error reading tx %d", i, err)
		}

		block.Txs = append(block.Txs, tx)
	}

	if !r.EOF() {
		return nil, errors.NewInvalidArgumentError("%d trailing bytes after block", r.Remaining())
	}

	return block, nil
}

func (b *Block) Bytes() []byte {
	buf := b.Header.Bytes()
	buf = util.AppendVarint(buf, uint64(len(b.Txs)))

	for _, tx := range b.Txs {
		buf = tx.appendBytes(buf)
	}

	return buf
}

func (b *Block) Hash() chainhash.Hash {
	return b.Header.ID()
}

func (b *Block) String() string {
	return hashing.Hex(b.Hash())
}

// CoinbaseTx returns the first transaction, or nil for an empty block.
func (b *Block) CoinbaseTx() *Tx {
	if len(b.Txs) == 0 {
		return nil
	}

	return b.Txs[0]
}

// MerkleRootFromTxs commits to the ids of txs in order.
func MerkleRootFromTxs(txs []*Tx) (chainhash.Hash, error) {
	ids := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID()
	}

	return merkleproof.Root(ids)
}

// CheckMerkleRoot recomputes the merkle root over the block's transactions
// and compares it with the header.
func (b *Block) CheckMerkleRoot() error {
	if len(b.Txs) == 0 {
		return errors.NewBlockMerkleRootError("block has no transactions")
	}

	root, err := MerkleRootFromTxs(b.Txs)
	if err != nil {
		return err
	}

	if root != b.Header.MerkleRoot {
		return errors.NewBlockMerkleRootError("merkle root mismatch: header %s, computed %s", hashing.Hex(b.Header.MerkleRoot), hashing.Hex(root))
	}

	return nil
}
