package model

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/script"
)

// Helpers for building well formed blocks in tests of this and dependent packages.

// NewTestCoinbaseTx builds a coinbase paying amount to pkh at height, with
// domain as the final push of its input script.
func NewTestCoinbaseTx(height uint32, amount uint64, domain string, pkh chainhash.Hash) *Tx {
	inputScript := script.New(
		script.NewDataChunk([]byte{0x01, 0x02}),
		script.NewDataChunk([]byte(domain)),
	)

	return NewTx(
		TxVersion,
		[]*TxInput{NewCoinbaseTxInput(inputScript)},
		[]*TxOutput{NewTxOutput(amount, script.NewPkhOutput(pkh))},
		height,
	)
}

// NewTestBlock wraps txs in a header at height whose merkle root commits to them.
func NewTestBlock(height uint32, timestamp uint64, prev chainhash.Hash, txs ...*Tx) (*Block, error) {
	root, err := MerkleRootFromTxs(txs)
	if err != nil {
		return nil, err
	}

	header := &BlockHeader{
		Version:     1,
		PrevBlockID: prev,
		MerkleRoot:  root,
		Timestamp:   timestamp,
		BlockNum:    height,
	}

	return NewBlock(header, txs), nil
}
