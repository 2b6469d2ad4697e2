// Package utxo defines the unspent output set consulted and mutated by
// transaction and block validation, together with a staging overlay that
// lets a block's effects be committed only once the whole block is valid.
package utxo

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/util/hashing"
)

// KeySize is the encoded size of a Key: tx id followed by a big-endian output index.
const KeySize = chainhash.HashSize + 4

// Key identifies one output of one transaction.
type Key struct {
	TxID  chainhash.Hash
	Index uint32
}

func NewKey(txID chainhash.Hash, index uint32) Key {
	return Key{TxID: txID, Index: index}
}

// KeyFromInput returns the key of the output an input consumes.
func KeyFromInput(in *model.TxInput) Key {
	return Key{TxID: in.InputTxID, Index: in.InputTxOutNum}
}

func NewKeyFromBytes(b []byte) (Key, error) {
	if len(b) != KeySize {
		return Key{}, errors.NewInvalidArgumentError("utxo key must be %d bytes, got %d", KeySize, len(b))
	}

	var k Key

	copy(k.TxID[:], b[:chainhash.HashSize])
	k.Index = binary.BigEndian.Uint32(b[chainhash.HashSize:])

	return k, nil
}

func (k Key) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, k.TxID[:])
	binary.BigEndian.PutUint32(b[chainhash.HashSize:], k.Index)

	return b
}

// Compare orders keys by their encoded bytes.
func (k Key) Compare(other Key) int {
	if c := bytes.Compare(k.TxID[:], other.TxID[:]); c != 0 {
		return c
	}

	switch {
	case k.Index < other.Index:
		return -1
	case k.Index > other.Index:
		return 1
	default:
		return 0
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", hashing.Hex(k.TxID), k.Index)
}

// Entry is an unspent output and the height of the block that created it.
type Entry struct {
	Output      *model.TxOutput
	BlockHeight uint32
}

func NewEntry(output *model.TxOutput, blockHeight uint32) *Entry {
	return &Entry{Output: output, BlockHeight: blockHeight}
}

// NewEntryFromBytes decodes height u32 | TxOutput.
func NewEntryFromBytes(b []byte) (*Entry, error) {
	if len(b) < 4 {
		return nil, errors.NewInvalidArgumentError("utxo entry too short: %d bytes", len(b))
	}

	output, err := model.NewTxOutputFromBytes(b[4:])
	if err != nil {
		return nil, errors.NewInvalidArgumentError("utxo entry output", err)
	}

	return &Entry{
		Output:      output,
		BlockHeight: binary.BigEndian.Uint32(b[:4]),
	}, nil
}

func (e *Entry) Bytes() []byte {
	output := e.Output.Bytes()

	b := make([]byte, 4, 4+len(output))
	binary.BigEndian.PutUint32(b, e.BlockHeight)

	return append(b, output...)
}

func (e *Entry) Equal(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}

	return e.BlockHeight == other.BlockHeight && e.Output.Equal(other.Output)
}

// Interface is the unspent output set.
//
// Get returns a nil entry and no error when the key is absent. Put of an
// entry equal to the stored one is a no-op, Put of a different one is an
// invariant violation. Remove of an absent key returns ERR_TX_NOT_FOUND.
type Interface interface {
	Get(ctx context.Context, key Key) (*Entry, error)
	Put(ctx context.Context, key Key, entry *Entry) error
	Remove(ctx context.Context, key Key) error
	AddTxOutputs(ctx context.Context, tx *model.Tx, blockHeight uint32) error
	Len() int
}

// Change is one staged mutation, a nil Entry removes the key.
type Change struct {
	Key   Key
	Entry *Entry
}

// BatchApplier is implemented by stores that can apply a list of changes
// atomically: either every change is applied or none is.
type BatchApplier interface {
	ApplyBatch(ctx context.Context, changes []Change) error
}

// AddTxOutputs puts one entry per output of tx, keyed by the tx id and output index.
func AddTxOutputs(ctx context.Context, store Interface, tx *model.Tx, blockHeight uint32) error {
	txID := tx.ID()

	for i, output := range tx.Outputs {
		if err := store.Put(ctx, NewKey(txID, uint32(i)), NewEntry(output, blockHeight)); err != nil {
			return err
		}
	}

	return nil
}

// ApplyChanges applies changes to store, atomically when the store is a
// BatchApplier and one by one otherwise.
func ApplyChanges(ctx context.Context, store Interface, changes []Change) error {
	if applier, ok := store.(BatchApplier); ok {
		return applier.ApplyBatch(ctx, changes)
	}

	for _, change := range changes {
		var err error
		if change.Entry == nil {
			err = store.Remove(ctx, change.Key)
		} else {
			err = store.Put(ctx, change.Key, change.Entry)
		}

		if err != nil {
			return err
		}
	}

	return nil
}
