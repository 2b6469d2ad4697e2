// Package tests holds the behaviour every utxo.Interface implementation must
// share. Each store's own test file runs these against a fresh instance.
package tests

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/util/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	Pkh = hashing.DoubleHash([]byte("tests pkh"))

	// Tx1 has three outputs and spends a made up outpoint.
	Tx1 = model.NewTx(
		model.TxVersion,
		[]*model.TxInput{model.NewTxInput(hashing.Hash([]byte("parent")), 0, script.NewPkhInputPlaceholder(), 0)},
		[]*model.TxOutput{
			model.NewTxOutput(100, script.NewPkhOutput(Pkh)),
			model.NewTxOutput(200, script.NewPkhx90dOutput(Pkh)),
			model.NewTxOutput(300, script.NewPkhx1hOutput(Pkh)),
		},
		0,
	)

	Tx2 = model.NewTx(
		model.TxVersion,
		[]*model.TxInput{model.NewTxInput(Tx1.ID(), 0, script.NewPkhInputPlaceholder(), 0)},
		[]*model.TxOutput{model.NewTxOutput(90, script.NewPkhOutput(Pkh))},
		0,
	)

	Key1 = utxo.NewKey(Tx1.ID(), 0)
	Key2 = utxo.NewKey(Tx1.ID(), 1)
	Key3 = utxo.NewKey(Tx1.ID(), 2)

	Entry1 = utxo.NewEntry(Tx1.Outputs[0], 10)
)

// Store runs the common behaviour tests. db must start empty.
func Store(t *testing.T, db utxo.Interface) {
	ctx := context.Background()

	t.Run("empty lookup", func(t *testing.T) {
		entry, err := db.Get(ctx, Key1)
		require.NoError(t, err)
		assert.Nil(t, entry)
		assert.Equal(t, 0, db.Len())
	})

	t.Run("add tx outputs then lookup", func(t *testing.T) {
		require.NoError(t, db.AddTxOutputs(ctx, Tx1, 10))
		assert.Equal(t, 3, db.Len())

		for i, key := range []utxo.Key{Key1, Key2, Key3} {
			entry, err := db.Get(ctx, key)
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.Equal(t, uint32(10), entry.BlockHeight)
			assert.Equal(t, Tx1.Outputs[i].Value, entry.Output.Value)
			assert.Equal(t, Tx1.Outputs[i].Script.Bytes(), entry.Output.Script.Bytes())
		}
	})

	t.Run("re-add identical is a no-op", func(t *testing.T) {
		require.NoError(t, db.AddTxOutputs(ctx, Tx1, 10))
		require.NoError(t, db.Put(ctx, Key1, Entry1))
		assert.Equal(t, 3, db.Len())
	})

	t.Run("different entry is an invariant violation", func(t *testing.T) {
		err := db.Put(ctx, Key1, utxo.NewEntry(Tx1.Outputs[0], 11))
		require.Error(t, err)
		assert.True(t, errors.IsInvariantViolation(err))
		assert.True(t, errors.Is(err, errors.ErrTxAlreadyExists))
		assert.False(t, errors.IsRejection(err))

		err = db.AddTxOutputs(ctx, Tx1, 12)
		assert.True(t, errors.IsInvariantViolation(err))

		entry, err := db.Get(ctx, Key1)
		require.NoError(t, err)
		assert.Equal(t, uint32(10), entry.BlockHeight)
	})

	t.Run("remove then lookup", func(t *testing.T) {
		require.NoError(t, db.Remove(ctx, Key2))

		entry, err := db.Get(ctx, Key2)
		require.NoError(t, err)
		assert.Nil(t, entry)
		assert.Equal(t, 2, db.Len())
	})

	t.Run("remove absent", func(t *testing.T) {
		err := db.Remove(ctx, Key2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxNotFound))

		err = db.Remove(ctx, utxo.NewKey(chainhash.Hash{}, 7))
		assert.True(t, errors.Is(err, errors.ErrTxNotFound))
	})

	t.Run("removed key can be added again", func(t *testing.T) {
		require.NoError(t, db.Put(ctx, Key2, utxo.NewEntry(Tx1.Outputs[1], 20)))

		entry, err := db.Get(ctx, Key2)
		require.NoError(t, err)
		assert.Equal(t, uint32(20), entry.BlockHeight)
		assert.Equal(t, 3, db.Len())
	})
}

// Batch runs the atomic batch tests. db must start empty.
func Batch(t *testing.T, db utxo.Interface) {
	ctx := context.Background()

	applier, ok := db.(utxo.BatchApplier)
	require.True(t, ok)

	tx2Key := utxo.NewKey(Tx2.ID(), 0)

	require.NoError(t, db.AddTxOutputs(ctx, Tx1, 1))

	t.Run("applies removals and additions", func(t *testing.T) {
		err := applier.ApplyBatch(ctx, []utxo.Change{
			{Key: Key1},
			{Key: tx2Key, Entry: utxo.NewEntry(Tx2.Outputs[0], 2)},
		})
		require.NoError(t, err)

		entry, err := db.Get(ctx, Key1)
		require.NoError(t, err)
		assert.Nil(t, entry)

		entry, err = db.Get(ctx, tx2Key)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, uint64(90), entry.Output.Value)
		assert.Equal(t, 3, db.Len())
	})

	t.Run("failed batch changes nothing", func(t *testing.T) {
		err := applier.ApplyBatch(ctx, []utxo.Change{
			{Key: Key2},
			{Key: Key1},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxNotFound))

		entry, err := db.Get(ctx, Key2)
		require.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, 3, db.Len())
	})

	t.Run("a batch sees its own changes", func(t *testing.T) {
		err := applier.ApplyBatch(ctx, []utxo.Change{
			{Key: Key3},
			{Key: Key3},
		})
		require.Error(t, err)

		entry, err := db.Get(ctx, Key3)
		require.NoError(t, err)
		assert.NotNil(t, entry)
	})
}
