package utxo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/stores/utxo/memory"
	"github.com/earthbucks/ebxnode/stores/utxo/tests"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBytes(t *testing.T) {
	key := utxo.NewKey(chainhash.Hash{0xab}, 0x01020304)

	b := key.Bytes()
	require.Len(t, b, utxo.KeySize)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, b[32:])

	decoded, err := utxo.NewKeyFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, key, decoded)

	_, err = utxo.NewKeyFromBytes(b[:35])
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	assert.Equal(t, "ab"+strings.Repeat("00", 31)+":16909060", key.String())
}

func TestKeyCompare(t *testing.T) {
	a := utxo.NewKey(chainhash.Hash{0x01}, 5)
	b := utxo.NewKey(chainhash.Hash{0x01}, 6)
	c := utxo.NewKey(chainhash.Hash{0x02}, 0)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, c.Compare(b))
	assert.Equal(t, 0, a.Compare(a))
}

func TestEntryBytes(t *testing.T) {
	b := tests.Entry1.Bytes()
	assert.Equal(t, []byte{0, 0, 0, 10}, b[:4])

	decoded, err := utxo.NewEntryFromBytes(b)
	require.NoError(t, err)
	assert.True(t, tests.Entry1.Equal(decoded))

	_, err = utxo.NewEntryFromBytes([]byte{0, 0})
	assert.Error(t, err)

	_, err = utxo.NewEntryFromBytes(append(b, 0x00))
	assert.Error(t, err)
}

func TestOverlay(t *testing.T) {
	ctx := context.Background()

	newBase := func(t *testing.T) *memory.Memory {
		base := memory.New(ulogger.TestLogger{})
		require.NoError(t, base.AddTxOutputs(ctx, tests.Tx1, 1))

		return base
	}

	t.Run("staged changes do not reach the base", func(t *testing.T) {
		base := newBase(t)
		overlay := utxo.NewOverlay(base)

		require.NoError(t, overlay.Remove(ctx, tests.Key1))
		require.NoError(t, overlay.AddTxOutputs(ctx, tests.Tx2, 2))

		entry, err := overlay.Get(ctx, tests.Key1)
		require.NoError(t, err)
		assert.Nil(t, entry)
		assert.Equal(t, 3, overlay.Len())

		entry, err = base.Get(ctx, tests.Key1)
		require.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, 3, base.Len())

		overlay.Discard()
		assert.Empty(t, overlay.Changes())

		entry, err = overlay.Get(ctx, tests.Key1)
		require.NoError(t, err)
		assert.NotNil(t, entry)
	})

	t.Run("commit applies removals then additions", func(t *testing.T) {
		base := newBase(t)
		overlay := utxo.NewOverlay(base)
		tx2Key := utxo.NewKey(tests.Tx2.ID(), 0)

		require.NoError(t, overlay.Remove(ctx, tests.Key1))
		require.NoError(t, overlay.AddTxOutputs(ctx, tests.Tx2, 2))

		changes := overlay.Changes()
		require.Len(t, changes, 2)
		assert.Nil(t, changes[0].Entry)
		assert.Equal(t, tx2Key, changes[1].Key)

		require.NoError(t, overlay.Commit(ctx))
		assert.Empty(t, overlay.Changes())

		entry, err := base.Get(ctx, tests.Key1)
		require.NoError(t, err)
		assert.Nil(t, entry)

		entry, err = base.Get(ctx, tx2Key)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, uint32(2), entry.BlockHeight)
	})

	t.Run("double removal is rejected", func(t *testing.T) {
		overlay := utxo.NewOverlay(newBase(t))

		require.NoError(t, overlay.Remove(ctx, tests.Key1))

		err := overlay.Remove(ctx, tests.Key1)
		assert.True(t, errors.Is(err, errors.ErrTxNotFound))
	})

	t.Run("collision against the base", func(t *testing.T) {
		overlay := utxo.NewOverlay(newBase(t))

		err := overlay.Put(ctx, tests.Key1, utxo.NewEntry(tests.Tx1.Outputs[0], 99))
		assert.True(t, errors.IsInvariantViolation(err))
		assert.Empty(t, overlay.Changes())
	})

	t.Run("nested overlays", func(t *testing.T) {
		base := newBase(t)
		outer := utxo.NewOverlay(base)
		inner := utxo.NewOverlay(outer)

		require.NoError(t, inner.Remove(ctx, tests.Key2))
		require.NoError(t, inner.Commit(ctx))

		entry, err := outer.Get(ctx, tests.Key2)
		require.NoError(t, err)
		assert.Nil(t, entry)

		entry, err = base.Get(ctx, tests.Key2)
		require.NoError(t, err)
		assert.NotNil(t, entry)
	})
}

func TestApplyChangesWithoutBatchApplier(t *testing.T) {
	ctx := context.Background()

	base := utxo.NewOverlay(memory.New(ulogger.TestLogger{}))
	require.NoError(t, base.AddTxOutputs(ctx, tests.Tx1, 1))

	err := utxo.ApplyChanges(ctx, base, []utxo.Change{{Key: tests.Key1}, {Key: tests.Key1}})
	assert.True(t, errors.Is(err, errors.ErrTxNotFound))

	// sequential application stops at the failing change
	assert.Equal(t, 2, base.Len())
}

func TestCheckChanges(t *testing.T) {
	lookup := func(key utxo.Key) (*utxo.Entry, error) {
		if key == tests.Key1 {
			return tests.Entry1, nil
		}

		return nil, nil
	}

	require.NoError(t, utxo.CheckChanges([]utxo.Change{
		{Key: tests.Key1},
		{Key: tests.Key1, Entry: utxo.NewEntry(tests.Tx1.Outputs[0], 50)},
		{Key: tests.Key2, Entry: tests.Entry1},
		{Key: tests.Key2, Entry: tests.Entry1},
	}, lookup))

	err := utxo.CheckChanges([]utxo.Change{{Key: tests.Key2}}, lookup)
	assert.True(t, errors.Is(err, errors.ErrTxNotFound))

	err = utxo.CheckChanges([]utxo.Change{{Key: tests.Key1, Entry: utxo.NewEntry(tests.Tx1.Outputs[0], 50)}}, lookup)
	assert.True(t, errors.IsInvariantViolation(err))
}
