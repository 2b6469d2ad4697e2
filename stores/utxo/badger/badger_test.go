package badger

import (
	"context"
	"testing"

	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/stores/utxo/tests"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dir string) *Badger {
	t.Helper()

	db, err := New(ulogger.TestLogger{}, dir)
	require.NoError(t, err)

	return db
}

func TestBadger(t *testing.T) {
	t.Run("badger store", func(t *testing.T) {
		db := newTestStore(t, t.TempDir())
		defer db.Close()

		tests.Store(t, db)
	})

	t.Run("badger batch", func(t *testing.T) {
		db := newTestStore(t, t.TempDir())
		defer db.Close()

		tests.Batch(t, db)
	})

	t.Run("overlay over badger", func(t *testing.T) {
		db := newTestStore(t, t.TempDir())
		defer db.Close()

		tests.Store(t, utxo.NewOverlay(db))
	})
}

func TestBadgerReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db := newTestStore(t, dir)
	require.NoError(t, db.AddTxOutputs(ctx, tests.Tx1, 7))
	require.NoError(t, db.Remove(ctx, tests.Key3))
	require.NoError(t, db.Close())

	db = newTestStore(t, dir)
	defer db.Close()

	assert.Equal(t, 2, db.Len())

	entry, err := db.Get(ctx, tests.Key2)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, uint32(7), entry.BlockHeight)
	assert.Equal(t, tests.Tx1.Outputs[1].Bytes(), entry.Output.Bytes())

	entry, err = db.Get(ctx, tests.Key3)
	require.NoError(t, err)
	assert.Nil(t, entry)
}
