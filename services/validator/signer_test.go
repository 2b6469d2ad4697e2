package validator

import (
	"context"
	"testing"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxSigner(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the placeholder", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhOutput(pkh1))
		tx := spend(fundingID, script.NewPkhInputPlaceholder())

		require.NoError(t, NewTxSigner(tx, view, keys, fundingHeight+1).Sign(ctx, 0))

		unlock := script.ClassifyInput(tx.Inputs[0].Script)
		require.Equal(t, script.InputPkh, unlock.Kind)
		assert.Equal(t, key1.PubKey().SerializeCompressed(), unlock.PubKey)
		assert.Equal(t, model.SigHashAll, unlock.Signature[0])
	})

	t.Run("expired inputs are left alone", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhx1hOutput(pkh1))
		tx := spend(fundingID, script.NewExpiredPkhxInput())
		before := tx.Bytes()

		require.NoError(t, NewTxSigner(tx, view, keys, fundingHeight+script.Pkhx1hLockRel).SignAll(ctx))
		assert.Equal(t, before, tx.Bytes())
	})

	t.Run("expired output needs an expired input", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhx1hOutput(pkh1))
		tx := spend(fundingID, script.NewUnexpiredPkhxInputPlaceholder())

		err := NewTxSigner(tx, view, keys, fundingHeight+script.Pkhx1hLockRel).Sign(ctx, 0)
		assert.Error(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhOutput(pkh1))
		tx := spend(fundingID, script.NewPkhInputPlaceholder())

		err := NewTxSigner(tx, view, NewKeyMap(key2), fundingHeight+1).Sign(ctx, 0)
		assert.True(t, errors.Is(err, errors.ErrProcessing))
	})

	t.Run("missing output", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhOutput(pkh1))
		tx := spend(fundingID, script.NewPkhInputPlaceholder(), script.NewPkhInputPlaceholder())

		err := NewTxSigner(tx, view, keys, fundingHeight+1).SignAll(ctx)
		assert.True(t, errors.Is(err, errors.ErrTxNotFound))
	})
}

func TestSignInputRejectsOtherHashTypes(t *testing.T) {
	tx := spend(pkh1, script.NewPkhInputPlaceholder())

	_, err := SignInput(key1, tx, 0, model.NewTxOutput(1, script.NewPkhOutput(pkh1)), 0x41)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}
