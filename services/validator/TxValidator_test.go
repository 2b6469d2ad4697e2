package validator

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/settings"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/stores/utxo/memory"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/earthbucks/ebxnode/util/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fundingHeight = 10

func testKey(seed string) *secp256k1.PrivateKey {
	h := hashing.Hash([]byte(seed))
	return secp256k1.PrivKeyFromBytes(h[:])
}

var (
	key1 = testKey("key 1")
	key2 = testKey("key 2")
	key3 = testKey("key 3")

	keys = NewKeyMap(key1, key2, key3)

	pkh1 = hashing.DoubleHash(key1.PubKey().SerializeCompressed())
	pkh2 = hashing.DoubleHash(key2.PubKey().SerializeCompressed())
)

func newTestValidator(t *testing.T, opts ...TxValidatorOption) *TxValidator {
	t.Helper()

	tv, err := New(ulogger.TestLogger{}, settings.NewSettings(), opts...)
	require.NoError(t, err)

	return tv
}

// fund returns a view holding one output per locking script, created at
// fundingHeight with value 1000 each, and the tx id that owns them.
func fund(t *testing.T, scripts ...*script.Script) (*memory.Memory, chainhash.Hash) {
	t.Helper()

	outputs := make([]*model.TxOutput, len(scripts))
	for i, s := range scripts {
		outputs[i] = model.NewTxOutput(1000, s)
	}

	funding := model.NewTx(model.TxVersion,
		[]*model.TxInput{model.NewTxInput(hashing.Hash([]byte("funding parent")), 0, script.New(), 0)},
		outputs, 0)

	view := memory.New(ulogger.TestLogger{})
	require.NoError(t, view.AddTxOutputs(context.Background(), funding, fundingHeight))

	return view, funding.ID()
}

func spend(fundingID chainhash.Hash, inputScripts ...*script.Script) *model.Tx {
	inputs := make([]*model.TxInput, len(inputScripts))
	for i, s := range inputScripts {
		inputs[i] = model.NewTxInput(fundingID, uint32(i), s, 0)
	}

	return model.NewTx(model.TxVersion, inputs,
		[]*model.TxOutput{model.NewTxOutput(900, script.NewPkhOutput(pkh2))}, 0)
}

func signAll(t *testing.T, tx *model.Tx, view utxo.Interface, height uint32) {
	t.Helper()
	require.NoError(t, NewTxSigner(tx, view, keys, height).SignAll(context.Background()))
}

func TestValidatePkhSpend(t *testing.T) {
	ctx := context.Background()

	for _, parallel := range []bool{false, true} {
		view, fundingID := fund(t, script.NewPkhOutput(pkh1), script.NewPkhOutput(pkh2), script.NewPkhOutput(pkh1))
		tx := spend(fundingID, script.NewPkhInputPlaceholder(), script.NewPkhInputPlaceholder(), script.NewPkhInputPlaceholder())
		signAll(t, tx, view, fundingHeight+1)

		tv := newTestValidator(t, WithParallelSigChecks(parallel), WithSigCheckConcurrency(2))
		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+1))

		// the view is only read
		assert.Equal(t, 3, view.Len())
	}
}

func TestValidateRejections(t *testing.T) {
	ctx := context.Background()
	tv := newTestValidator(t)

	tests := []struct {
		name     string
		build    func(t *testing.T) (*model.Tx, utxo.Interface)
		height   uint32
		expected *errors.Error
	}{
		{
			name: "coinbase",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				return model.NewTestCoinbaseTx(11, 100, "example.com", pkh1), memory.New(ulogger.TestLogger{})
			},
			height:   11,
			expected: errors.ErrTxInvalid,
		},
		{
			name: "no outputs",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder())
				tx.Outputs = nil

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalid,
		},
		{
			name: "absolute lock above height",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder())
				tx.LockAbs = 12
				signAll(t, tx, view, 11)

				return tx, view
			},
			height:   11,
			expected: errors.ErrLockTime,
		},
		{
			name: "same output spent twice",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder(), script.NewPkhInputPlaceholder())
				tx.Inputs[1].InputTxOutNum = 0

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalidDoubleSpend,
		},
		{
			name: "unknown output",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder(), script.NewPkhInputPlaceholder())

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalidDoubleSpend,
		},
		{
			name: "unlocking script not push-only",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.New(script.NewOpChunk(script.OP_DUP)))

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalidScript,
		},
		{
			name: "key does not match the key hash",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder())

				sig, err := SignInput(key2, tx, 0, model.NewTxOutput(1000, script.NewPkhOutput(pkh1)), model.SigHashAll)
				require.NoError(t, err)

				tx.Inputs[0].Script, err = script.NewPkhInput(sig, key2.PubKey().SerializeCompressed())
				require.NoError(t, err)

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalidScript,
		},
		{
			name: "tampered signature",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder())
				signAll(t, tx, view, 11)

				tx.Inputs[0].Script.Chunks[0].Data[10] ^= 0x01

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalidSignature,
		},
		{
			name: "signature over different outputs",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder())
				signAll(t, tx, view, 11)

				tx.Outputs[0].Value = 901

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalidSignature,
		},
		{
			name: "unsupported hash type",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder())
				signAll(t, tx, view, 11)

				tx.Inputs[0].Script.Chunks[0].Data[0] = 0x41

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalidSignature,
		},
		{
			name: "outputs exceed inputs",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				tx := spend(fundingID, script.NewPkhInputPlaceholder())
				tx.Outputs[0].Value = 1001
				signAll(t, tx, view, 11)

				return tx, view
			},
			height:   11,
			expected: errors.ErrTxInvalid,
		},
		{
			name: "expired input on a pkh output",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.NewPkhOutput(pkh1))
				return spend(fundingID, script.NewExpiredPkhxInput()), view
			},
			height:   20000,
			expected: errors.ErrTxInvalidScript,
		},
		{
			name: "non-standard output",
			build: func(t *testing.T) (*model.Tx, utxo.Interface) {
				view, fundingID := fund(t, script.New(script.NewOpChunk(script.OP_RETURN)))
				return spend(fundingID, script.NewPkhInputPlaceholder()), view
			},
			height:   11,
			expected: errors.ErrTxInvalidScript,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, view := tt.build(t)

			err := tv.ValidateTransaction(ctx, tx, view, tt.height)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			assert.True(t, errors.IsRejection(err))
		})
	}
}

func TestValidatePkhx(t *testing.T) {
	ctx := context.Background()
	tv := newTestValidator(t)

	t.Run("unexpired spend with the key", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhx1hOutput(pkh1))
		tx := spend(fundingID, script.NewUnexpiredPkhxInputPlaceholder())
		signAll(t, tx, view, fundingHeight+1)

		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+1))
	})

	t.Run("expired spend needs the full lock", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhx1hOutput(pkh1))
		tx := spend(fundingID, script.NewExpiredPkhxInput())

		err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+script.Pkhx1hLockRel-1)
		assert.True(t, errors.Is(err, errors.ErrLockTime))

		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+script.Pkhx1hLockRel))
	})

	t.Run("90 day lock", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhx90dOutput(pkh1))
		tx := spend(fundingID, script.NewExpiredPkhxInput())

		err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+script.Pkhx90dLockRel-1)
		assert.True(t, errors.Is(err, errors.ErrLockTime))

		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+script.Pkhx90dLockRel))
	})

	t.Run("recovery input does not spend pkhx", func(t *testing.T) {
		view, fundingID := fund(t, script.NewPkhx1hOutput(pkh1))
		tx := spend(fundingID, script.NewRecoveryPkhxrInputPlaceholder())

		err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+1)
		assert.True(t, errors.Is(err, errors.ErrTxInvalidScript))
	})
}

func TestValidatePkhxr(t *testing.T) {
	ctx := context.Background()
	tv := newTestValidator(t)

	locked := script.NewPkhxr1h40mOutput(pkh1, pkh2)

	t.Run("unexpired spend with the primary key", func(t *testing.T) {
		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.NewUnexpiredPkhxrInputPlaceholder())
		signAll(t, tx, view, fundingHeight+1)

		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+1))
	})

	t.Run("recovery with the recovery key", func(t *testing.T) {
		height := uint32(fundingHeight + script.Pkhxr1h40mRecoveryLockRel)

		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.NewRecoveryPkhxrInputPlaceholder())
		signAll(t, tx, view, height)

		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, height))

		err := tv.ValidateTransaction(ctx, tx, view, height-1)
		assert.True(t, errors.Is(err, errors.ErrLockTime))
	})

	t.Run("recovery with the primary key", func(t *testing.T) {
		height := uint32(fundingHeight + script.Pkhxr1h40mRecoveryLockRel)

		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.NewRecoveryPkhxrInputPlaceholder())

		sig, err := SignInput(key1, tx, 0, model.NewTxOutput(1000, locked), model.SigHashAll)
		require.NoError(t, err)

		tx.Inputs[0].Script, err = script.NewRecoveryPkhxrInput(sig, key1.PubKey().SerializeCompressed())
		require.NoError(t, err)

		err = tv.ValidateTransaction(ctx, tx, view, height)
		assert.True(t, errors.Is(err, errors.ErrTxInvalidScript))
	})

	t.Run("expired", func(t *testing.T) {
		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.NewExpiredPkhxrInput())

		err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+script.Pkhxr1h40mExpiryLockRel-1)
		assert.True(t, errors.Is(err, errors.ErrLockTime))

		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+script.Pkhxr1h40mExpiryLockRel))
	})

	t.Run("pkhx expired input does not spend pkhxr", func(t *testing.T) {
		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.NewExpiredPkhxInput())

		err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+1000)
		assert.True(t, errors.Is(err, errors.ErrTxInvalidScript))
	})
}

func TestValidateMultiSig(t *testing.T) {
	ctx := context.Background()
	tv := newTestValidator(t)

	pubKeys := [][]byte{
		key1.PubKey().SerializeCompressed(),
		key2.PubKey().SerializeCompressed(),
		key3.PubKey().SerializeCompressed(),
	}

	locked, err := script.NewMultiSigOutput(2, pubKeys)
	require.NoError(t, err)

	sign := func(t *testing.T, tx *model.Tx, signers ...*secp256k1.PrivateKey) {
		sigs := make([][]byte, len(signers))
		for i, k := range signers {
			sigs[i], err = SignInput(k, tx, 0, model.NewTxOutput(1000, locked), model.SigHashAll)
			require.NoError(t, err)
		}

		tx.Inputs[0].Script, err = script.NewMultiSigInput(sigs)
		require.NoError(t, err)
	}

	t.Run("signatures in key order", func(t *testing.T) {
		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.New())
		sign(t, tx, key1, key3)

		require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+1))
	})

	t.Run("signatures out of key order", func(t *testing.T) {
		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.New())
		sign(t, tx, key3, key1)

		err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+1)
		assert.True(t, errors.Is(err, errors.ErrTxInvalidSignature))
	})

	t.Run("too few signatures", func(t *testing.T) {
		view, fundingID := fund(t, locked)
		tx := spend(fundingID, script.New())
		sign(t, tx, key2)

		err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+1)
		assert.True(t, errors.Is(err, errors.ErrTxInvalidScript))
	})
}

func TestValidateRelativeLock(t *testing.T) {
	ctx := context.Background()
	tv := newTestValidator(t)

	view, fundingID := fund(t, script.NewPkhOutput(pkh1))
	tx := spend(fundingID, script.NewPkhInputPlaceholder())
	tx.Inputs[0].LockRel = 5
	signAll(t, tx, view, fundingHeight+5)

	err := tv.ValidateTransaction(ctx, tx, view, fundingHeight+4)
	assert.True(t, errors.Is(err, errors.ErrLockTime))

	require.NoError(t, tv.ValidateTransaction(ctx, tx, view, fundingHeight+5))
}

func TestUnknownInterpreter(t *testing.T) {
	tSettings := settings.NewSettings()
	tSettings.Validator.ScriptInterpreter = "nope"

	_, err := New(ulogger.TestLogger{}, tSettings)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

type rejectAll struct{}

func (rejectAll) VerifySignature(_ *model.Tx, idx int, _ *model.TxOutput, _, _ []byte) error {
	return errors.NewTxInvalidSignatureError("input %d rejected", idx)
}

func (rejectAll) Interpreter() TxInterpreter { return "reject" }

func TestWithInterpreter(t *testing.T) {
	view, fundingID := fund(t, script.NewPkhOutput(pkh1))
	tx := spend(fundingID, script.NewPkhInputPlaceholder())
	signAll(t, tx, view, fundingHeight+1)

	tv := newTestValidator(t, WithInterpreter(rejectAll{}))

	err := tv.ValidateTransaction(context.Background(), tx, view, fundingHeight+1)
	assert.True(t, errors.Is(err, errors.ErrTxInvalidSignature))
}
