package model

import (
	"encoding/hex"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/util/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxInputBytes(t *testing.T) {
	tests := []struct {
		name   string
		script string
		hex    string
	}{
		{"empty script", "", "0000000000000000000000000000000000000000000000000000000000000000" + "00000000" + "00" + "ffffffff"},
		{"pushdata", "0x121212", "0000000000000000000000000000000000000000000000000000000000000000" + "00000000" + "054c03121212" + "ffffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := script.NewFromStrictString(tt.script)
			require.NoError(t, err)

			in := NewTxInput(chainhash.Hash{}, 0, s, 0xffffffff)
			assert.Equal(t, tt.hex, hex.EncodeToString(in.Bytes()))
		})
	}
}

func TestTxOutputRoundTrip(t *testing.T) {
	out := NewTxOutput(100, script.NewPkhOutput(hashing.Hash([]byte("pkh"))))

	b := out.Bytes()
	assert.Equal(t, "0000000000000064", hex.EncodeToString(b[:8]))

	decoded, err := NewTxOutputFromBytes(b)
	require.NoError(t, err)
	assert.True(t, out.Equal(decoded))

	_, err = NewTxOutputFromBytes(append(b, 0x00))
	require.Error(t, err)

	_, err = NewTxOutputFromBytes(b[:len(b)-1])
	require.Error(t, err)
}

func testTx() *Tx {
	s, _ := script.NewUnexpiredPkhxInput(make([]byte, script.SignatureSize), make([]byte, script.PubKeySize))

	return NewTx(
		1,
		[]*TxInput{
			NewTxInput(hashing.Hash([]byte("a")), 0, s, 0),
			NewTxInput(hashing.Hash([]byte("b")), 3, script.NewExpiredPkhxInput(), 7),
		},
		[]*TxOutput{
			NewTxOutput(50, script.NewPkhx90dOutput(hashing.Hash([]byte("c")))),
			NewTxOutput(25, script.NewPkhOutput(hashing.Hash([]byte("d")))),
		},
		12,
	)
}

func TestTxRoundTrip(t *testing.T) {
	tx := testTx()

	decoded, err := NewTxFromBytes(tx.Bytes())
	require.NoError(t, err)
	assert.Equal(t, tx.Bytes(), decoded.Bytes())
	assert.Equal(t, tx.ID(), decoded.ID())
	assert.Equal(t, hashing.DoubleHash(tx.Bytes()), tx.ID())
	assert.False(t, tx.IsCoinbase())

	_, err = NewTxFromBytes(append(tx.Bytes(), 0x00))
	require.Error(t, err)

	_, err = NewTxFromBytes(tx.Bytes()[:20])
	require.Error(t, err)

	// absurd input counts fail before allocating
	_, err = NewTxFromBytes([]byte{0x01, 0xfe, 0xff, 0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestTxIsCoinbase(t *testing.T) {
	cb := NewTestCoinbaseTx(5, 100, "example.com", chainhash.Hash{})
	assert.True(t, cb.IsCoinbase())

	cb.Inputs[0].InputTxOutNum = 0
	assert.False(t, cb.IsCoinbase())
}

func TestTotalOutputValue(t *testing.T) {
	tx := testTx()

	total, err := tx.TotalOutputValue()
	require.NoError(t, err)
	assert.Equal(t, uint64(75), total)

	tx.Outputs[1].Value = ^uint64(0)
	_, err = tx.TotalOutputValue()
	require.Error(t, err)
}

func TestSigHash(t *testing.T) {
	tx := testTx()
	prevScript := script.NewPkhx90dOutput(hashing.Hash([]byte("prev"))).Bytes()

	h1, err := tx.SigHash(0, prevScript, 100, SigHashAll)
	require.NoError(t, err)

	preimage, err := tx.SigHashPreimage(0, prevScript, 100, SigHashAll)
	require.NoError(t, err)
	assert.Equal(t, hashing.DoubleHash(preimage), h1)
	assert.Equal(t, byte(1), preimage[0])
	assert.Equal(t, SigHashAll, preimage[len(preimage)-1])

	h2, err := tx.SigHash(1, prevScript, 100, SigHashAll)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	h3, err := tx.SigHash(0, prevScript, 101, SigHashAll)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	// the unlocking script is not committed to
	tx.Inputs[0].Script = script.NewExpiredPkhxInput()
	h4, err := tx.SigHash(0, prevScript, 100, SigHashAll)
	require.NoError(t, err)
	assert.Equal(t, h1, h4)

	tx.Outputs[0].Value++
	h5, err := tx.SigHash(0, prevScript, 100, SigHashAll)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h5)

	_, err = tx.SigHash(2, prevScript, 100, SigHashAll)
	require.Error(t, err)

	_, err = tx.SigHash(0, prevScript, 100, 0x41)
	require.Error(t, err)
}

func TestTxSignature(t *testing.T) {
	raw := make([]byte, TxSignatureSize)
	raw[0] = SigHashAll
	raw[1] = 0xaa
	raw[64] = 0xbb

	sig, err := NewTxSignatureFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, SigHashAll, sig.HashType)
	assert.Equal(t, byte(0xaa), sig.R[0])
	assert.Equal(t, byte(0xbb), sig.S[31])
	assert.Equal(t, raw, sig.Bytes())

	_, err = NewTxSignatureFromBytes(raw[:64])
	require.Error(t, err)
}
