package model

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/util"
)

// CoinbaseOutNum marks the null outpoint of a coinbase input.
const CoinbaseOutNum = 0xffffffff

type TxInput struct {
	InputTxID     chainhash.Hash
	InputTxOutNum uint32
	Script        *script.Script
	LockRel       uint32
}

func NewTxInput(txID chainhash.Hash, outNum uint32, s *script.Script, lockRel uint32) *TxInput {
	return &TxInput{InputTxID: txID, InputTxOutNum: outNum, Script: s, LockRel: lockRel}
}

// NewCoinbaseTxInput spends the null outpoint with the given push-only script.
func NewCoinbaseTxInput(s *script.Script) *TxInput {
	return &TxInput{InputTxOutNum: CoinbaseOutNum, Script: s}
}

// IsNull reports whether the input references no previous output.
func (in *TxInput) IsNull() bool {
	return in.InputTxID == chainhash.Hash{} && in.InputTxOutNum == CoinbaseOutNum
}

func readTxInput(r *util.Reader) (*TxInput, error) {
	idBytes, err := r.ReadBytes(chainhash.HashSize)
	if err != nil {
		return nil, err
	}

	outNum, err := r.ReadU32BE()
	if err != nil {
		return nil, err
	}

	scriptBytes, err := r.ReadVarBytes()
	if err != nil {
		return nil, err
	}

	s, err := script.NewFromBytes(scriptBytes)
	if err != nil {
		return nil, err
	}

	lockRel, err := r.ReadU32BE()
	if err != nil {
		return nil, err
	}

	return &TxInput{
		InputTxID:     chainhash.Hash(idBytes),
		InputTxOutNum: outNum,
		Script:        s,
		LockRel:       lockRel,
	}, nil
}

// Bytes encodes txid | out_num u32 | VarInt(len(script)) | script | lock_rel u32.
func (in *TxInput) Bytes() []byte {
	return in.appendBytes(nil)
}

func (in *TxInput) appendBytes(dst []byte) []byte {
	var scriptBytes []byte
	if in.Script != nil {
		scriptBytes = in.Script.Bytes()
	}

	dst = in.appendOutpoint(dst)
	dst = util.AppendVarint(dst, uint64(len(scriptBytes)))
	dst = append(dst, scriptBytes...)

	return binary.BigEndian.AppendUint32(dst, in.LockRel)
}

func (in *TxInput) appendOutpoint(dst []byte) []byte {
	dst = append(dst, in.InputTxID[:]...)
	return binary.BigEndian.AppendUint32(dst, in.InputTxOutNum)
}
