package model

import (
	"encoding/binary"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/util"
)

type TxOutput struct {
	Value  uint64
	Script *script.Script
}

func NewTxOutput(value uint64, s *script.Script) *TxOutput {
	return &TxOutput{Value: value, Script: s}
}

func NewTxOutputFromBytes(b []byte) (*TxOutput, error) {
	r := util.NewReader(b)

	o, err := readTxOutput(r)
	if err != nil {
		return nil, err
	}

	if !r.EOF() {
		return nil, errors.NewInvalidArgumentError("%d trailing bytes after tx output", r.Remaining())
	}

	return o, nil
}

func readTxOutput(r *util.Reader) (*TxOutput, error) {
	value, err := r.ReadU64BE()
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

	return &TxOutput{Value: value, Script: s}, nil
}

// Bytes encodes value u64 | VarInt(len(script)) | script.
func (o *TxOutput) Bytes() []byte {
	return o.appendBytes(nil)
}

func (o *TxOutput) appendBytes(dst []byte) []byte {
	scriptBytes := o.scriptBytes()

	dst = binary.BigEndian.AppendUint64(dst, o.Value)
	dst = util.AppendVarint(dst, uint64(len(scriptBytes)))

	return append(dst, scriptBytes...)
}

func (o *TxOutput) scriptBytes() []byte {
	if o.Script == nil {
		return nil
	}

	return o.Script.Bytes()
}

func (o *TxOutput) Equal(other *TxOutput) bool {
	if o == nil || other == nil {
		return o == other
	}

	return o.Value == other.Value && o.Script.Equal(other.Script)
}
