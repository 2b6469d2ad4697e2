package model

import (
	"github.com/earthbucks/ebxnode/errors"
)

const (
	SigHashAll uint8 = 0x01

	// TxSignatureSize is hash_type u8 | r [32] | s [32].
	TxSignatureSize = 65
)

type TxSignature struct {
	HashType uint8
	R        [32]byte
	S        [32]byte
}

func NewTxSignatureFromBytes(b []byte) (*TxSignature, error) {
	if len(b) != TxSignatureSize {
		return nil, errors.NewInvalidArgumentError("tx signature must be %d bytes, got %d", TxSignatureSize, len(b))
	}

	sig := &TxSignature{HashType: b[0]}
	copy(sig.R[:], b[1:33])
	copy(sig.S[:], b[33:])

	return sig, nil
}

func (s *TxSignature) Bytes() []byte {
	b := make([]byte, 0, TxSignatureSize)
	b = append(b, s.HashType)
	b = append(b, s.R[:]...)

	return append(b, s.S[:]...)
}
