package script

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
)

func NewPkhOutput(pkh chainhash.Hash) *Script {
	return pkhOutputPattern.build(fill{slotPkh: pkh[:]})
}

func NewPkhx90dOutput(pkh chainhash.Hash) *Script {
	return pkhx90dOutputPattern.build(fill{slotPkh: pkh[:]})
}

func NewPkhx1hOutput(pkh chainhash.Hash) *Script {
	return pkhx1hOutputPattern.build(fill{slotPkh: pkh[:]})
}

func NewPkhxr90d60dOutput(pkh, recoveryPkh chainhash.Hash) *Script {
	return pkhxr90d60dOutputPattern.build(fill{slotPkh: pkh[:], slotRecoveryPkh: recoveryPkh[:]})
}

func NewPkhxr1h40mOutput(pkh, recoveryPkh chainhash.Hash) *Script {
	return pkhxr1h40mOutputPattern.build(fill{slotPkh: pkh[:], slotRecoveryPkh: recoveryPkh[:]})
}

func sigPubFill(sig, pubKey []byte) (fill, error) {
	if len(sig) != SignatureSize {
		return nil, errors.NewInvalidArgumentError("signature must be %d bytes, got %d", SignatureSize, len(sig))
	}

	if len(pubKey) != PubKeySize {
		return nil, errors.NewInvalidArgumentError("public key must be %d bytes, got %d", PubKeySize, len(pubKey))
	}

	return fill{slotSignature: sig, slotPubKey: pubKey}, nil
}

func NewPkhInput(sig, pubKey []byte) (*Script, error) {
	f, err := sigPubFill(sig, pubKey)
	if err != nil {
		return nil, err
	}

	return pkhInputPattern.build(f), nil
}

// NewUnexpiredPkhxInput unlocks the primary branch of a pkhx or pkhxr output.
func NewUnexpiredPkhxInput(sig, pubKey []byte) (*Script, error) {
	f, err := sigPubFill(sig, pubKey)
	if err != nil {
		return nil, err
	}

	return unexpiredInputPattern.build(f), nil
}

func NewUnexpiredPkhxrInput(sig, pubKey []byte) (*Script, error) {
	return NewUnexpiredPkhxInput(sig, pubKey)
}

func NewRecoveryPkhxrInput(sig, pubKey []byte) (*Script, error) {
	f, err := sigPubFill(sig, pubKey)
	if err != nil {
		return nil, err
	}

	return recoveryInputPattern.build(f), nil
}

func NewExpiredPkhxInput() *Script {
	return expiredPkhxInputPattern.build(nil)
}

func NewExpiredPkhxrInput() *Script {
	return expiredPkhxrInputPattern.build(nil)
}

// Placeholders have the final size of the signed script, with zeroed sig and key.
var (
	placeholderSig    = make([]byte, SignatureSize)
	placeholderPubKey = make([]byte, PubKeySize)
)

func NewPkhInputPlaceholder() *Script {
	return pkhInputPattern.build(fill{slotSignature: placeholderSig, slotPubKey: placeholderPubKey})
}

func NewUnexpiredPkhxInputPlaceholder() *Script {
	return unexpiredInputPattern.build(fill{slotSignature: placeholderSig, slotPubKey: placeholderPubKey})
}

func NewUnexpiredPkhxrInputPlaceholder() *Script {
	return NewUnexpiredPkhxInputPlaceholder()
}

func NewRecoveryPkhxrInputPlaceholder() *Script {
	return recoveryInputPattern.build(fill{slotSignature: placeholderSig, slotPubKey: placeholderPubKey})
}

// NewMultiSigOutput locks to m of the given compressed public keys.
func NewMultiSigOutput(m int, pubKeys [][]byte) (*Script, error) {
	n := len(pubKeys)
	if m < 1 || m > n || n > 16 {
		return nil, errors.NewInvalidArgumentError("invalid multisig %d of %d", m, n)
	}

	mOp, _ := SmallIntOpcode(m)
	nOp, _ := SmallIntOpcode(n)

	chunks := make([]Chunk, 0, n+3)
	chunks = append(chunks, NewOpChunk(mOp))

	for i, key := range pubKeys {
		if len(key) != PubKeySize {
			return nil, errors.NewInvalidArgumentError("public key %d must be %d bytes, got %d", i, PubKeySize, len(key))
		}

		chunks = append(chunks, NewDataChunk(key))
	}

	chunks = append(chunks, NewOpChunk(nOp), NewOpChunk(OP_CHECKMULTISIG))

	return &Script{Chunks: chunks}, nil
}

func NewMultiSigInput(sigs [][]byte) (*Script, error) {
	chunks := make([]Chunk, 0, len(sigs))

	for i, sig := range sigs {
		if len(sig) != SignatureSize {
			return nil, errors.NewInvalidArgumentError("signature %d must be %d bytes, got %d", i, SignatureSize, len(sig))
		}

		chunks = append(chunks, NewDataChunk(sig))
	}

	return &Script{Chunks: chunks}, nil
}
