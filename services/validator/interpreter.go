package validator

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/ulogger"
)

// TxInterpreter names a signature checking engine.
type TxInterpreter string

const (
	TxInterpreterSecp256k1 TxInterpreter = "secp256k1"
)

// TxScriptInterpreter checks the signature carried by an unlocking script
// against the output it spends.
type TxScriptInterpreter interface {
	// VerifySignature checks that sig, produced by the key pubKey, signs
	// input idx of tx spending prevOut.
	VerifySignature(tx *model.Tx, idx int, prevOut *model.TxOutput, sig []byte, pubKey []byte) error

	Interpreter() TxInterpreter
}

type TxScriptInterpreterCreator func(logger ulogger.Logger) TxScriptInterpreter

// TxScriptInterpreterFactory holds the registered interpreters by name.
var TxScriptInterpreterFactory = make(map[TxInterpreter]TxScriptInterpreterCreator)

func init() {
	TxScriptInterpreterFactory[TxInterpreterSecp256k1] = newSecp256k1Interpreter
}

type secp256k1Interpreter struct {
	logger ulogger.Logger
}

func newSecp256k1Interpreter(logger ulogger.Logger) TxScriptInterpreter {
	return &secp256k1Interpreter{logger: logger}
}

func (s *secp256k1Interpreter) Interpreter() TxInterpreter {
	return TxInterpreterSecp256k1
}

// VerifySignature accepts only compressed keys, SIGHASH_ALL and low-S
// signatures over Tx.SigHash.
func (s *secp256k1Interpreter) VerifySignature(tx *model.Tx, idx int, prevOut *model.TxOutput, sig []byte, pubKey []byte) error {
	if len(pubKey) != script.PubKeySize {
		return errors.NewTxInvalidSignatureError("input %d: public key must be %d bytes, got %d", idx, script.PubKeySize, len(pubKey))
	}

	key, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return errors.NewTxInvalidSignatureError("input %d: invalid public key", idx, err)
	}

	txSig, err := model.NewTxSignatureFromBytes(sig)
	if err != nil {
		return errors.NewTxInvalidSignatureError("input %d: malformed signature", idx, err)
	}

	if txSig.HashType != model.SigHashAll {
		return errors.NewTxInvalidSignatureError("input %d: unsupported hash type 0x%02x", idx, txSig.HashType)
	}

	var r, sScalar secp256k1.ModNScalar

	if overflow := r.SetBytes(&txSig.R); overflow != 0 || r.IsZero() {
		return errors.NewTxInvalidSignatureError("input %d: signature r out of range", idx)
	}

	if overflow := sScalar.SetBytes(&txSig.S); overflow != 0 || sScalar.IsZero() {
		return errors.NewTxInvalidSignatureError("input %d: signature s out of range", idx)
	}

	if sScalar.IsOverHalfOrder() {
		return errors.NewTxInvalidSignatureError("input %d: signature s is not canonical", idx)
	}

	digest, err := tx.SigHash(idx, prevOut.Script.Bytes(), prevOut.Value, txSig.HashType)
	if err != nil {
		return errors.NewTxInvalidSignatureError("input %d: sighash", idx, err)
	}

	if !ecdsa.NewSignature(&r, &sScalar).Verify(digest[:], key) {
		return errors.NewTxInvalidSignatureError("input %d: signature verification failed", idx)
	}

	return nil
}

// SignInput signs input idx of tx spending prevOut and returns the encoded
// 65 byte signature. Only SIGHASH_ALL is supported.
func SignInput(privKey *secp256k1.PrivateKey, tx *model.Tx, idx int, prevOut *model.TxOutput, hashType uint8) ([]byte, error) {
	if hashType != model.SigHashAll {
		return nil, errors.NewInvalidArgumentError("unsupported hash type 0x%02x", hashType)
	}

	digest, err := tx.SigHash(idx, prevOut.Script.Bytes(), prevOut.Value, hashType)
	if err != nil {
		return nil, err
	}

	// compact signatures are recovery code | r | s with s already low
	compact := ecdsa.SignCompact(privKey, digest[:], true)

	txSig := &model.TxSignature{HashType: hashType}
	copy(txSig.R[:], compact[1:33])
	copy(txSig.S[:], compact[33:65])

	return txSig.Bytes(), nil
}
