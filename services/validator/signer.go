package validator

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/util/hashing"
)

// KeyMap holds private keys by the hash of their compressed public key.
type KeyMap map[chainhash.Hash]*secp256k1.PrivateKey

func NewKeyMap(keys ...*secp256k1.PrivateKey) KeyMap {
	m := make(KeyMap, len(keys))
	for _, key := range keys {
		m.Add(key)
	}

	return m
}

func (m KeyMap) Add(key *secp256k1.PrivateKey) chainhash.Hash {
	pkh := hashing.DoubleHash(key.PubKey().SerializeCompressed())
	m[pkh] = key

	return pkh
}

// TxSigner fills the signature and public key placeholders of a transaction's
// unlocking scripts, choosing the key by the template of the spent output.
type TxSigner struct {
	tx            *model.Tx
	view          utxo.Interface
	keys          KeyMap
	workingHeight uint32
}

func NewTxSigner(tx *model.Tx, view utxo.Interface, keys KeyMap, workingHeight uint32) *TxSigner {
	return &TxSigner{
		tx:            tx,
		view:          view,
		keys:          keys,
		workingHeight: workingHeight,
	}
}

func (s *TxSigner) SignAll(ctx context.Context) error {
	for i := range s.tx.Inputs {
		if err := s.Sign(ctx, i); err != nil {
			return errors.NewProcessingError("sign all", err)
		}
	}

	return nil
}

// Sign signs input idx in place. Expired inputs need no signature and are
// left untouched.
func (s *TxSigner) Sign(ctx context.Context, idx int) error {
	in := s.tx.Inputs[idx]

	entry, err := s.view.Get(ctx, utxo.KeyFromInput(in))
	if err != nil {
		return err
	}

	if entry == nil {
		return errors.NewTxNotFoundError("input %d: output not found", idx)
	}

	out := script.ClassifyOutput(entry.Output.Script)
	unlock := script.ClassifyInput(in.Script)

	var pkh chainhash.Hash

	switch {
	case out.Kind == script.OutputPkh && unlock.Kind == script.InputPkh:
		pkh = out.Pkh

	case out.Kind.IsPkhx():
		if out.Kind.IsExpired(s.workingHeight, entry.BlockHeight) {
			if unlock.Kind != script.InputExpiredPkhx {
				return errors.NewProcessingError("input %d: expected expired pkhx input", idx)
			}

			return nil
		}

		if unlock.Kind != script.InputUnexpired {
			return errors.NewProcessingError("input %d: expected unexpired pkhx input placeholder", idx)
		}

		pkh = out.Pkh

	case out.Kind.IsPkhxr():
		if out.Kind.IsExpired(s.workingHeight, entry.BlockHeight) {
			if unlock.Kind != script.InputExpiredPkhxr {
				return errors.NewProcessingError("input %d: expected expired pkhxr input", idx)
			}

			return nil
		}

		switch unlock.Kind {
		case script.InputRecovery:
			if !out.Kind.IsRecoverable(s.workingHeight, entry.BlockHeight) {
				return errors.NewProcessingError("input %d: output is not recoverable yet", idx)
			}

			pkh = out.RecoveryPkh
		case script.InputUnexpired:
			pkh = out.Pkh
		default:
			return errors.NewProcessingError("input %d: expected unexpired or recovery pkhxr input placeholder", idx)
		}

	default:
		return errors.NewProcessingError("input %d: unsupported script type %s", idx, out.Kind)
	}

	key, ok := s.keys[pkh]
	if !ok {
		return errors.NewProcessingError("input %d: key not found", idx)
	}

	sig, err := SignInput(key, s.tx, idx, entry.Output, model.SigHashAll)
	if err != nil {
		return err
	}

	// every signing shape starts with <sig> <pub>
	in.Script.Chunks[0] = script.NewDataChunk(sig)
	in.Script.Chunks[1] = script.NewDataChunk(key.PubKey().SerializeCompressed())

	return nil
}
