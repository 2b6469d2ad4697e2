/*
Package validator implements EarthBucks transaction validation.

A transaction is checked against a read-only view of the unspent output set
at the height of the block that contains it. The checks run in a fixed
order and the first failure rejects the whole transaction:

 1. it is not a coinbase and has at least one input and one output
 2. its absolute lock is not above the block height
 3. no two inputs spend the same output
 4. every unlocking script is push-only and spends an output in the view
 5. every unlocking script takes a branch the locking template allows at
    this height, the relative lock of every input is reached and its public
    key hashes to the locked key hash
 6. every signature verifies through the configured TxScriptInterpreter
 7. the inputs carry at least as much value as the outputs

The validator never mutates the view.
*/
package validator

import (
	"context"
	"math/bits"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/script"
	"github.com/earthbucks/ebxnode/settings"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/tracing"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/earthbucks/ebxnode/util/hashing"
	"golang.org/x/sync/errgroup"
)

// Interface is what block validation needs from a transaction validator.
type Interface interface {
	ValidateTransaction(ctx context.Context, tx *model.Tx, view utxo.Interface, blockHeight uint32) error
}

type TxValidator struct {
	logger              ulogger.Logger
	settings            *settings.Settings
	interpreter         TxScriptInterpreter
	parallelSigChecks   bool
	sigCheckConcurrency int
}

// sigCheck is the signature work of one input. Single key templates carry
// one signature and one key, multisig carries m signatures matched in order
// against n keys.
type sigCheck struct {
	idx     int
	prevOut *model.TxOutput
	sigs    [][]byte
	pubKeys [][]byte
}

func New(logger ulogger.Logger, tSettings *settings.Settings, opts ...TxValidatorOption) (*TxValidator, error) {
	initPrometheusMetrics()

	options := NewTxValidatorOptions(opts...)

	interpreter := options.interpreter
	if interpreter == nil {
		name := TxInterpreter(tSettings.Validator.ScriptInterpreter)

		createTxScriptInterpreter, ok := TxScriptInterpreterFactory[name]
		if !ok {
			return nil, errors.NewConfigurationError("unknown script interpreter %q", name)
		}

		interpreter = createTxScriptInterpreter(logger)
	}

	tv := &TxValidator{
		logger:              logger,
		settings:            tSettings,
		interpreter:         interpreter,
		parallelSigChecks:   tSettings.Validator.ParallelSigChecks,
		sigCheckConcurrency: tSettings.Validator.SigCheckConcurrency,
	}

	if options.parallelSigChecks != nil {
		tv.parallelSigChecks = *options.parallelSigChecks
	}

	if options.sigCheckConcurrency > 0 {
		tv.sigCheckConcurrency = options.sigCheckConcurrency
	}

	return tv, nil
}

// ValidateTransaction checks tx against view as part of a block at blockHeight.
func (tv *TxValidator) ValidateTransaction(ctx context.Context, tx *model.Tx, view utxo.Interface, blockHeight uint32) (err error) {
	ctx, _, deferFn := tracing.StartTracing(ctx, "ValidateTransaction",
		tracing.WithHistogram(prometheusTransactionValidate),
		tracing.WithCounter(prometheusValidatedTransactions),
	)
	defer func() {
		deferFn()

		if err != nil {
			prometheusInvalidTransactions.Inc()

			if tv.settings.Validator.VerboseDebug {
				tv.logger.Debugf("[ValidateTransaction][%s] invalid: %v", hashing.Hex(tx.ID()), err)
			}
		}
	}()

	// 1) shape
	if tx.IsCoinbase() {
		return errors.NewTxInvalidError("coinbase transaction outside of block position 0")
	}

	if len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		return errors.NewTxInvalidError("transaction has no inputs or outputs")
	}

	// 2) absolute lock
	if tx.LockAbs > blockHeight {
		return errors.NewLockTimeError("absolute lock %d is above block height %d", tx.LockAbs, blockHeight)
	}

	// 3) no output is spent twice inside the transaction
	seen := make(map[utxo.Key]int, len(tx.Inputs))

	for i, in := range tx.Inputs {
		key := utxo.KeyFromInput(in)
		if first, ok := seen[key]; ok {
			return errors.NewTxInvalidDoubleSpendError("inputs %d and %d both spend %s", first, i, key)
		}

		seen[key] = i
	}

	// 4) push-only unlocking scripts spending known outputs
	entries := make([]*utxo.Entry, len(tx.Inputs))

	for i, in := range tx.Inputs {
		if in.Script == nil || !in.Script.IsPushOnly() {
			return errors.NewTxInvalidScriptError("input %d: unlocking script is not push-only", i)
		}

		key := utxo.KeyFromInput(in)

		entry, err := view.Get(ctx, key)
		if err != nil {
			if errors.IsInvariantViolation(err) {
				return err
			}

			return errors.NewStorageError("input %d: failed to look up %s", i, key, err)
		}

		if entry == nil {
			return errors.NewTxInvalidDoubleSpendError("input %d: output %s is spent or unknown", i, key)
		}

		entries[i] = entry
	}

	// 5) template rules
	checks := make([]sigCheck, 0, len(tx.Inputs))

	for i, in := range tx.Inputs {
		check, err := checkInput(i, in, entries[i], blockHeight)
		if err != nil {
			return err
		}

		if check != nil {
			checks = append(checks, *check)
		}
	}

	// 6) signatures
	if err = tv.verifySignatures(ctx, tx, checks); err != nil {
		return err
	}

	// 7) value conservation
	var inputTotal uint64

	for i, entry := range entries {
		var carry uint64

		inputTotal, carry = bits.Add64(inputTotal, entry.Output.Value, 0)
		if carry != 0 {
			return errors.NewTxInvalidError("input %d: input value overflows", i)
		}
	}

	outputTotal, err := tx.TotalOutputValue()
	if err != nil {
		return err
	}

	if inputTotal < outputTotal {
		return errors.NewTxInvalidError("outputs spend %d but inputs only carry %d", outputTotal, inputTotal)
	}

	return nil
}

// checkInput applies the template rules to input idx. It returns the
// signature work the input needs, or nil for expired branches that carry none.
func checkInput(idx int, in *model.TxInput, entry *utxo.Entry, blockHeight uint32) (*sigCheck, error) {
	if uint64(blockHeight) < uint64(entry.BlockHeight)+uint64(in.LockRel) {
		return nil, errors.NewLockTimeError("input %d: relative lock %d from height %d not reached at %d",
			idx, in.LockRel, entry.BlockHeight, blockHeight)
	}

	out := script.ClassifyOutput(entry.Output.Script)
	unlock := script.ClassifyInput(in.Script)

	single := func(pkh chainhash.Hash) (*sigCheck, error) {
		if hashing.DoubleHash(unlock.PubKey) != pkh {
			return nil, errors.NewTxInvalidScriptError("input %d: public key does not match the locked key hash", idx)
		}

		return &sigCheck{
			idx:     idx,
			prevOut: entry.Output,
			sigs:    [][]byte{unlock.Signature},
			pubKeys: [][]byte{unlock.PubKey},
		}, nil
	}

	mismatch := func() error {
		return errors.NewTxInvalidScriptError("input %d: %s unlocking script cannot spend a %s output", idx, unlock.Kind, out.Kind)
	}

	switch {
	case out.Kind == script.OutputPkh:
		if unlock.Kind == script.InputPkh {
			return single(out.Pkh)
		}

	case out.Kind.IsPkhx():
		switch unlock.Kind {
		case script.InputUnexpired:
			return single(out.Pkh)
		case script.InputExpiredPkhx:
			if !out.Kind.IsExpired(blockHeight, entry.BlockHeight) {
				return nil, errors.NewLockTimeError("input %d: %s output created at %d is not expired at %d",
					idx, out.Kind, entry.BlockHeight, blockHeight)
			}

			return nil, nil
		}

	case out.Kind.IsPkhxr():
		switch unlock.Kind {
		case script.InputUnexpired:
			return single(out.Pkh)
		case script.InputRecovery:
			if !out.Kind.IsRecoverable(blockHeight, entry.BlockHeight) {
				return nil, errors.NewLockTimeError("input %d: %s output created at %d is not recoverable at %d",
					idx, out.Kind, entry.BlockHeight, blockHeight)
			}

			return single(out.RecoveryPkh)
		case script.InputExpiredPkhxr:
			if !out.Kind.IsExpired(blockHeight, entry.BlockHeight) {
				return nil, errors.NewLockTimeError("input %d: %s output created at %d is not expired at %d",
					idx, out.Kind, entry.BlockHeight, blockHeight)
			}

			return nil, nil
		}

	case out.Kind == script.OutputMultiSig:
		sigs, ok := script.MultiSigSignatures(in.Script, out.Required)
		if !ok {
			return nil, errors.NewTxInvalidScriptError("input %d: expected %d multisig signatures", idx, out.Required)
		}

		return &sigCheck{idx: idx, prevOut: entry.Output, sigs: sigs, pubKeys: out.PubKeys}, nil

	default:
		return nil, errors.NewTxInvalidScriptError("input %d: output %s is not spendable", idx, out.Kind)
	}

	return nil, mismatch()
}

func (tv *TxValidator) verifySignatures(ctx context.Context, tx *model.Tx, checks []sigCheck) error {
	_, _, deferFn := tracing.StartTracing(ctx, "verifySignatures",
		tracing.WithHistogram(prometheusTransactionValidateScripts),
	)
	defer deferFn()

	if !tv.parallelSigChecks || len(checks) < 2 {
		for _, check := range checks {
			if err := tv.verifySigCheck(tx, check); err != nil {
				return err
			}
		}

		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)

	if tv.sigCheckConcurrency > 0 {
		g.SetLimit(tv.sigCheckConcurrency)
	}

	for _, check := range checks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return errors.NewContextCanceledError("input %d: signature check stopped", check.idx, err)
			}

			return tv.verifySigCheck(tx, check)
		})
	}

	return g.Wait()
}

// verifySigCheck matches signatures to keys in order, each key is tried at
// most once, so m signatures need m distinct keys in the locked order.
func (tv *TxValidator) verifySigCheck(tx *model.Tx, check sigCheck) error {
	keyIdx := 0

	for sigIdx, sig := range check.sigs {
		var lastErr error

		for ; keyIdx < len(check.pubKeys); keyIdx++ {
			lastErr = tv.interpreter.VerifySignature(tx, check.idx, check.prevOut, sig, check.pubKeys[keyIdx])
			if lastErr == nil {
				break
			}
		}

		if keyIdx == len(check.pubKeys) {
			if lastErr == nil {
				return errors.NewTxInvalidSignatureError("input %d: no key left for signature %d", check.idx, sigIdx)
			}

			if len(check.sigs) == 1 {
				return lastErr
			}

			return errors.NewTxInvalidSignatureError("input %d: multisig signature %d matches no remaining key", check.idx, sigIdx, lastErr)
		}

		keyIdx++
	}

	return nil
}
