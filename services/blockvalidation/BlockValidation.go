// Package blockvalidation decides whether a candidate block is valid at a
// given time against the unspent output set it extends.
//
// A block is checked in a fixed order: its timestamp and header against the
// chain, its merkle root, its coinbase and then every other transaction in
// sequence. Each transaction sees the outputs created and consumed by the
// transactions before it, but not the coinbase outputs, which only join the
// set once the block is accepted. All of that happens on a staged overlay that is
// only committed to the caller's set when the whole block is valid, so a
// rejected block leaves the set exactly as it was.
package blockvalidation

import (
	"context"
	"unicode/utf8"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/services/validator"
	"github.com/earthbucks/ebxnode/settings"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/tracing"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/earthbucks/ebxnode/util/domain"
	"github.com/earthbucks/ebxnode/util/hashing"
	"github.com/looplab/fsm"
)

// HeaderChain is the chain selection rule: proof of work, difficulty and
// timestamp rules for a new header on the current longest chain.
type HeaderChain interface {
	NewHeaderIsValidAt(header *model.BlockHeader, timestamp uint64) bool
}

// HeaderChainFunc adapts a function to HeaderChain.
type HeaderChainFunc func(header *model.BlockHeader, timestamp uint64) bool

func (f HeaderChainFunc) NewHeaderIsValidAt(header *model.BlockHeader, timestamp uint64) bool {
	return f(header, timestamp)
}

type BlockValidator struct {
	logger          ulogger.Logger
	settings        *settings.Settings
	chain           HeaderChain
	txValidator     validator.Interface
	coinbaseAmount  func(height uint32) uint64
	domainValidator func(domain string) bool
}

// Result is the outcome of one validation pass. State is StateValid or
// StateInvalid, TxsChecked counts the non-coinbase transactions that passed
// before the pass ended.
type Result struct {
	State      string
	TxsChecked int
	Err        error
}

func (r *Result) Valid() bool {
	return r.State == StateValid
}

func New(logger ulogger.Logger, tSettings *settings.Settings, chain HeaderChain, opts ...Option) (*BlockValidator, error) {
	initPrometheusMetrics()

	options := &Options{}
	for _, o := range opts {
		o(options)
	}

	bv := &BlockValidator{
		logger:          logger,
		settings:        tSettings,
		chain:           chain,
		txValidator:     options.txValidator,
		coinbaseAmount:  options.coinbaseAmount,
		domainValidator: options.domainValidator,
	}

	if bv.txValidator == nil {
		txValidator, err := validator.New(logger, tSettings)
		if err != nil {
			return nil, err
		}

		bv.txValidator = txValidator
	}

	if bv.coinbaseAmount == nil {
		bv.coinbaseAmount = tSettings.ChainCfgParams.CoinbaseAmount
	}

	if bv.domainValidator == nil {
		bv.domainValidator = domain.IsValidDomain
	}

	return bv, nil
}

// ValidateBlock checks block at the caller's wall clock timestamp against
// utxos. On success the block's effects are committed to utxos, on failure
// utxos is left untouched and the returned error says why. The error is nil
// exactly when the result is valid.
func (bv *BlockValidator) ValidateBlock(ctx context.Context, block *model.Block, timestamp uint64, utxos utxo.Interface) (*Result, error) {
	ctx, _, deferFn := tracing.StartTracing(ctx, "ValidateBlock",
		tracing.WithHistogram(prometheusBlockValidationValidateBlock),
	)
	defer deferFn()

	machine := newValidationFSM()
	result := &Result{}

	// the machine must still reach INVALID when ctx is canceled
	fsmCtx := context.WithoutCancel(ctx)

	err := bv.validate(ctx, fsmCtx, machine, result, block, timestamp, utxos)
	if err != nil {
		prometheusBlockValidationInvalidBlocks.Inc()

		if errors.IsInvariantViolation(err) {
			bv.logger.Errorf("[ValidateBlock] invariant violation, aborting: %v", err)
		} else if block != nil && block.Header != nil {
			bv.logger.Infof("[ValidateBlock][%s] block %d invalid in state %s: %v",
				hashing.Hex(block.Hash()), block.Header.BlockNum, machine.Current(), err)
		}

		_ = machine.Event(fsmCtx, EventReject)
	} else {
		_ = machine.Event(fsmCtx, EventAccept)

		bv.logger.Infof("[ValidateBlock][%s] block %d valid with %d transactions",
			hashing.Hex(block.Hash()), block.Header.BlockNum, len(block.Txs))
	}

	result.State = machine.Current()
	result.Err = err

	return result, err
}

func (bv *BlockValidator) validate(ctx, fsmCtx context.Context, machine *fsm.FSM, result *Result, block *model.Block,
	timestamp uint64, utxos utxo.Interface) error {
	if block == nil || block.Header == nil {
		return errors.NewBlockInvalidError("block has no header")
	}

	header := block.Header

	// 1) and 2) the header
	if timestamp < header.Timestamp {
		return errors.NewBlockHeaderInvalidError("header timestamp %d is after the validation time %d", header.Timestamp, timestamp)
	}

	if !bv.chain.NewHeaderIsValidAt(header, timestamp) {
		return errors.NewBlockHeaderInvalidError("header %s is not valid on the chain at %d", hashing.Hex(header.ID()), timestamp)
	}

	if err := machine.Event(fsmCtx, EventCheckHeader); err != nil {
		return errors.NewProcessingError("[ValidateBlock] state machine", err)
	}

	// 3) merkle root
	if err := block.CheckMerkleRoot(); err != nil {
		return err
	}

	if err := machine.Event(fsmCtx, EventCheckMerkle); err != nil {
		return errors.NewProcessingError("[ValidateBlock] state machine", err)
	}

	// 4) coinbase
	if err := bv.checkCoinbase(block); err != nil {
		return err
	}

	if err := machine.Event(fsmCtx, EventCheckCoinbase); err != nil {
		return errors.NewProcessingError("[ValidateBlock] state machine", err)
	}

	// 5) transactions, staged on an overlay
	staged := utxo.NewOverlay(utxos)
	height := header.BlockNum

	for i, tx := range block.Txs[1:] {
		if err := ctx.Err(); err != nil {
			return errors.NewContextCanceledError("[ValidateBlock] stopped before tx %d", i+1, err)
		}

		if err := bv.applyTx(ctx, staged, tx, i+1, height); err != nil {
			return err
		}

		result.TxsChecked++
	}

	// coinbase outputs are not spendable inside their own block
	if err := staged.AddTxOutputs(ctx, block.Txs[0], height); err != nil {
		return errors.NewProcessingError("[ValidateBlock] coinbase outputs", err)
	}

	if err := machine.Event(fsmCtx, EventCheckTxs); err != nil {
		return errors.NewProcessingError("[ValidateBlock] state machine", err)
	}

	if err := staged.Commit(ctx); err != nil {
		return errors.NewProcessingError("[ValidateBlock] failed to commit block effects", err)
	}

	return nil
}

// applyTx validates tx against the staged set, then adds its outputs and
// removes the outputs it spends.
func (bv *BlockValidator) applyTx(ctx context.Context, staged *utxo.Overlay, tx *model.Tx, idx int, height uint32) error {
	if err := bv.txValidator.ValidateTransaction(ctx, tx, staged, height); err != nil {
		if errors.IsRejection(err) {
			return errors.NewBlockInvalidError("tx %d (%s) is invalid", idx, hashing.Hex(tx.ID()), err)
		}

		return errors.NewProcessingError("[ValidateBlock] tx %d", idx, err)
	}

	if err := staged.AddTxOutputs(ctx, tx, height); err != nil {
		return errors.NewProcessingError("[ValidateBlock] tx %d outputs", idx, err)
	}

	for j, in := range tx.Inputs {
		if err := staged.Remove(ctx, utxo.KeyFromInput(in)); err != nil {
			if errors.Is(err, errors.ErrTxNotFound) {
				// the validator resolved this input against the same overlay
				return errors.NewInvariantViolationError("tx %d input %d vanished from the staged set", idx, j, err)
			}

			return errors.NewProcessingError("[ValidateBlock] tx %d input %d", idx, j, err)
		}
	}

	prometheusBlockValidationTransactions.Inc()

	if bv.settings.BlockValidation.Verbose {
		bv.logger.Debugf("[ValidateBlock] applied tx %d %s at height %d", idx, hashing.Hex(tx.ID()), height)
	}

	return nil
}

// checkCoinbase applies the coinbase rules to the first transaction.
func (bv *BlockValidator) checkCoinbase(block *model.Block) error {
	height := block.Header.BlockNum

	// a) present and shaped as a coinbase
	if len(block.Txs) == 0 {
		return errors.NewBlockCoinbaseInvalidError("block has no transactions")
	}

	coinbase := block.Txs[0]
	if !coinbase.IsCoinbase() {
		return errors.NewBlockCoinbaseInvalidError("first transaction is not a coinbase")
	}

	// b) absolute lock is the block height
	if coinbase.LockAbs != height {
		return errors.NewBlockCoinbaseInvalidError("coinbase lock %d does not match block height %d", coinbase.LockAbs, height)
	}

	// c) version
	if coinbase.Version != bv.settings.ChainCfgParams.CoinbaseVersion {
		return errors.NewBlockCoinbaseInvalidError("coinbase version %d, expected %d", coinbase.Version, bv.settings.ChainCfgParams.CoinbaseVersion)
	}

	// d) plain pkh outputs only
	for i, output := range coinbase.Outputs {
		if !output.Script.IsPkhOutput() {
			return errors.NewBlockCoinbaseInvalidError("coinbase output %d is not a pkh output", i)
		}
	}

	// e) the scheduled reward, exactly
	total, err := coinbase.TotalOutputValue()
	if err != nil {
		return errors.NewBlockCoinbaseInvalidError("coinbase outputs", err)
	}

	if expected := bv.coinbaseAmount(height); total != expected {
		return errors.NewBlockCoinbaseInvalidError("coinbase pays %d, expected %d at height %d", total, expected, height)
	}

	// f) push-only input
	inputScript := coinbase.Inputs[0].Script
	if inputScript == nil || !inputScript.IsPushOnly() {
		return errors.NewBlockCoinbaseInvalidError("coinbase input script is not push-only")
	}

	// g) the last push names the domain that mined the block
	if len(inputScript.Chunks) == 0 {
		return errors.NewBlockCoinbaseInvalidError("coinbase input script is empty")
	}

	last := inputScript.Chunks[len(inputScript.Chunks)-1]
	if !last.HasData() {
		return errors.NewBlockCoinbaseInvalidError("coinbase input script does not end with a domain push")
	}

	if !utf8.Valid(last.Data) {
		return errors.NewBlockCoinbaseInvalidError("coinbase domain is not valid UTF-8")
	}

	if name := string(last.Data); !bv.domainValidator(name) {
		return errors.NewBlockCoinbaseInvalidError("coinbase domain %q is not a valid domain name", name)
	}

	return nil
}
