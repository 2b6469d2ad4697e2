package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/services/blockvalidation"
	"github.com/earthbucks/ebxnode/services/validator"
	"github.com/earthbucks/ebxnode/settings"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/stores/utxo/badger"
	utxologger "github.com/earthbucks/ebxnode/stores/utxo/logger"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/earthbucks/ebxnode/util/hashing"
	"github.com/urfave/cli/v2"
)

type commandEnv struct {
	settings *settings.Settings
	logger   ulogger.Logger
}

type commandFunc func(c *cli.Context, env *commandEnv, store utxo.Interface) error

// action opens the unspent output set for the duration of fn.
func (env *commandEnv) action(fn commandFunc) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		db, err := badger.New(env.logger, c.String("utxos"))
		if err != nil {
			return err
		}

		defer func() {
			err = errors.Join(err, db.Close())
		}()

		var store utxo.Interface = db
		if c.Bool("trace-utxos") {
			store = utxologger.New(env.logger, db)
		}

		return fn(c, env, store)
	}
}

// readHex reads a whitespace trimmed hex string from path, or stdin for "-".
func readHex(path string) ([]byte, error) {
	var (
		b   []byte
		err error
	)

	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, errors.NewProcessingError("failed to read %s", path, err)
	}

	decoded, err := hex.DecodeString(strings.TrimSpace(string(b)))
	if err != nil {
		return nil, errors.NewInvalidArgumentError("%s is not valid hex", path, err)
	}

	return decoded, nil
}

// heightFlag reads --height, which must fit a block number.
func heightFlag(c *cli.Context) (uint32, error) {
	height := c.Uint64("height")
	if height > math.MaxUint32 {
		return 0, errors.NewInvalidArgumentError("--height %d is above %d", height, uint64(math.MaxUint32))
	}

	return uint32(height), nil
}

func readTx(path string) (*model.Tx, error) {
	b, err := readHex(path)
	if err != nil {
		return nil, err
	}

	return model.NewTxFromBytes(b)
}

func validateBlock(c *cli.Context, env *commandEnv, store utxo.Interface) error {
	b, err := readHex(c.String("file"))
	if err != nil {
		return err
	}

	block, err := model.NewBlockFromBytes(b)
	if err != nil {
		return err
	}

	chain, err := headerChain(c.String("prev"))
	if err != nil {
		return err
	}

	bv, err := blockvalidation.New(env.logger, env.settings, chain)
	if err != nil {
		return err
	}

	target := store

	var dryRun *utxo.Overlay
	if c.Bool("dry-run") {
		dryRun = utxo.NewOverlay(store)
		target = dryRun
	}

	result, err := bv.ValidateBlock(c.Context, block, c.Uint64("timestamp"), target)
	if dryRun != nil {
		dryRun.Discard()
	}

	fmt.Fprintf(c.App.Writer, "block %s height %d: %s (%d transactions checked)\n",
		hashing.Hex(block.Hash()), block.Header.BlockNum, result.State, result.TxsChecked)

	return err
}

// headerChain accepts every header, or only those extending prev when it is set.
// Proof of work and difficulty belong to the header chain of a full node.
func headerChain(prev string) (blockvalidation.HeaderChain, error) {
	if prev == "" {
		return blockvalidation.HeaderChainFunc(func(*model.BlockHeader, uint64) bool { return true }), nil
	}

	prevID, err := hashing.NewHashFromHex(prev)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid --prev block id", err)
	}

	return blockvalidation.HeaderChainFunc(func(header *model.BlockHeader, _ uint64) bool {
		return header.PrevBlockID == prevID
	}), nil
}

func validateTx(c *cli.Context, env *commandEnv, store utxo.Interface) error {
	height, err := heightFlag(c)
	if err != nil {
		return err
	}

	tx, err := readTx(c.String("file"))
	if err != nil {
		return err
	}

	tv, err := validator.New(env.logger, env.settings)
	if err != nil {
		return err
	}

	if err = tv.ValidateTransaction(c.Context, tx, store, height); err != nil {
		fmt.Fprintf(c.App.Writer, "tx %s: INVALID\n", hashing.Hex(tx.ID()))
		return err
	}

	fmt.Fprintf(c.App.Writer, "tx %s: VALID\n", hashing.Hex(tx.ID()))

	return nil
}

func importTx(c *cli.Context, _ *commandEnv, store utxo.Interface) error {
	height, err := heightFlag(c)
	if err != nil {
		return err
	}

	tx, err := readTx(c.String("file"))
	if err != nil {
		return err
	}

	if err = store.AddTxOutputs(c.Context, tx, height); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "tx %s: added %d outputs, set holds %d\n", hashing.Hex(tx.ID()), len(tx.Outputs), store.Len())

	return nil
}
