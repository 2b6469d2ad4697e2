// Package logger decorates a utxo.Interface so that every call, its result
// and its call site are logged. It is meant for debugging consensus failures.
package logger

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/earthbucks/ebxnode/util/hashing"
)

type Store struct {
	logger ulogger.Logger
	store  utxo.Interface
}

func New(logger ulogger.Logger, store utxo.Interface) *Store {
	return &Store{
		logger: logger,
		store:  store,
	}
}

func caller() string {
	var callers []string

	depth := 3

	for i := 0; i < depth; i++ {
		pc, file, line, ok := runtime.Caller(2 + i)
		if !ok {
			break
		}

		// trim everything up to and including the module directory
		folders := strings.Split(file, string(filepath.Separator))
		for j, folder := range folders {
			if folder == "ebxnode" {
				folders = folders[j+1:]
				break
			}
		}

		file = filepath.Join(folders...)

		funcName := runtime.FuncForPC(pc).Name()
		funcPaths := strings.Split(funcName, "/")
		funcName = funcPaths[len(funcPaths)-1]

		callers = append(callers, fmt.Sprintf("called from %s: %s:%d", funcName, file, line))
	}

	return strings.Join(callers, ",")
}

func entryString(entry *utxo.Entry) string {
	if entry == nil {
		return "<nil>"
	}

	return fmt.Sprintf("{Value %d, Height %d, Script %x}", entry.Output.Value, entry.BlockHeight, entry.Output.Script.Bytes())
}

func (s *Store) Get(ctx context.Context, key utxo.Key) (*utxo.Entry, error) {
	entry, err := s.store.Get(ctx, key)
	s.logger.Infof("[UTXOStore][logger][Get] key %s entry %s err %v : %s", key, entryString(entry), err, caller())

	return entry, err
}

func (s *Store) Put(ctx context.Context, key utxo.Key, entry *utxo.Entry) error {
	err := s.store.Put(ctx, key, entry)
	s.logger.Infof("[UTXOStore][logger][Put] key %s entry %s err %v : %s", key, entryString(entry), err, caller())

	return err
}

func (s *Store) Remove(ctx context.Context, key utxo.Key) error {
	err := s.store.Remove(ctx, key)
	s.logger.Infof("[UTXOStore][logger][Remove] key %s err %v : %s", key, err, caller())

	return err
}

func (s *Store) AddTxOutputs(ctx context.Context, tx *model.Tx, blockHeight uint32) error {
	err := s.store.AddTxOutputs(ctx, tx, blockHeight)

	outputDetails := make([]string, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputDetails[i] = fmt.Sprintf("{Output %d: Value %d, Script %x}", i, output.Value, output.Script.Bytes())
	}

	s.logger.Infof("[UTXOStore][logger][AddTxOutputs] tx %s, outputs: [%s], blockHeight %d, err %v : %s",
		hashing.Hex(tx.ID()),
		strings.Join(outputDetails, ", "),
		blockHeight,
		err,
		caller())

	return err
}

func (s *Store) Len() int {
	n := s.store.Len()
	s.logger.Infof("[UTXOStore][logger][Len] %d : %s", n, caller())

	return n
}

func (s *Store) ApplyBatch(ctx context.Context, changes []utxo.Change) error {
	err := utxo.ApplyChanges(ctx, s.store, changes)

	removed := 0
	for _, change := range changes {
		if change.Entry == nil {
			removed++
		}
	}

	s.logger.Infof("[UTXOStore][logger][ApplyBatch] %d additions, %d removals, err %v : %s",
		len(changes)-removed, removed, err, caller())

	return err
}
