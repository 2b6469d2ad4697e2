// Package badger is a persistent unspent output set on badger/v3. Keys are
// the 36 byte encoded utxo.Key, values the encoded utxo.Entry.
package badger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"
	ebxerrors "github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/tracing"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/ordishs/gocore"
)

var stat = gocore.NewStat("utxostore_badger", true)

type loggerWrapper struct {
	ulogger.Logger
}

func (l loggerWrapper) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

type Badger struct {
	// mu serialises writers so the existence check and the write of a Put
	// cannot interleave with another batch
	mu     sync.Mutex
	store  *badger.DB
	logger ulogger.Logger
	count  atomic.Int64
}

func New(logger ulogger.Logger, dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(loggerWrapper{logger}).
		WithLoggingLevel(badger.ERROR)

	s, err := badger.Open(opts)
	if err != nil {
		return nil, ebxerrors.NewStorageUnavailableError("[Badger] failed to open %s", dir, err)
	}

	b := &Badger{
		store:  s,
		logger: logger,
	}

	n, err := b.countKeys()
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	b.count.Store(n)

	logger.Infof("[Badger] opened utxo set at %s with %d entries", dir, n)

	return b, nil
}

func (b *Badger) countKeys() (int64, error) {
	var n int64

	err := b.store.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}

		return nil
	})
	if err != nil {
		return 0, ebxerrors.NewStorageError("[Badger] failed to count entries", err)
	}

	return n, nil
}

func (b *Badger) Get(ctx context.Context, key utxo.Key) (*utxo.Entry, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("Get", true).AddTime(start)
	}()

	traceSpan := tracing.Start(ctx, "Badger:Get")
	defer traceSpan.Finish()

	var entry *utxo.Entry

	err := b.store.View(func(txn *badger.Txn) error {
		var err error
		entry, err = getEntry(txn, key)

		return err
	})
	if err != nil {
		traceSpan.RecordError(err)
		return nil, err
	}

	return entry, nil
}

func getEntry(txn *badger.Txn, key utxo.Key) (*utxo.Entry, error) {
	item, err := txn.Get(key.Bytes())
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, ebxerrors.NewStorageError("[Badger] failed to get %s", key, err)
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, ebxerrors.NewStorageError("[Badger] failed to read %s", key, err)
	}

	entry, err := utxo.NewEntryFromBytes(value)
	if err != nil {
		return nil, ebxerrors.NewInvariantViolationError("[Badger] corrupt entry for %s", key, err)
	}

	return entry, nil
}

func (b *Badger) Put(ctx context.Context, key utxo.Key, entry *utxo.Entry) error {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("Put", true).AddTime(start)
	}()

	traceSpan := tracing.Start(ctx, "Badger:Put")
	defer traceSpan.Finish()

	err := b.applyBatch([]utxo.Change{{Key: key, Entry: entry}})
	traceSpan.RecordError(err)

	return err
}

func (b *Badger) Remove(ctx context.Context, key utxo.Key) error {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("Remove", true).AddTime(start)
	}()

	traceSpan := tracing.Start(ctx, "Badger:Remove")
	defer traceSpan.Finish()

	err := b.applyBatch([]utxo.Change{{Key: key}})
	traceSpan.RecordError(err)

	return err
}

func (b *Badger) AddTxOutputs(ctx context.Context, tx *model.Tx, blockHeight uint32) error {
	txID := tx.ID()

	changes := make([]utxo.Change, len(tx.Outputs))
	for i, output := range tx.Outputs {
		changes[i] = utxo.Change{Key: utxo.NewKey(txID, uint32(i)), Entry: utxo.NewEntry(output, blockHeight)}
	}

	return b.ApplyBatch(ctx, changes)
}

func (b *Badger) Len() int {
	return int(b.count.Load())
}

// ApplyBatch applies all changes in a single badger transaction.
func (b *Badger) ApplyBatch(ctx context.Context, changes []utxo.Change) error {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("ApplyBatch", true).AddTime(start)
	}()

	traceSpan := tracing.Start(ctx, "Badger:ApplyBatch")
	defer traceSpan.Finish()

	err := b.applyBatch(changes)
	traceSpan.RecordError(err)

	return err
}

func (b *Badger) applyBatch(changes []utxo.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var delta int64

	err := b.store.Update(func(txn *badger.Txn) error {
		delta = 0

		for _, change := range changes {
			// the transaction reads its own pending writes
			existing, err := getEntry(txn, change.Key)
			if err != nil {
				return err
			}

			if change.Entry == nil {
				if existing == nil {
					return utxo.NewNotFoundError(change.Key)
				}

				if err = txn.Delete(change.Key.Bytes()); err != nil {
					return b.txnError(change.Key, err)
				}

				delta--

				continue
			}

			value := change.Entry.Bytes()

			if existing != nil {
				if bytes.Equal(existing.Bytes(), value) {
					continue
				}

				b.logger.Errorf("[Badger] collision on %s", change.Key)

				return utxo.NewCollisionError(change.Key)
			}

			if err = txn.Set(change.Key.Bytes(), value); err != nil {
				return b.txnError(change.Key, err)
			}

			delta++
		}

		return nil
	})
	if err != nil {
		return err
	}

	b.count.Add(delta)

	return nil
}

func (b *Badger) txnError(key utxo.Key, err error) error {
	if errors.Is(err, badger.ErrTxnTooBig) {
		return ebxerrors.NewStorageError("[Badger] batch too large at %s", key, err)
	}

	return ebxerrors.NewStorageError("[Badger] failed to write %s", key, err)
}

func (b *Badger) Close() error {
	if err := b.store.Close(); err != nil {
		return ebxerrors.NewStorageError("[Badger] failed to close", err)
	}

	return nil
}
