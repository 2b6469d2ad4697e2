// Package memory is an in-memory unspent output set backed by a swiss map.
package memory

import (
	"context"
	"sync"

	"github.com/dolthub/swiss"
	"github.com/earthbucks/ebxnode/model"
	"github.com/earthbucks/ebxnode/stores/utxo"
	"github.com/earthbucks/ebxnode/ulogger"
)

const initialCapacity = 1024

type Memory struct {
	mu     sync.RWMutex
	logger ulogger.Logger
	m      *swiss.Map[utxo.Key, utxo.Entry]
}

func New(logger ulogger.Logger) *Memory {
	// the swiss map uses a lot less memory than the standard map
	return &Memory{
		logger: logger,
		m:      swiss.NewMap[utxo.Key, utxo.Entry](initialCapacity),
	}
}

func (m *Memory) Get(_ context.Context, key utxo.Key) (*utxo.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.get(key), nil
}

func (m *Memory) get(key utxo.Key) *utxo.Entry {
	entry, ok := m.m.Get(key)
	if !ok {
		return nil
	}

	return &entry
}

func (m *Memory) Put(_ context.Context, key utxo.Key, entry *utxo.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.put(key, entry)
}

func (m *Memory) put(key utxo.Key, entry *utxo.Entry) error {
	if existing := m.get(key); existing != nil {
		if existing.Equal(entry) {
			return nil
		}

		m.logger.Errorf("[Memory] collision on %s at height %d", key, entry.BlockHeight)

		return utxo.NewCollisionError(key)
	}

	m.m.Put(key, *entry)

	return nil
}

func (m *Memory) Remove(_ context.Context, key utxo.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.m.Has(key) {
		return utxo.NewNotFoundError(key)
	}

	m.m.Delete(key)

	return nil
}

func (m *Memory) AddTxOutputs(_ context.Context, tx *model.Tx, blockHeight uint32) error {
	txID := tx.ID()

	changes := make([]utxo.Change, len(tx.Outputs))
	for i, output := range tx.Outputs {
		changes[i] = utxo.Change{Key: utxo.NewKey(txID, uint32(i)), Entry: utxo.NewEntry(output, blockHeight)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.applyBatch(changes)
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.m.Count()
}

// ApplyBatch applies every change or, if any would fail, none of them.
func (m *Memory) ApplyBatch(_ context.Context, changes []utxo.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.applyBatch(changes)
}

func (m *Memory) applyBatch(changes []utxo.Change) error {
	if err := utxo.CheckChanges(changes, func(key utxo.Key) (*utxo.Entry, error) {
		return m.get(key), nil
	}); err != nil {
		return err
	}

	for _, change := range changes {
		if change.Entry == nil {
			m.m.Delete(change.Key)
		} else {
			m.m.Put(change.Key, *change.Entry)
		}
	}

	return nil
}

// Clone returns an independent copy of the set. Outputs are shared, they are
// never mutated once stored.
func (m *Memory) Clone() *Memory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clone := swiss.NewMap[utxo.Key, utxo.Entry](uint32(max(m.m.Count(), initialCapacity)))

	m.m.Iter(func(k utxo.Key, v utxo.Entry) bool {
		clone.Put(k, v)
		return false
	})

	return &Memory{
		logger: m.logger,
		m:      clone,
	}
}

// Keys returns every key in the set, in no particular order.
func (m *Memory) Keys() []utxo.Key {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]utxo.Key, 0, m.m.Count())

	m.m.Iter(func(k utxo.Key, _ utxo.Entry) bool {
		keys = append(keys, k)
		return false
	})

	return keys
}
