package utxo

import (
	"github.com/earthbucks/ebxnode/errors"
)

// NewCollisionError reports a Put that would overwrite key with a different
// entry. Two distinct outputs under one key mean a tx id collision or a
// corrupted set, so this is an invariant violation and never a rejection.
func NewCollisionError(key Key) error {
	return errors.NewInvariantViolationError("[utxo] %s already holds a different entry", key,
		errors.NewTxAlreadyExistsError("output %s already exists", key))
}

func NewNotFoundError(key Key) error {
	return errors.NewTxNotFoundError("[utxo] output %s not found", key)
}

// CheckChanges validates changes in order against lookup, as if each had
// been applied before the next one. Stores apply a batch only after it
// passes, which is what makes their ApplyBatch atomic.
func CheckChanges(changes []Change, lookup func(Key) (*Entry, error)) error {
	pending := make(map[Key]*Entry, len(changes))

	for _, change := range changes {
		current, touched := pending[change.Key]
		if !touched {
			var err error
			if current, err = lookup(change.Key); err != nil {
				return err
			}
		}

		if change.Entry == nil {
			if current == nil {
				return NewNotFoundError(change.Key)
			}
		} else if current != nil && !current.Equal(change.Entry) {
			return NewCollisionError(change.Key)
		}

		pending[change.Key] = change.Entry
	}

	return nil
}
