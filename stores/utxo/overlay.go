package utxo

import (
	"context"
	"slices"
	"sync"

	"github.com/earthbucks/ebxnode/model"
)

// Overlay stages additions and removals on top of a base set without touching
// it. Reads see the staged state. Commit pushes the staged changes to the
// base, Discard drops them.
type Overlay struct {
	mu      sync.RWMutex
	base    Interface
	added   map[Key]*Entry
	removed map[Key]struct{}
}

func NewOverlay(base Interface) *Overlay {
	return &Overlay{
		base:    base,
		added:   make(map[Key]*Entry),
		removed: make(map[Key]struct{}),
	}
}

func (o *Overlay) Get(ctx context.Context, key Key) (*Entry, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.get(ctx, key)
}

func (o *Overlay) get(ctx context.Context, key Key) (*Entry, error) {
	if entry, ok := o.added[key]; ok {
		return entry, nil
	}

	if _, ok := o.removed[key]; ok {
		return nil, nil
	}

	return o.base.Get(ctx, key)
}

func (o *Overlay) Put(ctx context.Context, key Key, entry *Entry) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.put(ctx, key, entry)
}

func (o *Overlay) put(ctx context.Context, key Key, entry *Entry) error {
	existing, err := o.get(ctx, key)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.Equal(entry) {
			return nil
		}

		return NewCollisionError(key)
	}

	// a key removed from the base stays in removed, the commit then
	// replaces the base entry
	o.added[key] = entry

	return nil
}

func (o *Overlay) Remove(ctx context.Context, key Key) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.added[key]; ok {
		delete(o.added, key)
		return nil
	}

	if _, ok := o.removed[key]; ok {
		return NewNotFoundError(key)
	}

	existing, err := o.base.Get(ctx, key)
	if err != nil {
		return err
	}

	if existing == nil {
		return NewNotFoundError(key)
	}

	o.removed[key] = struct{}{}

	return nil
}

func (o *Overlay) AddTxOutputs(ctx context.Context, tx *model.Tx, blockHeight uint32) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	txID := tx.ID()

	for i, output := range tx.Outputs {
		if err := o.put(ctx, NewKey(txID, uint32(i)), NewEntry(output, blockHeight)); err != nil {
			return err
		}
	}

	return nil
}

func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.base.Len() - len(o.removed) + len(o.added)
}

// Changes returns the staged removals followed by the staged additions, each
// sorted by key.
func (o *Overlay) Changes() []Change {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.changes()
}

func (o *Overlay) changes() []Change {
	removed := make([]Key, 0, len(o.removed))
	for key := range o.removed {
		removed = append(removed, key)
	}

	added := make([]Key, 0, len(o.added))
	for key := range o.added {
		added = append(added, key)
	}

	slices.SortFunc(removed, Key.Compare)
	slices.SortFunc(added, Key.Compare)

	changes := make([]Change, 0, len(removed)+len(added))
	for _, key := range removed {
		changes = append(changes, Change{Key: key})
	}

	for _, key := range added {
		changes = append(changes, Change{Key: key, Entry: o.added[key]})
	}

	return changes
}

// Commit applies the staged changes to the base and clears the overlay. The
// commit is atomic when the base is a BatchApplier. On error the staged
// changes are kept.
func (o *Overlay) Commit(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ApplyChanges(ctx, o.base, o.changes()); err != nil {
		return err
	}

	o.reset()

	return nil
}

func (o *Overlay) Discard() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.reset()
}

func (o *Overlay) reset() {
	o.added = make(map[Key]*Entry)
	o.removed = make(map[Key]struct{})
}
