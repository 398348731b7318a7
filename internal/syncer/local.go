package syncer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/storage"
)

// LoadLocal reads every collection from the local store. Missing keys fall
// back to the collection default (empty, or the default categories). A key
// holding undecodable data is reported as storage.ErrCorrupt.
func (e *Engine) LoadLocal(ctx context.Context) (models.Snapshot, error) {
	snap := models.EmptySnapshot()
	for _, c := range models.AllCollections {
		raw, err := e.local.Load(ctx, string(c))
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to load %s: %w", c, err)
		}
		if raw == nil {
			continue
		}
		if err := decodeCollection(c, raw, &snap); err != nil {
			return models.Snapshot{}, fmt.Errorf("local %s: %w: %v", c, storage.ErrCorrupt, err)
		}
	}
	return snap, nil
}

// SaveLocal writes every collection of snap to the local store, one key per
// collection.
func (e *Engine) SaveLocal(ctx context.Context, snap models.Snapshot) error {
	for _, c := range models.AllCollections {
		raw, err := encodeCollection(c, snap)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", c, err)
		}
		if err := e.local.Save(ctx, string(c), raw); err != nil {
			return err
		}
	}
	return nil
}

func decodeCollection(c models.Collection, raw []byte, snap *models.Snapshot) error {
	switch c {
	case models.CollectionExpenses:
		return json.Unmarshal(raw, &snap.Expenses)
	case models.CollectionDebts:
		return json.Unmarshal(raw, &snap.Debts)
	case models.CollectionLoans:
		return json.Unmarshal(raw, &snap.Loans)
	case models.CollectionTodos:
		return json.Unmarshal(raw, &snap.Todos)
	case models.CollectionNames:
		return json.Unmarshal(raw, &snap.Names)
	case models.CollectionCategories:
		return json.Unmarshal(raw, &snap.Categories)
	}
	return fmt.Errorf("unknown collection %q", c)
}

func encodeCollection(c models.Collection, snap models.Snapshot) ([]byte, error) {
	switch c {
	case models.CollectionExpenses:
		return json.Marshal(snap.Expenses)
	case models.CollectionDebts:
		return json.Marshal(snap.Debts)
	case models.CollectionLoans:
		return json.Marshal(snap.Loans)
	case models.CollectionTodos:
		return json.Marshal(snap.Todos)
	case models.CollectionNames:
		return json.Marshal(snap.Names)
	case models.CollectionCategories:
		return json.Marshal(snap.Categories)
	}
	return nil, fmt.Errorf("unknown collection %q", c)
}
