package reconcile

import (
	"context"
	"fmt"
)

// Mutator persists a commit plan. Implementations must write every entry or none.
type Mutator[T any] interface {
	ApplyPlan(ctx context.Context, entries []DiffEntry[T]) error
}

// Snapshotter provides the keyed read view a batch is reconciled against.
// keys narrows the read to the batch; nil reads everything.
type Snapshotter[T any] interface {
	Snapshot(ctx context.Context, keys []string) (map[string]T, error)
}

// ReconcileWithPlan reads the snapshot for the batch keys and classifies the batch.
// It does NOT execute mutations; use ApplyPlan for that.
func ReconcileWithPlan[T any](
	ctx context.Context,
	adapter Adapter[T],
	source Snapshotter[T],
	batch []T,
	rowErrs []RowError,
	totalRows int,
) (*Plan[T], error) {
	keys := make([]string, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, item := range batch {
		key := adapter.Key(item)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	snapshot := map[string]T{}
	if len(keys) > 0 {
		var err error
		snapshot, err = source.Snapshot(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s snapshot: %w", adapter.Name(), err)
		}
	}

	return Reconcile(adapter, batch, rowErrs, snapshot, totalRows), nil
}

// ApplyPlan writes the plan's mutations through the mutator.
// Returns the number of entries written; a plan without mutations is a no-op.
func ApplyPlan[T any](ctx context.Context, mutator Mutator[T], plan *Plan[T]) (int, error) {
	mutations := plan.Mutations()
	if len(mutations) == 0 {
		return 0, nil
	}
	if err := mutator.ApplyPlan(ctx, mutations); err != nil {
		return 0, fmt.Errorf("failed to apply plan: %w", err)
	}
	return len(mutations), nil
}
