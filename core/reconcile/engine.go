package reconcile

import (
	"fmt"
	"sort"
)

// Reconcile classifies a normalized batch against a snapshot of the store.
//
// Duplicated keys keep their last occurrence; every earlier occurrence becomes a
// RowError. Snapshot keys absent from the batch produce no entry, so applying the
// plan never removes stored items. totalRows is the number of raw rows read, which
// includes the rows already rejected in rowErrs.
//
// Reconcile is pure: it does not touch the store and never fails on data content.
func Reconcile[T any](adapter Adapter[T], batch []T, rowErrs []RowError, snapshot map[string]T, totalRows int) *Plan[T] {
	errs := make([]RowError, 0, len(rowErrs))
	errs = append(errs, rowErrs...)

	survivors := dedupe(adapter, batch, &errs)

	plan := &Plan[T]{
		Entries: make([]DiffEntry[T], 0, len(survivors)),
	}

	for key, item := range survivors {
		entry := classify(adapter, key, item, snapshot)
		switch entry.Kind {
		case DiffAdded:
			plan.Summary.Added++
		case DiffUpdated:
			plan.Summary.Updated++
		case DiffUnchanged:
			plan.Summary.Unchanged++
		}
		plan.Entries = append(plan.Entries, entry)
	}

	// Sort results by key for deterministic output
	sort.Slice(plan.Entries, func(i, j int) bool {
		return plan.Entries[i].Key < plan.Entries[j].Key
	})
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Row < errs[j].Row
	})

	plan.Errors = errs
	plan.Summary.TotalProcessed = totalRows
	if plan.Summary.TotalProcessed < len(batch)+len(rowErrs) {
		plan.Summary.TotalProcessed = len(batch) + len(rowErrs)
	}

	return plan
}

// dedupe keeps the last occurrence of every key and reports the earlier ones.
func dedupe[T any](adapter Adapter[T], batch []T, errs *[]RowError) map[string]T {
	lastIndex := make(map[string]int, len(batch))
	for i, item := range batch {
		lastIndex[adapter.Key(item)] = i
	}

	survivors := make(map[string]T, len(lastIndex))
	for i, item := range batch {
		key := adapter.Key(item)
		if key == "" {
			*errs = append(*errs, RowError{Row: adapter.Row(item), Reason: "missing key"})
			continue
		}
		last := lastIndex[key]
		if i != last {
			*errs = append(*errs, RowError{
				Row:    adapter.Row(item),
				Key:    key,
				Reason: fmt.Sprintf("duplicate %s key %s, superseded by row %d", adapter.Name(), key, adapter.Row(batch[last])),
			})
			continue
		}
		survivors[key] = item
	}
	return survivors
}

// classify builds the diff entry for one surviving item.
func classify[T any](adapter Adapter[T], key string, item T, snapshot map[string]T) DiffEntry[T] {
	current, present := snapshot[key]
	if !present {
		return DiffEntry[T]{Kind: DiffAdded, Key: key, New: item}
	}

	old := current
	changed := adapter.Compare(current, item)
	if len(changed) == 0 {
		return DiffEntry[T]{Kind: DiffUnchanged, Key: key, Old: &old, New: item}
	}

	sorted := append([]string(nil), changed...)
	sort.Strings(sorted)
	return DiffEntry[T]{Kind: DiffUpdated, Key: key, Old: &old, New: item, ChangedFields: sorted}
}
