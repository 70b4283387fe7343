package reconcile

import "fmt"

// DiffKind classifies an incoming item against the stored snapshot.
type DiffKind string

const (
	// DiffAdded marks an item whose key is absent from the snapshot.
	DiffAdded DiffKind = "added"
	// DiffUpdated marks an item whose comparable fields differ from the stored one.
	DiffUpdated DiffKind = "updated"
	// DiffUnchanged marks an item equal to the stored one.
	DiffUnchanged DiffKind = "unchanged"
)

// DiffEntry is the classification of one surviving batch item.
type DiffEntry[T any] struct {
	// Kind is the classification.
	Kind DiffKind `json:"kind"`

	// Key is the canonical entity key.
	Key string `json:"key"`

	// Old is the stored item. Only set for DiffUpdated and DiffUnchanged.
	Old *T `json:"old,omitempty"`

	// New is the incoming item.
	New T `json:"new"`

	// ChangedFields lists the differing fields, sorted. Only set for DiffUpdated.
	ChangedFields []string `json:"changed_fields,omitempty"`
}

// RowError is a non-fatal, row-level data problem.
type RowError struct {
	// Row is the 1-indexed source row.
	Row int `json:"row"`

	// Key is the canonical key of the row, when one could be derived.
	Key string `json:"key,omitempty"`

	// Reason describes why the row was rejected.
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Summary provides aggregate counts for a reconcile plan.
type Summary struct {
	// TotalProcessed is the number of raw rows read, including rejected ones.
	TotalProcessed int `json:"total_processed"`

	// Added counts items absent from the snapshot.
	Added int `json:"added"`

	// Updated counts items that differ from the snapshot.
	Updated int `json:"updated"`

	// Unchanged counts items equal to the snapshot.
	Unchanged int `json:"unchanged"`
}

// Plan contains the classified diff of a batch and the row errors collected on the way.
type Plan[T any] struct {
	// Entries holds one entry per surviving item, sorted by key.
	Entries []DiffEntry[T] `json:"entries"`

	// Errors holds malformed and duplicate rows, sorted by row.
	Errors []RowError `json:"errors"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Mutations returns the commit plan: the entries that must be written to the store.
func (p *Plan[T]) Mutations() []DiffEntry[T] {
	out := make([]DiffEntry[T], 0, p.Summary.Added+p.Summary.Updated)
	for _, e := range p.Entries {
		if e.Kind == DiffAdded || e.Kind == DiffUpdated {
			out = append(out, e)
		}
	}
	return out
}

// ErrorStrings renders the row errors in row order.
func (p *Plan[T]) ErrorStrings() []string {
	out := make([]string, len(p.Errors))
	for i, e := range p.Errors {
		out[i] = e.Error()
	}
	return out
}
