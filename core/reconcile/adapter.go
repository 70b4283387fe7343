package reconcile

// Adapter defines the model-specific logic the engine needs to reconcile a batch
// of incoming items against a keyed snapshot of stored items.
type Adapter[T any] interface {
	// Name returns the unique name of this adapter (e.g., "ffl").
	Name() string

	// Key returns the canonical identity of an item. Items with equal keys are the
	// same entity across syncs; an empty key never matches anything.
	Key(item T) string

	// Row returns the 1-indexed source row the item was read from, for error reporting.
	Row(item T) int

	// Compare returns the names of the comparable fields that differ between the stored
	// item and the incoming one. An empty result means the two are equal.
	Compare(current, incoming T) []string
}
