// Package search answers directory queries.
//
// Engine validates options and hands a Request to a Source. LocalSource queries the
// store: a license-looking query is tried as an exact key first, and the remaining
// candidates come from a bounded partial scan. RemoteSource asks an external directory.
// Fallback composes the two so the external directory is only consulted when the
// store has nothing, and its failures never fail the search.
//
// Rank is pure and shared by every source, so local and remote results order the same way.
package search
