// Package audit records completed syncs. Audit is best effort: callers log a failed
// Record and carry on, since the sync itself has already committed.
package audit
