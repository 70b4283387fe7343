// Package store persists the directory in a SQL database through gorm.
//
// Store implements the read side used by search (GetByLicense, Scan) and the write
// side used by sync (Snapshot, ApplyPlan). Writes are upserts keyed by license number
// and never delete. Serialize is the exclusion boundary for syncs: it holds a process
// mutex and a row lock on 'ffl_sync_locks' for the length of one transaction, so a
// second sync reads a snapshot that already contains the first one's writes.
package store
