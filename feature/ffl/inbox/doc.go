// Package inbox turns a drop folder into a sync queue.
//
// Files are picked up after they have been quiet for a settle period so a half-copied
// upload is not read. Files are handled sequentially, which keeps inbox syncs in
// arrival order on top of the store's own serialization.
package inbox
