// Package reconcile provides a generic, keyed reconciliation engine.
//
// A batch of normalized items is compared against a snapshot of the stored items,
// indexed by canonical key, and each surviving item is classified as added, updated
// (with the names of the changed fields) or unchanged.
//
// # Architecture
//
//  1. Adapter: model-specific logic (key extraction, source row, field comparison).
//  2. Engine: Reconcile deduplicates the batch (last occurrence wins, earlier ones become
//     row errors), classifies the survivors and aggregates a Summary. It is pure.
//  3. Plan: ReconcileWithPlan reads the snapshot for exactly the batch keys through a
//     Snapshotter, and ApplyPlan hands the commit plan (added + updated entries) to a
//     Mutator that writes it atomically.
//
// The engine is additive: stored items whose keys are absent from the batch never
// appear in the plan, so applying a plan cannot delete anything.
//
// # Usage Example
//
//	plan, err := reconcile.ReconcileWithPlan(ctx, adapter, gateway, records, rowErrs, len(rows))
//	if err != nil {
//	    return err // snapshot unavailable
//	}
//	written, err := reconcile.ApplyPlan(ctx, gateway, plan)
package reconcile
