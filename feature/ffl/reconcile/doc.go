// Package reconcile binds directory records to the generic reconciliation engine.
package reconcile
