// Package collectionworkflow orchestrates a single agent action across the
// collections-core modules: it verifies the agent holds the record lock,
// delegates promise creation to the PTP ledger, appends the contact audit
// note, and posts payments through the event ledger so an active promise
// can resolve.
//
// External collaborators (dialer dequeue, vendor auto-assignment) are
// dispatched after the atomic unit commits; they are best-effort and
// at-least-once, never part of the transaction.
package collectionworkflow
