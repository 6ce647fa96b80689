// Package recordlock implements exclusive installment edit locking inside
// the collections-core context.
//
// At most one agent may hold an active lock per installment, an agent may
// not exceed the configured active-lock quota, and every acquire/release
// is recorded in an append-only audit trail. Acquisition fails immediately
// on contention; nothing queues.
package recordlock
