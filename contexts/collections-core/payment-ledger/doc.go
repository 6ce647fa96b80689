// Package paymentledger implements the append-only payment event ledger
// inside the collections-core context.
//
// Events are never deleted: a posted event is negated by a compensating
// void record, optionally transferring a misapplied amount to another
// installment. Derived balances (paid amount, late fees, wallet) mutate
// atomically with every event write, and a cross-provider transfer is one
// all-or-nothing unit so funds are neither created nor destroyed across
// capital providers.
package paymentledger
