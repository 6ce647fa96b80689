// Package bucketengine implements the DPD bucket classification engine
// inside the collections-core context.
//
// The module owns the closed bucket code set, the declarative DPD range
// table that routes installments to agent tiers, and the promise ceiling
// derivation consumed by the PTP ledger. Classification is pure and
// lock-free; it never writes state.
package bucketengine
