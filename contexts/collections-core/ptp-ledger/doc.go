// Package ptpledger implements the promise-to-pay lifecycle inside the
// collections-core context.
//
// A promise is an agent-recorded customer commitment to pay an amount by a
// date. The promised date is bounded by the installment's bucket ceiling,
// at most one OPEN/PARTIAL promise exists per installment, and resolution
// (KEPT, BROKEN, PARTIAL) is driven by payment events and the daily expiry
// sweep.
package ptpledger
