package domain

import "time"

// DeepDelinquencyDPD is the threshold past which an installment is handled
// by deep-delinquency policy: promises lose their real ceiling and record
// locks are treated as released regardless of holder.
const DeepDelinquencyDPD = 90

// noCeilingSentinel is the fixed "no real ceiling" date applied to
// deep-delinquency buckets, carried over from the source system.
var noCeilingSentinel = time.Date(2037, time.December, 31, 0, 0, 0, 0, time.UTC)

// PromiseCeiling derives the latest admissible promise date for an
// installment: oldest unpaid due date plus the bucket ceiling offset. The
// offset comes from the same range table as classification. Buckets at or
// past the deep-delinquency threshold return the sentinel date.
func PromiseCeiling(dpd int, oldestUnpaidDue time.Time) time.Time {
	if dpd >= DeepDelinquencyDPD {
		return noCeilingSentinel
	}
	offset := rangeTable[0].CeilingOffsetDays
	for _, r := range rangeTable {
		if dpd >= r.FromDPD && dpd <= r.ToDPD {
			if r.CeilingOffsetDays == 0 {
				return noCeilingSentinel
			}
			offset = r.CeilingOffsetDays
			break
		}
	}
	return oldestUnpaidDue.UTC().Truncate(24*time.Hour).AddDate(0, 0, offset)
}

// IsDeepDelinquent reports whether deep-delinquency policy applies.
func IsDeepDelinquent(dpd int) bool {
	return dpd >= DeepDelinquencyDPD
}
