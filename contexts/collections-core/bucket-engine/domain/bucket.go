package domain

import (
	"fmt"
	"math"
	"time"
)

type BucketCode string

const (
	BucketNotYetDue    BucketCode = "not_yet_due"
	BucketCurrent      BucketCode = "current"
	BucketTier1        BucketCode = "tier_1"
	BucketTier2        BucketCode = "tier_2"
	BucketTier3        BucketCode = "tier_3"
	BucketTier4        BucketCode = "tier_4"
	BucketTier5        BucketCode = "tier_5"
	BucketTier6        BucketCode = "tier_6"
	BucketTier7        BucketCode = "tier_7"
	BucketTier8        BucketCode = "tier_8"
	BucketTier9        BucketCode = "tier_9"
	BucketWriteOff     BucketCode = "write_off"
	BucketPTPActive    BucketCode = "ptp_active"
	BucketVendor       BucketCode = "vendor_assigned"
	BucketNonContact   BucketCode = "non_contact"
	BucketWhatsApp     BucketCode = "whatsapp_eligible"
	BucketIgnored      BucketCode = "ignored"
	BucketUnclassified BucketCode = "unclassified"
)

// Flags carry the special routing markers evaluated before the DPD range
// table. Priority is fixed: an active promise must keep the account out of
// dialer tiers so the customer is not re-contacted mid-commitment.
type Flags struct {
	IsPTPActive        bool
	IsVendorAssigned   bool
	IsNonContact       bool
	IsWhatsAppEligible bool
	IsIgnored          bool
}

type Classification struct {
	Code   BucketCode
	Label  string
	Number int
}

type bucketRange struct {
	FromDPD int
	ToDPD   int // inclusive; math.MaxInt marks the open-ended tail
	Code    BucketCode
	Label   string
	Number  int
	// CeilingOffsetDays bounds a promise date at due date + offset.
	CeilingOffsetDays int
}

// rangeTable partitions every positive DPD value into contiguous agent
// tier windows. Validated for gaps/overlaps at init.
var rangeTable = []bucketRange{
	{1, 4, BucketTier1, "DPD 1-4", 1, 4},
	{5, 15, BucketTier2, "DPD 5-15", 2, 15},
	{16, 29, BucketTier3, "DPD 16-29", 3, 29},
	{30, 44, BucketTier4, "DPD 30-44", 4, 44},
	{45, 59, BucketTier5, "DPD 45-59", 5, 59},
	{60, 89, BucketTier6, "DPD 60-89", 6, 89},
	{90, 119, BucketTier7, "DPD 90-119", 7, 0},
	{120, 149, BucketTier8, "DPD 120-149", 8, 0},
	{150, 179, BucketTier9, "DPD 150-179", 9, 0},
	{180, math.MaxInt, BucketWriteOff, "DPD 180+", 10, 0},
}

var specialBuckets = map[BucketCode]Classification{
	BucketNotYetDue:    {BucketNotYetDue, "Not yet due", -1},
	BucketCurrent:      {BucketCurrent, "Current", 0},
	BucketPTPActive:    {BucketPTPActive, "Active promise to pay", 91},
	BucketVendor:       {BucketVendor, "Assigned to vendor", 92},
	BucketNonContact:   {BucketNonContact, "Non-contactable", 93},
	BucketWhatsApp:     {BucketWhatsApp, "WhatsApp eligible", 94},
	BucketIgnored:      {BucketIgnored, "Ignored", 95},
	BucketUnclassified: {BucketUnclassified, "Unclassified", 99},
}

func init() {
	if err := validateRangeTable(); err != nil {
		panic(err)
	}
}

func validateRangeTable() error {
	next := 1
	for _, r := range rangeTable {
		if r.FromDPD != next {
			return fmt.Errorf("bucket range table has a gap or overlap at dpd %d (bucket %s)", next, r.Code)
		}
		if r.ToDPD < r.FromDPD {
			return fmt.Errorf("bucket range %s is inverted", r.Code)
		}
		if r.ToDPD == math.MaxInt {
			return nil
		}
		next = r.ToDPD + 1
	}
	return fmt.Errorf("bucket range table does not cover unbounded dpd")
}

// Classify maps a (dpd, flags) tuple to exactly one bucket. Special flags
// take priority over the plain DPD range, in fixed order:
// PTP > vendor > non-contact > whatsapp > ignored.
func Classify(dpd int, flags Flags) Classification {
	switch {
	case flags.IsPTPActive:
		return specialBuckets[BucketPTPActive]
	case flags.IsVendorAssigned:
		return specialBuckets[BucketVendor]
	case flags.IsNonContact:
		return specialBuckets[BucketNonContact]
	case flags.IsWhatsAppEligible:
		return specialBuckets[BucketWhatsApp]
	case flags.IsIgnored:
		return specialBuckets[BucketIgnored]
	}
	if dpd < 0 {
		return specialBuckets[BucketNotYetDue]
	}
	if dpd == 0 {
		return specialBuckets[BucketCurrent]
	}
	for _, r := range rangeTable {
		if dpd >= r.FromDPD && dpd <= r.ToDPD {
			return Classification{Code: r.Code, Label: r.Label, Number: r.Number}
		}
	}
	// Unreachable while the range table validates; kept as the data-quality
	// sentinel so callers log instead of failing.
	return specialBuckets[BucketUnclassified]
}

// DaysPastDue is the whole-day distance between the due date and the
// evaluation instant, positive once the due date has passed.
func DaysPastDue(dueDate time.Time, at time.Time) int {
	due := dueDate.UTC().Truncate(24 * time.Hour)
	now := at.UTC().Truncate(24 * time.Hour)
	return int(now.Sub(due).Hours() / 24)
}
