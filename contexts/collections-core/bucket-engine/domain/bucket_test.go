package domain

import (
	"testing"
	"time"
)

func TestClassifyIsTotalOverWideRange(t *testing.T) {
	flagSets := allFlagCombinations()
	for dpd := -400; dpd <= 400; dpd++ {
		for _, flags := range flagSets {
			result := Classify(dpd, flags)
			if result.Code == "" {
				t.Fatalf("classify(%d, %+v) returned empty bucket code", dpd, flags)
			}
			if result.Code == BucketUnclassified {
				t.Fatalf("classify(%d, %+v) fell through to unclassified", dpd, flags)
			}
		}
	}
}

func TestClassifyFlagPriorityOrder(t *testing.T) {
	all := Flags{
		IsPTPActive:        true,
		IsVendorAssigned:   true,
		IsNonContact:       true,
		IsWhatsAppEligible: true,
		IsIgnored:          true,
	}
	cases := []struct {
		name  string
		strip func(*Flags)
		want  BucketCode
	}{
		{"ptp wins over everything", func(*Flags) {}, BucketPTPActive},
		{"vendor wins once ptp clears", func(f *Flags) { f.IsPTPActive = false }, BucketVendor},
		{"non-contact next", func(f *Flags) { f.IsPTPActive = false; f.IsVendorAssigned = false }, BucketNonContact},
		{"whatsapp next", func(f *Flags) {
			f.IsPTPActive = false
			f.IsVendorAssigned = false
			f.IsNonContact = false
		}, BucketWhatsApp},
		{"ignored last special", func(f *Flags) {
			f.IsPTPActive = false
			f.IsVendorAssigned = false
			f.IsNonContact = false
			f.IsWhatsAppEligible = false
		}, BucketIgnored},
	}
	for _, tc := range cases {
		flags := all
		tc.strip(&flags)
		if got := Classify(37, flags); got.Code != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got.Code, tc.want)
		}
	}
	if got := Classify(37, Flags{}); got.Code != BucketTier4 {
		t.Fatalf("plain dpd 37 should land in %s, got %s", BucketTier4, got.Code)
	}
}

func TestClassifyRangePartition(t *testing.T) {
	cases := []struct {
		dpd  int
		want BucketCode
	}{
		{-90, BucketNotYetDue},
		{-1, BucketNotYetDue},
		{0, BucketCurrent},
		{1, BucketTier1},
		{4, BucketTier1},
		{5, BucketTier2},
		{15, BucketTier2},
		{16, BucketTier3},
		{29, BucketTier3},
		{30, BucketTier4},
		{44, BucketTier4},
		{45, BucketTier5},
		{59, BucketTier5},
		{60, BucketTier6},
		{89, BucketTier6},
		{90, BucketTier7},
		{119, BucketTier7},
		{120, BucketTier8},
		{150, BucketTier9},
		{179, BucketTier9},
		{180, BucketWriteOff},
		{100000, BucketWriteOff},
	}
	for _, tc := range cases {
		if got := Classify(tc.dpd, Flags{}); got.Code != tc.want {
			t.Fatalf("dpd %d: got %s, want %s", tc.dpd, got.Code, tc.want)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	flags := Flags{IsWhatsAppEligible: true}
	first := Classify(12, flags)
	for i := 0; i < 50; i++ {
		if got := Classify(12, flags); got != first {
			t.Fatalf("classification drifted between calls: %+v vs %+v", got, first)
		}
	}
}

func TestValidateRangeTable(t *testing.T) {
	if err := validateRangeTable(); err != nil {
		t.Fatalf("shipping range table is invalid: %v", err)
	}
}

func TestPromiseCeiling(t *testing.T) {
	due := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	got := PromiseCeiling(2, due)
	want := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("tier-1 ceiling: got %s, want %s", got, want)
	}

	got = PromiseCeiling(10, due)
	want = time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("tier-2 ceiling: got %s, want %s", got, want)
	}

	deep := PromiseCeiling(200, due)
	if !deep.Equal(noCeilingSentinel) {
		t.Fatalf("deep delinquency ceiling should be the sentinel, got %s", deep)
	}
	atThreshold := PromiseCeiling(DeepDelinquencyDPD, due)
	if !atThreshold.Equal(noCeilingSentinel) {
		t.Fatalf("ceiling at the threshold should be the sentinel, got %s", atThreshold)
	}
}

func TestDaysPastDue(t *testing.T) {
	due := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2024, time.January, 10, 13, 30, 0, 0, time.UTC), 0},
		{time.Date(2024, time.January, 11, 0, 0, 1, 0, time.UTC), 1},
		{time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC), -5},
		{time.Date(2024, time.July, 8, 0, 0, 0, 0, time.UTC), 180},
	}
	for _, tc := range cases {
		if got := DaysPastDue(due, tc.at); got != tc.want {
			t.Fatalf("dpd at %s: got %d, want %d", tc.at, got, tc.want)
		}
	}
}

func allFlagCombinations() []Flags {
	combos := make([]Flags, 0, 32)
	for mask := 0; mask < 32; mask++ {
		combos = append(combos, Flags{
			IsPTPActive:        mask&1 != 0,
			IsVendorAssigned:   mask&2 != 0,
			IsNonContact:       mask&4 != 0,
			IsWhatsAppEligible: mask&8 != 0,
			IsIgnored:          mask&16 != 0,
		})
	}
	return combos
}
