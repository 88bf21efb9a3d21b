package eligibility

import (
	"fmt"
	"math"

	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

// Result is the verdict of an eligibility calculation.
type Result struct {
	Eligible bool   `json:"eligible"`
	Amount   int    `json:"amount,omitempty"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason,omitempty"`

	Days   int  `json:"days"`
	Combat bool `json:"is_combat"`

	// Percentage-policy extras.
	Percentage  int `json:"percentage,omitempty"`
	MaxPossible int `json:"max_possible,omitempty"`
}

// DayBucketInput feeds the flat day-count schedule.
type DayBucketInput struct {
	Days   int
	Combat bool
}

const minServiceDays = 5

// Day-count brackets of the flat grant schedule. Only the top bracket
// distinguishes combat service.
var dayBuckets = []struct {
	min, max     int
	amount       int
	combatAmount int
	label        string
}{
	{5, 10, 1000, 1000, "5-10 ימים בצו 8"},
	{11, 20, 1500, 1500, "11-20 ימים בצו 8"},
	{21, 99, 2000, 2000, "21-99 ימים בצו 8"},
	{100, math.MaxInt32, 2000, 3000, "100+ ימים בצו 8"},
}

// CalculateDayBucket maps reserve-duty service facts to a grant amount using
// the flat day-count schedule. Deterministic, no I/O.
func CalculateDayBucket(in DayBucketInput) (Result, error) {
	if in.Days < 0 {
		return Result{}, appErrors.Clone(appErrors.ErrInvalidInput, "reserve days must not be negative")
	}
	if in.Days < minServiceDays {
		return Result{
			Eligible: false,
			Reason:   fmt.Sprintf("below minimum %d days", minServiceDays),
			Days:     in.Days,
			Combat:   in.Combat,
		}, nil
	}
	for _, bucket := range dayBuckets {
		if in.Days < bucket.min || in.Days > bucket.max {
			continue
		}
		amount := bucket.amount
		if in.Combat {
			amount = bucket.combatAmount
		}
		return Result{
			Eligible: true,
			Amount:   amount,
			Category: bucket.label,
			Days:     in.Days,
			Combat:   in.Combat,
		}, nil
	}
	return Result{}, appErrors.Clone(appErrors.ErrInvalidInput, "day count out of range")
}

// AcademicYear buckets of the percentage-based schedule.
type AcademicYear string

const (
	// YearTashpad is תשפ"ד (2023-24), minimum 60 reserve days.
	YearTashpad AcademicYear = "tashpad"
	// YearTashpah is תשפ"ה (2024-25), minimum 50 reserve days.
	YearTashpah AcademicYear = "tashpah"
)

// PercentageInput feeds the tuition-percentage schedule.
type PercentageInput struct {
	Year               AcademicYear
	Days               int
	Combat             bool
	SupplementaryGrant bool
	TuitionPaid        float64
}

// percentageRate holds the policy constants of one year/combat/grant branch.
type percentageRate struct {
	maxAmount  int
	percentage int
}

// CalculatePercentage maps service facts and tuition paid to a refund using
// the tuition-percentage schedule. The refund is capped at both the branch
// ceiling and the tuition actually paid.
func CalculatePercentage(in PercentageInput) (Result, error) {
	if in.Days < 0 {
		return Result{}, appErrors.Clone(appErrors.ErrInvalidInput, "reserve days must not be negative")
	}
	if in.TuitionPaid < 0 {
		return Result{}, appErrors.Clone(appErrors.ErrInvalidInput, "tuition paid must not be negative")
	}

	var minDays int
	switch in.Year {
	case YearTashpad:
		minDays = 60
	case YearTashpah:
		minDays = 50
	default:
		return Result{}, appErrors.Clone(appErrors.ErrInvalidInput, "unknown academic year")
	}

	if in.Days < minDays {
		return Result{
			Eligible: false,
			Reason:   fmt.Sprintf("below minimum %d days for year %s", minDays, in.Year),
			Days:     in.Days,
			Combat:   in.Combat,
		}, nil
	}

	rate := lookupRate(in)
	if rate.maxAmount == 0 {
		return Result{
			Eligible: false,
			Reason:   "only combat soldiers with a supplementary grant are eligible for the 10% refund",
			Days:     in.Days,
			Combat:   in.Combat,
		}, nil
	}

	calculated := math.Min(in.TuitionPaid*float64(rate.percentage)/100, float64(rate.maxAmount))
	amount := int(math.Round(math.Min(calculated, in.TuitionPaid)))

	return Result{
		Eligible:    true,
		Amount:      amount,
		Days:        in.Days,
		Combat:      in.Combat,
		Percentage:  rate.percentage,
		MaxPossible: rate.maxAmount,
	}, nil
}

func lookupRate(in PercentageInput) percentageRate {
	if in.Year == YearTashpad {
		if in.Combat {
			return percentageRate{maxAmount: 11653, percentage: 100}
		}
		return percentageRate{maxAmount: 3495, percentage: 30}
	}

	if in.SupplementaryGrant {
		if in.Combat {
			return percentageRate{maxAmount: 1432, percentage: 10}
		}
		return percentageRate{}
	}
	if in.Combat {
		return percentageRate{maxAmount: 10149, percentage: 100}
	}
	return percentageRate{maxAmount: 3044, percentage: 30}
}
