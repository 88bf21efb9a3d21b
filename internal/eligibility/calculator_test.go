package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDayBucket(t *testing.T) {
	cases := []struct {
		name     string
		in       DayBucketInput
		eligible bool
		amount   int
		category string
	}{
		{"seven days non-combat", DayBucketInput{Days: 7, Combat: false}, true, 1000, "5-10 ימים בצו 8"},
		{"lower bound of first bucket", DayBucketInput{Days: 5, Combat: true}, true, 1000, "5-10 ימים בצו 8"},
		{"mid bucket", DayBucketInput{Days: 15, Combat: false}, true, 1500, "11-20 ימים בצו 8"},
		{"third bucket combat same ceiling", DayBucketInput{Days: 50, Combat: true}, true, 2000, "21-99 ימים בצו 8"},
		{"top bucket combat", DayBucketInput{Days: 150, Combat: true}, true, 3000, "100+ ימים בצו 8"},
		{"top bucket non-combat", DayBucketInput{Days: 150, Combat: false}, true, 2000, "100+ ימים בצו 8"},
		{"below minimum", DayBucketInput{Days: 3, Combat: true}, false, 0, ""},
		{"zero days", DayBucketInput{Days: 0, Combat: false}, false, 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := CalculateDayBucket(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.eligible, result.Eligible)
			assert.Equal(t, tc.amount, result.Amount)
			assert.Equal(t, tc.category, result.Category)
			if !tc.eligible {
				assert.NotEmpty(t, result.Reason)
			}
		})
	}
}

func TestCalculateDayBucketRejectsNegativeDays(t *testing.T) {
	_, err := CalculateDayBucket(DayBucketInput{Days: -1})
	require.Error(t, err)
}

func TestCalculatePercentage(t *testing.T) {
	cases := []struct {
		name     string
		in       PercentageInput
		eligible bool
		amount   int
	}{
		{
			"tashpad combat full refund capped by ceiling",
			PercentageInput{Year: YearTashpad, Days: 70, Combat: true, TuitionPaid: 15000},
			true, 11653,
		},
		{
			"tashpad combat below ceiling",
			PercentageInput{Year: YearTashpad, Days: 70, Combat: true, TuitionPaid: 8000},
			true, 8000,
		},
		{
			"tashpad non-combat thirty percent",
			PercentageInput{Year: YearTashpad, Days: 70, Combat: false, TuitionPaid: 10000},
			true, 3000,
		},
		{
			"tashpah combat no grant",
			PercentageInput{Year: YearTashpah, Days: 55, Combat: true, TuitionPaid: 12000},
			true, 10149,
		},
		{
			"tashpah combat with supplementary grant ten percent",
			PercentageInput{Year: YearTashpah, Days: 55, Combat: true, SupplementaryGrant: true, TuitionPaid: 12000},
			true, 1200,
		},
		{
			"tashpah non-combat with supplementary grant ineligible",
			PercentageInput{Year: YearTashpah, Days: 55, Combat: false, SupplementaryGrant: true, TuitionPaid: 12000},
			false, 0,
		},
		{
			"tashpad below minimum days",
			PercentageInput{Year: YearTashpad, Days: 59, Combat: true, TuitionPaid: 12000},
			false, 0,
		},
		{
			"tashpah below minimum days",
			PercentageInput{Year: YearTashpah, Days: 49, Combat: true, TuitionPaid: 12000},
			false, 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := CalculatePercentage(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.eligible, result.Eligible)
			assert.Equal(t, tc.amount, result.Amount)
		})
	}
}

func TestCalculatePercentageNeverRefundsMoreThanPaid(t *testing.T) {
	result, err := CalculatePercentage(PercentageInput{Year: YearTashpad, Days: 70, Combat: true, TuitionPaid: 500})
	require.NoError(t, err)
	assert.Equal(t, 500, result.Amount)
}

func TestCalculatePercentageInvalidInput(t *testing.T) {
	_, err := CalculatePercentage(PercentageInput{Year: YearTashpad, Days: -3, TuitionPaid: 100})
	require.Error(t, err)

	_, err = CalculatePercentage(PercentageInput{Year: YearTashpad, Days: 70, TuitionPaid: -100})
	require.Error(t, err)

	_, err = CalculatePercentage(PercentageInput{Year: "unknown", Days: 70, TuitionPaid: 100})
	require.Error(t, err)
}
