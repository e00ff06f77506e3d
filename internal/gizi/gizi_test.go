package gizi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMedians(t *testing.T) {
	assert.InDelta(t, 11.7, MedianWeightKg(24, Male), 1e-9)
	assert.InDelta(t, 11.12, MedianWeightKg(24, Female), 1e-9)
	assert.InDelta(t, 85.9, MedianHeightCm(24, Male), 1e-9)
	assert.InDelta(t, 83.9, MedianHeightCm(24, Female), 1e-9)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   Status
	}{
		{
			name:   "reference fixture male 24 months",
			sample: Sample{WeightKg: f(12), HeightCm: f(85), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "overweight for age",
			sample: Sample{WeightKg: f(14), HeightCm: f(85), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   AtRiskStunting,
		},
		{
			name:   "underweight for age",
			sample: Sample{WeightKg: f(8), HeightCm: f(85), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   AtRiskStunting,
		},
		{
			name:   "short for age",
			sample: Sample{WeightKg: f(12), HeightCm: f(77), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   AtRiskStunting,
		},
		{
			name:   "tall for age is never flagged",
			sample: Sample{WeightKg: f(12), HeightCm: f(100), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "low arm circumference",
			sample: Sample{WeightKg: f(12), HeightCm: f(85), ArmCircumferenceCm: f(11), AgeMonths: n(24), Sex: Male},
			want:   AtRiskStunting,
		},
		{
			name:   "arm circumference zero is no data",
			sample: Sample{WeightKg: f(12), HeightCm: f(85), ArmCircumferenceCm: f(0), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "arm circumference absent",
			sample: Sample{WeightKg: f(12), HeightCm: f(85), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "weight exactly one sd above median",
			sample: Sample{WeightKg: f(13.2), HeightCm: f(85), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "weight exactly two sd below median",
			sample: Sample{WeightKg: f(8.7), HeightCm: f(85), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "height exactly two sd below median",
			sample: Sample{WeightKg: f(12), HeightCm: f(78.9), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "arm circumference at threshold",
			sample: Sample{WeightKg: f(12), HeightCm: f(85), ArmCircumferenceCm: f(12.5), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "arm circumference just below threshold",
			sample: Sample{WeightKg: f(12), HeightCm: f(85), ArmCircumferenceCm: f(12.49), AgeMonths: n(24), Sex: Male},
			want:   AtRiskStunting,
		},
		{
			name:   "female medians differ",
			sample: Sample{WeightKg: f(12.7), HeightCm: f(85), AgeMonths: n(24), Sex: Female},
			want:   AtRiskStunting,
		},
		{
			name:   "same weight is normal for male",
			sample: Sample{WeightKg: f(12.7), HeightCm: f(85), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "missing weight defaults to normal",
			sample: Sample{HeightCm: f(85), ArmCircumferenceCm: f(5), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "missing height defaults to normal",
			sample: Sample{WeightKg: f(4), AgeMonths: n(24), Sex: Male},
			want:   Normal,
		},
		{
			name:   "missing age defaults to normal",
			sample: Sample{WeightKg: f(4), HeightCm: f(60), Sex: Male},
			want:   Normal,
		},
		{
			name:   "unknown sex defaults to normal",
			sample: Sample{WeightKg: f(4), HeightCm: f(60), AgeMonths: n(24)},
			want:   Normal,
		},
		{
			name:   "newborn at median",
			sample: Sample{WeightKg: f(3.3), HeightCm: f(49.9), AgeMonths: n(0), Sex: Male},
			want:   Normal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sample))
			assert.Equal(t, tt.want, Assess(tt.sample).Status)
		})
	}
}

func TestArmCircumferenceIgnoredWhenZero(t *testing.T) {
	for _, w := range []float64{6, 9, 12, 13, 16} {
		for _, h := range []float64{70, 80, 90} {
			withZero := Sample{WeightKg: f(w), HeightCm: f(h), ArmCircumferenceCm: f(0), AgeMonths: n(20), Sex: Female}
			without := Sample{WeightKg: f(w), HeightCm: f(h), AgeMonths: n(20), Sex: Female}
			assert.Equal(t, Classify(without), Classify(withZero), "w=%v h=%v", w, h)
		}
	}
}

func TestAssess_Details(t *testing.T) {
	a := Assess(Sample{WeightKg: f(12), HeightCm: f(85), ArmCircumferenceCm: f(13.5), AgeMonths: n(24), Sex: Male})
	require.True(t, a.Complete)
	require.NotNil(t, a.WeightForAgeZ)
	require.NotNil(t, a.HeightForAgeZ)
	assert.InDelta(t, 0.2, *a.WeightForAgeZ, 1e-9)
	assert.InDelta(t, -0.9/3.5, *a.HeightForAgeZ, 1e-9)
	assert.True(t, a.WeightForAgeOK)
	assert.True(t, a.HeightForAgeOK)
	assert.True(t, a.ArmCircumferenceOK)

	inc := Assess(Sample{HeightCm: f(85), ArmCircumferenceCm: f(10), AgeMonths: n(24), Sex: Male})
	assert.False(t, inc.Complete)
	assert.Nil(t, inc.WeightForAgeZ)
	assert.False(t, inc.ArmCircumferenceOK)
	assert.Equal(t, Normal, inc.Status)
}

func TestAgeInMonths(t *testing.T) {
	tests := []struct {
		name        string
		birth, asOf time.Time
		want        int
	}{
		{"day not reached", day(2024, 1, 15), day(2025, 1, 14), 11},
		{"day reached", day(2024, 1, 15), day(2025, 1, 15), 12},
		{"same day", day(2024, 1, 15), day(2024, 1, 15), 0},
		{"asOf before birth clamps", day(2024, 6, 1), day(2024, 1, 1), 0},
		{"short month", day(2024, 1, 31), day(2024, 2, 29), 0},
		{"year boundary", day(2023, 11, 10), day(2024, 2, 10), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeInMonths(tt.birth, tt.asOf))
		})
	}
}

func TestAgeLabel(t *testing.T) {
	assert.Equal(t, "2 tahun 2 bulan", AgeLabel(day(2023, 1, 15), day(2025, 3, 20)))
	assert.Equal(t, "0 tahun 0 bulan", AgeLabel(day(2025, 3, 20), day(2025, 3, 1)))
}

func TestParseSex(t *testing.T) {
	assert.Equal(t, Male, ParseSex("Laki-laki"))
	assert.Equal(t, Male, ParseSex(" l "))
	assert.Equal(t, Female, ParseSex("PEREMPUAN"))
	assert.Equal(t, Female, ParseSex("female"))
	assert.Equal(t, SexUnknown, ParseSex(""))
	assert.Equal(t, SexUnknown, ParseSex("x"))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("normal")
	assert.True(t, ok)
	assert.Equal(t, Normal, s)

	s, ok = ParseStatus("Resiko Stunting")
	assert.True(t, ok)
	assert.Equal(t, AtRiskStunting, s)

	_, ok = ParseStatus("gizi buruk")
	assert.False(t, ok)
}
