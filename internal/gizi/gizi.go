// Package gizi implements the posyandu nutrition screening used to flag
// children at risk of stunting.
//
// The reference medians are linear approximations of weight-for-age (BB/U)
// and height-for-age (TB/U) with a fixed standard deviation each. They are
// not the WHO LMS growth tables and must not be read as a clinical diagnosis.
package gizi

import (
	"strconv"
	"strings"
	"time"
)

// Sex of the child. The zero value means unknown.
type Sex string

const (
	SexUnknown Sex = ""
	Male       Sex = "Laki-laki"
	Female     Sex = "Perempuan"
)

// ParseSex accepts the labels used on posyandu forms.
func ParseSex(s string) Sex {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "laki-laki", "laki laki", "l", "male", "m":
		return Male
	case "perempuan", "p", "female", "f":
		return Female
	default:
		return SexUnknown
	}
}

// Status is the screening outcome stored on measurement and child records.
type Status string

const (
	Normal         Status = "Normal"
	AtRiskStunting Status = "Resiko Stunting"
)

// ParseStatus maps a stored label back to a Status, accepting the legacy
// lower-case forms. Unrecognised labels return Normal and false.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return Normal, true
	case "resiko stunting", "risiko stunting", "stunting":
		return AtRiskStunting, true
	default:
		return Normal, false
	}
}

const (
	weightSD = 1.5
	heightSD = 3.5

	// MinArmCircumferenceCm is the LILA screening threshold.
	MinArmCircumferenceCm = 12.5
)

// Sample is one set of anthropometric readings. Nil pointers mean the value
// was not measured.
type Sample struct {
	WeightKg           *float64
	HeightCm           *float64
	ArmCircumferenceCm *float64
	AgeMonths          *int
	Sex                Sex
}

// Complete reports whether the sample carries every input the weight and
// height rules need.
func (s Sample) Complete() bool {
	return s.WeightKg != nil && s.HeightCm != nil && s.AgeMonths != nil && s.Sex != SexUnknown
}

// MedianWeightKg is the expected weight for age in months.
func MedianWeightKg(ageMonths int, sex Sex) float64 {
	m := float64(ageMonths)
	if sex == Male {
		return 3.3 + m*0.35
	}
	return 3.2 + m*0.33
}

// MedianHeightCm is the expected height for age in months.
func MedianHeightCm(ageMonths int, sex Sex) float64 {
	m := float64(ageMonths)
	if sex == Male {
		return 49.9 + m*1.5
	}
	return 49.1 + m*1.45
}

// WeightForAgeZ returns the BB/U z-score.
func WeightForAgeZ(weightKg float64, ageMonths int, sex Sex) float64 {
	return (weightKg - MedianWeightKg(ageMonths, sex)) / weightSD
}

// HeightForAgeZ returns the TB/U z-score.
func HeightForAgeZ(heightCm float64, ageMonths int, sex Sex) float64 {
	return (heightCm - MedianHeightCm(ageMonths, sex)) / heightSD
}

// WeightForAgeNormal passes when -2 <= z <= 1.
func WeightForAgeNormal(weightKg float64, ageMonths int, sex Sex) bool {
	z := WeightForAgeZ(weightKg, ageMonths, sex)
	return z >= -2 && z <= 1
}

// HeightForAgeNormal passes when z >= -2. Tall for age is never flagged.
func HeightForAgeNormal(heightCm float64, ageMonths int, sex Sex) bool {
	return HeightForAgeZ(heightCm, ageMonths, sex) >= -2
}

// ArmCircumferenceNormal passes when no reading was taken (nil or zero) or the
// reading is at least MinArmCircumferenceCm.
func ArmCircumferenceNormal(cm *float64) bool {
	if cm == nil || *cm == 0 {
		return true
	}
	return *cm >= MinArmCircumferenceCm
}

// Assessment is the detailed outcome of screening one sample.
type Assessment struct {
	Complete           bool     `json:"complete"`
	WeightForAgeZ      *float64 `json:"bbu_z,omitempty"`
	HeightForAgeZ      *float64 `json:"tbu_z,omitempty"`
	WeightForAgeOK     bool     `json:"bbu_normal"`
	HeightForAgeOK     bool     `json:"tbu_normal"`
	ArmCircumferenceOK bool     `json:"lila_normal"`
	Status             Status   `json:"status"`
}

// Assess evaluates every rule. An incomplete sample is reported as Normal with
// Complete=false and the weight and height rules treated as passing.
func Assess(s Sample) Assessment {
	a := Assessment{
		Complete:           s.Complete(),
		WeightForAgeOK:     true,
		HeightForAgeOK:     true,
		ArmCircumferenceOK: ArmCircumferenceNormal(s.ArmCircumferenceCm),
		Status:             Normal,
	}
	if !a.Complete {
		return a
	}

	wz := WeightForAgeZ(*s.WeightKg, *s.AgeMonths, s.Sex)
	hz := HeightForAgeZ(*s.HeightCm, *s.AgeMonths, s.Sex)
	a.WeightForAgeZ = &wz
	a.HeightForAgeZ = &hz
	a.WeightForAgeOK = wz >= -2 && wz <= 1
	a.HeightForAgeOK = hz >= -2

	if !(a.WeightForAgeOK && a.HeightForAgeOK && a.ArmCircumferenceOK) {
		a.Status = AtRiskStunting
	}
	return a
}

// Classify returns Normal only when all three rules pass. Missing weight,
// height, age or sex short-circuits to Normal.
func Classify(s Sample) Status {
	if !s.Complete() {
		return Normal
	}
	if WeightForAgeNormal(*s.WeightKg, *s.AgeMonths, s.Sex) &&
		HeightForAgeNormal(*s.HeightCm, *s.AgeMonths, s.Sex) &&
		ArmCircumferenceNormal(s.ArmCircumferenceCm) {
		return Normal
	}
	return AtRiskStunting
}

// AgeInMonths counts whole completed months between birth and asOf, never
// less than zero.
func AgeInMonths(birth, asOf time.Time) int {
	months := (asOf.Year()-birth.Year())*12 + int(asOf.Month()) - int(birth.Month())
	if asOf.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// AgeLabel renders an age as "N tahun M bulan" the way the admin forms show it.
func AgeLabel(birth, asOf time.Time) string {
	m := AgeInMonths(birth, asOf)
	return strconv.Itoa(m/12) + " tahun " + strconv.Itoa(m%12) + " bulan"
}
