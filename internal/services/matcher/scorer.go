// Package matcher scores family/caregiver compatibility, selects automatic
// assignments and ranks candidates for family-facing match lists.
package matcher

import (
	"fmt"
	"math"
	"strings"

	"tavara-care/internal/models"
)

// Sub-score weights. They sum to 1.0.
const (
	careTypeWeight   = 0.30
	experienceWeight = 0.20
	budgetWeight     = 0.25
	scheduleWeight   = 0.25
)

const (
	neutralScore       = 0.5
	neutralBudgetScore = 0.7
	// budgetDecayWidth is the distance from the band centre at which the
	// budget sub-score reaches zero.
	budgetDecayWidth = 7.5
	defaultMinYears  = 2.0
)

type rateBand struct {
	min, max, center float64
}

var budgetBands = map[models.BudgetPreference]rateBand{
	models.BudgetUnder15: {min: 0, max: 15, center: 12.5},
	models.Budget15To20:  {min: 15, max: 20, center: 17.5},
	models.Budget20To25:  {min: 20, max: 25, center: 22.5},
	models.Budget25To30:  {min: 25, max: 30, center: 27.5},
	models.Budget30Plus:  {min: 30, max: math.Inf(1), center: 35},
}

var minYearsByType = map[models.CaregiverTypePreference]float64{
	models.CaregiverTypeProfessional: 3,
	models.CaregiverTypeNurse:        5,
	models.CaregiverTypeSpecialized:  7,
	models.CaregiverTypeCompanion:    1,
}

// Score computes the compatibility between a family and a caregiver. It never
// fails: missing lists score neutral and missing numerics count as zero.
func Score(family *models.FamilyNeedsProfile, caregiver *models.CaregiverProfile) models.MatchResult {
	if family == nil {
		family = &models.FamilyNeedsProfile{}
	}
	if caregiver == nil {
		caregiver = &models.CaregiverProfile{}
	}

	b := models.ScoreBreakdown{
		CareType:   CareTypeScore(family.CareTypes, caregiver.Specialties),
		Experience: ExperienceScore(family.CaregiverTypePreference, caregiver.YearsOfExperience),
		Budget:     BudgetScore(family.BudgetPreferences, caregiver.HourlyRate),
		Schedule:   ScheduleScore(family.ScheduleTags(), caregiver.AvailableShifts),
	}

	return models.MatchResult{
		CaregiverID:             caregiver.UserID,
		MatchScore:              WeightedScore(b),
		ShiftCompatibilityScore: round2(clamp01(b.Schedule)),
		Explanation:             Explain(b),
		Breakdown:               b,
	}
}

// WeightedScore blends the sub-scores into the overall match score.
func WeightedScore(b models.ScoreBreakdown) float64 {
	total := careTypeWeight*b.CareType +
		experienceWeight*b.Experience +
		budgetWeight*b.Budget +
		scheduleWeight*b.Schedule
	return round2(clamp01(total))
}

// CareTypeScore is the share of requested care types covered by at least one
// specialty, using case-insensitive containment in either direction.
func CareTypeScore(requested, specialties []string) float64 {
	return overlapScore(requested, specialties)
}

// ExperienceScore compares years of experience with the minimum expected for
// the family's caregiver type preference.
func ExperienceScore(pref models.CaregiverTypePreference, years float64) float64 {
	minYears, ok := minYearsByType[pref]
	if !ok {
		minYears = defaultMinYears
	}
	if years < 0 {
		years = 0
	}
	if years >= minYears {
		return 1.0
	}
	return clamp01(years / minYears)
}

// BudgetScore is 1.0 inside the bucket's band and decays linearly with
// distance from the band centre.
func BudgetScore(pref models.BudgetPreference, rate float64) float64 {
	band, ok := budgetBands[pref]
	if !ok {
		return neutralBudgetScore
	}
	if rate < 0 {
		rate = 0
	}
	if rate >= band.min && rate <= band.max {
		return 1.0
	}
	return clamp01(1 - math.Abs(rate-band.center)/budgetDecayWidth)
}

// ScheduleScore is the share of family shift tags the caregiver can cover.
func ScheduleScore(familyTags, caregiverTags []string) float64 {
	return overlapScore(familyTags, caregiverTags)
}

// Explain renders the breakdown as percentages in a fixed order.
func Explain(b models.ScoreBreakdown) string {
	return fmt.Sprintf("Care type match: %d%%, Experience match: %d%%, Budget match: %d%%, Schedule match: %d%%",
		percent(b.CareType), percent(b.Experience), percent(b.Budget), percent(b.Schedule))
}

func overlapScore(wanted, offered []string) float64 {
	w := normalizeTags(wanted)
	o := normalizeTags(offered)
	if len(w) == 0 || len(o) == 0 {
		return neutralScore
	}

	matched := 0
	for _, want := range w {
		for _, have := range o {
			if strings.Contains(have, want) || strings.Contains(want, have) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(w))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func percent(v float64) int {
	return int(math.Round(clamp01(v) * 100))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
