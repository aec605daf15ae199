package matcher

import (
	"strings"

	"tavara-care/internal/models"
)

const (
	displayBaseMin   = 75
	displayBaseSpan  = 25 // base scores fall in [75, 99]
	premiumBuckets   = 10
	premiumThreshold = 3 // ~30% of pairs are flagged premium

	displayBaseWeight  = 0.6
	displayShiftWeight = 0.4

	flexibilityBonus = 0.1
)

// flexibleShiftTags are availability tags that can cover most schedules.
var flexibleShiftTags = map[string]bool{
	"flexible":     true,
	"24_7_care":    true,
	"live_in_care": true,
}

// pairHash is a 32-bit rolling hash over caregiverID+familyID
// (h = h*31 + c with wraparound), returned as its absolute value.
func pairHash(caregiverID, familyID string) int64 {
	var h int32
	for _, c := range caregiverID + familyID {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// DisplayFactorsFor derives the presentation-only ranking signal for a pair.
// The base score and premium flag are deterministic per pair; the shift fit is
// a direct tag overlap that rewards flexible availability.
func DisplayFactorsFor(family *models.FamilyNeedsProfile, caregiver *models.CaregiverProfile) models.DisplayFactors {
	h := pairHash(caregiver.UserID, family.UserID)
	base := displayBaseMin + int(h%displayBaseSpan)
	fit := ShiftFit(family.ScheduleTags(), caregiver.AvailableShifts)

	return models.DisplayFactors{
		BaseScore:    base,
		IsPremium:    h%premiumBuckets < premiumThreshold,
		ShiftFit:     fit,
		DisplayScore: round2(displayBaseWeight*float64(base)/100 + displayShiftWeight*fit),
	}
}

// ShiftFit is the exact-tag overlap between the family's shifts and the
// caregiver's availability, plus a bonus per flexible availability tag.
func ShiftFit(familyTags, caregiverTags []string) float64 {
	f := normalizeTags(familyTags)
	c := normalizeTags(caregiverTags)
	if len(f) == 0 || len(c) == 0 {
		return neutralScore
	}

	offered := make(map[string]bool, len(c))
	bonus := 0.0
	for _, tag := range c {
		offered[tag] = true
		if flexibleShiftTags[strings.ReplaceAll(tag, "-", "_")] {
			bonus += flexibilityBonus
		}
	}

	matched := 0
	for _, tag := range f {
		if offered[tag] {
			matched++
		}
	}

	return round2(clamp01(float64(matched)/float64(len(f)) + bonus))
}
