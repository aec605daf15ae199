// Package models defines the data structures for the Tavara.care matching service.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// BudgetPreference is the hourly budget bucket a family selects.
type BudgetPreference string

const (
	BudgetUnder15 BudgetPreference = "under_15"
	Budget15To20  BudgetPreference = "15_20"
	Budget20To25  BudgetPreference = "20_25"
	Budget25To30  BudgetPreference = "25_30"
	Budget30Plus  BudgetPreference = "30_plus"
	BudgetNotSure BudgetPreference = "not_sure"
)

// ValidBudgetPreferences returns all valid budget buckets.
func ValidBudgetPreferences() []BudgetPreference {
	return []BudgetPreference{
		BudgetUnder15,
		Budget15To20,
		Budget20To25,
		Budget25To30,
		Budget30Plus,
		BudgetNotSure,
	}
}

// IsValid checks if the budget bucket is one of the known values.
func (b BudgetPreference) IsValid() bool {
	for _, valid := range ValidBudgetPreferences() {
		if b == valid {
			return true
		}
	}
	return false
}

// CaregiverTypePreference is the kind of caregiver a family is looking for.
type CaregiverTypePreference string

const (
	CaregiverTypeProfessional CaregiverTypePreference = "professional"
	CaregiverTypeNurse        CaregiverTypePreference = "nurse"
	CaregiverTypeSpecialized  CaregiverTypePreference = "specialized"
	CaregiverTypeCompanion    CaregiverTypePreference = "companion"
	CaregiverTypeUnspecified  CaregiverTypePreference = ""
)

// FamilyNeedsProfile is a read-only snapshot of a family's stated care requirements.
type FamilyNeedsProfile struct {
	UserID                  string                  `json:"user_id" db:"user_id"`
	FullName                string                  `json:"full_name,omitempty" db:"full_name"`
	Email                   string                  `json:"email,omitempty" db:"email"`
	CareTypes               []string                `json:"care_types" db:"care_types"`
	SpecialNeeds            string                  `json:"special_needs,omitempty" db:"special_needs"`
	CareSchedule            string                  `json:"care_schedule" db:"care_schedule"`
	BudgetPreferences       BudgetPreference        `json:"budget_preferences" db:"budget_preferences"`
	CaregiverTypePreference CaregiverTypePreference `json:"caregiver_type_preference,omitempty" db:"caregiver_type_preference"`
	UpdatedAt               time.Time               `json:"updated_at" db:"updated_at"`
}

// ScheduleTags splits the schedule descriptor into shift tags. The descriptor
// is either a JSON array of tags or a comma-separated list.
func (f *FamilyNeedsProfile) ScheduleTags() []string {
	return ParseShiftTags(f.CareSchedule)
}

// ParseShiftTags parses a schedule descriptor into trimmed, non-empty tags.
func ParseShiftTags(descriptor string) []string {
	trimmed := strings.TrimSpace(descriptor)
	if trimmed == "" {
		return []string{}
	}

	if strings.HasPrefix(trimmed, "[") {
		var raw []string
		if err := json.Unmarshal([]byte(trimmed), &raw); err == nil {
			return cleanTags(raw)
		}
		// Not valid JSON after all; fall through and treat as a plain list.
		trimmed = strings.Trim(trimmed, "[]")
	}

	return cleanTags(strings.Split(trimmed, ","))
}

func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(strings.TrimSpace(t), `"`)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
