// Package models defines the data structures for the Tavara.care matching service.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrFamilyNotFound          = errors.New("family user not found")
	ErrEmptyFamilyUserID       = errors.New("family_user_id cannot be empty")
	ErrEmptyCaregiverID        = errors.New("caregiver user_id cannot be empty")
	ErrInvalidEmail            = errors.New("invalid email address")
	ErrNegativeExperience      = errors.New("years of experience cannot be negative")
	ErrNegativeHourlyRate      = errors.New("hourly rate cannot be negative")
	ErrInvalidBudgetPreference = errors.New("invalid budget preference")
)

// NormalizeBudgetPreference converts the budget labels used across intake
// forms to the canonical bucket values.
func NormalizeBudgetPreference(budget string) BudgetPreference {
	normalized := strings.ToLower(strings.TrimSpace(budget))
	normalized = strings.TrimPrefix(normalized, "$")
	normalized = strings.ReplaceAll(normalized, "/hr", "")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, "$", "")

	budgetMap := map[string]BudgetPreference{
		"under_15":  BudgetUnder15,
		"under_$15": BudgetUnder15,
		"lt_15":     BudgetUnder15,
		"15_20":     Budget15To20,
		"20_25":     Budget20To25,
		"25_30":     Budget25To30,
		"30_plus":   Budget30Plus,
		"30+":       Budget30Plus,
		"over_30":   Budget30Plus,
		"not_sure":  BudgetNotSure,
		"unsure":    BudgetNotSure,
		"flexible":  BudgetNotSure,
	}

	if mapped, ok := budgetMap[normalized]; ok {
		return mapped
	}

	return BudgetPreference(normalized)
}

// ValidateBudgetPreference reports whether a normalized bucket is one the
// scorer knows. An empty preference is allowed.
func ValidateBudgetPreference(b BudgetPreference) error {
	if b == "" || b.IsValid() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidBudgetPreference, string(b))
}

// NormalizeCaregiverType maps a free-form caregiver type preference to a known value.
// Unknown values collapse to unspecified.
func NormalizeCaregiverType(pref string) CaregiverTypePreference {
	switch strings.ToLower(strings.TrimSpace(pref)) {
	case "professional", "professional_caregiver":
		return CaregiverTypeProfessional
	case "nurse", "registered_nurse", "rn":
		return CaregiverTypeNurse
	case "specialized", "specialist":
		return CaregiverTypeSpecialized
	case "companion", "companion_care":
		return CaregiverTypeCompanion
	default:
		return CaregiverTypeUnspecified
	}
}

// ValidateCaregiverCreate validates caregiver profile data before it is stored.
func ValidateCaregiverCreate(c *CaregiverCreate) error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrEmptyCaregiverID
	}

	if c.Email != "" && !isValidEmail(c.Email) {
		return ErrInvalidEmail
	}

	if c.YearsOfExperience < 0 {
		return ErrNegativeExperience
	}

	if c.HourlyRate < 0 {
		return ErrNegativeHourlyRate
	}

	return nil
}

// isValidEmail performs basic email validation.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	dotIndex := strings.LastIndex(email, ".")
	if dotIndex <= atIndex+1 || dotIndex == len(email)-1 {
		return false
	}

	return true
}
