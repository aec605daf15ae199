// Package models defines the data structures for the Tavara.care matching service.
package models

import (
	"time"
)

// TriggerType records what started an automatic assignment pass.
type TriggerType string

const (
	TriggerManual       TriggerType = "manual"
	TriggerRegistration TriggerType = "registration"
	TriggerScheduled    TriggerType = "scheduled"
)

// AssignmentStatus represents the lifecycle state of a care assignment.
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// AssignmentType distinguishes automatic from admin-made assignments.
type AssignmentType string

const (
	AssignmentTypeAutomatic AssignmentType = "automatic"
	AssignmentTypeManual    AssignmentType = "manual"
)

// ScoreBreakdown holds the four normalized sub-scores behind a match score.
type ScoreBreakdown struct {
	CareType   float64 `json:"care_type"`
	Experience float64 `json:"experience"`
	Budget     float64 `json:"budget"`
	Schedule   float64 `json:"schedule"`
}

// MatchResult is the compatibility between one family and one caregiver.
type MatchResult struct {
	CaregiverID             string         `json:"caregiver_id"`
	MatchScore              float64        `json:"match_score"`
	ShiftCompatibilityScore float64        `json:"shift_compatibility_score"`
	Explanation             string         `json:"explanation"`
	Breakdown               ScoreBreakdown `json:"breakdown"`
}

// DisplayFactors is the secondary, hash-derived ranking signal used for
// presentation only. It never feeds into MatchScore.
type DisplayFactors struct {
	BaseScore    int     `json:"base_score"`
	IsPremium    bool    `json:"is_premium"`
	ShiftFit     float64 `json:"shift_fit"`
	DisplayScore float64 `json:"display_score"`
}

// PresentedMatch is a ranked match prepared for a family-facing list.
type PresentedMatch struct {
	MatchResult
	FullName          string         `json:"full_name,omitempty"`
	Specialties       []string       `json:"specialties"`
	YearsOfExperience float64        `json:"years_of_experience"`
	HourlyRate        float64        `json:"hourly_rate"`
	AvailableShifts   []string       `json:"available_shifts"`
	Display           DisplayFactors `json:"display"`
}

// AssignmentCreate is the record written for the top match of an assignment pass.
type AssignmentCreate struct {
	FamilyUserID            string           `json:"family_user_id"`
	CaregiverID             string           `json:"caregiver_id"`
	AssignmentType          AssignmentType   `json:"assignment_type"`
	Status                  AssignmentStatus `json:"status"`
	MatchScore              float64          `json:"match_score"`
	ShiftCompatibilityScore float64          `json:"shift_compatibility_score"`
	MatchExplanation        string           `json:"match_explanation"`
	TriggerType             TriggerType      `json:"trigger_type"`
	IdempotencyKey          string           `json:"idempotency_key,omitempty"`
}

// Assignment is a persisted family-caregiver assignment.
type Assignment struct {
	ID                      string           `json:"id" db:"id"`
	FamilyUserID            string           `json:"family_user_id" db:"family_user_id"`
	CaregiverID             string           `json:"caregiver_id" db:"caregiver_id"`
	AssignmentType          AssignmentType   `json:"assignment_type" db:"assignment_type"`
	Status                  AssignmentStatus `json:"status" db:"status"`
	MatchScore              float64          `json:"match_score" db:"match_score"`
	ShiftCompatibilityScore float64          `json:"shift_compatibility_score" db:"shift_compatibility_score"`
	MatchExplanation        string           `json:"match_explanation" db:"match_explanation"`
	TriggerType             TriggerType      `json:"trigger_type" db:"trigger_type"`
	IdempotencyKey          *string          `json:"idempotency_key,omitempty" db:"idempotency_key"`
	CreatedAt               time.Time        `json:"created_at" db:"created_at"`
}

// AssignmentOutcome is the terminal state of one orchestrator invocation.
type AssignmentOutcome string

const (
	OutcomeAssigned          AssignmentOutcome = "assigned"
	OutcomeNoCaregivers      AssignmentOutcome = "no_caregivers"
	OutcomeNoSuitableMatches AssignmentOutcome = "no_suitable_matches"
)

// MatchSnapshot is the archived record of one assignment pass.
type MatchSnapshot struct {
	AssignmentID string        `json:"assignment_id"`
	FamilyUserID string        `json:"family_user_id"`
	TriggerType  TriggerType   `json:"trigger_type"`
	Evaluated    int           `json:"total_matches_evaluated"`
	Ranked       []MatchResult `json:"ranked_matches"`
	CreatedAt    time.Time     `json:"created_at"`
}

// AssignmentEvent describes a completed automatic assignment. Post-assignment
// hooks (archive, notification) receive it after the record is written.
type AssignmentEvent struct {
	AssignmentID string
	Family       *FamilyNeedsProfile
	Caregiver    *CaregiverProfile
	Top          MatchResult
	Ranked       []MatchResult
	Evaluated    int
	TriggerType  TriggerType
	CreatedAt    time.Time
}

// Snapshot converts the event into its archived form.
func (e *AssignmentEvent) Snapshot() MatchSnapshot {
	return MatchSnapshot{
		AssignmentID: e.AssignmentID,
		FamilyUserID: e.Family.UserID,
		TriggerType:  e.TriggerType,
		Evaluated:    e.Evaluated,
		Ranked:       e.Ranked,
		CreatedAt:    e.CreatedAt,
	}
}
