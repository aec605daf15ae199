// Package models defines the data structures for the Tavara.care matching service.
package models

import (
	"time"
)

// CaregiverProfile is a read-only snapshot of a professional caregiver's profile.
type CaregiverProfile struct {
	UserID            string    `json:"user_id" db:"user_id"`
	FullName          string    `json:"full_name,omitempty" db:"full_name"`
	Email             string    `json:"email,omitempty" db:"email"`
	Specialties       []string  `json:"specialties" db:"care_types"`
	YearsOfExperience float64   `json:"years_of_experience" db:"years_of_experience"`
	HourlyRate        float64   `json:"hourly_rate" db:"hourly_rate"`
	AvailableShifts   []string  `json:"available_shifts" db:"care_schedule"`
	ProfileComplete   bool      `json:"profile_complete" db:"profile_complete"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// CaregiverCreate represents the data needed to upsert a caregiver profile.
type CaregiverCreate struct {
	UserID            string   `json:"user_id"`
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	Specialties       []string `json:"specialties"`
	YearsOfExperience float64  `json:"years_of_experience"`
	HourlyRate        float64  `json:"hourly_rate"`
	AvailableShifts   []string `json:"available_shifts"`
	ProfileComplete   bool     `json:"profile_complete"`
}

// CSVCaregiverRow represents a row from a caregiver roster CSV file.
type CSVCaregiverRow struct {
	UserID            string   `csv:"user_id"`
	FullName          string   `csv:"full_name"`
	Email             string   `csv:"email"`
	Specialties       []string `csv:"specialties"`
	YearsOfExperience float64  `csv:"years_of_experience"`
	HourlyRate        float64  `csv:"hourly_rate"`
	AvailableShifts   []string `csv:"available_shifts"`
	ProfileComplete   bool     `csv:"profile_complete"`
}

// ToCaregiverCreate converts a CSV row to a CaregiverCreate model.
func (r *CSVCaregiverRow) ToCaregiverCreate() (*CaregiverCreate, error) {
	c := &CaregiverCreate{
		UserID:            r.UserID,
		FullName:          r.FullName,
		Email:             r.Email,
		Specialties:       r.Specialties,
		YearsOfExperience: r.YearsOfExperience,
		HourlyRate:        r.HourlyRate,
		AvailableShifts:   r.AvailableShifts,
		ProfileComplete:   r.ProfileComplete,
	}
	if err := ValidateCaregiverCreate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// BulkInsertResult contains the results of a bulk insert operation.
type BulkInsertResult struct {
	InsertedCount int      `json:"inserted_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors,omitempty"`
}
