package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tavara-care/internal/models"
)

// FamilyRepository reads family needs profiles.
type FamilyRepository struct {
	db *DB
}

// NewFamilyRepository creates a new family repository.
func NewFamilyRepository(db *DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// GetByUserID returns the family's needs profile, or nil when the user has no
// family profile.
func (r *FamilyRepository) GetByUserID(ctx context.Context, userID string) (*models.FamilyNeedsProfile, error) {
	query := `
		SELECT id, COALESCE(full_name, ''), COALESCE(email, ''),
			   COALESCE(care_types, '{}'), COALESCE(special_needs, ''), COALESCE(care_schedule, ''),
			   COALESCE(budget_preferences, ''), COALESCE(caregiver_type, ''), updated_at
		FROM profiles
		WHERE id = $1 AND role = 'family'`

	var f models.FamilyNeedsProfile
	var budget, caregiverType string

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&f.UserID,
		&f.FullName,
		&f.Email,
		&f.CareTypes,
		&f.SpecialNeeds,
		&f.CareSchedule,
		&budget,
		&caregiverType,
		&f.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family profile: %w", err)
	}

	f.BudgetPreferences = models.NormalizeBudgetPreference(budget)
	if models.ValidateBudgetPreference(f.BudgetPreferences) != nil {
		// Unrecognized labels score the same as "not sure".
		f.BudgetPreferences = models.BudgetNotSure
	}
	f.CaregiverTypePreference = models.NormalizeCaregiverType(caregiverType)
	return &f, nil
}
