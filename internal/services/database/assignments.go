package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tavara-care/internal/models"
)

// AssignmentRepository handles care assignment records.
type AssignmentRepository struct {
	db *DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create writes an assignment through the create_care_assignment procedure
// and returns the stored record. With an idempotency key a repeat for the same
// family returns the first record and created is false; without one every
// call inserts a new row.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.AssignmentCreate) (*models.Assignment, bool, error) {
	var key *string
	if a.IdempotencyKey != "" {
		key = &a.IdempotencyKey
	}

	stored := &models.Assignment{
		FamilyUserID:   a.FamilyUserID,
		AssignmentType: a.AssignmentType,
		Status:         a.Status,
		TriggerType:    a.TriggerType,
		IdempotencyKey: key,
	}
	var created bool
	err := r.db.QueryRowContext(ctx, `
		SELECT assignment_id::text, assigned_caregiver_id, assigned_match_score::float8,
			   assigned_shift_score::float8, assigned_explanation, created
		FROM create_care_assignment($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.NewString(),
		a.FamilyUserID,
		a.CaregiverID,
		string(a.AssignmentType),
		string(a.Status),
		a.MatchScore,
		a.ShiftCompatibilityScore,
		a.MatchExplanation,
		string(a.TriggerType),
		key,
	).Scan(
		&stored.ID, &stored.CaregiverID, &stored.MatchScore,
		&stored.ShiftCompatibilityScore, &stored.MatchExplanation, &created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create assignment: %w", err)
	}

	return stored, created, nil
}

// GetByFamily returns a family's assignments, newest first.
func (r *AssignmentRepository) GetByFamily(ctx context.Context, familyUserID string) ([]models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id::text, family_user_id, caregiver_id, assignment_type, status,
			   match_score::float8, shift_compatibility_score::float8, COALESCE(match_explanation, ''),
			   trigger_type, idempotency_key, created_at
		FROM care_assignments
		WHERE family_user_id = $1
		ORDER BY created_at DESC`, familyUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments by family: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		var assignmentType, status, trigger string
		err := rows.Scan(
			&a.ID, &a.FamilyUserID, &a.CaregiverID, &assignmentType, &status,
			&a.MatchScore, &a.ShiftCompatibilityScore, &a.MatchExplanation,
			&trigger, &a.IdempotencyKey, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.AssignmentType = models.AssignmentType(assignmentType)
		a.Status = models.AssignmentStatus(status)
		a.TriggerType = models.TriggerType(trigger)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}
