package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tavara-care/internal/models"
)

const caregiverColumns = `
	id, COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(care_types, '{}'),
	COALESCE(years_of_experience, 0)::float8, COALESCE(hourly_rate, 0)::float8,
	COALESCE(available_shifts, '{}'), profile_complete, created_at, updated_at`

// CaregiverRepository handles professional caregiver profiles.
type CaregiverRepository struct {
	db *DB
}

// NewCaregiverRepository creates a new caregiver repository.
func NewCaregiverRepository(db *DB) *CaregiverRepository {
	return &CaregiverRepository{db: db}
}

// GetComplete returns every professional whose profile is complete, ordered
// by id so a fixed snapshot always yields the same candidate order.
func (r *CaregiverRepository) GetComplete(ctx context.Context) ([]*models.CaregiverProfile, error) {
	query := `SELECT ` + caregiverColumns + `
		FROM profiles
		WHERE role = 'professional' AND profile_complete = true
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query caregivers: %w", err)
	}
	defer rows.Close()

	return scanCaregivers(rows)
}

// GetByUserIDs returns the professionals with the given ids, in no particular order.
func (r *CaregiverRepository) GetByUserIDs(ctx context.Context, ids []string) ([]*models.CaregiverProfile, error) {
	if len(ids) == 0 {
		return []*models.CaregiverProfile{}, nil
	}

	query := `SELECT ` + caregiverColumns + `
		FROM profiles
		WHERE role = 'professional' AND id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query caregivers: %w", err)
	}
	defer rows.Close()

	return scanCaregivers(rows)
}

// BulkUpsert inserts or updates caregiver profiles in one transaction. Rows
// that fail are counted and reported; they do not abort the batch.
func (r *CaregiverRepository) BulkUpsert(ctx context.Context, caregivers []*models.CaregiverCreate) (*models.BulkInsertResult, error) {
	result := &models.BulkInsertResult{Errors: []string{}}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		for _, c := range caregivers {
			// A savepoint keeps one bad row from poisoning the transaction.
			sp, err := tx.Begin(ctx)
			if err != nil {
				return fmt.Errorf("failed to open savepoint: %w", err)
			}

			_, err = sp.Exec(ctx, `
				INSERT INTO profiles (
					id, role, full_name, email, care_types, years_of_experience,
					hourly_rate, available_shifts, profile_complete, created_at, updated_at
				) VALUES ($1, 'professional', $2, $3, $4, $5, $6, $7, $8, $9, $9)
				ON CONFLICT (id) DO UPDATE SET
					full_name = EXCLUDED.full_name,
					email = EXCLUDED.email,
					care_types = EXCLUDED.care_types,
					years_of_experience = EXCLUDED.years_of_experience,
					hourly_rate = EXCLUDED.hourly_rate,
					available_shifts = EXCLUDED.available_shifts,
					profile_complete = EXCLUDED.profile_complete,
					updated_at = EXCLUDED.updated_at`,
				c.UserID,
				c.FullName,
				c.Email,
				c.Specialties,
				c.YearsOfExperience,
				c.HourlyRate,
				c.AvailableShifts,
				c.ProfileComplete,
				now,
			)
			if err != nil {
				_ = sp.Rollback(ctx)
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("caregiver %s: %v", c.UserID, err))
				continue
			}
			if err := sp.Commit(ctx); err != nil {
				return fmt.Errorf("failed to release savepoint: %w", err)
			}
			result.InsertedCount++
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("bulk upsert failed: %w", err)
	}

	return result, nil
}

func scanCaregivers(rows pgx.Rows) ([]*models.CaregiverProfile, error) {
	caregivers := []*models.CaregiverProfile{}
	for rows.Next() {
		var c models.CaregiverProfile
		err := rows.Scan(
			&c.UserID,
			&c.FullName,
			&c.Email,
			&c.Specialties,
			&c.YearsOfExperience,
			&c.HourlyRate,
			&c.AvailableShifts,
			&c.ProfileComplete,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan caregiver: %w", err)
		}
		caregivers = append(caregivers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate caregivers: %w", err)
	}
	return caregivers, nil
}
