package database

import (
	"context"

	"tavara-care/internal/models"
)

// Store adapts the repositories to the matcher's persistence ports.
type Store struct {
	db          *DB
	families    *FamilyRepository
	caregivers  *CaregiverRepository
	readiness   *ReadinessRepository
	assignments *AssignmentRepository
}

// NewStore creates a store over one connection pool.
func NewStore(db *DB) *Store {
	return &Store{
		db:          db,
		families:    NewFamilyRepository(db),
		caregivers:  NewCaregiverRepository(db),
		readiness:   NewReadinessRepository(db),
		assignments: NewAssignmentRepository(db),
	}
}

// GetFamilyProfile returns nil, nil when the family does not exist.
func (s *Store) GetFamilyProfile(ctx context.Context, familyUserID string) (*models.FamilyNeedsProfile, error) {
	return s.families.GetByUserID(ctx, familyUserID)
}

// ListCompleteCaregivers returns every complete professional profile.
func (s *Store) ListCompleteCaregivers(ctx context.Context) ([]*models.CaregiverProfile, error) {
	return s.caregivers.GetComplete(ctx)
}

// CreateAssignment persists one assignment, or returns the family's existing
// record for a repeated idempotency key.
func (s *Store) CreateAssignment(ctx context.Context, a *models.AssignmentCreate) (*models.Assignment, bool, error) {
	return s.assignments.Create(ctx, a)
}

// ListReadyCaregivers returns up to limit caregivers that passed the readiness
// gate, in readiness order. Ready ids without a professional profile are skipped.
func (s *Store) ListReadyCaregivers(ctx context.Context, limit int) ([]*models.CaregiverProfile, error) {
	ids, err := s.readiness.ListReady(ctx, limit)
	if err != nil {
		return nil, err
	}

	profiles, err := s.caregivers.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.CaregiverProfile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}

	ordered := make([]*models.CaregiverProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Assignments exposes assignment lookups for operator tooling.
func (s *Store) Assignments() *AssignmentRepository {
	return s.assignments
}

// Caregivers exposes caregiver writes for roster imports.
func (s *Store) Caregivers() *CaregiverRepository {
	return s.caregivers
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}
