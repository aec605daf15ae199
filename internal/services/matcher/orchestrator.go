package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"tavara-care/internal/metrics"
	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// DefaultMatchThreshold is the score a match must exceed to be assignable.
const DefaultMatchThreshold = 0.3

// Store is the persistence the orchestrator needs.
type Store interface {
	// GetFamilyProfile returns nil, nil when the family does not exist.
	GetFamilyProfile(ctx context.Context, familyUserID string) (*models.FamilyNeedsProfile, error)
	// ListCompleteCaregivers returns professionals whose profile is complete.
	ListCompleteCaregivers(ctx context.Context) ([]*models.CaregiverProfile, error)
	// CreateAssignment persists one assignment and returns the stored record.
	// created is false when an idempotency key matched an earlier record for
	// the same family.
	CreateAssignment(ctx context.Context, a *models.AssignmentCreate) (*models.Assignment, bool, error)
}

// AssignmentHook runs after an assignment has been written. Hook errors are
// logged and never change the orchestrator's result.
type AssignmentHook interface {
	Name() string
	AfterAssignment(ctx context.Context, event *models.AssignmentEvent) error
}

// AutoAssignRequest starts one assignment pass for a family.
type AutoAssignRequest struct {
	FamilyUserID   string
	TriggerType    models.TriggerType
	IdempotencyKey string
}

// AutoAssignResult is the outcome of one assignment pass.
type AutoAssignResult struct {
	Outcome        models.AssignmentOutcome
	AssignmentID   string
	FamilyUserID   string
	TriggerType    models.TriggerType
	Top            *models.MatchResult
	Matches        []models.MatchResult
	TotalEvaluated int
	// Replayed is set when the idempotency key had already been used; Top then
	// describes the stored assignment.
	Replayed bool
}

// Orchestrator scores every complete caregiver for a family and assigns the best.
type Orchestrator struct {
	store     Store
	threshold float64
	hooks     []AssignmentHook
	logger    *zap.Logger
	now       func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithThreshold overrides the minimum match score.
func WithThreshold(threshold float64) OrchestratorOption {
	return func(o *Orchestrator) {
		o.threshold = threshold
	}
}

// WithHooks registers post-assignment hooks, run in order.
func WithHooks(hooks ...AssignmentHook) OrchestratorOption {
	return func(o *Orchestrator) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over the given store.
func NewOrchestrator(store Store, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		threshold: DefaultMatchThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = utils.Named("orchestrator")
	}
	return o
}

// AutoAssign runs one assignment pass. It returns models.ErrFamilyNotFound
// when the family has no profile; empty candidate sets are outcomes, not
// errors. At most one assignment is written per call.
func (o *Orchestrator) AutoAssign(ctx context.Context, req AutoAssignRequest) (*AutoAssignResult, error) {
	start := o.now()

	familyID := strings.TrimSpace(req.FamilyUserID)
	if familyID == "" {
		return nil, models.ErrEmptyFamilyUserID
	}
	trigger := req.TriggerType
	if trigger == "" {
		trigger = models.TriggerManual
	}

	result := &AutoAssignResult{
		FamilyUserID: familyID,
		TriggerType:  trigger,
	}

	family, err := o.store.GetFamilyProfile(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family profile: %w", err)
	}
	if family == nil {
		o.record(trigger, "not_found", start)
		return nil, models.ErrFamilyNotFound
	}

	caregivers, err := o.store.ListCompleteCaregivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get caregivers: %w", err)
	}
	if len(caregivers) == 0 {
		o.logger.Info("No caregivers available", zap.String("family_user_id", familyID))
		result.Outcome = models.OutcomeNoCaregivers
		o.record(trigger, string(result.Outcome), start)
		return result, nil
	}

	scored := make([]models.MatchResult, 0, len(caregivers))
	byID := make(map[string]*models.CaregiverProfile, len(caregivers))
	for _, c := range caregivers {
		m := Score(family, c)
		metrics.MatchScores.WithLabelValues("assignment").Observe(m.MatchScore)
		scored = append(scored, m)
		byID[c.UserID] = c
	}
	result.TotalEvaluated = len(scored)
	metrics.CandidatesEvaluated.Observe(float64(len(scored)))

	result.Matches = RankMatches(scored, o.threshold)

	o.logger.Info("Scored caregivers",
		zap.String("family_user_id", familyID),
		zap.Int("evaluated", result.TotalEvaluated),
		zap.Int("above_threshold", len(result.Matches)),
	)

	if len(result.Matches) == 0 {
		result.Outcome = models.OutcomeNoSuitableMatches
		o.record(trigger, string(result.Outcome), start)
		return result, nil
	}

	top := result.Matches[0]
	stored, created, err := o.store.CreateAssignment(ctx, &models.AssignmentCreate{
		FamilyUserID:            familyID,
		CaregiverID:             top.CaregiverID,
		AssignmentType:          models.AssignmentTypeAutomatic,
		Status:                  models.AssignmentStatusActive,
		MatchScore:              top.MatchScore,
		ShiftCompatibilityScore: top.ShiftCompatibilityScore,
		MatchExplanation:        top.Explanation,
		TriggerType:             trigger,
		IdempotencyKey:          strings.TrimSpace(req.IdempotencyKey),
	})
	if err != nil {
		o.record(trigger, "error", start)
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	result.Outcome = models.OutcomeAssigned
	result.AssignmentID = stored.ID

	if !created {
		replayed := storedMatch(stored, result.Matches)
		result.Top = &replayed
		result.Replayed = true

		o.logger.Info("Returning existing assignment for idempotency key",
			zap.String("assignment_id", stored.ID),
			zap.String("family_user_id", familyID),
			zap.String("caregiver_id", stored.CaregiverID),
		)
		o.record(trigger, "replayed", start)
		return result, nil
	}

	result.Top = &top

	o.logger.Info("Created automatic assignment",
		zap.String("assignment_id", stored.ID),
		zap.String("family_user_id", familyID),
		zap.String("caregiver_id", top.CaregiverID),
		zap.Float64("match_score", top.MatchScore),
		zap.String("trigger_type", string(trigger)),
	)

	o.runHooks(ctx, &models.AssignmentEvent{
		AssignmentID: stored.ID,
		Family:       family,
		Caregiver:    byID[top.CaregiverID],
		Top:          top,
		Ranked:       result.Matches,
		Evaluated:    result.TotalEvaluated,
		TriggerType:  trigger,
		CreatedAt:    o.now().UTC(),
	})

	o.record(trigger, string(result.Outcome), start)
	return result, nil
}

// RankMatches keeps matches scoring strictly above threshold and orders them
// by score, highest first. Equal scores keep their input order.
func RankMatches(matches []models.MatchResult, threshold float64) []models.MatchResult {
	ranked := make([]models.MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.MatchScore > threshold {
			ranked = append(ranked, m)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}

// storedMatch describes a previously written assignment. The breakdown comes
// from this run when the stored caregiver is still ranked.
func storedMatch(stored *models.Assignment, ranked []models.MatchResult) models.MatchResult {
	m := models.MatchResult{
		CaregiverID:             stored.CaregiverID,
		MatchScore:              stored.MatchScore,
		ShiftCompatibilityScore: stored.ShiftCompatibilityScore,
		Explanation:             stored.MatchExplanation,
	}
	for _, r := range ranked {
		if r.CaregiverID == stored.CaregiverID {
			m.Breakdown = r.Breakdown
			break
		}
	}
	return m
}

func (o *Orchestrator) runHooks(ctx context.Context, event *models.AssignmentEvent) {
	for _, h := range o.hooks {
		if err := h.AfterAssignment(ctx, event); err != nil {
			metrics.HookFailures.WithLabelValues(h.Name()).Inc()
			o.logger.Warn("Post-assignment hook failed",
				zap.String("hook", h.Name()),
				zap.String("assignment_id", event.AssignmentID),
				zap.Error(err),
			)
		}
	}
}

func (o *Orchestrator) record(trigger models.TriggerType, outcome string, start time.Time) {
	metrics.AssignmentsTotal.WithLabelValues(outcome, string(trigger)).Inc()
	metrics.AssignmentDuration.WithLabelValues(outcome).Observe(o.now().Sub(start).Seconds())
}
