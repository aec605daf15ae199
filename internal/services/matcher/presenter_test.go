package matcher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavara-care/internal/models"
)

type fakeSource struct {
	family        *models.FamilyNeedsProfile
	familyErr     error
	caregivers    []*models.CaregiverProfile
	caregiversErr error

	familyCalls    atomic.Int32
	candidateCalls atomic.Int32
	lastLimit      atomic.Int32
}

func (s *fakeSource) GetFamilyProfile(_ context.Context, _ string) (*models.FamilyNeedsProfile, error) {
	s.familyCalls.Add(1)
	return s.family, s.familyErr
}

func (s *fakeSource) ListReadyCaregivers(_ context.Context, limit int) ([]*models.CaregiverProfile, error) {
	s.candidateCalls.Add(1)
	s.lastLimit.Store(int32(limit))
	return s.caregivers, s.caregiversErr
}

func readySource() *fakeSource {
	return &fakeSource{
		family: dementiaFamily(),
		caregivers: []*models.CaregiverProfile{
			poorCaregiver("cg-poor"),
			perfectCaregiver("cg-best"),
			partialCaregiver("cg-partial"),
		},
	}
}

func TestPresenter_RanksByMatchScore(t *testing.T) {
	p := NewPresenter(readySource(), nil, 0)

	matches, err := p.Matches(context.Background(), "family-1", false)
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, "cg-best", matches[0].CaregiverID)
	assert.Equal(t, "cg-partial", matches[1].CaregiverID)
	assert.Equal(t, "cg-poor", matches[2].CaregiverID)

	best := matches[0]
	assert.Equal(t, 1.0, best.MatchScore)
	assert.Equal(t, 1.0, best.ShiftCompatibilityScore)
	assert.Equal(t, []string{"Alzheimer's Care", "Dementia Care"}, best.Specialties)
	assert.Equal(t, 22.0, best.HourlyRate)
	assert.Equal(t, DisplayFactorsFor(dementiaFamily(), perfectCaregiver("cg-best")), best.Display)
}

func TestPresenter_MatchScoreAgreesWithScorer(t *testing.T) {
	source := readySource()
	matches, err := NewPresenter(source, nil, 0).Matches(context.Background(), "family-1", false)
	require.NoError(t, err)

	for _, m := range matches {
		for _, c := range source.caregivers {
			if c.UserID == m.CaregiverID {
				assert.Equal(t, Score(source.family, c), m.MatchResult)
			}
		}
	}
}

func TestPresenter_MemoizesAcrossBestOnlyToggle(t *testing.T) {
	source := readySource()
	p := NewPresenter(source, nil, 0)
	ctx := context.Background()

	full, err := p.Matches(ctx, "family-1", false)
	require.NoError(t, err)
	best, err := p.Matches(ctx, "family-1", true)
	require.NoError(t, err)
	again, err := p.Matches(ctx, "family-1", false)
	require.NoError(t, err)

	require.Len(t, best, 1)
	assert.Equal(t, full[0], best[0])
	assert.Equal(t, full, again)
	assert.Equal(t, int32(1), source.familyCalls.Load())
	assert.Equal(t, int32(1), source.candidateCalls.Load())
}

func TestPresenter_CacheIsNotInvalidated(t *testing.T) {
	source := readySource()
	p := NewPresenter(source, nil, 0)
	ctx := context.Background()

	before, err := p.Matches(ctx, "family-1", false)
	require.NoError(t, err)

	source.caregivers = []*models.CaregiverProfile{perfectCaregiver("cg-new")}
	after, err := p.Matches(ctx, "family-1", false)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestPresenter_BestOnlyFirstCall(t *testing.T) {
	matches, err := NewPresenter(readySource(), nil, 0).Matches(context.Background(), "family-1", true)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "cg-best", matches[0].CaregiverID)
}

func TestPresenter_SwallowsFamilyErrors(t *testing.T) {
	source := readySource()
	source.family = nil
	source.familyErr = errors.New("profiles table unavailable")

	matches, err := NewPresenter(source, nil, 0).Matches(context.Background(), "family-1", false)
	require.NoError(t, err)

	require.Len(t, matches, 3)
	missing := &models.FamilyNeedsProfile{UserID: "family-1"}
	for _, m := range matches {
		// Neutral care type and schedule, neutral budget.
		assert.Contains(t, m.Explanation, "Care type match: 50%")
		assert.Contains(t, m.Explanation, "Budget match: 70%")
		assert.Equal(t, 0.5, m.ShiftCompatibilityScore)
		assert.Equal(t, 0.5, m.Display.ShiftFit)
		assert.Equal(t, DisplayFactorsFor(missing, &models.CaregiverProfile{UserID: m.CaregiverID}).BaseScore, m.Display.BaseScore)
	}
}

func TestPresenter_CandidateErrorIsReturned(t *testing.T) {
	dbErr := errors.New("readiness check failed")
	source := readySource()
	source.caregiversErr = dbErr
	p := NewPresenter(source, nil, 0)

	_, err := p.Matches(context.Background(), "family-1", false)
	assert.ErrorIs(t, err, dbErr)

	// Failures are not cached.
	source.caregiversErr = nil
	matches, err := p.Matches(context.Background(), "family-1", false)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestPresenter_RespectsLimit(t *testing.T) {
	source := readySource()

	matches, err := NewPresenter(source, nil, 2).Matches(context.Background(), "family-1", false)
	require.NoError(t, err)

	assert.Len(t, matches, 2)
	assert.Equal(t, int32(2), source.lastLimit.Load())
}

func TestPresenter_DefaultLimit(t *testing.T) {
	source := readySource()

	_, err := NewPresenter(source, nil, -1).Matches(context.Background(), "family-1", false)
	require.NoError(t, err)

	assert.Equal(t, int32(DefaultCandidateLimit), source.lastLimit.Load())
}

func TestPresenter_EmptyFamilyID(t *testing.T) {
	_, err := NewPresenter(readySource(), nil, 0).Matches(context.Background(), "", false)
	assert.ErrorIs(t, err, models.ErrEmptyFamilyUserID)
}

func TestPresenter_NoCandidates(t *testing.T) {
	source := &fakeSource{family: dementiaFamily()}

	matches, err := NewPresenter(source, nil, 0).Matches(context.Background(), "family-1", true)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPresenter_Deterministic(t *testing.T) {
	first, err := NewPresenter(readySource(), nil, 0).Matches(context.Background(), "family-1", false)
	require.NoError(t, err)
	second, err := NewPresenter(readySource(), nil, 0).Matches(context.Background(), "family-1", false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSortPresented(t *testing.T) {
	presented := func(id string, score, display float64) models.PresentedMatch {
		return models.PresentedMatch{
			MatchResult: models.MatchResult{CaregiverID: id, MatchScore: score},
			Display:     models.DisplayFactors{DisplayScore: display},
		}
	}
	matches := []models.PresentedMatch{
		presented("a", 0.6, 0.70),
		presented("b", 0.8, 0.60),
		presented("c", 0.6, 0.90),
		presented("d", 0.6, 0.70),
	}

	SortPresented(matches)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.CaregiverID)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
}

func TestPresenter_RetriesAfterFamilyError(t *testing.T) {
	source := readySource()
	source.family = nil
	source.familyErr = errors.New("connection reset")
	p := NewPresenter(source, nil, 0)
	ctx := context.Background()

	_, err := p.Matches(ctx, "family-1", false)
	require.NoError(t, err)

	source.family = dementiaFamily()
	source.familyErr = nil
	matches, err := p.Matches(ctx, "family-1", true)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].MatchScore)
	assert.Equal(t, int32(2), source.familyCalls.Load())
}

func TestPresenter_CallerCannotAlterMemoizedList(t *testing.T) {
	p := NewPresenter(readySource(), nil, 0)
	ctx := context.Background()

	best, err := p.Matches(ctx, "family-1", true)
	require.NoError(t, err)
	best[0].MatchScore = 0

	full, err := p.Matches(ctx, "family-1", false)
	require.NoError(t, err)
	full[1].CaregiverID = "tampered"

	again, err := p.Matches(ctx, "family-1", false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[0].MatchScore)
	assert.Equal(t, "cg-partial", again[1].CaregiverID)
}
