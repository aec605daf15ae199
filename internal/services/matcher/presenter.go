package matcher

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tavara-care/internal/metrics"
	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// DefaultCandidateLimit bounds how many ready caregivers a family list shows.
const DefaultCandidateLimit = 10

// CandidateSource is the read side the presenter needs.
type CandidateSource interface {
	GetFamilyProfile(ctx context.Context, familyUserID string) (*models.FamilyNeedsProfile, error)
	// ListReadyCaregivers returns up to limit caregivers that passed the
	// readiness gate.
	ListReadyCaregivers(ctx context.Context, limit int) ([]*models.CaregiverProfile, error)
}

// Presenter ranks ready caregivers for a family-facing match list.
type Presenter struct {
	source CandidateSource
	cache  ResultCache
	limit  int
	logger *zap.Logger
}

// NewPresenter creates a presenter. A nil cache gives the presenter its own
// in-memory cache; a non-positive limit uses DefaultCandidateLimit.
func NewPresenter(source CandidateSource, cache ResultCache, limit int) *Presenter {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &Presenter{
		source: source,
		cache:  cache,
		limit:  limit,
		logger: utils.Named("presenter"),
	}
}

// Matches returns the ranked list for a family, or only its first entry when
// bestOnly is set. A family profile that cannot be loaded is treated as empty,
// and the resulting list is not cached. The returned slice is the caller's.
func (p *Presenter) Matches(ctx context.Context, familyUserID string, bestOnly bool) ([]models.PresentedMatch, error) {
	if familyUserID == "" {
		return nil, models.ErrEmptyFamilyUserID
	}

	ranked, ok := p.cache.Get(ctx, familyUserID)
	if !ok {
		var (
			degraded bool
			err      error
		)
		ranked, degraded, err = p.rank(ctx, familyUserID)
		if err != nil {
			return nil, err
		}
		if !degraded {
			p.cache.Set(ctx, familyUserID, ranked)
		}
	}

	if bestOnly && len(ranked) > 1 {
		ranked = ranked[:1]
	}
	return slices.Clone(ranked), nil
}

// rank scores ready caregivers for a family. degraded reports that the family
// profile could not be loaded.
func (p *Presenter) rank(ctx context.Context, familyUserID string) ([]models.PresentedMatch, bool, error) {
	var (
		family     *models.FamilyNeedsProfile
		caregivers []*models.CaregiverProfile
		degraded   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := p.source.GetFamilyProfile(gctx, familyUserID)
		if err != nil {
			degraded = true
			p.logger.Warn("Continuing without family profile",
				zap.String("family_user_id", familyUserID),
				zap.Error(err),
			)
		}
		family = f
		return nil
	})
	g.Go(func() error {
		c, err := p.source.ListReadyCaregivers(gctx, p.limit)
		if err != nil {
			return fmt.Errorf("failed to get ready caregivers: %w", err)
		}
		caregivers = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	snapshot := models.FamilyNeedsProfile{}
	if family != nil {
		snapshot = *family
	}
	// Hash inputs use the requested id even when the profile is missing.
	snapshot.UserID = familyUserID
	family = &snapshot

	if len(caregivers) > p.limit {
		caregivers = caregivers[:p.limit]
	}

	matches := make([]models.PresentedMatch, 0, len(caregivers))
	for _, c := range caregivers {
		m := Score(family, c)
		metrics.MatchScores.WithLabelValues("presenter").Observe(m.MatchScore)
		matches = append(matches, models.PresentedMatch{
			MatchResult:       m,
			FullName:          c.FullName,
			Specialties:       c.Specialties,
			YearsOfExperience: c.YearsOfExperience,
			HourlyRate:        c.HourlyRate,
			AvailableShifts:   c.AvailableShifts,
			Display:           DisplayFactorsFor(family, c),
		})
	}

	SortPresented(matches)

	p.logger.Debug("Ranked ready caregivers",
		zap.String("family_user_id", familyUserID),
		zap.Int("candidates", len(matches)),
		zap.Bool("degraded", degraded),
	)
	return matches, degraded, nil
}

// SortPresented orders by match score, then display score; remaining ties
// keep candidate order.
func SortPresented(matches []models.PresentedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].Display.DisplayScore > matches[j].Display.DisplayScore
	})
}
