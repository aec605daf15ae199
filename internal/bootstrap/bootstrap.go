// Package bootstrap wires configuration into the services shared by the
// server, the Lambda functions and tavaractl.
package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	"tavara-care/internal/config"
	"tavara-care/internal/services/database"
	"tavara-care/internal/services/matcher"
	s3service "tavara-care/internal/services/s3"
	"tavara-care/internal/services/ses"
	"tavara-care/internal/services/sns"
	"tavara-care/internal/utils"
)

// AssignmentHooks builds the configured post-assignment hooks. Hooks whose
// AWS setup fails are skipped with a warning.
func AssignmentHooks(ctx context.Context, cfg *config.Config) []matcher.AssignmentHook {
	logger := utils.GetLogger()
	hooks := []matcher.AssignmentHook{}

	if cfg.SnapshotBucket != "" {
		archiver, err := s3service.NewSnapshotArchiver(ctx, cfg.AWSRegion, cfg.SnapshotBucket)
		if err != nil {
			logger.Warn("Snapshot archive disabled", utils.Error(err))
		} else {
			hooks = append(hooks, archiver)
		}
	}

	if cfg.SESSenderEmail != "" {
		notifier, err := ses.NewNotifier(ctx, cfg.AWSRegion, cfg.SESSenderEmail, cfg.DashboardURL)
		if err != nil {
			logger.Warn("Assignment notifications disabled", utils.Error(err))
		} else {
			hooks = append(hooks, notifier)
		}
	}

	if cfg.AssignmentTopicARN != "" {
		publisher, err := sns.NewEventPublisher(ctx, cfg.AWSRegion, cfg.AssignmentTopicARN)
		if err != nil {
			logger.Warn("Assignment events disabled", utils.Error(err))
		} else {
			hooks = append(hooks, publisher)
		}
	}

	return hooks
}

// NewOrchestrator builds an orchestrator over the store with the configured
// threshold and hooks.
func NewOrchestrator(ctx context.Context, cfg *config.Config, store matcher.Store) *matcher.Orchestrator {
	return matcher.NewOrchestrator(store,
		matcher.WithThreshold(cfg.MatchThreshold),
		matcher.WithHooks(AssignmentHooks(ctx, cfg)...),
	)
}

// MatchCache returns the shared Redis cache when Redis is configured and
// reachable, or nil so each presenter keeps its own in-memory cache. The
// returned client, if any, must be closed by the caller.
func MatchCache(ctx context.Context, cfg *config.Config) (matcher.ResultCache, *redis.Client) {
	if !cfg.RedisEnabled() {
		return nil, nil
	}

	client, err := database.NewRedis(ctx, cfg)
	if err != nil {
		utils.GetLogger().Warn("Shared match cache disabled", utils.Error(err))
		return nil, nil
	}

	return matcher.NewRedisCache(client, cfg.MatchCacheTTL), client
}
