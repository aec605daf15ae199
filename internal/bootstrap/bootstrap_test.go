package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavara-care/internal/config"
)

func TestAssignmentHooks_NoneConfigured(t *testing.T) {
	hooks := AssignmentHooks(context.Background(), &config.Config{AWSRegion: "us-east-1"})
	assert.Empty(t, hooks)
}

func TestAssignmentHooks_Order(t *testing.T) {
	hooks := AssignmentHooks(context.Background(), &config.Config{
		AWSRegion:      "us-east-1",
		SnapshotBucket: "tavara-snapshots",
		SESSenderEmail: "care@tavara.care",

		AssignmentTopicARN: "arn:aws:sns:us-east-1:123456789012:tavara-assignments",
	})

	require.Len(t, hooks, 3)
	assert.Equal(t, "s3_snapshot", hooks[0].Name())
	assert.Equal(t, "ses_notification", hooks[1].Name())
	assert.Equal(t, "sns_event", hooks[2].Name())
}

func TestMatchCache_Disabled(t *testing.T) {
	cache, client := MatchCache(context.Background(), &config.Config{})
	assert.Nil(t, cache)
	assert.Nil(t, client)
}

func TestMatchCache_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, client := MatchCache(context.Background(), &config.Config{RedisAddr: mr.Addr(), MatchCacheTTL: time.Minute})
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
	assert.NotNil(t, cache)
}

func TestMatchCache_UnreachableFallsBack(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cache, client := MatchCache(context.Background(), &config.Config{RedisAddr: addr})
	assert.Nil(t, cache)
	assert.Nil(t, client)
}
