package s3service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavara-care/internal/models"
)

type fakePutter struct {
	bucket      string
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	f.contentType = aws.ToString(params.ContentType)
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func sampleEvent() *models.AssignmentEvent {
	ranked := []models.MatchResult{
		{CaregiverID: "cg-1", MatchScore: 0.91, Explanation: "Care type match: 100%"},
		{CaregiverID: "cg-2", MatchScore: 0.42},
	}
	return &models.AssignmentEvent{
		AssignmentID: "asg-123",
		Family:       &models.FamilyNeedsProfile{UserID: "family-9"},
		Caregiver:    &models.CaregiverProfile{UserID: "cg-1"},
		Top:          ranked[0],
		Ranked:       ranked,
		Evaluated:    5,
		TriggerType:  models.TriggerScheduled,
		CreatedAt:    time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "assignments/family-9/asg-123.json", SnapshotKey("family-9", "asg-123"))
}

func TestSnapshotArchiver_AfterAssignment(t *testing.T) {
	putter := &fakePutter{}
	archiver := NewSnapshotArchiverWithClient(putter, "tavara-snapshots")

	require.NoError(t, archiver.AfterAssignment(context.Background(), sampleEvent()))

	assert.Equal(t, "tavara-snapshots", putter.bucket)
	assert.Equal(t, "assignments/family-9/asg-123.json", putter.key)
	assert.Equal(t, "application/json", putter.contentType)

	var snap models.MatchSnapshot
	require.NoError(t, json.Unmarshal(putter.body, &snap))
	assert.Equal(t, sampleEvent().Snapshot(), snap)
}

func TestSnapshotArchiver_Errors(t *testing.T) {
	archiver := NewSnapshotArchiverWithClient(&fakePutter{err: errors.New("slow down")}, "tavara-snapshots")

	err := archiver.AfterAssignment(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "failed to upload file")

	err = archiver.AfterAssignment(context.Background(), &models.AssignmentEvent{AssignmentID: "asg-1"})
	assert.Error(t, err)

	assert.Equal(t, "s3_snapshot", archiver.Name())
}
