// Package s3service archives assignment snapshots to S3.
package s3service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// snapshotPrefix is the key prefix for archived assignment passes.
const snapshotPrefix = "assignments"

// ObjectPutter is the subset of the S3 client the archiver uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SnapshotArchiver writes the ranked match list of every assignment to S3 so
// assignment decisions can be audited later.
type SnapshotArchiver struct {
	client     ObjectPutter
	bucketName string
}

// NewSnapshotArchiver creates an archiver using the default AWS credential chain.
func NewSnapshotArchiver(ctx context.Context, region, bucket string) (*SnapshotArchiver, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSnapshotArchiverWithClient(s3.NewFromConfig(cfg), bucket), nil
}

// NewSnapshotArchiverWithClient creates an archiver over an existing client.
func NewSnapshotArchiverWithClient(client ObjectPutter, bucket string) *SnapshotArchiver {
	return &SnapshotArchiver{client: client, bucketName: bucket}
}

// Name identifies the hook in logs and metrics.
func (a *SnapshotArchiver) Name() string {
	return "s3_snapshot"
}

// AfterAssignment uploads the event's snapshot as JSON.
func (a *SnapshotArchiver) AfterAssignment(ctx context.Context, event *models.AssignmentEvent) error {
	if event == nil || event.Family == nil {
		return fmt.Errorf("snapshot requires an assignment event with a family")
	}

	data, err := json.Marshal(event.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return a.UploadFile(ctx, SnapshotKey(event.Family.UserID, event.AssignmentID), data, "application/json")
}

// SnapshotKey returns the object key for one assignment.
func SnapshotKey(familyUserID, assignmentID string) string {
	return path.Join(snapshotPrefix, familyUserID, assignmentID+".json")
}

// UploadFile uploads a file to S3
func (a *SnapshotArchiver) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	_, err := a.client.PutObject(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to upload snapshot to S3",
			zap.String("bucket", a.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload file: %w", err)
	}

	utils.GetLogger().Info("Uploaded snapshot to S3",
		zap.String("bucket", a.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return nil
}
