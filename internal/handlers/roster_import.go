package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// maxReportedErrors bounds the error list returned to the caller.
const maxReportedErrors = 10

// RosterObjectStore is the subset of the S3 client the roster import uses.
type RosterObjectStore interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// RosterWriter persists parsed caregiver profiles.
type RosterWriter interface {
	BulkUpsert(ctx context.Context, caregivers []*models.CaregiverCreate) (*models.BulkInsertResult, error)
}

// RosterImportHandler imports caregiver roster CSVs dropped into S3.
type RosterImportHandler struct {
	s3Client RosterObjectStore
	roster   RosterWriter
}

// NewRosterImportHandler creates a roster import handler.
func NewRosterImportHandler(client RosterObjectStore, roster RosterWriter) *RosterImportHandler {
	return &RosterImportHandler{s3Client: client, roster: roster}
}

// RosterImportResult is the result of importing roster files.
type RosterImportResult struct {
	Message  string   `json:"message"`
	BatchID  string   `json:"batch_id,omitempty"`
	Files    int      `json:"files"`
	Inserted int      `json:"inserted"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Handle processes S3 events for uploaded roster files.
func (h *RosterImportHandler) Handle(ctx context.Context, s3Event events.S3Event) (RosterImportResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return RosterImportResult{Message: "No records to process"}, nil
	}

	result := RosterImportResult{Errors: []string{}}
	for _, record := range s3Event.Records {
		bucket := record.S3.Bucket.Name
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return result, fmt.Errorf("failed to decode S3 key: %w", err)
		}

		batchID := generateBatchID(key)
		if result.BatchID == "" {
			result.BatchID = batchID
		}

		logger.Info("Processing roster file",
			utils.String("bucket", bucket),
			utils.String("key", key),
			utils.String("batchID", batchID))

		content, err := h.downloadRoster(ctx, bucket, key)
		if err != nil {
			logger.Error("Failed to download roster", utils.Error(err))
			return result, fmt.Errorf("failed to download roster: %w", err)
		}

		caregivers, parseErrors := utils.NewCSVParser().ParseCaregivers(bytes.NewReader(content))
		for _, e := range parseErrors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, e))
		}
		result.Files++

		if len(caregivers) == 0 {
			result.Failed += len(parseErrors)
			continue
		}

		logger.Info("Parsed roster",
			utils.String("batchID", batchID),
			utils.Int("validCaregivers", len(caregivers)),
			utils.Int("parseErrors", len(parseErrors)))

		inserted, err := h.roster.BulkUpsert(ctx, caregivers)
		if err != nil {
			logger.Error("Failed to upsert caregivers", utils.Error(err))
			return result, fmt.Errorf("failed to upsert caregivers: %w", err)
		}

		result.Inserted += inserted.InsertedCount
		result.Failed += inserted.FailedCount + len(parseErrors)
		result.Errors = append(result.Errors, inserted.Errors...)

		if err := h.archiveRoster(ctx, bucket, key); err != nil {
			logger.Warn("Failed to archive roster", utils.Error(err))
		}
	}

	if len(result.Errors) > maxReportedErrors {
		result.Errors = result.Errors[:maxReportedErrors]
	}

	result.Message = "Roster processed successfully"
	if result.Inserted == 0 {
		result.Message = "No valid caregivers found in roster"
	}

	logger.Info("Roster import finished",
		utils.Int("files", result.Files),
		utils.Int("inserted", result.Inserted),
		utils.Int("failed", result.Failed))

	return result, nil
}

// downloadRoster downloads roster content from S3.
func (h *RosterImportHandler) downloadRoster(ctx context.Context, bucket, key string) ([]byte, error) {
	output, err := h.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()

	content, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("roster file is empty")
	}

	return content, nil
}

// archiveRoster moves the processed file under processed/.
func (h *RosterImportHandler) archiveRoster(ctx context.Context, bucket, key string) error {
	archiveKey := "processed/" + key
	copySource := bucket + "/" + escapeKey(key)

	_, err := h.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(copySource),
		Key:        aws.String(archiveKey),
	})
	if err != nil {
		return fmt.Errorf("failed to copy to archive: %w", err)
	}

	_, err = h.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete original: %w", err)
	}

	return nil
}

// escapeKey URL-encodes each segment of an object key for CopySource.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// generateBatchID generates a unique batch ID for this upload.
func generateBatchID(key string) string {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	hash := sha256.Sum256([]byte(key + timestamp))
	return hex.EncodeToString(hash[:])[:16]
}
