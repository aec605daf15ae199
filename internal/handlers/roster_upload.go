package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"tavara-care/internal/utils"
)

// rosterUploadExpiry is how long a roster upload URL stays valid.
const rosterUploadExpiry = time.Hour

// RosterPresigner is the subset of the S3 presign client used for uploads.
type RosterPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// RosterUploadURLHandler hands out presigned URLs for roster CSV uploads.
// Uploaded files land under rosters/ where the import Lambda picks them up.
type RosterUploadURLHandler struct {
	presigner  RosterPresigner
	bucketName string
	now        func() time.Time
}

// NewRosterUploadURLHandler creates a new roster upload URL handler.
func NewRosterUploadURLHandler(presigner RosterPresigner, bucket string) *RosterUploadURLHandler {
	return &RosterUploadURLHandler{
		presigner:  presigner,
		bucketName: bucket,
		now:        time.Now,
	}
}

// RosterUploadURLResponse is the response structure for upload URL requests.
type RosterUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	S3Key     string `json:"s3Key"`
	ExpiresIn int    `json:"expiresIn"`
}

// Handle processes the API Gateway request for generating an upload URL.
func (h *RosterUploadURLHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := corsHeaders("GET,OPTIONS")

	if request.HTTPMethod == http.MethodOptions {
		return preflight(headers)
	}

	filename := request.QueryStringParameters["filename"]
	if filename == "" {
		filename = "roster_" + uuid.New().String()[:8] + ".csv"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return errorResponse(headers, http.StatusBadRequest, "Only CSV files are allowed")
	}

	s3Key := "rosters/" + h.now().UTC().Format("2006/01/02") + "/" + uuid.New().String() + "_" + sanitizeFilename(filename)

	presignedReq, err := h.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucketName),
		Key:         aws.String(s3Key),
		ContentType: aws.String("text/csv"),
	}, s3.WithPresignExpires(rosterUploadExpiry))
	if err != nil {
		logger.Error("Failed to generate presigned URL", utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Failed to generate upload URL")
	}

	logger.Info("Generated roster upload URL",
		utils.String("s3Key", s3Key),
		utils.String("bucket", h.bucketName))

	return jsonResponse(headers, http.StatusOK, RosterUploadURLResponse{
		UploadURL: presignedReq.URL,
		S3Key:     s3Key,
		ExpiresIn: int(rosterUploadExpiry.Seconds()),
	})
}

// sanitizeFilename removes unsafe characters from filename.
func sanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := b.String()
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}
