package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/xeipuuv/gojsonschema"

	"tavara-care/internal/models"
	"tavara-care/internal/services/matcher"
	"tavara-care/internal/utils"
)

// autoAssignSchema describes the auto-assign request body.
var autoAssignSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"family_user_id"},
	"properties": map[string]interface{}{
		"family_user_id": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"trigger_type": map[string]interface{}{
			"type":      "string",
			"maxLength": 64,
		},
		"idempotency_key": map[string]interface{}{
			"type":      "string",
			"maxLength": 255,
		},
	},
}

var autoAssignSchemaLoader = gojsonschema.NewGoLoader(autoAssignSchema)

// Assigner runs one assignment pass for a family.
type Assigner interface {
	AutoAssign(ctx context.Context, req matcher.AutoAssignRequest) (*matcher.AutoAssignResult, error)
}

// AutoAssignHandler exposes the assignment orchestrator over HTTP.
type AutoAssignHandler struct {
	assigner Assigner
}

// NewAutoAssignHandler creates a new auto-assign handler.
func NewAutoAssignHandler(assigner Assigner) *AutoAssignHandler {
	return &AutoAssignHandler{assigner: assigner}
}

// AutoAssignRequest is the request body for an assignment pass.
type AutoAssignRequest struct {
	FamilyUserID   string `json:"family_user_id"`
	TriggerType    string `json:"trigger_type,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// AutoAssignResponse is returned when an assignment was created.
type AutoAssignResponse struct {
	Success                 bool    `json:"success"`
	AssignmentID            string  `json:"assignment_id"`
	FamilyUserID            string  `json:"family_user_id"`
	CaregiverID             string  `json:"caregiver_id"`
	MatchScore              float64 `json:"match_score"`
	ShiftCompatibilityScore float64 `json:"shift_compatibility_score"`
	Explanation             string  `json:"explanation"`
	TotalMatchesEvaluated   int     `json:"total_matches_evaluated"`
	TriggerType             string  `json:"trigger_type"`
	Replayed                bool    `json:"replayed,omitempty"`
}

// AutoAssignMessage is returned when the pass ended without an assignment.
type AutoAssignMessage struct {
	Success               bool   `json:"success"`
	Message               string `json:"message"`
	FamilyUserID          string `json:"family_user_id"`
	TotalMatchesEvaluated int    `json:"total_matches_evaluated"`
	TriggerType           string `json:"trigger_type"`
}

// Handle processes API Gateway auto-assign requests.
func (h *AutoAssignHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := corsHeaders("POST,OPTIONS")

	if request.HTTPMethod == http.MethodOptions {
		return preflight(headers)
	}
	if request.HTTPMethod != "" && request.HTTPMethod != http.MethodPost {
		return errorResponse(headers, http.StatusMethodNotAllowed, "Method not allowed")
	}

	req, msg := parseAutoAssignRequest(request.Body)
	if msg != "" {
		return errorResponse(headers, http.StatusBadRequest, msg)
	}

	result, err := h.assigner.AutoAssign(ctx, matcher.AutoAssignRequest{
		FamilyUserID:   req.FamilyUserID,
		TriggerType:    models.TriggerType(strings.TrimSpace(req.TriggerType)),
		IdempotencyKey: req.IdempotencyKey,
	})
	switch {
	case errors.Is(err, models.ErrEmptyFamilyUserID):
		return errorResponse(headers, http.StatusBadRequest, "family_user_id is required")
	case errors.Is(err, models.ErrFamilyNotFound):
		return errorResponse(headers, http.StatusNotFound, "Family user not found")
	case err != nil:
		logger.Error("Auto-assign failed",
			utils.String("family_user_id", req.FamilyUserID),
			utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, err.Error())
	}

	switch result.Outcome {
	case models.OutcomeNoCaregivers:
		return jsonResponse(headers, http.StatusOK, messageBody(result, "No caregivers available"))
	case models.OutcomeNoSuitableMatches:
		return jsonResponse(headers, http.StatusOK, messageBody(result, "No suitable matches found"))
	}

	return jsonResponse(headers, http.StatusOK, AutoAssignResponse{
		Success:                 true,
		AssignmentID:            result.AssignmentID,
		FamilyUserID:            result.FamilyUserID,
		CaregiverID:             result.Top.CaregiverID,
		MatchScore:              result.Top.MatchScore,
		ShiftCompatibilityScore: result.Top.ShiftCompatibilityScore,
		Explanation:             result.Top.Explanation,
		TotalMatchesEvaluated:   result.TotalEvaluated,
		TriggerType:             string(result.TriggerType),
		Replayed:                result.Replayed,
	})
}

// parseAutoAssignRequest validates the body against the request schema and
// decodes it. A non-empty message means the request is rejected.
func parseAutoAssignRequest(body string) (*AutoAssignRequest, string) {
	if strings.TrimSpace(body) == "" {
		return nil, "family_user_id is required"
	}

	result, err := gojsonschema.Validate(autoAssignSchemaLoader, gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, "Invalid JSON in request body"
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, "Invalid request: " + strings.Join(problems, "; ")
	}

	var req AutoAssignRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return nil, "Invalid JSON in request body"
	}
	return &req, ""
}

func messageBody(result *matcher.AutoAssignResult, message string) AutoAssignMessage {
	return AutoAssignMessage{
		Success:               true,
		Message:               message,
		FamilyUserID:          result.FamilyUserID,
		TotalMatchesEvaluated: result.TotalEvaluated,
		TriggerType:           string(result.TriggerType),
	}
}
