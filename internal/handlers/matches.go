package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// MatchLister returns a family's ranked caregiver list.
type MatchLister interface {
	Matches(ctx context.Context, familyUserID string, bestOnly bool) ([]models.PresentedMatch, error)
}

// MatchesHandler serves the family-facing ranked match list. Each request gets
// a fresh lister so in-memory memoization never outlives the request.
type MatchesHandler struct {
	newLister func() MatchLister
}

// NewMatchesHandler creates a matches handler.
func NewMatchesHandler(newLister func() MatchLister) *MatchesHandler {
	return &MatchesHandler{newLister: newLister}
}

// MatchesResponse is the response body for a match list.
type MatchesResponse struct {
	FamilyUserID string                  `json:"family_user_id"`
	BestOnly     bool                    `json:"best_only"`
	Count        int                     `json:"count"`
	Matches      []models.PresentedMatch `json:"matches"`
}

// Handle processes API Gateway match list requests.
func (h *MatchesHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("GET,OPTIONS")

	if request.HTTPMethod == http.MethodOptions {
		return preflight(headers)
	}

	familyUserID := strings.TrimSpace(request.PathParameters["id"])
	if familyUserID == "" {
		return errorResponse(headers, http.StatusBadRequest, "family id is required")
	}

	bestOnly := false
	if raw := request.QueryStringParameters["best_only"]; raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errorResponse(headers, http.StatusBadRequest, "best_only must be true or false")
		}
		bestOnly = v
	}

	matches, err := h.newLister().Matches(ctx, familyUserID, bestOnly)
	if err != nil {
		if errors.Is(err, models.ErrEmptyFamilyUserID) {
			return errorResponse(headers, http.StatusBadRequest, "family id is required")
		}
		utils.GetLogger().Error("Failed to rank matches",
			utils.String("family_user_id", familyUserID),
			utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, err.Error())
	}

	return jsonResponse(headers, http.StatusOK, MatchesResponse{
		FamilyUserID: familyUserID,
		BestOnly:     bestOnly,
		Count:        len(matches),
		Matches:      matches,
	})
}
