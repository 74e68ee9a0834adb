package handlers

import (
	"net/http"

	authsvc "github.com/AmolBhalerao8/dechico/internal/services/auth"
	feedsvc "github.com/AmolBhalerao8/dechico/internal/services/feed"
	"github.com/AmolBhalerao8/dechico/internal/transport/http/dto"
	httperrors "github.com/AmolBhalerao8/dechico/internal/transport/http/errors"
)

type CandidatesHandler struct {
	service *feedsvc.Service
}

func NewCandidatesHandler(service *feedsvc.Service) *CandidatesHandler {
	return &CandidatesHandler{service: service}
}

func (h *CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CANDIDATES_SERVICE_UNAVAILABLE", "candidate service is unavailable")
		return
	}

	count := parseIntOrDefault(r.URL.Query().Get("count"), 0)
	candidates, err := h.service.SelectCandidates(r.Context(), identity.UserID, count)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		return
	}

	items := make([]dto.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, dto.CandidateResponse{
			UserID:      c.UserID,
			Email:       c.Email,
			DisplayName: c.DisplayName,
			Alias:       c.Alias,
			Age:         c.Age,
			Bio:         c.Bio,
			Interests:   nonNilStrings(c.Interests),
			Gender:      c.Gender,
			Ethnicity:   c.Ethnicity,
			Photos:      nonNilStrings(c.Photos),
		})
	}

	httperrors.Write(w, http.StatusOK, dto.CandidatesResponse{
		Success:    true,
		Candidates: items,
	})
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
