package handlers

import (
	"net/http"

	authsvc "github.com/AmolBhalerao8/dechico/internal/services/auth"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
	"github.com/AmolBhalerao8/dechico/internal/transport/http/dto"
	httperrors "github.com/AmolBhalerao8/dechico/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		return
	}

	resp := dto.MatchesResponse{
		Success: true,
		Matches: make([]dto.MatchItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Matches = append(resp.Matches, dto.MatchItemResponse{
			MatchID:     item.MatchID,
			UserID:      item.UserID,
			Email:       item.Email,
			DisplayName: item.DisplayName,
			Alias:       item.Alias,
			Photo:       item.Photo,
			MatchedAt:   item.MatchedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}
