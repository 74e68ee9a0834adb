package handlers

import (
	"errors"
	"net/http"

	"github.com/AmolBhalerao8/dechico/internal/pkg/validate"
	authsvc "github.com/AmolBhalerao8/dechico/internal/services/auth"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
	"github.com/AmolBhalerao8/dechico/internal/transport/http/dto"
	httperrors "github.com/AmolBhalerao8/dechico/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "targetId and a like or pass direction are required")
		return
	}

	result, err := h.service.Swipe(r.Context(), swipesvc.DecisionInput{
		ActorID:     identity.UserID,
		ActorEmail:  identity.Email,
		TargetID:    req.TargetID,
		TargetEmail: req.TargetEmail,
		Direction:   req.Direction,
	})
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrUnsupportedDirection):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported direction")
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		default:
			if cd, ok := swipesvc.IsCooldownActive(err); ok {
				httperrors.Write(w, http.StatusConflict, httperrors.CooldownError{
					Code:          "ALREADY_DECIDED",
					Message:       "you already decided on this user, try again after the cooldown",
					CooldownUntil: cd.CooldownUntil,
					RetryAfterSec: cd.RetryAfter(),
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		Success: true,
		IsMatch: result.IsMatch,
		MatchID: result.MatchID,
	})
}
