package dto

type SwipeRequest struct {
	TargetID    string `json:"targetId" validate:"notblank"`
	TargetEmail string `json:"targetEmail,omitempty" validate:"omitempty,email"`
	Direction   string `json:"direction" validate:"notblank,direction"`
}

type SwipeResponse struct {
	Success bool   `json:"success"`
	IsMatch bool   `json:"isMatch"`
	MatchID string `json:"matchId,omitempty"`
}
