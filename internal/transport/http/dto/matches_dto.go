package dto

import "time"

type MatchItemResponse struct {
	MatchID     string    `json:"matchId"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Alias       string    `json:"alias"`
	Photo       string    `json:"photo"`
	MatchedAt   time.Time `json:"matchedAt"`
}

type MatchesResponse struct {
	Success bool                `json:"success"`
	Matches []MatchItemResponse `json:"matches"`
}
