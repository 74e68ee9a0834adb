package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIError is the body of every failed request. Success is always false so
// clients can branch on a single field before reading Code.
type APIError struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CooldownError struct {
	Success       bool      `json:"success"`
	Code          string    `json:"code"`
	Message       string    `json:"message"`
	CooldownUntil time.Time `json:"cooldownUntil"`
	RetryAfterSec int64     `json:"retryAfterSec"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
