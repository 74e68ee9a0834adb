package model

import (
	"errors"
	"strings"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

const (
	DefaultAlias       = "Wildcat"
	UnknownDisplayName = "Unknown"
)

type Profile struct {
	UserID           string     `json:"user_id" yaml:"user_id"`
	Email            string     `json:"email" yaml:"email"`
	Name             string     `json:"name" yaml:"name"`
	FirstName        string     `json:"first_name" yaml:"first_name"`
	LastName         string     `json:"last_name" yaml:"last_name"`
	Alias            string     `json:"alias" yaml:"alias"`
	Age              int        `json:"age" yaml:"age"`
	Bio              string     `json:"bio" yaml:"bio"`
	Interests        []string   `json:"interests" yaml:"interests"`
	Gender           string     `json:"gender" yaml:"gender"`
	GenderPreference string     `json:"gender_preference" yaml:"gender_preference"`
	Ethnicity        string     `json:"ethnicity" yaml:"ethnicity"`
	Photos           []string   `json:"photos" yaml:"photos"`
	ProfileComplete  bool       `json:"profile_complete" yaml:"profile_complete"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" yaml:"deleted_at"`
}

// DisplayName falls back to first and last name when Name is empty.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

func (p Profile) AliasOrDefault() string {
	if alias := strings.TrimSpace(p.Alias); alias != "" {
		return alias
	}
	return DefaultAlias
}

func (p Profile) FirstPhoto() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}

func (p Profile) Swipeable() bool {
	return p.ProfileComplete && len(p.Photos) > 0 && p.DeletedAt == nil
}
