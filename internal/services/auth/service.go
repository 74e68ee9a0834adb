package auth

import (
	"context"
	"strings"
)

type Service struct {
	jwt           *JWTManager
	allowedDomain string
}

func NewService(jwtManager *JWTManager, allowedDomain string) *Service {
	return &Service{
		jwt:           jwtManager,
		allowedDomain: normalizeDomain(allowedDomain),
	}
}

// ValidateAccessToken accepts only tokens issued to a campus address when
// an allowed domain is configured.
func (s *Service) ValidateAccessToken(_ context.Context, accessToken string) (AccessClaims, error) {
	if s.jwt == nil {
		return AccessClaims{}, ErrUnauthorized
	}

	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, err
	}
	if !s.EmailAllowed(claims.Email) {
		return AccessClaims{}, ErrEmailDomainNotAllowed
	}

	return claims, nil
}

func (s *Service) EmailAllowed(email string) bool {
	if s.allowedDomain == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return normalizeDomain(email[at+1:]) == s.allowedDomain
}

func normalizeDomain(raw string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "@")
}
