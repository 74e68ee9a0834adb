package media

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Signer interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// PhotoResolver turns stored photo references into URLs a client can load.
// Absolute http(s) URLs pass through; anything else is treated as an object key.
type PhotoResolver struct {
	signer Signer
	ttl    time.Duration
	logger *zap.Logger
}

func NewPhotoResolver(signer Signer, ttl time.Duration, logger *zap.Logger) *PhotoResolver {
	if ttl <= 0 {
		ttl = signedURLTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoResolver{
		signer: signer,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *PhotoResolver) Resolve(ctx context.Context, ref string) (string, bool) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", false
	}
	if isAbsoluteURL(trimmed) {
		return trimmed, true
	}
	if r == nil || r.signer == nil {
		return "", false
	}

	signed, err := r.signer.PresignGet(ctx, strings.TrimPrefix(trimmed, "/"), r.ttl)
	if err != nil {
		r.logger.Debug("photo presign failed", zap.String("key", trimmed), zap.Error(err))
		return "", false
	}
	return signed, true
}

func isAbsoluteURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}
