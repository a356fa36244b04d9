package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/metrics"
	pkgsecrets "github.com/Checker-Finance/fix-adapter/pkg/secrets"
)

// SessionCredentials are the FIX session identifiers and password used to
// log on to the gateway.
type SessionCredentials struct {
	SenderCompID string `json:"sender_comp_id"`
	TargetCompID string `json:"target_comp_id"`
	Password     string `json:"password"`
}

// Resolver resolves FIX session credentials from AWS Secrets Manager,
// caching results locally to reduce API calls. When no secret name is
// configured (dev environments), the fallback credentials from the
// environment are used directly.
type Resolver struct {
	logger     *zap.Logger
	provider   pkgsecrets.Provider
	cache      *pkgsecrets.Cache[SessionCredentials]
	secretName string
	fallback   SessionCredentials
}

// NewResolver constructs a credentials resolver. provider may be nil when
// secretName is empty.
func NewResolver(
	logger *zap.Logger,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[SessionCredentials],
	secretName string,
	fallback SessionCredentials,
) *Resolver {
	return &Resolver{
		logger:     logger,
		provider:   provider,
		cache:      cache,
		secretName: secretName,
		fallback:   fallback,
	}
}

// Resolve returns the session credentials, fetching and caching them from
// the secrets provider when one is configured.
func (r *Resolver) Resolve(ctx context.Context) (SessionCredentials, error) {
	if r.secretName == "" || r.provider == nil {
		return r.fallback, nil
	}

	if creds, ok := r.cache.Get(r.secretName); ok {
		metrics.IncCacheHit("hit")
		return creds, nil
	}
	metrics.IncCacheHit("miss")

	secretMap, err := r.provider.GetSecret(ctx, r.secretName)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", r.secretName),
			zap.Error(err))
		return SessionCredentials{}, fmt.Errorf("resolve FIX session credentials: %w", err)
	}

	creds := SessionCredentials{
		SenderCompID: valueOr(secretMap, "sender_comp_id", r.fallback.SenderCompID),
		TargetCompID: valueOr(secretMap, "target_comp_id", r.fallback.TargetCompID),
		Password:     valueOr(secretMap, "password", r.fallback.Password),
	}
	if creds.SenderCompID == "" || creds.TargetCompID == "" {
		return SessionCredentials{}, fmt.Errorf("secret %q is missing sender_comp_id/target_comp_id", r.secretName)
	}

	r.cache.Put(r.secretName, creds)
	r.logger.Info("aws.session_credentials_resolved", zap.String("key", r.secretName))
	return creds, nil
}

func valueOr(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}
