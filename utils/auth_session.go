package utils

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// authSessionTTL bounds how long a verified token stays cached. Shorter than
// any token lifetime so revocation lags by at most this window.
const authSessionTTL = 30 * time.Minute

// ResolveAuthToken maps a bearer token to the participant ID it belongs to.
// Verified tokens are cached by hash in Redis so repeated requests and
// websocket handshakes skip JWT re-verification.
func ResolveAuthToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New("missing auth token")
	}

	cache := GetAuthCacheClient()
	key := "authsession:" + HashToken(token)

	if id, err := cache.Get(ctx, key).Result(); err == nil && id != "" {
		return id, nil
	} else if err != nil && err != redis.Nil {
		// Cache trouble is not an auth failure; fall through to verification.
		GetLogger().Warn("auth session cache read failed", zap.Error(err))
	}

	participantID, err := ExtractIDFromToken(token)
	if err != nil {
		return "", err
	}

	if err := cache.Set(ctx, key, participantID, authSessionTTL).Err(); err != nil {
		GetLogger().Warn("auth session cache write failed", zap.Error(err))
	}
	return participantID, nil
}
