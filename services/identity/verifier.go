package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"medibook/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrUnauthenticated is matched (errors.Is) by every verification failure.
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenError carries the identity service's reason for rejecting a token.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string { return e.Err.Error() }

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrUnauthenticated }

// Identity is the verified caller.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// TokenVerifier turns a bearer credential into a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// FirebaseTokenVerifier verifies Firebase ID tokens, optionally caching
// successful results in Redis until the token (or the cache TTL) expires.
type FirebaseTokenVerifier struct {
	client       IDTokenVerifier
	cache        *redis.Client
	cacheTTL     time.Duration
	checkRevoked bool
	logger       *zap.Logger
	now          func() time.Time
}

type Option func(*FirebaseTokenVerifier)

// WithCache enables the verification cache. A nil client leaves it off.
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(v *FirebaseTokenVerifier) {
		v.cache = client
		v.cacheTTL = ttl
	}
}

// WithRevocationCheck asks Firebase whether the session was revoked on
// every request. The cache is bypassed in this mode.
func WithRevocationCheck(enabled bool) Option {
	return func(v *FirebaseTokenVerifier) { v.checkRevoked = enabled }
}

func NewFirebaseTokenVerifier(client IDTokenVerifier, logger *zap.Logger, opts ...Option) *FirebaseTokenVerifier {
	v := &FirebaseTokenVerifier{client: client, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *FirebaseTokenVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, &TokenError{Err: errors.New("empty ID token")}
	}

	useCache := v.cache != nil && v.cacheTTL > 0 && !v.checkRevoked
	key := utils.AuthCachePrefix + hashToken(idToken)
	if useCache {
		if id, ok := v.cached(ctx, key); ok {
			return id, nil
		}
	}

	var (
		tok *auth.Token
		err error
	)
	if v.checkRevoked {
		tok, err = v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		tok, err = v.client.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		return nil, &TokenError{Err: err}
	}
	if tok == nil || tok.UID == "" {
		return nil, &TokenError{Err: errors.New("ID token has no subject")}
	}

	id := &Identity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}

	if useCache {
		v.store(ctx, key, id, time.Unix(tok.Expires, 0))
	}
	return id, nil
}

func (v *FirebaseTokenVerifier) cached(ctx context.Context, key string) (*Identity, bool) {
	raw, err := v.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			v.logger.Warn("auth cache read failed, verifying live", zap.Error(err))
		}
		return nil, false
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil || id.UID == "" {
		return nil, false
	}
	return &id, true
}

func (v *FirebaseTokenVerifier) store(ctx context.Context, key string, id *Identity, expires time.Time) {
	ttl := v.cacheTTL
	if remaining := expires.Sub(v.now()); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(id)
	if err != nil {
		return
	}
	if err := v.cache.Set(ctx, key, data, ttl).Err(); err != nil {
		v.logger.Warn("auth cache write failed", zap.Error(err))
	}
}

// hashToken keeps raw credentials out of Redis keys.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
