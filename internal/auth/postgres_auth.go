package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenPrefix marks dashboard tokens issued by the identity provider.
const TokenPrefix = "evk_"

// prefixLen is the number of leading token chars stored for lookup
// (e.g. "evk_abcd").
const prefixLen = 8

// TokenStore abstracts DB queries for testability.
type TokenStore interface {
	LookupByPrefix(ctx context.Context, prefix string) (*tokenRow, error)
}

type tokenRow struct {
	UserID    string
	TokenHash string
}

// sqlTokenStore is the real implementation using *sql.DB.
type sqlTokenStore struct {
	db *sql.DB
}

func (s *sqlTokenStore) LookupByPrefix(ctx context.Context, prefix string) (*tokenRow, error) {
	row := &tokenRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, token_hash
		 FROM dashboard_tokens
		 WHERE token_prefix = $1`,
		prefix,
	).Scan(&row.UserID, &row.TokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidToken // No token with this prefix — reject
		}
		return nil, fmt.Errorf("sqlTokenStore.LookupByPrefix: %w", err)
	}
	return row, nil
}

// PostgresVerifier validates dashboard tokens against the identity
// provider's dashboard_tokens table. Uses SessionCache with
// stale-while-revalidate to keep DB + bcrypt off the hot path. This core
// never creates or refreshes sessions — provisioning tokens is the
// identity provider's job.
type PostgresVerifier struct {
	store  TokenStore
	cache  *SessionCache
	logger *zap.Logger
}

// PostgresVerifierConfig configures the PostgresVerifier.
type PostgresVerifierConfig struct {
	DB       *sql.DB
	CacheTTL time.Duration // Default: 30s
	Logger   *zap.Logger
}

// NewPostgresVerifier creates a verifier backed by PostgreSQL.
func NewPostgresVerifier(cfg PostgresVerifierConfig) *PostgresVerifier {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &PostgresVerifier{
		store:  &sqlTokenStore{db: cfg.DB},
		cache:  NewSessionCache(ttl),
		logger: cfg.Logger,
	}
}

// newPostgresVerifierWithStore creates a verifier with an injected store (for testing).
func newPostgresVerifierWithStore(store TokenStore, cache *SessionCache, logger *zap.Logger) *PostgresVerifier {
	return &PostgresVerifier{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Verify validates a bearer token.
//
// Flow:
//  1. Format check: must carry the evk_ prefix.
//  2. Cache lookup (stale-while-revalidate):
//     - Fresh hit: return immediately
//     - Stale hit: return stale session, spawn background refresh
//     - Miss: do full DB + bcrypt lookup synchronously
func (v *PostgresVerifier) Verify(ctx context.Context, token string) (*Session, error) {
	if !strings.HasPrefix(token, TokenPrefix) || len(token) < prefixLen {
		return nil, ErrInvalidToken
	}

	result := v.cache.Get(token)
	if result.Hit {
		if result.NeedsRefresh {
			go v.backgroundRefresh(token)
		}
		return result.Session, nil
	}

	session, err := v.lookupAndVerify(ctx, token)
	if err != nil {
		return nil, v.classifyLookupError(err)
	}

	v.cache.Set(token, session)
	return session, nil
}

// backgroundRefresh performs the DB + bcrypt lookup in a background
// goroutine. Errors are logged but don't affect the caller — they already
// got the stale value.
func (v *PostgresVerifier) backgroundRefresh(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := v.lookupAndVerify(ctx, token)
	if err != nil {
		v.logger.Warn("background session refresh failed", zap.Error(err))
		// Drop the stale entry so the next stale read retries.
		v.cache.Delete(token)
		return
	}

	v.cache.Set(token, session)
}

// lookupAndVerify does the full DB prefix lookup + bcrypt verification.
func (v *PostgresVerifier) lookupAndVerify(ctx context.Context, token string) (*Session, error) {
	prefix := token[:prefixLen]

	row, err := v.store.LookupByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("lookupAndVerify: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.TokenHash), []byte(token)); err != nil {
		return nil, ErrInvalidToken
	}

	return &Session{UserID: row.UserID}, nil
}

// classifyLookupError separates bad tokens from backend outages — a DB
// timeout must not look like a rejected credential.
func (v *PostgresVerifier) classifyLookupError(lookupErr error) error {
	if errors.Is(lookupErr, ErrInvalidToken) {
		return ErrInvalidToken
	}

	v.logger.Warn("auth DB unreachable", zap.Error(lookupErr))
	return fmt.Errorf("%w: %v", ErrAuthUnavailable, lookupErr)
}
