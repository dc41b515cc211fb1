package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore invalidates access tokens before they expire: single
// tokens on logout, and every token of a user whose password, role or
// status changed.
type RevocationStore interface {
	// RevokeToken revokes one token by its JTI. ttl should be the token's
	// remaining lifetime.
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error

	// IsTokenRevoked checks if a JTI was revoked
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser revokes every token issued to the user so far
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserRevoked reports whether a token issued at issuedAt predates the
	// user's last revocation. JWT timestamps have second precision, so
	// tokens issued in the same second as the revocation stay valid.
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const defaultRevocationPrefix = "pos:revoked:"

// RedisRevocationStore implements RevocationStore using Redis
type RedisRevocationStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisRevocationStore creates a revocation store on an existing client
func NewRedisRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{
		client:    client,
		keyPrefix: defaultRevocationPrefix,
	}
}

func (s *RedisRevocationStore) jtiKey(jti string) string {
	return s.keyPrefix + "jti:" + jti
}

func (s *RedisRevocationStore) userKey(userID string) string {
	return s.keyPrefix + "user:" + userID
}

// RevokeToken stores the JTI with the token's remaining lifetime
func (s *RedisRevocationStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked checks if a JTI is in the store
func (s *RedisRevocationStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// RevokeUser stores the revocation time as Unix seconds
func (s *RedisRevocationStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked compares the token's issue time with the stored revocation time
func (s *RedisRevocationStore) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	value, err := s.client.Get(ctx, s.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}

	revokedAt, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}

	return issuedAt.Unix() < revokedAt, nil
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// InMemoryRevocationStore keeps revocations in process memory. Revocations
// are lost on restart and not shared between instances.
type InMemoryRevocationStore struct {
	mu      sync.Mutex
	tokens  map[string]time.Time // JTI -> entry expiry
	users   map[string]time.Time // user ID -> revocation time
	nowFunc func() time.Time
}

// NewInMemoryRevocationStore creates a new in-memory revocation store
func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{
		tokens:  make(map[string]time.Time),
		users:   make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

// RevokeToken adds a JTI until ttl elapses
func (s *InMemoryRevocationStore) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[jti] = s.nowFunc().Add(ttl)
	return nil
}

// IsTokenRevoked checks a JTI, dropping the entry once it has expired
func (s *InMemoryRevocationStore) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[jti]
	if !ok {
		return false, nil
	}
	if s.nowFunc().After(expiry) {
		delete(s.tokens, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser records the current time as the user's revocation time
func (s *InMemoryRevocationStore) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = s.nowFunc()
	return nil
}

// IsUserRevoked reports whether issuedAt is in an earlier second than the revocation
func (s *InMemoryRevocationStore) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revokedAt, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.Unix() < revokedAt.Unix(), nil
}

var _ RevocationStore = (*InMemoryRevocationStore)(nil)
