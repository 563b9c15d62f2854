package domain

import (
	"context"
	"time"
)

// SearchProvider defines the interface to the external shopping-search
// backend. Implementations return raw, unnormalized listings.
type SearchProvider interface {
	SearchProducts(ctx context.Context, query string) ([]ProductRecord, error)
}

// CacheRepository defines the interface for caching search responses.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]EnrichedProductRecord, error)
	Set(ctx context.Context, key string, value []EnrichedProductRecord, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UserStore defines the per-user document store. Array mutations are
// identity-keyed: the store computes the canonical product identity of
// each element and matches on that, never on structural equality.
type UserStore interface {
	CreateUser(ctx context.Context, user User, passwordHash string) error
	GetUserByEmail(ctx context.Context, email string) (*User, string, error)
	GetDocument(ctx context.Context, userID string) (*UserDocument, error)
	ListUsers(ctx context.Context) ([]User, error)

	// ReplaceArray replaces a collection field wholesale.
	ReplaceArray(ctx context.Context, userID, field string, items []ProductRecord) error
	// AppendIfAbsent appends item unless an entry with the same identity
	// already exists. Idempotent.
	AppendIfAbsent(ctx context.Context, userID, field string, item ProductRecord) error
	// RemoveByIdentity removes every entry whose identity matches.
	RemoveByIdentity(ctx context.Context, userID, field, identity string) error

	// CompleteCheckout appends the order to the history and clears the
	// cart in one atomic write: a failure leaves both untouched.
	CompleteCheckout(ctx context.Context, userID string, order Order) error
}

// AuthNotifier is the authentication-state event stream: subscribers
// receive the current user (or nil on sign-out) on every change.
type AuthNotifier interface {
	Subscribe(fn func(*User)) (unsubscribe func())
}
