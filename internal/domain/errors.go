package domain

import "errors"

var (
	// ErrSearchBackendFailure is returned when the SerpApi request fails
	ErrSearchBackendFailure = errors.New("search backend request failed")

	// ErrNoResults is returned when a query yields no usable listings
	ErrNoResults = errors.New("no results found for query")

	// ErrStaleResponse is returned when a fetch completes after a newer
	// fetch for the same view has already been issued
	ErrStaleResponse = errors.New("stale search response discarded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrAuthRequired is returned for user-scoped actions without a session
	ErrAuthRequired = errors.New("sign in required")

	// ErrForbidden is returned when the signed-in user lacks the role
	ErrForbidden = errors.New("insufficient role")

	// ErrUserNotFound is returned when no document exists for a user id
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned on signup with an already-registered email
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPersistenceFailure is returned when a document-store write fails;
	// callers treat it as transient and retryable
	ErrPersistenceFailure = errors.New("persistence write failed")

	// ErrOrderNotFound is returned when an order id is not in the history
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyCart is returned when checkout is attempted on an empty cart
	ErrEmptyCart = errors.New("cart is empty")
)
