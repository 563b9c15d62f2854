package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/priceai/backend/internal/domain"
)

// CollectionService reconciles persisted per-user collections (cart,
// wishlist) against locally rendered records. Membership is always keyed
// by canonical product identity, never by structural equality: the
// persisted copy may carry different ephemeral fields or field ordering
// than the rendered one.
//
// Toggle is optimistic: the local membership set flips first, then the
// store write runs; a failed write rolls the flip back and surfaces a
// retryable error.
type CollectionService struct {
	store domain.UserStore

	mu sync.Mutex
	// membership[userID][field] is the set of identities known to be
	// persisted. A missing inner map means "not yet loaded", which is
	// distinct from "empty" — unknown membership is never rendered as an
	// empty collection.
	membership map[string]map[string]map[string]bool
}

// NewCollectionService creates a collection service over the given store.
func NewCollectionService(store domain.UserStore) *CollectionService {
	return &CollectionService{
		store:      store,
		membership: make(map[string]map[string]map[string]bool),
	}
}

// List returns the persisted collection and primes the local membership
// set from it.
func (s *CollectionService) List(ctx context.Context, user *domain.User, field string) ([]domain.ProductRecord, error) {
	if user == nil {
		return nil, domain.ErrAuthRequired
	}
	if !domain.ValidCollectionField(field) {
		return nil, fmt.Errorf("%w: unknown collection %q", domain.ErrInvalidRequest, field)
	}

	doc, err := s.store.GetDocument(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	items := doc.Cart
	if field == domain.FieldWishlist {
		items = doc.Wishlist
	}

	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it.Identity()] = true
	}
	s.setMembership(user.ID, field, set)

	return items, nil
}

// IsMember reports whether the record is in the user's collection, and
// whether membership for that collection is known at all. Callers must
// treat known=false as "loading", not as "absent".
func (s *CollectionService) IsMember(userID, field string, record domain.ProductRecord) (member, known bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.membership[userID][field]
	if !ok {
		return false, false
	}
	return set[record.Identity()], true
}

// Toggle adds the record if absent, removes it if present. Returns true
// when the record ended up added. A signed-out caller is rejected before
// any state is touched. The local flip happens before the store write;
// if the write fails the flip is reverted and the error wraps
// ErrPersistenceFailure so callers can retry.
func (s *CollectionService) Toggle(ctx context.Context, user *domain.User, field string, record domain.ProductRecord) (bool, error) {
	if user == nil {
		return false, domain.ErrAuthRequired
	}
	if !domain.ValidCollectionField(field) {
		return false, fmt.Errorf("%w: unknown collection %q", domain.ErrInvalidRequest, field)
	}

	if _, known := s.IsMember(user.ID, field, record); !known {
		if _, err := s.List(ctx, user, field); err != nil {
			return false, err
		}
	}

	identity := record.Identity()
	wasMember, _ := s.IsMember(user.ID, field, record)

	// Optimistic local flip.
	s.setMember(user.ID, field, identity, !wasMember)

	var err error
	if wasMember {
		err = s.store.RemoveByIdentity(ctx, user.ID, field, identity)
	} else {
		err = s.store.AppendIfAbsent(ctx, user.ID, field, record)
	}
	if err != nil {
		// Compensating inverse update: the optimistic flip must not
		// outlive a failed write.
		s.setMember(user.ID, field, identity, wasMember)
		log.Printf("[COLLECTION] %s write failed for user %s: %v", field, user.ID, err)
		return false, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	return !wasMember, nil
}

// Remove deletes the record from the collection by identity, with the
// same optimistic-rollback semantics as Toggle.
func (s *CollectionService) Remove(ctx context.Context, user *domain.User, field string, record domain.ProductRecord) error {
	if user == nil {
		return domain.ErrAuthRequired
	}

	member, known := s.IsMember(user.ID, field, record)
	if known && !member {
		return nil
	}

	identity := record.Identity()
	s.setMember(user.ID, field, identity, false)

	if err := s.store.RemoveByIdentity(ctx, user.ID, field, identity); err != nil {
		if known {
			s.setMember(user.ID, field, identity, true)
		}
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// Prime loads both collections into the local membership sets so the
// first toggle after sign-in sees known state. A load failure is only
// logged: Toggle re-loads on demand.
func (s *CollectionService) Prime(userID string) {
	doc, err := s.store.GetDocument(context.Background(), userID)
	if err != nil {
		log.Printf("[COLLECTION] Prime failed for user %s: %v", userID, err)
		return
	}

	for field, items := range map[string][]domain.ProductRecord{
		domain.FieldCart:     doc.Cart,
		domain.FieldWishlist: doc.Wishlist,
	} {
		set := make(map[string]bool, len(items))
		for _, it := range items {
			set[it.Identity()] = true
		}
		s.setMembership(userID, field, set)
	}
}

// Forget drops the locally cached membership for a user, e.g. on
// sign-out. The next read reloads from the store.
func (s *CollectionService) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.membership, userID)
}

func (s *CollectionService) setMembership(userID, field string, set map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.membership[userID] == nil {
		s.membership[userID] = make(map[string]map[string]bool)
	}
	s.membership[userID][field] = set
}

func (s *CollectionService) setMember(userID, field, identity string, member bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.membership[userID] == nil {
		s.membership[userID] = make(map[string]map[string]bool)
	}
	if s.membership[userID][field] == nil {
		s.membership[userID][field] = make(map[string]bool)
	}
	if member {
		s.membership[userID][field][identity] = true
	} else {
		delete(s.membership[userID][field], identity)
	}
}
