package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/priceai/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Service owns signup/login/logout, the session registry, and the
// auth-state notifier. Subscribers receive the signed-in user on login
// and nil on logout, mirroring the auth-state stream the user-scoped
// reads are gated on.
type Service struct {
	store domain.UserStore

	mu          sync.RWMutex
	sessions    map[string]domain.User
	subscribers map[int]func(*domain.User)
	nextSubID   int
}

// NewService creates an auth service over the given user store.
func NewService(store domain.UserStore) *Service {
	return &Service{
		store:       store,
		sessions:    make(map[string]domain.User),
		subscribers: make(map[int]func(*domain.User)),
	}
}

// SignUp registers a new user with the default role and an empty
// document. The email is stored lowercased so logins are
// case-insensitive.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") || len(password) < 6 {
		return nil, fmt.Errorf("%w: name, valid email and 6+ char password required", domain.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:    randomID(16),
		Name:  name,
		Email: email,
		Role:  domain.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user, string(hash)); err != nil {
		return nil, err
	}

	log.Printf("[AUTH] New user registered: %s", email)
	return &user, nil
}

// Login verifies credentials and opens a session. The returned token is
// the bearer credential for user-scoped endpoints. Subscribers are
// notified with the signed-in user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, hash, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token := randomID(32)
	s.mu.Lock()
	s.sessions[token] = *user
	s.mu.Unlock()

	s.notify(user)
	return token, user, nil
}

// Logout closes the session. Subscribers are notified with nil.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	_, existed := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if existed {
		s.notify(nil)
	}
}

// UserForToken resolves a session token to its user, or nil for an
// unknown/expired token.
func (s *Service) UserForToken(token string) *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.sessions[token]
	if !ok {
		return nil
	}
	u := user
	return &u
}

// Subscribe registers an auth-state listener and returns its
// deregistration func. Registration is explicit and scoped: callers must
// call the returned func when their lifecycle ends.
func (s *Service) Subscribe(fn func(*domain.User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(user *domain.User) {
	s.mu.RLock()
	fns := make([]func(*domain.User), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(user)
	}
}

// randomID returns n random bytes hex-encoded.
func randomID(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has bigger problems.
		panic(fmt.Sprintf("auth: rand.Read: %v", err))
	}
	return hex.EncodeToString(b)
}
