package service_identity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInternal        = errors.New("internal error")
	ErrUnauthenticated = errors.New("unauthenticated")
)

//go:generate mockery --name=SessionCache --output=./mocks/cache --filename=cache.go
type SessionCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
}

// Service issues anonymous sessions: an opaque token maps to a stable
// user id for the session's lifetime. It stands in for an external
// identity provider; nothing here verifies credentials.
type Service struct {
	sessionCache SessionCache
	ttl          time.Duration
}

func New(sessionCache SessionCache, ttl *time.Duration) *Service {
	if ttl == nil {
		ttl = func() *time.Duration {
			defaultSessionTTL := time.Hour * 24
			return &defaultSessionTTL
		}()
	}

	return &Service{
		sessionCache: sessionCache,
		ttl:          *ttl,
	}
}

// Begin opens a session and returns its token together with the user id
// the token resolves to.
func (s *Service) Begin() (token string, userID string, err error) {
	token = uuid.New().String()
	userID = uuid.New().String()

	if err := s.sessionCache.Set(token, userID, s.ttl); err != nil {
		return "", "", errors.Join(ErrInternal, err)
	}

	return token, userID, nil
}

// Resolve maps a token to its user id. Unknown or expired tokens resolve
// to ErrUnauthenticated.
func (s *Service) Resolve(token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	userID, err := s.sessionCache.Get(token)
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	if userID == "" {
		return "", ErrUnauthenticated
	}

	return userID, nil
}
