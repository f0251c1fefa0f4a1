package service_identity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cache_mocks "github.com/cinematch/core/internal/service/identity/mocks/cache"
)

type ServiceIdentityUnitSuite struct {
	suite.Suite
}

func (suite *ServiceIdentityUnitSuite) TestBegin(t provider.T) {
	t.Parallel()

	t.Run("Should issue a token resolving to a fresh user id", func(t provider.T) {
		cache := cache_mocks.NewSessionCache(t)
		ttl := time.Minute
		svc := New(cache, &ttl)

		cache.On("Set", mock.AnythingOfType("string"), mock.AnythingOfType("string"), ttl).
			Return(nil).Once()

		token, userID, err := svc.Begin()

		assert.NoError(t, err)
		assert.NotEqual(t, token, userID)
		_, err = uuid.Parse(token)
		assert.NoError(t, err)
		_, err = uuid.Parse(userID)
		assert.NoError(t, err)
	})

	t.Run("Should fail when the session store is down", func(t provider.T) {
		cache := cache_mocks.NewSessionCache(t)
		svc := New(cache, nil)

		cache.On("Set", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("connection refused")).Once()

		_, _, err := svc.Begin()

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func (suite *ServiceIdentityUnitSuite) TestResolve(t provider.T) {
	t.Parallel()

	t.Run("Should resolve a known token", func(t provider.T) {
		cache := cache_mocks.NewSessionCache(t)
		svc := New(cache, nil)

		cache.On("Get", "token-1").Return("user-1", nil).Once()

		userID, err := svc.Resolve("token-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("Should reject an empty token without touching the cache", func(t provider.T) {
		cache := cache_mocks.NewSessionCache(t)
		svc := New(cache, nil)

		_, err := svc.Resolve("")

		assert.ErrorIs(t, err, ErrUnauthenticated)
		cache.AssertNotCalled(t, "Get")
	})

	t.Run("Should reject an expired token", func(t provider.T) {
		cache := cache_mocks.NewSessionCache(t)
		svc := New(cache, nil)

		cache.On("Get", "token-stale").Return("", nil).Once()

		_, err := svc.Resolve("token-stale")

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestServiceIdentityUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(ServiceIdentityUnitSuite))
}
