package http_auth_middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/cinematch/core/internal/delivery/http/common"
	service_identity "github.com/cinematch/core/internal/service/identity"
)

const (
	tokenHeader = "X-user-token"
	userIDKey   = "user_id"
)

type IdentityResolver interface {
	Resolve(token string) (string, error)
}

type Middleware struct {
	identity IdentityResolver
	logger   *slog.Logger
}

func New(
	identity IdentityResolver,
) *Middleware {
	return &Middleware{
		identity: identity,
		logger:   slog.Default(),
	}
}

// AuthRequired resolves the session token into a user id before any
// handler runs. Operations abort here when unauthenticated, nothing is
// written on their behalf.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader(tokenHeader)

		userID, err := m.identity.Resolve(token)
		if err != nil {
			if errors.Is(err, service_identity.ErrUnauthenticated) {
				ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
					Message: "unauthenticated",
				})
				ctx.Abort()
				return
			}
			m.logger.Error("failed to resolve session", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			ctx.Abort()
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

// UserID returns the id the middleware resolved for this request.
func UserID(ctx *gin.Context) string {
	return ctx.GetString(userIDKey)
}
