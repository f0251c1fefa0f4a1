package http_session

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/cinematch/core/internal/delivery/http/common"
	service_identity "github.com/cinematch/core/internal/service/identity"
)

type Controller struct {
	service *service_identity.Service
	logger  *slog.Logger
}

func New(
	service *service_identity.Service,
) *Controller {
	return &Controller{
		service: service,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	sessions.POST("", c.begin)
}

type SessionResponseDTO struct {
	UserID string `json:"user_id"`
}

// Begin открывает анонимную сессию
// @Summary Открытие сессии
// @Description Выдает токен сессии в заголовке X-user-token; остальные операции требуют его
// @Tags Sessions
// @Produce json
// @Success 201 {object} SessionResponseDTO
// @Header 201 {string} X-user-token "Токен сессии"
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sessions [post]
func (c *Controller) begin(ctx *gin.Context) {
	token, userID, err := c.service.Begin()
	if err != nil {
		c.logger.Error("failed to begin session", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.Header("X-user-token", token)
	ctx.JSON(http.StatusCreated, SessionResponseDTO{
		UserID: userID,
	})
}
