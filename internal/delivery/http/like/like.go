package http_like

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/cinematch/core/internal/delivery/http/common"
	http_auth_middleware "github.com/cinematch/core/internal/delivery/http/middleware/auth"
	usecase_like "github.com/cinematch/core/internal/usecase/like"
)

type Controller struct {
	uc   *usecase_like.Usecase
	auth *http_auth_middleware.Middleware

	logger *slog.Logger
}

func New(
	uc *usecase_like.Usecase,
	auth *http_auth_middleware.Middleware,
) *Controller {
	return &Controller{
		uc:     uc,
		auth:   auth,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	likes := router.Group("/rooms/:room_id/likes", c.auth.AuthRequired())
	likes.POST("", c.record)
}

type RecordLikeRequestDTO struct {
	MovieID int64 `json:"movie_id" binding:"required"`
}

// Record записывает лайк фильма в комнате
// @Summary Лайк фильма
// @Description Добавляет фильм в набор лайков роли пользователя. Повторный лайк поглощается молча.
// @Tags Likes
// @Accept json
// @Param room_id path string true "Код комнаты"
// @Param request body RecordLikeRequestDTO true "Фильм"
// @Success 204 "Лайк записан"
// @Failure 400 {object} http_common.ErrorResponse "Неверный формат запроса"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Failure 409 {object} http_common.ErrorResponse "Комната закрыта"
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Security UserToken
// @Router /rooms/{room_id}/likes [post]
func (c *Controller) record(ctx *gin.Context) {
	code := ctx.Param("room_id")
	userID := http_auth_middleware.UserID(ctx)

	var req RecordLikeRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	if err := c.uc.Record(ctx, code, userID, req.MovieID); err != nil {
		switch {
		case errors.Is(err, usecase_like.ErrRoomNotFound):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "room does not exist",
			})
		case errors.Is(err, usecase_like.ErrRoomInactive):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: "room is closed",
			})
		default:
			c.logger.Error("failed to record like",
				slog.String("room", code),
				slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
