package http_room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/cinematch/core/internal/delivery/http/common"
	http_auth_middleware "github.com/cinematch/core/internal/delivery/http/middleware/auth"
	ws_room "github.com/cinematch/core/internal/delivery/ws/room"
	"github.com/cinematch/core/internal/model"
	usecase_room "github.com/cinematch/core/internal/usecase/room"
)

type Controller struct {
	usecase *usecase_room.Usecase
	hub     *ws_room.Hub
	auth    *http_auth_middleware.Middleware
	logger  *slog.Logger
}

func New(
	usecase *usecase_room.Usecase,
	hub *ws_room.Hub,
	auth *http_auth_middleware.Middleware,
) *Controller {
	return &Controller{
		usecase: usecase,
		hub:     hub,
		auth:    auth,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms", c.auth.AuthRequired())
	{
		rooms.POST("", c.create)
		rooms.GET("/:room_id", c.snapshot)
		rooms.POST("/:room_id/participants", c.join)
		rooms.GET("/:room_id/matches", c.matches)
		rooms.DELETE("/:room_id", c.retire)
	}
}

type RoomResponseDTO struct {
	Code           string   `json:"code"`
	CreatorID      string   `json:"creator_id"`
	ConnectedUsers []string `json:"connected_users"`
	Status         string   `json:"status"`
}

func convertFromRoom(room model.Room) RoomResponseDTO {
	return RoomResponseDTO{
		Code:           room.Code,
		CreatorID:      room.CreatorID,
		ConnectedUsers: room.ConnectedUsers,
		Status:         room.Status,
	}
}

// Create создает новую комнату
// @Summary Создание комнаты
// @Tags Rooms
// @Produce json
// @Success 201 {object} RoomResponseDTO "Комната успешно создана"
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 503 {object} http_common.ErrorResponse "Нет свободных кодов"
// @Security UserToken
// @Router /rooms [post]
func (c *Controller) create(ctx *gin.Context) {
	creatorID := http_auth_middleware.UserID(ctx)

	room, err := c.usecase.Create(ctx, creatorID)
	if err != nil {
		c.logger.Error("failed to create room", slog.String("error", err.Error()))
		if errors.Is(err, usecase_room.ErrRoomsUnavailable) {
			ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{
				Message: "unavailable",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusCreated, convertFromRoom(room))
}

// Snapshot возвращает текущее состояние комнаты
// @Summary Состояние комнаты
// @Tags Rooms
// @Param room_id path string true "Код комнаты"
// @Success 200 {object} RoomResponseDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Security UserToken
// @Router /rooms/{room_id} [get]
func (c *Controller) snapshot(ctx *gin.Context) {
	code := ctx.Param("room_id")

	room, err := c.usecase.Snapshot(ctx, code)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to get room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusOK, convertFromRoom(room))
}

// Join добавляет участника в комнату
// @Summary Вход в комнату по коду
// @Tags Rooms
// @Param room_id path string true "Код комнаты"
// @Success 200 {object} RoomResponseDTO "Участник добавлен"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Failure 409 {object} http_common.ErrorResponse "Комната закрыта"
// @Security UserToken
// @Router /rooms/{room_id}/participants [post]
func (c *Controller) join(ctx *gin.Context) {
	code := ctx.Param("room_id")
	userID := http_auth_middleware.UserID(ctx)

	room, err := c.usecase.Join(ctx, code, userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase_room.ErrResourceNotFound):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "room does not exist",
			})
		case errors.Is(err, usecase_room.ErrRoomInactive):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: "room is closed",
			})
		default:
			c.logger.Error("failed to join room", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
		}
		return
	}

	c.hub.NotifyUserJoined(code, userID, len(room.ConnectedUsers))

	ctx.JSON(http.StatusOK, convertFromRoom(room))
}

type MatchesResponseDTO struct {
	MovieIDs []int64 `json:"movie_ids"`
}

// Matches возвращает найденные совпадения комнаты
// @Summary Совпадения комнаты
// @Tags Rooms
// @Param room_id path string true "Код комнаты"
// @Success 200 {object} MatchesResponseDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Security UserToken
// @Router /rooms/{room_id}/matches [get]
func (c *Controller) matches(ctx *gin.Context) {
	code := ctx.Param("room_id")

	room, err := c.usecase.Snapshot(ctx, code)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to get matches", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	// A room without matches answers with an empty array, not null.
	movieIDs := room.MatchedMovieIDs
	if movieIDs == nil {
		movieIDs = []int64{}
	}

	ctx.JSON(http.StatusOK, MatchesResponseDTO{
		MovieIDs: movieIDs,
	})
}

// Retire закрывает комнату
// @Summary Закрытие комнаты
// @Tags Rooms
// @Param room_id path string true "Код комнаты"
// @Success 204 "Комната закрыта"
// @Failure 403 {object} http_common.ErrorResponse "Только создатель может закрыть комнату"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Security UserToken
// @Router /rooms/{room_id} [delete]
func (c *Controller) retire(ctx *gin.Context) {
	code := ctx.Param("room_id")
	userID := http_auth_middleware.UserID(ctx)

	isCreator, err := c.usecase.IsCreator(ctx, code, userID)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to retire room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}
	if !isCreator {
		ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{
			Message: "only the creator can retire a room",
		})
		return
	}

	if err := c.usecase.Retire(ctx, code); err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to retire room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	c.hub.NotifyRoomRetired(code)

	ctx.Status(http.StatusNoContent)
}
