package ws_room

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	http_common "github.com/cinematch/core/internal/delivery/http/common"
	service_identity "github.com/cinematch/core/internal/service/identity"
	usecase_match "github.com/cinematch/core/internal/usecase/match"
	usecase_room "github.com/cinematch/core/internal/usecase/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type IdentityResolver interface {
	Resolve(token string) (string, error)
}

type Controller struct {
	hub      *Hub
	rooms    *usecase_room.Usecase
	detector *usecase_match.Manager
	identity IdentityResolver

	logger *slog.Logger
}

func NewController(
	hub *Hub,
	rooms *usecase_room.Usecase,
	detector *usecase_match.Manager,
	identity IdentityResolver,
) *Controller {
	return &Controller{
		hub:      hub,
		rooms:    rooms,
		detector: detector,
		identity: identity,
		logger:   slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws/rooms/:room_id", c.attach)
}

// attach upgrades the connection and binds the client to its room's event
// stream. The first client of a room also starts the room's match
// detector; the last one leaving stops it via the hub's detach hook.
func (c *Controller) attach(ctx *gin.Context) {
	code := ctx.Param("room_id")

	// Browsers cannot set headers on websocket dials, the token rides in
	// the query string instead.
	token := ctx.Query("token")
	if token == "" {
		token = ctx.GetHeader("X-user-token")
	}
	userID, err := c.identity.Resolve(token)
	if err != nil {
		if errors.Is(err, service_identity.ErrUnauthenticated) {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "unauthenticated",
			})
			return
		}
		c.logger.Error("failed to resolve session", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	if _, err := c.rooms.Snapshot(ctx, code); err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to load room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c.detector.Ensure(context.Background(), code)

	client := &Client{
		hub:      c.hub,
		conn:     conn,
		send:     make(chan Event, 16),
		userID:   userID,
		roomCode: code,
	}
	c.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (cl *Client) readPump() {
	defer func() {
		cl.hub.unregister <- cl
		cl.conn.Close()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (cl *Client) writePump() {
	defer cl.conn.Close()

	for event := range cl.send {
		if err := cl.conn.WriteJSON(event); err != nil {
			break
		}
	}
}
