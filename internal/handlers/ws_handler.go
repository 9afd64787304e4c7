package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	apperrors "spentra/internal/errors"
	"spentra/internal/logger"
	"spentra/internal/middleware"
	"spentra/internal/realtime"
)

// WebSocketHandler upgrades connections for the real-time notification
// channel. Browsers cannot set an Authorization header on a WebSocket
// handshake, so the access token is carried as a query parameter.
type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth makes the connection user-scoped; origins are
			// left to the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Notifications godoc
// @Summary Notification stream
// @Description Upgrade to a WebSocket that receives the user's budget alert notifications
// @Tags notifications
// @Param token query string true "Access token"
// @Success 101
// @Failure 401 {object} ErrorResponse
// @Router /ws/notifications [get]
func (h *WebSocketHandler) Notifications(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	claims, err := middleware.ParseAccessToken(token)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		logger.Get().Warnw("websocket upgrade failed", "error", err.Error(), "user_id", claims.UserID)
		return
	}

	h.hub.Attach(conn, realtime.NotificationTopic(claims.UserID))
}
