package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/service"
	ws "github.com/openwaves/openwaves-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live session activity to examiners.
type WSHandler struct {
	monitorService *service.MonitorService
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(monitorService *service.MonitorService, sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		monitorService: monitorService,
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// MonitorSession godoc
// WS /ws/v1/ve/sessions/:id/monitor?token=...
// Upgrades to WebSocket and relays launch/finish/grade events for the session
// as they happen. The client may send {"action":"ping"} as a keepalive.
func (h *WSHandler) MonitorSession(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.sessionService.Get(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("session_id", sessionID).Logger()
	wsLog.Info().Msg("examiner monitor connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.monitorService.Subscribe(ctx, sessionID)
	defer sub.Close()

	// Reader: keepalive pings plus connection-close detection.
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Info().Msg("examiner monitor disconnected")
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			var event ws.MonitorEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Error().Err(err).Msg("bad monitor event payload")
				continue
			}
			if err := ws.WriteTyped(conn, event); err != nil {
				wsLog.Debug().Err(err).Msg("write failed, closing")
				return
			}
			// The session is over; nothing further will arrive.
			if event.Event == ws.EventSessionClosed {
				return
			}
		}
	}
}
