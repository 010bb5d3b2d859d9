package api

import (
	"net/http"

	"github.com/Martyparty1988/Workmm/middleware"
	"github.com/Martyparty1988/Workmm/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSHandler upgrades connections for the realtime fan-out. Browsers cannot
// set an Authorization header on a websocket, so the identity token rides
// in the token query parameter; the in-band auth message must then name the
// same family.
type WSHandler struct {
	hub *realtime.Hub
	log *logrus.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is already open on the API; the socket is gated by the token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		Error(c, http.StatusUnauthorized, "Chybí token")
		return
	}
	claims, err := middleware.ParseToken(token)
	if err != nil {
		Error(c, http.StatusUnauthorized, "Neplatný token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade websocketu selhal")
		return
	}
	h.hub.ServeConn(conn, claims.FamilyID)
}
