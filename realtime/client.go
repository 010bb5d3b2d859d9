package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one websocket connection bound to a family.
type Client struct {
	ID       string
	FamilyID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// authRequest is the first message a client must send, mirroring the
// {type: "auth", familyId} handshake the web client speaks.
type authRequest struct {
	Type     string `json:"type"`
	FamilyID string `json:"familyId"`
}

// authAck confirms registration and hands the client its connection id, so
// it can identify itself in X-Connection-ID on later requests.
type authAck struct {
	Type         string `json:"type"`
	Success      bool   `json:"success"`
	ConnectionID string `json:"connectionId,omitempty"`
}

// ServeConn runs the handshake and pumps for an upgraded connection. It
// blocks until the connection closes. expectedFamily comes from the
// request's identity; an auth message for a different family is rejected.
func (h *Hub) ServeConn(conn *websocket.Conn, expectedFamily string) {
	conn.SetReadLimit(maxMessageSize)

	// The socket stays unregistered until the auth message arrives.
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return
	}
	var req authRequest
	if err := json.Unmarshal(raw, &req); err != nil || req.Type != "auth" || req.FamilyID == "" || req.FamilyID != expectedFamily {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "neplatná autentizace"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	client := &Client{
		ID:       uuid.NewString(),
		FamilyID: req.FamilyID,
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}
	h.Register(client)
	h.log.WithFields(logrus.Fields{
		"family":     client.FamilyID,
		"connection": client.ID,
	}).Info("websocket připojen")

	ack, _ := json.Marshal(authAck{Type: "auth", Success: true, ConnectionID: client.ID})
	client.send <- ack

	go client.writePump()
	client.readPump()
}

// readPump consumes inbound frames, keeping the read deadline fresh. The
// protocol is one-way after auth, so frames are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards queued messages and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
