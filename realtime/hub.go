// Package realtime fans ledger and timer mutations out to the live
// connections of a family. Delivery is best-effort: closed or slow
// connections are skipped, clients refetch full state over the API after a
// reconnect.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Message types.
const (
	TypeWorkLog = "worklog"
	TypeFinance = "finance"
	TypeDebt    = "debt"
	TypeTimer   = "timer"
)

// Message actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionStopped = "stopped"
)

// Message is the change-notification envelope sent to clients.
type Message struct {
	Type   string      `json:"type"`
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

// Hub is the connection registry, keyed by family id.
type Hub struct {
	mu       sync.RWMutex
	families map[string]map[*Client]struct{}
	log      *logrus.Logger
}

// NewHub creates an empty hub.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		families: make(map[string]map[*Client]struct{}),
		log:      log,
	}
}

// Register adds an authenticated client to its family group.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.families[c.FamilyID]
	if !ok {
		group = make(map[*Client]struct{})
		h.families[c.FamilyID] = group
	}
	group[c] = struct{}{}
}

// Unregister removes a client, dropping the family group when it empties.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.families[c.FamilyID]
	if !ok {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}
	delete(group, c)
	close(c.send)
	if len(group) == 0 {
		delete(h.families, c.FamilyID)
	}
}

// ConnectionCount reports the number of live connections for a family.
func (h *Hub) ConnectionCount(familyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.families[familyID])
}

// Broadcast delivers msg to every connection of the family except the one
// identified by excludeID (empty means no exclusion). Connections whose
// send buffer is full are skipped.
func (h *Hub) Broadcast(familyID string, msg Message, excludeID string) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Warn("serializace zprávy pro rozeslání selhala")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.families[familyID] {
		if excludeID != "" && c.ID == excludeID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			h.log.WithFields(logrus.Fields{
				"family":     familyID,
				"connection": c.ID,
			}).Warn("pomalé připojení, zpráva zahozena")
		}
	}
}
