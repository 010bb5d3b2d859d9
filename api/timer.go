package api

import (
	"github.com/Martyparty1988/Workmm/middleware"
	"github.com/Martyparty1988/Workmm/realtime"
	"github.com/Martyparty1988/Workmm/service"

	"github.com/gin-gonic/gin"
)

// TimerHandler serves the per-person work timer. Timer broadcasts exclude
// the originating connection (identified by the X-Connection-ID header) so
// the actor's UI, which already updated optimistically, is not echoed.
type TimerHandler struct {
	timers *service.TimerService
	hub    *realtime.Hub
}

func NewTimerHandler(timers *service.TimerService, hub *realtime.Hub) *TimerHandler {
	return &TimerHandler{timers: timers, hub: hub}
}

type TimerRequest struct {
	Activity string `json:"activity"`
}

// connectionID returns the caller's websocket connection id, when the
// client supplied one.
func connectionID(c *gin.Context) string {
	return c.GetHeader("X-Connection-ID")
}

// State returns the timer state for a person, idle by default.
func (h *TimerHandler) State(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	state, err := h.timers.State(familyID, c.Param("person"))
	if err != nil {
		RespondError(c, err, "Chyba při načítání stavu časovače")
		return
	}
	Success(c, state)
}

// Start begins timing for a person.
func (h *TimerHandler) Start(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	person := c.Param("person")
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		BadRequest(c, "Neplatná data: "+err.Error())
		return
	}

	state, err := h.timers.Start(familyID, person, req.Activity)
	if err != nil {
		RespondError(c, err, "Chyba při spouštění časovače")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeTimer,
		Action: realtime.ActionUpdated,
		Data:   state,
	}, connectionID(c))
	SuccessWithMessage(c, "Časovač spuštěn", state)
}

// Stop ends timing for a person and returns the materialized work log. The
// new work log is broadcast to the whole family, the timer event to
// everyone but the actor.
func (h *TimerHandler) Stop(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	person := c.Param("person")
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		BadRequest(c, "Neplatná data: "+err.Error())
		return
	}

	workLog, err := h.timers.Stop(familyID, person, req.Activity)
	if err != nil {
		RespondError(c, err, "Chyba při zastavování časovače")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeWorkLog,
		Action: realtime.ActionCreated,
		Data:   workLog,
	}, "")
	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeTimer,
		Action: realtime.ActionStopped,
		Data:   gin.H{"person": person},
	}, connectionID(c))
	SuccessWithMessage(c, "Časovač zastaven", workLog)
}
