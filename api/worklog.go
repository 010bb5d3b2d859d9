package api

import (
	"strconv"
	"time"

	"github.com/Martyparty1988/Workmm/middleware"
	"github.com/Martyparty1988/Workmm/realtime"
	"github.com/Martyparty1988/Workmm/service"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/gin-gonic/gin"
)

// WorkLogHandler serves the work-log CRUD surface.
type WorkLogHandler struct {
	engine *service.Engine
	store  *store.Store
	hub    *realtime.Hub
}

func NewWorkLogHandler(engine *service.Engine, st *store.Store, hub *realtime.Hub) *WorkLogHandler {
	return &WorkLogHandler{engine: engine, store: st, hub: hub}
}

type CreateWorkLogRequest struct {
	Person        string     `json:"person" binding:"required"`
	Date          time.Time  `json:"date" binding:"required"`
	StartTime     time.Time  `json:"start_time" binding:"required"`
	EndTime       *time.Time `json:"end_time"`
	WorkedMinutes int        `json:"worked_minutes" binding:"required,gt=0"`
	HourlyRate    int64      `json:"hourly_rate" binding:"required,gt=0"`
	Activity      string     `json:"activity" binding:"required"`
}

type UpdateWorkLogRequest struct {
	Person        *string    `json:"person"`
	Date          *time.Time `json:"date"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	WorkedMinutes *int       `json:"worked_minutes"`
	HourlyRate    *int64     `json:"hourly_rate"`
	Activity      *string    `json:"activity"`
}

// List returns the family's work logs, newest first.
func (h *WorkLogHandler) List(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	logs, err := h.store.WorkLogs(familyID)
	if err != nil {
		RespondError(c, err, "Chyba při načítání záznamů")
		return
	}
	Success(c, logs)
}

// TodayEarnings returns the sum of earnings for the day given by the
// optional date query parameter (RFC 3339), defaulting to today.
func (h *WorkLogHandler) TodayEarnings(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			BadRequest(c, "Neplatné datum, očekává se RFC 3339")
			return
		}
		date = parsed
	}
	total, err := h.store.TodayEarnings(familyID, date)
	if err != nil {
		RespondError(c, err, "Chyba při načítání výdělků")
		return
	}
	Success(c, gin.H{"date": date.Format("2006-01-02"), "earnings": total})
}

// Create records a manual work log; earnings and deduction are derived and
// the deduction lands on the shared account.
func (h *WorkLogHandler) Create(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	var req CreateWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Neplatná data: "+err.Error())
		return
	}

	workLog, err := h.engine.RecordWorkLog(familyID, service.WorkLogInput{
		Person:        req.Person,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		WorkedMinutes: req.WorkedMinutes,
		HourlyRate:    req.HourlyRate,
		Activity:      req.Activity,
	})
	if err != nil {
		RespondError(c, err, "Chyba při vytváření záznamu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeWorkLog,
		Action: realtime.ActionCreated,
		Data:   workLog,
	}, "")
	SuccessWithMessage(c, "Záznam vytvořen", workLog)
}

// Update edits a work log and recomputes its derived fields.
func (h *WorkLogHandler) Update(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Neplatné ID")
		return
	}
	var req UpdateWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Neplatná data: "+err.Error())
		return
	}

	workLog, err := h.engine.UpdateWorkLog(familyID, uint(id), service.WorkLogPatch{
		Person:        req.Person,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		WorkedMinutes: req.WorkedMinutes,
		HourlyRate:    req.HourlyRate,
		Activity:      req.Activity,
	})
	if err != nil {
		RespondError(c, err, "Chyba při aktualizaci záznamu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeWorkLog,
		Action: realtime.ActionUpdated,
		Data:   workLog,
	}, "")
	SuccessWithMessage(c, "Záznam aktualizován", workLog)
}

// Delete removes a work log.
func (h *WorkLogHandler) Delete(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Neplatné ID")
		return
	}
	if err := h.engine.DeleteWorkLog(familyID, uint(id)); err != nil {
		RespondError(c, err, "Chyba při mazání záznamu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeWorkLog,
		Action: realtime.ActionDeleted,
		Data:   gin.H{"id": id},
	}, "")
	SuccessWithMessage(c, "Záznam smazán", nil)
}
