package api

import (
	"strconv"
	"time"

	"github.com/Martyparty1988/Workmm/middleware"
	"github.com/Martyparty1988/Workmm/models"
	"github.com/Martyparty1988/Workmm/realtime"
	"github.com/Martyparty1988/Workmm/service"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/gin-gonic/gin"
)

// DebtHandler serves the debt CRUD surface and manual repayments.
type DebtHandler struct {
	engine *service.Engine
	store  *store.Store
	hub    *realtime.Hub
}

func NewDebtHandler(engine *service.Engine, st *store.Store, hub *realtime.Hub) *DebtHandler {
	return &DebtHandler{engine: engine, store: st, hub: hub}
}

type CreateDebtRequest struct {
	Creditor        string     `json:"creditor" binding:"required"`
	Amount          int64      `json:"amount" binding:"required,gt=0"`
	Currency        string     `json:"currency" binding:"required,oneof=CZK EUR USD"`
	RemainingAmount int64      `json:"remaining_amount" binding:"omitempty,gte=0"`
	DueDate         *time.Time `json:"due_date"`
	Priority        int        `json:"priority" binding:"required"`
}

type UpdateDebtRequest struct {
	Creditor *string    `json:"creditor"`
	DueDate  *time.Time `json:"due_date"`
	Priority *int       `json:"priority"`
}

type DebtPaymentRequest struct {
	Amount int64 `json:"amount"`
}

// List returns the family's debts in payoff order.
func (h *DebtHandler) List(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	debts, err := h.store.Debts(familyID)
	if err != nil {
		RespondError(c, err, "Chyba při načítání dluhů")
		return
	}
	Success(c, debts)
}

// Create registers a new debt.
func (h *DebtHandler) Create(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Neplatná data: "+err.Error())
		return
	}

	debt := &models.Debt{
		FamilyID:        familyID,
		Creditor:        req.Creditor,
		Amount:          req.Amount,
		Currency:        req.Currency,
		RemainingAmount: req.RemainingAmount,
		DueDate:         req.DueDate,
		Priority:        req.Priority,
	}
	if err := h.store.CreateDebt(debt); err != nil {
		RespondError(c, err, "Chyba při vytváření dluhu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeDebt,
		Action: realtime.ActionCreated,
		Data:   debt,
	}, "")
	SuccessWithMessage(c, "Dluh vytvořen", debt)
}

// Update edits a debt's descriptive fields. Amounts change only through
// payments.
func (h *DebtHandler) Update(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Neplatné ID")
		return
	}
	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Neplatná data: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Creditor != nil {
		updates["creditor"] = *req.Creditor
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if len(updates) == 0 {
		BadRequest(c, "Žádné změny")
		return
	}

	debt, err := h.store.UpdateDebt(familyID, uint(id), updates)
	if err != nil {
		RespondError(c, err, "Chyba při aktualizaci dluhu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeDebt,
		Action: realtime.ActionUpdated,
		Data:   debt,
	}, "")
	SuccessWithMessage(c, "Dluh aktualizován", debt)
}

// Pay applies a manual repayment to one debt, outside the automatic
// priority order.
func (h *DebtHandler) Pay(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Neplatné ID")
		return
	}
	var req DebtPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Neplatná částka")
		return
	}

	debt, entry, err := h.engine.PayDebt(familyID, uint(id), req.Amount)
	if err != nil {
		RespondError(c, err, "Chyba při zpracování platby")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeDebt,
		Action: realtime.ActionUpdated,
		Data:   debt,
	}, "")
	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeFinance,
		Action: realtime.ActionCreated,
		Data:   entry,
	}, "")
	SuccessWithMessage(c, "Splátka zaúčtována", debt)
}

// Delete removes a debt.
func (h *DebtHandler) Delete(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Neplatné ID")
		return
	}
	if err := h.store.DeleteDebt(familyID, uint(id)); err != nil {
		RespondError(c, err, "Chyba při mazání dluhu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeDebt,
		Action: realtime.ActionDeleted,
		Data:   gin.H{"id": id},
	}, "")
	SuccessWithMessage(c, "Dluh smazán", nil)
}
