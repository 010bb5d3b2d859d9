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

// FinanceHandler serves ledger movements and the shared balance.
type FinanceHandler struct {
	engine *service.Engine
	store  *store.Store
	hub    *realtime.Hub
}

func NewFinanceHandler(engine *service.Engine, st *store.Store, hub *realtime.Hub) *FinanceHandler {
	return &FinanceHandler{engine: engine, store: st, hub: hub}
}

type CreateFinanceRequest struct {
	Type        string    `json:"type" binding:"required,oneof=income expense"`
	Account     string    `json:"account" binding:"required,oneof=maru marty shared"`
	Amount      int64     `json:"amount" binding:"required,gt=0"`
	Currency    string    `json:"currency" binding:"required,oneof=CZK EUR USD"`
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// List returns the family's ledger movements, newest first.
func (h *FinanceHandler) List(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	list, err := h.store.Finances(familyID)
	if err != nil {
		RespondError(c, err, "Chyba při načítání financí")
		return
	}
	Success(c, list)
}

// Balance returns the shared account balance.
func (h *FinanceHandler) Balance(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	balance, err := h.store.SharedBalance(familyID)
	if err != nil {
		RespondError(c, err, "Chyba při načítání zůstatku")
		return
	}
	Success(c, gin.H{"balance": balance})
}

// Create submits an entry through the settlement pipeline and broadcasts
// everything the evaluation produced: the entry itself, a rent posting when
// one happened and every automatic debt repayment.
func (h *FinanceHandler) Create(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	var req CreateFinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Neplatná data: "+err.Error())
		return
	}

	result, err := h.engine.SubmitFinance(familyID, service.FinanceInput{
		Type:        req.Type,
		Account:     req.Account,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		RespondError(c, err, "Chyba při vytváření záznamu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeFinance,
		Action: realtime.ActionCreated,
		Data:   result.Entry,
	}, "")
	if result.Rent != nil {
		h.hub.Broadcast(familyID, realtime.Message{
			Type:   realtime.TypeFinance,
			Action: realtime.ActionCreated,
			Data:   result.Rent,
		}, "")
	}
	for _, payment := range result.DebtPayments {
		h.hub.Broadcast(familyID, realtime.Message{
			Type:   realtime.TypeFinance,
			Action: realtime.ActionCreated,
			Data:   payment.Entry,
		}, "")
		h.hub.Broadcast(familyID, realtime.Message{
			Type:   realtime.TypeDebt,
			Action: realtime.ActionUpdated,
			Data:   payment.Debt,
		}, "")
	}

	SuccessWithMessage(c, "Záznam vytvořen", result.Entry)
}

// Delete removes a ledger movement.
func (h *FinanceHandler) Delete(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Neplatné ID")
		return
	}
	if err := h.store.DeleteFinance(familyID, uint(id)); err != nil {
		RespondError(c, err, "Chyba při mazání záznamu")
		return
	}

	h.hub.Broadcast(familyID, realtime.Message{
		Type:   realtime.TypeFinance,
		Action: realtime.ActionDeleted,
		Data:   gin.H{"id": id},
	}, "")
	SuccessWithMessage(c, "Záznam smazán", nil)
}
