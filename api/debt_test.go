package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebtRouter(deps testDeps) *gin.Engine {
	r := gin.New()
	r.Use(setFamilyMiddleware("fam-1", "marty"))
	h := NewDebtHandler(deps.engine, deps.store, deps.hub)
	r.GET("/debts", h.List)
	r.POST("/debts", h.Create)
	r.POST("/debts/:id/payment", h.Pay)
	return r
}

func TestDebtHandler_Create(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `debts`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"creditor":"Banka","amount":5000,"currency":"CZK","priority":1}`
	w := doJSON(newDebtRouter(deps), http.MethodPost, "/debts", body)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dluh vytvořen", resp.Message)

	// Remaining amount defaults to the full amount.
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(5000), data["remaining_amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Create_BadCurrency(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	body := `{"creditor":"Banka","amount":5000,"currency":"GBP","priority":1}`
	w := doJSON(newDebtRouter(deps), http.MethodPost, "/debts", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Pay_NonPositiveAmount(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	w := doJSON(newDebtRouter(deps), http.MethodPost, "/debts/1/payment", `{"amount":0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Pay_UnknownDebt(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `debts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	w := doJSON(newDebtRouter(deps), http.MethodPost, "/debts/404/payment", `{"amount":100}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_List(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `debts`").
		WithArgs("fam-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "family_id", "creditor", "amount", "remaining_amount", "priority", "payments"}).
			AddRow(1, "fam-1", "Banka", 5000, 5000, 1, "[]"))

	w := doJSON(newDebtRouter(deps), http.MethodGet, "/debts", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Banka")
	require.NoError(t, mock.ExpectationsWereMet())
}
