package api

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinanceRouter(deps testDeps) *gin.Engine {
	r := gin.New()
	r.Use(setFamilyMiddleware("fam-1", "maru"))
	h := NewFinanceHandler(deps.engine, deps.store, deps.hub)
	r.GET("/finances", h.List)
	r.GET("/finances/balance", h.Balance)
	r.POST("/finances", h.Create)
	r.DELETE("/finances/:id", h.Delete)
	return r
}

func TestFinanceHandler_Balance(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(CASE WHEN type = 'income' THEN final_amount ELSE -amount END\\), 0\\)").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1250))

	w := doJSON(newFinanceRouter(deps), http.MethodGet, "/finances/balance", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":1250`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceHandler_Create_BadAccount(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	body := `{"type":"income","account":"joint","amount":500,"currency":"CZK","category":"Výplata"}`
	w := doJSON(newFinanceRouter(deps), http.MethodPost, "/finances", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceHandler_Create_BadType(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	body := `{"type":"transfer","account":"shared","amount":500,"currency":"CZK","category":"Výplata"}`
	w := doJSON(newFinanceRouter(deps), http.MethodPost, "/finances", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceHandler_List(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `finances`").
		WithArgs("fam-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "family_id", "type", "account", "amount", "currency", "final_amount", "category"}).
			AddRow(1, "fam-1", "income", "shared", 500, "CZK", 500, "Výplata"))

	w := doJSON(newFinanceRouter(deps), http.MethodGet, "/finances", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Výplata")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceHandler_Delete_NotFound(t *testing.T) {
	deps, mock, cleanup := newTestDeps(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `finances`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doJSON(newFinanceRouter(deps), http.MethodDelete, "/finances/42", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
