package store

import (
	"testing"
	"time"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFinance() *models.Finance {
	return &models.Finance{
		FamilyID:    "fam-1",
		Type:        models.FinanceTypeIncome,
		Account:     models.AccountShared,
		Amount:      500,
		Currency:    models.CurrencyCZK,
		FinalAmount: 500,
		Category:    "Výplata",
		Date:        time.Now(),
	}
}

func TestCreateFinance_Validation(t *testing.T) {
	st, mock, cleanup := newMockStore(t)
	defer cleanup()

	cases := []struct {
		name   string
		mutate func(*models.Finance)
	}{
		{"missing family", func(f *models.Finance) { f.FamilyID = "" }},
		{"bad type", func(f *models.Finance) { f.Type = "transfer" }},
		{"bad account", func(f *models.Finance) { f.Account = "joint" }},
		{"bad currency", func(f *models.Finance) { f.Currency = "GBP" }},
		{"zero amount", func(f *models.Finance) { f.Amount = 0 }},
		{"negative amount", func(f *models.Finance) { f.Amount = -5 }},
		{"missing category", func(f *models.Finance) { f.Category = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFinance()
			tc.mutate(f)
			err := st.CreateFinance(f)
			assert.True(t, apperr.IsValidation(err))
		})
	}
	// Validation rejects before any SQL runs.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFinance_Persists(t *testing.T) {
	st, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `finances`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	f := validFinance()
	require.NoError(t, st.CreateFinance(f))
	assert.Equal(t, uint(7), f.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSharedBalance(t *testing.T) {
	st, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(CASE WHEN type = 'income' THEN final_amount ELSE -amount END\\), 0\\)").
		WithArgs("fam-1", models.AccountShared).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1250))

	balance, err := st.SharedBalance("fam-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRentPostedInMonth(t *testing.T) {
	st, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `finances`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	posted, err := st.RentPostedInMonth("fam-1", time.Date(2025, 4, 1, 10, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.True(t, posted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinances_OrderedByDateDesc(t *testing.T) {
	st, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `finances` .*ORDER BY date DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "family_id", "type", "account", "amount", "currency", "final_amount", "category"}).
			AddRow(2, "fam-1", "income", "shared", 200, "CZK", 200, "Výplata").
			AddRow(1, "fam-1", "expense", "shared", 100, "CZK", 100, "Nákupy"))

	list, err := st.Finances("fam-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteFinance_NotFound(t *testing.T) {
	st, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `finances`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := st.DeleteFinance("fam-1", 42)
	assert.True(t, apperr.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
