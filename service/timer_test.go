package service

import (
	"testing"
	"time"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/models"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimer(t *testing.T) (*TimerService, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := setupMockDB(t)
	st := store.New(db)
	cfg := testSettlementConfig()
	log := quietLogger()
	engine := NewEngine(db, st, cfg, log)
	return NewTimerService(db, st, engine, cfg, log), mock, cleanup
}

func timerColumns() []string {
	return []string{"id", "family_id", "person", "is_running", "start_time", "activity"}
}

func TestTimerState_UnknownPerson(t *testing.T) {
	timers, _, cleanup := newTestTimer(t)
	defer cleanup()

	_, err := timers.State("fam-1", "nobody")
	assert.True(t, apperr.IsValidation(err))
}

func TestTimerState_DefaultsToIdle(t *testing.T) {
	timers, mock, cleanup := newTestTimer(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `timer_states`").
		WillReturnRows(sqlmock.NewRows(timerColumns()))

	state, err := timers.State("fam-1", models.PersonMaru)
	require.NoError(t, err)
	assert.False(t, state.IsRunning)
	assert.Nil(t, state.StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimerStart_AlreadyRunning(t *testing.T) {
	timers, mock, cleanup := newTestTimer(t)
	defer cleanup()

	start := time.Now().Add(-30 * time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `timer_states`").
		WillReturnRows(sqlmock.NewRows(timerColumns()).
			AddRow(1, "fam-1", "maru", true, start, "Úklid"))
	mock.ExpectRollback()

	_, err := timers.Start("fam-1", models.PersonMaru, "Vaření")
	assert.True(t, apperr.IsConflict(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimerStart_CreatesRow(t *testing.T) {
	timers, mock, cleanup := newTestTimer(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `timer_states`").
		WillReturnRows(sqlmock.NewRows(timerColumns()))
	mock.ExpectExec("INSERT INTO `timer_states`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	state, err := timers.Start("fam-1", models.PersonMarty, "Zahrada")
	require.NoError(t, err)
	assert.True(t, state.IsRunning)
	require.NotNil(t, state.StartTime)
	assert.Equal(t, "Zahrada", state.Activity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimerStop_IdleConflict(t *testing.T) {
	timers, mock, cleanup := newTestTimer(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `timer_states`").
		WillReturnRows(sqlmock.NewRows(timerColumns()).
			AddRow(1, "fam-1", "maru", false, nil, ""))
	mock.ExpectRollback()

	_, err := timers.Stop("fam-1", models.PersonMaru, "")
	assert.True(t, apperr.IsConflict(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimerStop_TooShort(t *testing.T) {
	timers, mock, cleanup := newTestTimer(t)
	defer cleanup()

	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)
	timers.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `timer_states`").
		WillReturnRows(sqlmock.NewRows(timerColumns()).
			AddRow(1, "fam-1", "maru", true, now.Add(-10*time.Second), "Úklid"))
	mock.ExpectRollback()

	_, err := timers.Stop("fam-1", models.PersonMaru, "")
	assert.True(t, apperr.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimerStop_MaterializesWorkLog(t *testing.T) {
	timers, mock, cleanup := newTestTimer(t)
	defer cleanup()

	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)
	timers.now = func() time.Time { return now }
	start := now.Add(-2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `timer_states`").
		WillReturnRows(sqlmock.NewRows(timerColumns()).
			AddRow(1, "fam-1", "maru", true, start, "Úklid"))
	mock.ExpectExec("INSERT INTO `work_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `finances`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Timer reset back to idle.
	mock.ExpectQuery("SELECT .* FROM `timer_states`").
		WillReturnRows(sqlmock.NewRows(timerColumns()).
			AddRow(1, "fam-1", "maru", true, start, "Úklid"))
	mock.ExpectExec("UPDATE `timer_states`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	workLog, err := timers.Stop("fam-1", models.PersonMaru, "")
	require.NoError(t, err)

	assert.Equal(t, 120, workLog.WorkedMinutes)
	assert.Equal(t, int64(275), workLog.HourlyRate)
	assert.Equal(t, int64(550), workLog.Earnings)
	assert.Equal(t, int64(183), workLog.Deduction)
	// Activity falls back to what the timer carried.
	assert.Equal(t, "Úklid", workLog.Activity)
	require.NoError(t, mock.ExpectationsWereMet())
}
