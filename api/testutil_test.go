package api

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Martyparty1988/Workmm/config"
	"github.com/Martyparty1988/Workmm/realtime"
	"github.com/Martyparty1988/Workmm/service"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type testDeps struct {
	engine *service.Engine
	store  *store.Store
	timers *service.TimerService
	hub    *realtime.Hub
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func newTestDeps(t *testing.T) (testDeps, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := setupMockDB(t)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.SettlementConfig{
		MonthlyRent:    24500,
		HourlyRates:    map[string]int64{"maru": 275, "marty": 400},
		DeductionRates: map[string]float64{"maru": 1.0 / 3.0, "marty": 0.5},
	}

	st := store.New(db)
	engine := service.NewEngine(db, st, cfg, log)
	timers := service.NewTimerService(db, st, engine, cfg, log)
	hub := realtime.NewHub(log)

	return testDeps{engine: engine, store: st, timers: timers, hub: hub}, mock, cleanup
}

// setFamilyMiddleware plants the identity the auth middleware would extract
// from a valid token.
func setFamilyMiddleware(familyID, person string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("familyID", familyID)
		c.Set("person", person)
		c.Next()
	}
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func init() {
	gin.SetMode(gin.TestMode)
}
