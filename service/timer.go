package service

import (
	"math"
	"time"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/config"
	"github.com/Martyparty1988/Workmm/models"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TimerService is the per-person work timer: idle -> running on start,
// running -> idle on stop, materializing a work log on stop. One timer per
// (family, person); a second start is rejected, not queued.
type TimerService struct {
	db     *gorm.DB
	store  *store.Store
	engine *Engine
	cfg    *config.SettlementConfig
	log    *logrus.Logger

	now func() time.Time
}

// NewTimerService creates a timer service sharing the engine's per-family
// serialization.
func NewTimerService(db *gorm.DB, st *store.Store, engine *Engine, cfg *config.SettlementConfig, log *logrus.Logger) *TimerService {
	return &TimerService{db: db, store: st, engine: engine, cfg: cfg, log: log, now: time.Now}
}

// State returns the current timer state; an idle placeholder when the
// person never started a timer.
func (t *TimerService) State(familyID, person string) (*models.TimerState, error) {
	if !models.ValidPerson(person) {
		return nil, apperr.Validation("neplatná osoba: %s", person)
	}
	state, err := t.store.TimerState(familyID, person)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return &models.TimerState{FamilyID: familyID, Person: person, IsRunning: false}, nil
	}
	return state, nil
}

// Start transitions the person's timer from idle to running.
func (t *TimerService) Start(familyID, person, activity string) (*models.TimerState, error) {
	if !models.ValidPerson(person) {
		return nil, apperr.Validation("neplatná osoba: %s", person)
	}
	unlock := t.engine.lockFamily(familyID)
	defer unlock()

	var state *models.TimerState
	err := t.db.Transaction(func(tx *gorm.DB) error {
		st := t.store.WithTx(tx)
		existing, err := st.TimerState(familyID, person)
		if err != nil {
			return err
		}
		if existing != nil && existing.IsRunning {
			return apperr.Conflict("časovač pro osobu %s již běží", person)
		}

		start := t.now()
		if existing == nil {
			state = &models.TimerState{
				FamilyID:  familyID,
				Person:    person,
				IsRunning: true,
				StartTime: &start,
				Activity:  activity,
			}
			return st.CreateTimerState(state)
		}
		state, err = st.UpdateTimerState(existing.ID, map[string]interface{}{
			"is_running": true,
			"start_time": start,
			"activity":   activity,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	t.log.WithFields(logrus.Fields{"family": familyID, "person": person, "activity": activity}).Info("časovač spuštěn")
	return state, nil
}

// Stop ends the running timer, materializes the work log (with derived
// earnings and deduction) and resets the timer to idle, all in one
// transaction. Stopping an idle timer is a conflict and creates nothing.
func (t *TimerService) Stop(familyID, person, activity string) (*models.WorkLog, error) {
	if !models.ValidPerson(person) {
		return nil, apperr.Validation("neplatná osoba: %s", person)
	}
	unlock := t.engine.lockFamily(familyID)
	defer unlock()

	var created *models.WorkLog
	err := t.db.Transaction(func(tx *gorm.DB) error {
		st := t.store.WithTx(tx)
		state, err := st.TimerState(familyID, person)
		if err != nil {
			return err
		}
		if state == nil || !state.IsRunning || state.StartTime == nil {
			return apperr.Conflict("časovač pro osobu %s neběží", person)
		}

		end := t.now()
		workedMinutes := int(math.Round(end.Sub(*state.StartTime).Minutes()))
		if workedMinutes <= 0 {
			return apperr.Validation("neplatný odpracovaný čas")
		}

		rate := t.cfg.HourlyRate(person)
		if rate <= 0 {
			return apperr.Validation("chybí hodinová sazba pro osobu %s", person)
		}

		if activity == "" {
			activity = state.Activity
		}
		if activity == "" {
			activity = "Práce"
		}

		created, err = t.engine.recordWorkLogTx(st, familyID, WorkLogInput{
			Person:        person,
			Date:          end,
			StartTime:     *state.StartTime,
			EndTime:       &end,
			WorkedMinutes: workedMinutes,
			HourlyRate:    rate,
			Activity:      activity,
		})
		if err != nil {
			return err
		}

		_, err = st.UpdateTimerState(state.ID, map[string]interface{}{
			"is_running": false,
			"start_time": nil,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	timerStopsTotal.Inc()
	t.log.WithFields(logrus.Fields{
		"family":  familyID,
		"person":  person,
		"minutes": created.WorkedMinutes,
	}).Info("časovač zastaven, pracovní záznam vytvořen")
	return created, nil
}
