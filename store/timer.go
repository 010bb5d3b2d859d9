package store

import (
	"errors"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/models"

	"gorm.io/gorm"
)

// TimerState fetches the timer row for (family, person). Returns (nil, nil)
// when no row exists yet; the caller treats that as idle.
func (s *Store) TimerState(familyID, person string) (*models.TimerState, error) {
	var t models.TimerState
	err := s.db.Where("family_id = ? AND person = ?", familyID, person).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "načtení stavu časovače selhalo")
	}
	return &t, nil
}

// CreateTimerState persists a new timer row.
func (s *Store) CreateTimerState(t *models.TimerState) error {
	if t.FamilyID == "" {
		return apperr.Validation("chybí identifikátor rodiny")
	}
	if !models.ValidPerson(t.Person) {
		return apperr.Validation("neplatná osoba: %s", t.Person)
	}
	if err := s.db.Create(t).Error; err != nil {
		return apperr.Storage(err, "vytvoření stavu časovače selhalo")
	}
	return nil
}

// UpdateTimerState merges the given columns into an existing timer row and
// returns the stored row.
func (s *Store) UpdateTimerState(id uint, updates map[string]interface{}) (*models.TimerState, error) {
	var t models.TimerState
	err := s.db.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("stav časovače %d nenalezen", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "načtení stavu časovače selhalo")
	}
	if err := s.db.Model(&t).Updates(updates).Error; err != nil {
		return nil, apperr.Storage(err, "aktualizace stavu časovače selhala")
	}
	return &t, nil
}
