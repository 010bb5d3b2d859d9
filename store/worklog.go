package store

import (
	"errors"
	"time"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/models"

	"gorm.io/gorm"
)

// CreateWorkLog validates and persists a new work log.
func (s *Store) CreateWorkLog(w *models.WorkLog) error {
	if w.FamilyID == "" {
		return apperr.Validation("chybí identifikátor rodiny")
	}
	if !models.ValidPerson(w.Person) {
		return apperr.Validation("neplatná osoba: %s", w.Person)
	}
	if w.WorkedMinutes < 0 {
		return apperr.Validation("odpracované minuty nesmí být záporné")
	}
	if w.HourlyRate <= 0 {
		return apperr.Validation("hodinová sazba musí být kladná")
	}
	if err := s.db.Create(w).Error; err != nil {
		return apperr.Storage(err, "vytvoření pracovního záznamu selhalo")
	}
	return nil
}

// WorkLogs lists the family's work logs, newest date first.
func (s *Store) WorkLogs(familyID string) ([]models.WorkLog, error) {
	var logs []models.WorkLog
	err := s.db.Where("family_id = ?", familyID).
		Order("date DESC").
		Find(&logs).Error
	if err != nil {
		return nil, apperr.Storage(err, "načtení pracovních záznamů selhalo")
	}
	return logs, nil
}

// WorkLogByID fetches one work log owned by the family.
func (s *Store) WorkLogByID(familyID string, id uint) (*models.WorkLog, error) {
	var w models.WorkLog
	err := s.db.Where("id = ? AND family_id = ?", id, familyID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("pracovní záznam %d nenalezen", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "načtení pracovního záznamu selhalo")
	}
	return &w, nil
}

// UpdateWorkLog merges the given columns into an existing work log and
// returns the stored row.
func (s *Store) UpdateWorkLog(familyID string, id uint, updates map[string]interface{}) (*models.WorkLog, error) {
	w, err := s.WorkLogByID(familyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(w).Updates(updates).Error; err != nil {
		return nil, apperr.Storage(err, "aktualizace pracovního záznamu selhala")
	}
	return w, nil
}

// DeleteWorkLog removes a work log owned by the family.
func (s *Store) DeleteWorkLog(familyID string, id uint) error {
	w, err := s.WorkLogByID(familyID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(w).Error; err != nil {
		return apperr.Storage(err, "smazání pracovního záznamu selhalo")
	}
	return nil
}

// TodayEarnings sums earnings across the family's work logs whose date
// falls within the local calendar day containing date.
func (s *Store) TodayEarnings(familyID string, date time.Time) (int64, error) {
	start, end := dayBounds(date)
	var total int64
	err := s.db.Model(&models.WorkLog{}).
		Where("family_id = ? AND date >= ? AND date <= ?", familyID, start, end).
		Select("COALESCE(SUM(earnings), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperr.Storage(err, "součet denních výdělků selhal")
	}
	return total, nil
}
