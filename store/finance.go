package store

import (
	"errors"
	"time"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/models"

	"gorm.io/gorm"
)

// CreateFinance validates and persists a new ledger movement. The derived
// FinalAmount must already be set by the caller (the settlement engine).
func (s *Store) CreateFinance(f *models.Finance) error {
	if f.FamilyID == "" {
		return apperr.Validation("chybí identifikátor rodiny")
	}
	if !models.ValidFinanceType(f.Type) {
		return apperr.Validation("neplatný typ záznamu: %s", f.Type)
	}
	if !models.ValidAccount(f.Account) {
		return apperr.Validation("neplatný účet: %s", f.Account)
	}
	if !models.ValidCurrency(f.Currency) {
		return apperr.Validation("neplatná měna: %s", f.Currency)
	}
	if f.Amount <= 0 {
		return apperr.Validation("částka musí být kladná")
	}
	if f.Category == "" {
		return apperr.Validation("chybí kategorie")
	}
	if err := s.db.Create(f).Error; err != nil {
		return apperr.Storage(err, "vytvoření finančního záznamu selhalo")
	}
	return nil
}

// Finances lists the family's ledger movements, newest date first.
func (s *Store) Finances(familyID string) ([]models.Finance, error) {
	var list []models.Finance
	err := s.db.Where("family_id = ?", familyID).
		Order("date DESC").
		Find(&list).Error
	if err != nil {
		return nil, apperr.Storage(err, "načtení finančních záznamů selhalo")
	}
	return list, nil
}

// FinanceByID fetches one ledger movement owned by the family.
func (s *Store) FinanceByID(familyID string, id uint) (*models.Finance, error) {
	var f models.Finance
	err := s.db.Where("id = ? AND family_id = ?", id, familyID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("finanční záznam %d nenalezen", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "načtení finančního záznamu selhalo")
	}
	return &f, nil
}

// DeleteFinance removes a ledger movement owned by the family.
func (s *Store) DeleteFinance(familyID string, id uint) error {
	f, err := s.FinanceByID(familyID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(f).Error; err != nil {
		return apperr.Storage(err, "smazání finančního záznamu selhalo")
	}
	return nil
}

// SharedBalance computes the shared account balance: incomes count with
// their final (post-offset) amount, expenses with their full amount.
func (s *Store) SharedBalance(familyID string) (int64, error) {
	var balance int64
	err := s.db.Model(&models.Finance{}).
		Where("family_id = ? AND account = ?", familyID, models.AccountShared).
		Select("COALESCE(SUM(CASE WHEN type = 'income' THEN final_amount ELSE -amount END), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, apperr.Storage(err, "výpočet zůstatku společného účtu selhal")
	}
	return balance, nil
}

// RentPostedInMonth reports whether a shared housing expense already exists
// in the month containing t. Guards the rent trigger against double posting.
func (s *Store) RentPostedInMonth(familyID string, t time.Time) (bool, error) {
	start, next := monthBounds(t)
	var count int64
	err := s.db.Model(&models.Finance{}).
		Where("family_id = ? AND account = ? AND type = ? AND category = ? AND date >= ? AND date < ?",
			familyID, models.AccountShared, models.FinanceTypeExpense, models.CategoryHousing, start, next).
		Count(&count).Error
	if err != nil {
		return false, apperr.Storage(err, "kontrola zaúčtování nájmu selhala")
	}
	return count > 0, nil
}
