package store

import (
	"errors"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/models"

	"gorm.io/gorm"
)

// CreateDebt validates and persists a new debt. RemainingAmount defaults to
// the full amount when unset.
func (s *Store) CreateDebt(d *models.Debt) error {
	if d.FamilyID == "" {
		return apperr.Validation("chybí identifikátor rodiny")
	}
	if d.Creditor == "" {
		return apperr.Validation("chybí věřitel")
	}
	if d.Amount <= 0 {
		return apperr.Validation("částka dluhu musí být kladná")
	}
	if !models.ValidCurrency(d.Currency) {
		return apperr.Validation("neplatná měna: %s", d.Currency)
	}
	if d.RemainingAmount == 0 {
		d.RemainingAmount = d.Amount
	}
	if d.RemainingAmount < 0 || d.RemainingAmount > d.Amount {
		return apperr.Validation("zbývající částka musí být v rozsahu 0 až %d", d.Amount)
	}
	if d.Payments == nil {
		d.Payments = models.DebtPayments{}
	}
	if err := s.db.Create(d).Error; err != nil {
		return apperr.Storage(err, "vytvoření dluhu selhalo")
	}
	return nil
}

// Debts lists the family's debts by ascending priority; ties resolve by
// ascending id, i.e. creation order.
func (s *Store) Debts(familyID string) ([]models.Debt, error) {
	var list []models.Debt
	err := s.db.Where("family_id = ?", familyID).
		Order("priority ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, apperr.Storage(err, "načtení dluhů selhalo")
	}
	return list, nil
}

// ActiveDebts lists debts with at least one unit still owed, in payoff
// order (ascending priority, then ascending id).
func (s *Store) ActiveDebts(familyID string) ([]models.Debt, error) {
	var list []models.Debt
	err := s.db.Where("family_id = ? AND remaining_amount >= 1", familyID).
		Order("priority ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, apperr.Storage(err, "načtení aktivních dluhů selhalo")
	}
	return list, nil
}

// DebtByID fetches one debt owned by the family.
func (s *Store) DebtByID(familyID string, id uint) (*models.Debt, error) {
	var d models.Debt
	err := s.db.Where("id = ? AND family_id = ?", id, familyID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("dluh %d nenalezen", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "načtení dluhu selhalo")
	}
	return &d, nil
}

// UpdateDebt merges the given columns into an existing debt and returns the
// stored row.
func (s *Store) UpdateDebt(familyID string, id uint, updates map[string]interface{}) (*models.Debt, error) {
	d, err := s.DebtByID(familyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(d).Updates(updates).Error; err != nil {
		return nil, apperr.Storage(err, "aktualizace dluhu selhala")
	}
	return d, nil
}

// SaveDebtPayments persists a changed payment history together with the
// decremented remaining amount.
func (s *Store) SaveDebtPayments(d *models.Debt) error {
	err := s.db.Model(d).Updates(map[string]interface{}{
		"remaining_amount": d.RemainingAmount,
		"payments":         d.Payments,
	}).Error
	if err != nil {
		return apperr.Storage(err, "uložení splátky dluhu selhalo")
	}
	return nil
}

// DeleteDebt removes a debt owned by the family.
func (s *Store) DeleteDebt(familyID string, id uint) error {
	d, err := s.DebtByID(familyID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(d).Error; err != nil {
		return apperr.Storage(err, "smazání dluhu selhalo")
	}
	return nil
}
