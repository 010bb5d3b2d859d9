package models

import (
	"time"

	"gorm.io/gorm"
)

// Finance types.
const (
	FinanceTypeIncome  = "income"
	FinanceTypeExpense = "expense"
)

// Finance accounts.
const (
	AccountMaru   = "maru"
	AccountMarty  = "marty"
	AccountShared = "shared"
)

// Supported currencies.
const (
	CurrencyCZK = "CZK"
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
)

// Categories used by the settlement engine for its own postings.
const (
	CategoryDeduction = "Srážky z výdělku"
	CategoryHousing   = "Bydlení"
	CategoryDebts     = "Dluhy"

	DescriptionRent = "Nájem"
)

// Finance is a single ledger movement. Invariant: FinalAmount =
// Amount - OffsetAmount; OffsetAmount is non-zero only for CZK income
// entries netted against same-day earnings.
type Finance struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	FamilyID     string         `json:"family_id" gorm:"size:64;index;not null"`
	Type         string         `json:"type" gorm:"size:16;not null"`
	Account      string         `json:"account" gorm:"size:16;not null"`
	Amount       int64          `json:"amount" gorm:"not null"`
	Currency     string         `json:"currency" gorm:"size:8;not null"`
	OffsetAmount int64          `json:"offset_amount" gorm:"not null;default:0"`
	FinalAmount  int64          `json:"final_amount" gorm:"not null;default:0"`
	Category     string         `json:"category" gorm:"size:100;not null"`
	Description  string         `json:"description" gorm:"size:255"`
	Date         time.Time      `json:"date" gorm:"index;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Finance) TableName() string {
	return "finances"
}

// ValidFinanceType reports whether t is a known entry type.
func ValidFinanceType(t string) bool {
	return t == FinanceTypeIncome || t == FinanceTypeExpense
}

// ValidAccount reports whether a is a known account.
func ValidAccount(a string) bool {
	return a == AccountMaru || a == AccountMarty || a == AccountShared
}

// ValidCurrency reports whether c is a supported currency.
func ValidCurrency(c string) bool {
	return c == CurrencyCZK || c == CurrencyEUR || c == CurrencyUSD
}
