package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DebtPayment is one repayment applied to a debt.
type DebtPayment struct {
	Amount int64     `json:"amount"`
	Date   time.Time `json:"date"`
}

// DebtPayments is the append-only payment history, stored as a JSON column.
type DebtPayments []DebtPayment

// Value implements driver.Valuer.
func (p DebtPayments) Value() (driver.Value, error) {
	if p == nil {
		p = DebtPayments{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *DebtPayments) Scan(value interface{}) error {
	if value == nil {
		*p = DebtPayments{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("neočekávaný typ sloupce payments: %T", value)
	}
}

// Total is the sum of all recorded payments.
func (p DebtPayments) Total() int64 {
	var sum int64
	for _, payment := range p {
		sum += payment.Amount
	}
	return sum
}

// Debt is money owed to a single creditor. RemainingAmount only ever
// decreases; payments are appended, never removed. A debt stays active
// while RemainingAmount >= 1.
type Debt struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	FamilyID        string         `json:"family_id" gorm:"size:64;index;not null"`
	Creditor        string         `json:"creditor" gorm:"size:100;not null"`
	Amount          int64          `json:"amount" gorm:"not null"`
	Currency        string         `json:"currency" gorm:"size:8;not null"`
	RemainingAmount int64          `json:"remaining_amount" gorm:"not null"`
	DueDate         *time.Time     `json:"due_date,omitempty"`
	Priority        int            `json:"priority" gorm:"index;not null"`
	Payments        DebtPayments   `json:"payments" gorm:"type:json"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Debt) TableName() string {
	return "debts"
}

// Active reports whether the debt still has at least one minor unit owed.
func (d *Debt) Active() bool {
	return d.RemainingAmount >= 1
}
