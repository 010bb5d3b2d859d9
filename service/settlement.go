// Package service holds the business rules: the settlement engine turning
// work and income events into shared-fund movements, and the work timer
// state machine.
package service

import (
	"math"
	"sync"
	"time"

	"github.com/Martyparty1988/Workmm/apperr"
	"github.com/Martyparty1988/Workmm/config"
	"github.com/Martyparty1988/Workmm/models"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Engine applies the family's financial policy: earnings deductions into
// the shared account, same-day income offsetting, the monthly rent posting
// and greedy debt payoff.
//
// Every evaluation runs inside a single transaction and is serialized per
// family, so two concurrent submissions can never both read a stale shared
// balance and double-pay the same debt.
type Engine struct {
	db    *gorm.DB
	store *store.Store
	cfg   *config.SettlementConfig
	log   *logrus.Logger

	locks sync.Map // familyID -> *sync.Mutex
	now   func() time.Time
}

// NewEngine creates a settlement engine.
func NewEngine(db *gorm.DB, st *store.Store, cfg *config.SettlementConfig, log *logrus.Logger) *Engine {
	return &Engine{db: db, store: st, cfg: cfg, log: log, now: time.Now}
}

// lockFamily acquires the per-family settlement mutex and returns the
// unlock function.
func (e *Engine) lockFamily(familyID string) func() {
	v, _ := e.locks.LoadOrStore(familyID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Earnings is the gross pay for workedMinutes at hourlyRate, rounded to
// whole currency units.
func Earnings(workedMinutes int, hourlyRate int64) int64 {
	return int64(math.Round(float64(workedMinutes) / 60.0 * float64(hourlyRate)))
}

// Deduction is the part of earnings redirected to the shared account.
func (e *Engine) Deduction(earnings int64, person string) int64 {
	return int64(math.Round(float64(earnings) * e.cfg.DeductionRate(person)))
}

// WorkLogInput is a work log submission, either manual or materialized by a
// stopping timer.
type WorkLogInput struct {
	Person        string
	Date          time.Time
	StartTime     time.Time
	EndTime       *time.Time
	WorkedMinutes int
	HourlyRate    int64
	Activity      string
}

// RecordWorkLog computes the derived earnings and deduction, persists the
// work log and posts the deduction to the shared account as CZK income.
func (e *Engine) RecordWorkLog(familyID string, in WorkLogInput) (*models.WorkLog, error) {
	if !models.ValidPerson(in.Person) {
		return nil, apperr.Validation("neplatná osoba: %s", in.Person)
	}
	unlock := e.lockFamily(familyID)
	defer unlock()

	var created *models.WorkLog
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = e.recordWorkLogTx(e.store.WithTx(tx), familyID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// recordWorkLogTx is the transactional body shared with the timer stop path.
func (e *Engine) recordWorkLogTx(st *store.Store, familyID string, in WorkLogInput) (*models.WorkLog, error) {
	earnings := Earnings(in.WorkedMinutes, in.HourlyRate)
	w := &models.WorkLog{
		FamilyID:      familyID,
		Person:        in.Person,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		WorkedMinutes: in.WorkedMinutes,
		HourlyRate:    in.HourlyRate,
		Earnings:      earnings,
		Deduction:     e.Deduction(earnings, in.Person),
		Activity:      in.Activity,
	}
	if err := st.CreateWorkLog(w); err != nil {
		return nil, err
	}

	if w.Deduction > 0 {
		deduction := &models.Finance{
			FamilyID:    familyID,
			Type:        models.FinanceTypeIncome,
			Account:     models.AccountShared,
			Amount:      w.Deduction,
			Currency:    models.CurrencyCZK,
			FinalAmount: w.Deduction,
			Category:    models.CategoryDeduction,
			Description: "Srážka: " + w.Person,
			Date:        w.Date,
		}
		if err := st.CreateFinance(deduction); err != nil {
			return nil, err
		}
		e.log.WithFields(logrus.Fields{
			"family":    familyID,
			"person":    w.Person,
			"earnings":  w.Earnings,
			"deduction": w.Deduction,
		}).Info("srážka z výdělku zaúčtována")
	}
	return w, nil
}

// WorkLogPatch carries the editable fields of a work log; nil means keep.
type WorkLogPatch struct {
	Person        *string
	Date          *time.Time
	StartTime     *time.Time
	EndTime       *time.Time
	WorkedMinutes *int
	HourlyRate    *int64
	Activity      *string
}

// UpdateWorkLog merges the patch and recomputes earnings and deduction from
// the resulting duration, rate and person.
func (e *Engine) UpdateWorkLog(familyID string, id uint, patch WorkLogPatch) (*models.WorkLog, error) {
	if patch.Person != nil && !models.ValidPerson(*patch.Person) {
		return nil, apperr.Validation("neplatná osoba: %s", *patch.Person)
	}
	if patch.WorkedMinutes != nil && *patch.WorkedMinutes < 0 {
		return nil, apperr.Validation("odpracované minuty nesmí být záporné")
	}
	if patch.HourlyRate != nil && *patch.HourlyRate <= 0 {
		return nil, apperr.Validation("hodinová sazba musí být kladná")
	}
	unlock := e.lockFamily(familyID)
	defer unlock()

	var updated *models.WorkLog
	err := e.db.Transaction(func(tx *gorm.DB) error {
		st := e.store.WithTx(tx)
		current, err := st.WorkLogByID(familyID, id)
		if err != nil {
			return err
		}

		person := current.Person
		minutes := current.WorkedMinutes
		rate := current.HourlyRate
		if patch.Person != nil {
			person = *patch.Person
		}
		if patch.WorkedMinutes != nil {
			minutes = *patch.WorkedMinutes
		}
		if patch.HourlyRate != nil {
			rate = *patch.HourlyRate
		}
		earnings := Earnings(minutes, rate)

		updates := map[string]interface{}{
			"person":         person,
			"worked_minutes": minutes,
			"hourly_rate":    rate,
			"earnings":       earnings,
			"deduction":      e.Deduction(earnings, person),
		}
		if patch.Date != nil {
			updates["date"] = *patch.Date
		}
		if patch.StartTime != nil {
			updates["start_time"] = *patch.StartTime
		}
		if patch.EndTime != nil {
			updates["end_time"] = *patch.EndTime
		}
		if patch.Activity != nil {
			updates["activity"] = *patch.Activity
		}

		updated, err = st.UpdateWorkLog(familyID, id, updates)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteWorkLog removes a work log.
func (e *Engine) DeleteWorkLog(familyID string, id uint) error {
	unlock := e.lockFamily(familyID)
	defer unlock()
	return e.store.DeleteWorkLog(familyID, id)
}

// FinanceInput is an externally submitted ledger movement.
type FinanceInput struct {
	Type        string
	Account     string
	Amount      int64
	Currency    string
	Category    string
	Description string
	Date        time.Time
}

// DebtPaymentResult describes one debt touched by the payoff phase.
type DebtPaymentResult struct {
	Debt    *models.Debt
	Payment int64
	Entry   *models.Finance
}

// SettlementResult is the outcome of one finance submission: the stored
// entry plus everything the evaluation posted on the side.
type SettlementResult struct {
	Entry        *models.Finance
	Rent         *models.Finance
	DebtPayments []DebtPaymentResult
}

// SubmitFinance runs the full settlement pipeline for an external entry:
// ingest -> offset -> rent-check -> payoff, all inside one transaction.
// Entries the engine posts itself (deductions, rent, repayments) do not
// re-enter the pipeline.
func (e *Engine) SubmitFinance(familyID string, in FinanceInput) (*SettlementResult, error) {
	unlock := e.lockFamily(familyID)
	defer unlock()

	res := &SettlementResult{}
	err := e.db.Transaction(func(tx *gorm.DB) error {
		st := e.store.WithTx(tx)
		now := e.now()

		date := in.Date
		if date.IsZero() {
			date = now
		}
		entry := &models.Finance{
			FamilyID:    familyID,
			Type:        in.Type,
			Account:     in.Account,
			Amount:      in.Amount,
			Currency:    in.Currency,
			FinalAmount: in.Amount,
			Category:    in.Category,
			Description: in.Description,
			Date:        date,
		}

		// Offset phase: a same-day CZK cash income is already reflected in
		// the ledger through deductions, so it only counts above the day's
		// earnings.
		if entry.Type == models.FinanceTypeIncome && entry.Currency == models.CurrencyCZK {
			earned, err := st.TodayEarnings(familyID, entry.Date)
			if err != nil {
				return err
			}
			entry.OffsetAmount = ComputeOffset(entry.Amount, earned)
			entry.FinalAmount = entry.Amount - entry.OffsetAmount
		}
		if err := st.CreateFinance(entry); err != nil {
			return err
		}
		res.Entry = entry

		rent, err := e.checkRent(st, familyID, now)
		if err != nil {
			return err
		}
		res.Rent = rent

		res.DebtPayments, err = e.payoffDebts(st, familyID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ComputeOffset nets a same-day income against earnings already recorded.
func ComputeOffset(amount, todayEarnings int64) int64 {
	if todayEarnings < 0 {
		return 0
	}
	if amount < todayEarnings {
		return amount
	}
	return todayEarnings
}

// checkRent posts the monthly rent expense on the first day of the month,
// at most once per month per family.
func (e *Engine) checkRent(st *store.Store, familyID string, now time.Time) (*models.Finance, error) {
	if now.Day() != 1 {
		return nil, nil
	}
	posted, err := st.RentPostedInMonth(familyID, now)
	if err != nil {
		return nil, err
	}
	if posted {
		return nil, nil
	}
	rent := &models.Finance{
		FamilyID:    familyID,
		Type:        models.FinanceTypeExpense,
		Account:     models.AccountShared,
		Amount:      e.cfg.MonthlyRent,
		Currency:    models.CurrencyCZK,
		FinalAmount: e.cfg.MonthlyRent,
		Category:    models.CategoryHousing,
		Description: models.DescriptionRent,
		Date:        now,
	}
	if err := st.CreateFinance(rent); err != nil {
		return nil, err
	}
	rentPostedTotal.Inc()
	e.log.WithFields(logrus.Fields{"family": familyID, "amount": rent.Amount}).Info("nájem zaúčtován")
	return rent, nil
}

// PayoffStep is one planned repayment within a settlement evaluation.
type PayoffStep struct {
	DebtID  uint
	Payment int64
}

// PlanPayoff allocates balance greedily across active debts in payoff order
// (ascending priority, then ascending id): each debt gets
// min(balance, remaining) until the balance runs out. Deterministic, single
// pass, no backtracking.
func PlanPayoff(balance int64, debts []models.Debt) []PayoffStep {
	var steps []PayoffStep
	for _, d := range debts {
		if balance <= 0 {
			break
		}
		payment := d.RemainingAmount
		if balance < payment {
			payment = balance
		}
		if payment <= 0 {
			continue
		}
		steps = append(steps, PayoffStep{DebtID: d.ID, Payment: payment})
		balance -= payment
	}
	return steps
}

// payoffDebts drains the positive shared balance into active debts and
// posts a matching expense for every repayment.
func (e *Engine) payoffDebts(st *store.Store, familyID string, now time.Time) ([]DebtPaymentResult, error) {
	balance, err := st.SharedBalance(familyID)
	if err != nil {
		return nil, err
	}
	if balance <= 0 {
		return nil, nil
	}
	debts, err := st.ActiveDebts(familyID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Debt, len(debts))
	for i := range debts {
		byID[debts[i].ID] = &debts[i]
	}

	var results []DebtPaymentResult
	for _, step := range PlanPayoff(balance, debts) {
		debt := byID[step.DebtID]
		entry, err := e.applyPayment(st, debt, step.Payment, now)
		if err != nil {
			return nil, err
		}
		results = append(results, DebtPaymentResult{Debt: debt, Payment: step.Payment, Entry: entry})
		e.log.WithFields(logrus.Fields{
			"family":    familyID,
			"creditor":  debt.Creditor,
			"payment":   step.Payment,
			"remaining": debt.RemainingAmount,
		}).Info("splátka dluhu zaúčtována")
	}
	return results, nil
}

// applyPayment appends the payment to the debt's history, floors the
// remaining amount at zero and posts the matching shared expense.
func (e *Engine) applyPayment(st *store.Store, debt *models.Debt, amount int64, now time.Time) (*models.Finance, error) {
	debt.Payments = append(debt.Payments, models.DebtPayment{Amount: amount, Date: now})
	debt.RemainingAmount -= amount
	if debt.RemainingAmount < 0 {
		debt.RemainingAmount = 0
	}
	if err := st.SaveDebtPayments(debt); err != nil {
		return nil, err
	}

	entry := &models.Finance{
		FamilyID:    debt.FamilyID,
		Type:        models.FinanceTypeExpense,
		Account:     models.AccountShared,
		Amount:      amount,
		Currency:    debt.Currency,
		FinalAmount: amount,
		Category:    models.CategoryDebts,
		Description: "Splátka: " + debt.Creditor,
		Date:        now,
	}
	if err := st.CreateFinance(entry); err != nil {
		return nil, err
	}
	debtPaymentsTotal.Inc()
	return entry, nil
}

// PayDebt is an explicit repayment against one debt. It bypasses the
// priority order and does not re-enter the settlement pipeline.
func (e *Engine) PayDebt(familyID string, debtID uint, amount int64) (*models.Debt, *models.Finance, error) {
	if amount <= 0 {
		return nil, nil, apperr.Validation("částka splátky musí být kladná")
	}
	unlock := e.lockFamily(familyID)
	defer unlock()

	var (
		debt  *models.Debt
		entry *models.Finance
	)
	err := e.db.Transaction(func(tx *gorm.DB) error {
		st := e.store.WithTx(tx)
		var err error
		debt, err = st.DebtByID(familyID, debtID)
		if err != nil {
			return err
		}
		entry, err = e.applyPayment(st, debt, amount, e.now())
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return debt, entry, nil
}
