// Package finance provides the credit and insurance subsystems: simple-interest
// loans with default marking, and per-type insurance policies with premium
// collection and claim payout.
package finance

// LoanStatus tracks a loan through its lifecycle.
type LoanStatus uint8

const (
	LoanActive LoanStatus = iota
	LoanRepaid
	LoanDefaulted
)

// String returns the status name.
func (s LoanStatus) String() string {
	switch s {
	case LoanActive:
		return "Active"
	case LoanRepaid:
		return "Repaid"
	case LoanDefaulted:
		return "Defaulted"
	}
	return "Unknown"
}

// Loan is a simple-interest loan between two persons. The total owed is
// principal plus principal×rate×periods, paid in equal installments.
type Loan struct {
	ID           int        `json:"id"`
	BorrowerID   int        `json:"borrower_id"`
	LenderID     int        `json:"lender_id"`
	Principal    float64    `json:"principal"`
	InterestRate float64    `json:"interest_rate"`
	Periods      int        `json:"periods"`
	Remaining    float64    `json:"remaining"`
	PaymentsMade int        `json:"payments_made"`
	IssuedAt     int        `json:"issued_at"`
	Status       LoanStatus `json:"status"`
}

// NewLoan originates a loan at the given step.
func NewLoan(id, borrower, lender int, principal, rate float64, periods, issuedAt int) *Loan {
	return &Loan{
		ID:           id,
		BorrowerID:   borrower,
		LenderID:     lender,
		Principal:    principal,
		InterestRate: rate,
		Periods:      periods,
		Remaining:    principal,
		IssuedAt:     issuedAt,
		Status:       LoanActive,
	}
}

// PaymentAmount returns the per-period installment:
// (principal + principal×rate×periods) / periods.
func (l *Loan) PaymentAmount() float64 {
	totalOwed := l.Principal + l.Principal*l.InterestRate*float64(l.Periods)
	return totalOwed / float64(l.Periods)
}

// MakePayment records one installment, reducing the remaining principal by
// principal/periods. The loan is repaid once all payments are made or the
// remainder drops below a cent.
func (l *Loan) MakePayment() {
	if l.Status != LoanActive {
		return
	}
	l.PaymentsMade++
	l.Remaining -= l.Principal / float64(l.Periods)
	if l.PaymentsMade >= l.Periods || l.Remaining < 0.01 {
		l.Remaining = 0
		l.Status = LoanRepaid
	}
}

// MarkDefaulted flags the loan after an unaffordable payment. Collection
// stops; the remaining balance is written off.
func (l *Loan) MarkDefaulted() {
	if l.Status == LoanActive {
		l.Status = LoanDefaulted
	}
}

// OutstandingDebt returns what the borrower still owes, including the
// interest on remaining periods.
func (l *Loan) OutstandingDebt() float64 {
	if l.Status != LoanActive {
		return 0
	}
	remainingPeriods := l.Periods - l.PaymentsMade
	return l.PaymentAmount() * float64(remainingPeriods)
}

// LoanStats summarizes credit activity across a run.
type LoanStats struct {
	TotalIssued    int     `json:"total_issued"`
	TotalRepaid    int     `json:"total_repaid"`
	TotalDefaulted int     `json:"total_defaulted"`
	TotalPrincipal float64 `json:"total_principal"`
}
