// Package interest holds the pure rate math: daily-compounded deposit
// earnings and simple-interest loan totals. No I/O, no clocks — callers pass
// every timestamp in.
package interest

import (
	"math"
	"time"
)

const (
	bpsDenominator = 10000.0
	daysPerYear    = 365.0
)

// DailyRate converts an annual yield in basis points to a daily compounding rate.
func DailyRate(apyBps int) float64 {
	return (float64(apyBps) / bpsDenominator) / daysPerYear
}

// DepositEarned returns the interest earned on principal between from and
// until, compounded daily. Zero or negative elapsed time earns nothing; the
// result is never negative.
func DepositEarned(principal float64, apyBps int, from, until time.Time) float64 {
	if principal <= 0 || apyBps <= 0 {
		return 0
	}
	days := until.Sub(from).Hours() / 24
	if days <= 0 {
		return 0
	}
	earned := principal * (math.Pow(1+DailyRate(apyBps), days) - 1)
	if earned < 0 {
		return 0
	}
	return earned
}

// MonthlyWindowStart returns the accrual start for "this month" displays: the
// later of the deposit origination and the first instant of now's month.
func MonthlyWindowStart(depositedAt, now time.Time) time.Time {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if depositedAt.After(monthStart) {
		return depositedAt
	}
	return monthStart
}

// LoanTotalDue is the simple-interest settlement amount:
// principal + principal × (ratePercent/100) × durationMonths.
// A zero rate or duration means the principal alone is due.
func LoanTotalDue(principal, ratePercent float64, durationMonths int) float64 {
	if principal <= 0 {
		return 0
	}
	if ratePercent <= 0 || durationMonths <= 0 {
		return principal
	}
	return principal + principal*(ratePercent/100)*float64(durationMonths)
}

// DueDate is origination plus a whole number of months.
func DueDate(borrowedAt time.Time, durationMonths int) time.Time {
	return borrowedAt.AddDate(0, durationMonths, 0)
}
