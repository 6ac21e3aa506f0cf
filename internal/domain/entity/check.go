package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Check names, as reported in the run summary
const (
	CheckDepositStatus  = "Deposit status is 200"
	CheckWithdrawStatus = "Withdraw status is 200"
	CheckBalanceStatus  = "Get balance status is 200"
	CheckBalanceAmount  = "Balance contains amount"
)

// CheckResult is one evaluated assertion
type CheckResult struct {
	Name   string
	Passed bool
}

// IterationReport holds the checks of a single probe iteration
type IterationReport struct {
	Checks   []CheckResult
	Duration time.Duration
}

// Failed returns the checks that did not pass
func (r IterationReport) Failed() []CheckResult {
	var failed []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// CheckTally counts the outcomes of one named check across a run
type CheckTally struct {
	Name   string
	Passes int64
	Fails  int64
}

// Total returns the number of evaluations
func (t CheckTally) Total() int64 {
	return t.Passes + t.Fails
}

// PassRate returns the share of passes as a percentage with two decimals
func (t CheckTally) PassRate() string {
	if t.Total() == 0 {
		return "0.00"
	}
	rate := decimal.NewFromInt(t.Passes).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(t.Total()))
	return rate.StringFixed(2)
}

// Summary is the end-of-run view of all checks
type Summary struct {
	Checks     []CheckTally
	Iterations int64
}

// Failures returns the number of failed evaluations over all checks
func (s Summary) Failures() int64 {
	var n int64
	for _, c := range s.Checks {
		n += c.Fails
	}
	return n
}
