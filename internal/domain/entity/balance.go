package entity

import "github.com/shopspring/decimal"

// BalanceQueryResult is what the probe observes from GET /balance/{walletId}
type BalanceQueryResult struct {
	Status int
	// Balance is invalid when the field was missing, null or not a number.
	Balance   decimal.NullDecimal
	DecodeErr error
}

// NonNegative reports whether the response carried a balance >= 0
func (r *BalanceQueryResult) NonNegative() bool {
	if r == nil || r.DecodeErr != nil || !r.Balance.Valid {
		return false
	}
	return !r.Balance.Decimal.IsNegative()
}

// BalanceResponse is the part of the balance body the probe reads.
// decimal accepts both a JSON number and a numeric string.
type BalanceResponse struct {
	Balance decimal.NullDecimal `json:"balance"`
}
