package entity

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType is the kind of balance change sent to the wallet service
type OperationType string

const (
	Deposit  OperationType = "DEPOSIT"
	Withdraw OperationType = "WITHDRAW"
)

// IsValid reports whether the wallet service understands the operation type
func (t OperationType) IsValid() bool {
	switch t {
	case Deposit, Withdraw:
		return true
	}
	return false
}

// WalletOperationRequest is the body of POST /wallet
type WalletOperationRequest struct {
	WalletID      uuid.UUID
	OperationType OperationType
	Amount        decimal.Decimal
}

// NewWalletOperationRequest builds a request for a whole-unit amount
func NewWalletOperationRequest(walletID uuid.UUID, op OperationType, amount int64) WalletOperationRequest {
	return WalletOperationRequest{
		WalletID:      walletID,
		OperationType: op,
		Amount:        decimal.NewFromInt(amount),
	}
}

// Validate validates the operation request
func (r *WalletOperationRequest) Validate() error {
	if r.WalletID == uuid.Nil {
		return ErrMissingWalletID
	}
	if !r.OperationType.IsValid() {
		return ErrInvalidOperationType
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

type walletOperationWire struct {
	WalletID      string        `json:"walletId"`
	OperationType OperationType `json:"operationType"`
	Amount        json.Number   `json:"amount"`
}

// MarshalJSON writes the amount as a bare JSON number; services decoding
// the amount into an integer reject decimal's default quoted form.
func (r WalletOperationRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(walletOperationWire{
		WalletID:      r.WalletID.String(),
		OperationType: r.OperationType,
		Amount:        json.Number(r.Amount.String()),
	})
}

// OperationResult is what the probe observes from POST /wallet
type OperationResult struct {
	Status int
}
