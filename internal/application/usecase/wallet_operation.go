package usecase

import (
	"context"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/domain/port"
)

// WalletOperationUseCase sends deposits and withdrawals to the wallet service
type WalletOperationUseCase struct {
	api port.WalletAPI
}

// NewWalletOperationUseCase creates a new WalletOperationUseCase
func NewWalletOperationUseCase(api port.WalletAPI) *WalletOperationUseCase {
	return &WalletOperationUseCase{
		api: api,
	}
}

// Execute validates the request and sends it
func (uc *WalletOperationUseCase) Execute(ctx context.Context, req entity.WalletOperationRequest) (*entity.OperationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return uc.api.ApplyOperation(ctx, req)
}
