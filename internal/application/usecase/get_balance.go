package usecase

import (
	"context"

	"github.com/google/uuid"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/domain/port"
)

// GetBalanceUseCase handles balance retrieval
type GetBalanceUseCase struct {
	api port.WalletAPI
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase
func NewGetBalanceUseCase(api port.WalletAPI) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		api: api,
	}
}

// Execute retrieves the balance for a wallet
func (uc *GetBalanceUseCase) Execute(ctx context.Context, walletID uuid.UUID) (*entity.BalanceQueryResult, error) {
	if walletID == uuid.Nil {
		return nil, entity.ErrMissingWalletID
	}
	return uc.api.GetBalance(ctx, walletID)
}
