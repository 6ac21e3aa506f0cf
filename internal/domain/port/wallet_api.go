package port

import (
	"context"

	"github.com/google/uuid"

	"walletprobe.com/internal/domain/entity"
)

// WalletAPI is the port for the external wallet service.
// An error means the request never produced an HTTP response.
type WalletAPI interface {
	ApplyOperation(ctx context.Context, req entity.WalletOperationRequest) (*entity.OperationResult, error)
	GetBalance(ctx context.Context, walletID uuid.UUID) (*entity.BalanceQueryResult, error)
}
