package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/domain/port"
	"walletprobe.com/internal/infrastructure/logger"
)

const (
	DefaultDepositAmount  int64 = 10
	DefaultWithdrawAmount int64 = 5
	DefaultThinkTime            = 100 * time.Millisecond
)

// ProbeConfig fixes what a probe iteration sends
type ProbeConfig struct {
	WalletID       uuid.UUID
	DepositAmount  int64
	WithdrawAmount int64
	ThinkTime      time.Duration
}

// DefaultProbeConfig deposits 10, withdraws 5 and pauses 100ms
func DefaultProbeConfig(walletID uuid.UUID) ProbeConfig {
	return ProbeConfig{
		WalletID:       walletID,
		DepositAmount:  DefaultDepositAmount,
		WithdrawAmount: DefaultWithdrawAmount,
		ThinkTime:      DefaultThinkTime,
	}
}

// ProbeIterationUseCase runs one deposit, withdraw, balance sequence and
// checks every response. Failed checks are recorded, never returned.
type ProbeIterationUseCase struct {
	operations *WalletOperationUseCase
	balances   *GetBalanceUseCase
	recorder   port.CheckRecorder
	logger     logger.Logger
	cfg        ProbeConfig
}

// NewProbeIterationUseCase creates a new ProbeIterationUseCase
func NewProbeIterationUseCase(
	api port.WalletAPI,
	recorder port.CheckRecorder,
	logger logger.Logger,
	cfg ProbeConfig,
) *ProbeIterationUseCase {
	return &ProbeIterationUseCase{
		operations: NewWalletOperationUseCase(api),
		balances:   NewGetBalanceUseCase(api),
		recorder:   recorder,
		logger:     logger,
		cfg:        cfg,
	}
}

// Execute runs the three calls in order, then pauses for the think time
func (uc *ProbeIterationUseCase) Execute(ctx context.Context) entity.IterationReport {
	start := time.Now()
	var report entity.IterationReport

	check := func(name string, passed bool, attrs ...any) {
		result := entity.CheckResult{Name: name, Passed: passed}
		report.Checks = append(report.Checks, result)
		uc.recorder.RecordCheck(ctx, result)
		if !passed {
			uc.logger.LogWarning(ctx, "Check failed", append([]any{"check", name}, attrs...)...)
		}
	}

	deposit := entity.NewWalletOperationRequest(uc.cfg.WalletID, entity.Deposit, uc.cfg.DepositAmount)
	res, err := uc.operations.Execute(ctx, deposit)
	check(entity.CheckDepositStatus, operationOK(res, err), failureAttrs(operationStatus(res), err)...)

	withdraw := entity.NewWalletOperationRequest(uc.cfg.WalletID, entity.Withdraw, uc.cfg.WithdrawAmount)
	res, err = uc.operations.Execute(ctx, withdraw)
	check(entity.CheckWithdrawStatus, operationOK(res, err), failureAttrs(operationStatus(res), err)...)

	balance, err := uc.balances.Execute(ctx, uc.cfg.WalletID)
	balanceStatus := 0
	var decodeErr error
	if balance != nil {
		balanceStatus = balance.Status
		decodeErr = balance.DecodeErr
	}
	check(entity.CheckBalanceStatus, err == nil && balanceStatus == http.StatusOK, failureAttrs(balanceStatus, err)...)
	if err == nil && decodeErr != nil {
		err = decodeErr
	}
	check(entity.CheckBalanceAmount, balance.NonNegative(), failureAttrs(balanceStatus, err)...)

	report.Duration = time.Since(start)
	uc.recorder.RecordIteration(ctx, report.Duration)

	uc.pause(ctx)
	return report
}

func (uc *ProbeIterationUseCase) pause(ctx context.Context) {
	if uc.cfg.ThinkTime <= 0 {
		return
	}
	timer := time.NewTimer(uc.cfg.ThinkTime)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func operationOK(res *entity.OperationResult, err error) bool {
	return err == nil && res != nil && res.Status == http.StatusOK
}

func operationStatus(res *entity.OperationResult) int {
	if res == nil {
		return 0
	}
	return res.Status
}

func failureAttrs(status int, err error) []any {
	attrs := []any{"status", status}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	return attrs
}
