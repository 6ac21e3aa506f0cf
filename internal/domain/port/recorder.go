package port

import (
	"context"
	"time"

	"walletprobe.com/internal/domain/entity"
)

// CheckRecorder is the port for collecting check outcomes across a run
type CheckRecorder interface {
	RecordCheck(ctx context.Context, check entity.CheckResult)
	RecordIteration(ctx context.Context, duration time.Duration)
}
