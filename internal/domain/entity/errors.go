package entity

import "errors"

var (
	ErrMissingWalletID      = errors.New("missing required field: walletId")
	ErrInvalidOperationType = errors.New("invalid operation type")
	ErrNegativeAmount       = errors.New("amount must not be negative")
)

var (
	ErrNoStages              = errors.New("load profile has no stages")
	ErrNegativeStageDuration = errors.New("stage duration must not be negative")
	ErrNegativeStageTarget   = errors.New("stage target must not be negative")
	ErrEmptyProfile          = errors.New("load profile has zero total duration")
)

var ErrInvalidBaseURL = errors.New("base url must be an absolute http(s) url")

// ErrChecksFailed is returned by a single probe run when any check failed
var ErrChecksFailed = errors.New("one or more checks failed")
