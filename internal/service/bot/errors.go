package bot

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrAllocationInactive = errors.New("allocation inactive")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrAlreadyRunning     = errors.New("bot already running for this allocation")
	ErrNoRunningBot       = errors.New("no running bot for this allocation")
	ErrBalanceUnavailable = errors.New("exchange balance unavailable")
	ErrEngineUnavailable  = errors.New("execution engine unavailable")
	ErrUnsupportedSymbol  = errors.New("unrecognized quote asset in symbol")
)

// InsufficientBalanceError 余额不足, 带上差多少, 方便前端直接展示
type InsufficientBalanceError struct {
	Asset     string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: required %s, available %s",
		e.Asset, e.Required.String(), e.Available.String())
}
