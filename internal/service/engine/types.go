package engine

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrBotNotFound 引擎侧已经没有这个 bot 了
var ErrBotNotFound = errors.New("engine: bot not found")

type StartExecutionReq struct {
	UserId       int64
	CredentialId int64
	Symbol       string
	Amount       decimal.Decimal
	Strategy     string
	ApiKey       string
	ApiSecret    string
}

type StopExecutionReq struct {
	UserId int64
	BotId  string
}

// Client 驱动独立的策略执行引擎, 编排层只信任它返回的成败和 bot id
type Client interface {
	StartExecution(ctx context.Context, req StartExecutionReq) (string, error)
	StopExecution(ctx context.Context, req StopExecutionReq) error
	RunningBots(ctx context.Context) ([]string, error)
}
