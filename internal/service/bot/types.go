package bot

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultStrategy = "simple_moving_average"

type StartBotReq struct {
	UserId       int64
	AllocationId int64
	CredentialId int64
	Strategy     string // 为空时使用默认策略
}

type StartBotResp struct {
	BotId    string
	Symbol   string
	Strategy string
	Amount   decimal.Decimal
}

type StopBotResp struct {
	BotId  string
	Symbol string
}

type BotStatus struct {
	AllocationId int64     `json:"allocation_id"`
	BotId        string    `json:"bot_id"`
	Symbol       string    `json:"symbol"`
	StartedAt    time.Time `json:"started_at"`
}

type StatusResp struct {
	TotalAllocations  int         `json:"total_allocations"`
	ActiveAllocations int         `json:"active_allocations"`
	RunningBots       int         `json:"running_bots"`
	Bots              []BotStatus `json:"bots"`
}

// Service bot 生命周期编排入口
type Service interface {
	StartBot(ctx context.Context, req StartBotReq) (StartBotResp, error)
	StopBot(ctx context.Context, userId, allocationId int64) (StopBotResp, error)
	GetStatus(ctx context.Context, userId int64) (StatusResp, error)
}
