package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/vatrade/orchestrator/internal/entity"
	"github.com/vatrade/orchestrator/internal/repo"
	"github.com/vatrade/orchestrator/internal/service/engine"
	"github.com/vatrade/orchestrator/internal/service/exchange"
	"gorm.io/gorm"
)

var _ Service = (*Orchestrator)(nil)

// 常见计价资产, 长的在前, 避免 BTCUSDT 被按 BTC 结尾匹配
var quoteAssets = []string{"FDUSD", "USDT", "USDC", "BUSD", "TUSD", "BTC", "ETH", "BNB"}

type Orchestrator struct {
	allocationRepo repo.AllocationRepo
	credentialRepo repo.CredentialRepo
	balanceSvc     exchange.BalanceService
	engineCli      engine.Client
	registry       Registry

	defaultStrategy string
}

type Option func(o *Orchestrator)

func WithDefaultStrategy(strategy string) Option {
	return func(o *Orchestrator) {
		o.defaultStrategy = strategy
	}
}

func NewOrchestrator(allocationRepo repo.AllocationRepo, credentialRepo repo.CredentialRepo,
	balanceSvc exchange.BalanceService, engineCli engine.Client, registry Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		allocationRepo:  allocationRepo,
		credentialRepo:  credentialRepo,
		balanceSvc:      balanceSvc,
		engineCli:       engineCli,
		registry:        registry,
		defaultStrategy: DefaultStrategy,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) StartBot(ctx context.Context, req StartBotReq) (StartBotResp, error) {
	allocation, err := o.allocationRepo.FindByIdAndUser(ctx, req.AllocationId, req.UserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StartBotResp{}, ErrAllocationNotFound
		}
		return StartBotResp{}, fmt.Errorf("failed to load allocation: %w", err)
	}
	if !allocation.Active {
		return StartBotResp{}, ErrAllocationInactive
	}

	// 先查本地表, 避免白白打一圈远程调用
	if o.registry.IsRunning(req.AllocationId) {
		return StartBotResp{}, ErrAlreadyRunning
	}

	// 认不出计价资产就没法卡余额, 不能拿不相干的余额放行
	quote, ok := quoteAsset(allocation.Symbol)
	if !ok {
		slog.Warn("unrecognized quote asset", "symbol", allocation.Symbol, "allocationId", req.AllocationId)
		return StartBotResp{}, ErrUnsupportedSymbol
	}

	credential, err := o.credentialRepo.FindByIdAndUser(ctx, req.CredentialId, req.UserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StartBotResp{}, ErrCredentialNotFound
		}
		return StartBotResp{}, fmt.Errorf("failed to load credential: %w", err)
	}

	// 余额查不到就是查不到, 不能当成够用
	balances, err := o.balanceSvc.GetBalances(ctx, credential.ApiKey, credential.ApiSecret)
	if err != nil {
		slog.Error("balance gateway failed", "userId", req.UserId, "allocationId", req.AllocationId, "error", err)
		return StartBotResp{}, fmt.Errorf("%w: %s", ErrBalanceUnavailable, err)
	}
	if len(balances) == 0 {
		return StartBotResp{}, ErrBalanceUnavailable
	}

	available := balances[quote].Total
	if available.LessThan(allocation.Amount) {
		return StartBotResp{}, &InsufficientBalanceError{
			Asset:     quote,
			Required:  allocation.Amount,
			Available: available,
		}
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = o.defaultStrategy
	}

	botId, err := o.engineCli.StartExecution(ctx, engine.StartExecutionReq{
		UserId:       req.UserId,
		CredentialId: req.CredentialId,
		Symbol:       allocation.Symbol,
		Amount:       allocation.Amount,
		Strategy:     strategy,
		ApiKey:       credential.ApiKey,
		ApiSecret:    credential.ApiSecret,
	})
	if err != nil {
		slog.Error("engine start failed", "userId", req.UserId, "allocationId", req.AllocationId, "error", err)
		return StartBotResp{}, fmt.Errorf("%w: %s", ErrEngineUnavailable, err)
	}

	if _, err = o.registry.Register(req.AllocationId, botId, allocation.Symbol, req.UserId); err != nil {
		// 并发 start 输掉了注册, 引擎里多出来的那个必须立刻停掉
		slog.Warn("lost registration race, stopping duplicate bot", "allocationId", req.AllocationId, "botId", botId)
		if stopErr := o.engineCli.StopExecution(ctx, engine.StopExecutionReq{UserId: req.UserId, BotId: botId}); stopErr != nil {
			slog.Error("failed to stop duplicate bot, operator attention needed",
				"allocationId", req.AllocationId, "botId", botId, "error", stopErr)
		}
		return StartBotResp{}, ErrAlreadyRunning
	}

	slog.Info("bot started", "userId", req.UserId, "allocationId", req.AllocationId,
		"botId", botId, "symbol", allocation.Symbol, "strategy", strategy)
	return StartBotResp{
		BotId:    botId,
		Symbol:   allocation.Symbol,
		Strategy: strategy,
		Amount:   allocation.Amount,
	}, nil
}

func (o *Orchestrator) StopBot(ctx context.Context, userId, allocationId int64) (StopBotResp, error) {
	// 归属校验和删除必须是一步, 别人的 bot 对这个用户来说等于不存在
	running, err := o.registry.UnregisterOwned(allocationId, userId)
	if err != nil {
		return StopBotResp{}, ErrNoRunningBot
	}

	// 用户已经明确要求停止, 本地登记先删, 远程失败只告警不回滚
	err = o.engineCli.StopExecution(ctx, engine.StopExecutionReq{UserId: userId, BotId: running.BotId})
	if err != nil && !errors.Is(err, engine.ErrBotNotFound) {
		slog.Error("engine stop failed after unregister, operator attention needed",
			"userId", userId, "allocationId", allocationId, "botId", running.BotId, "error", err)
	}

	slog.Info("bot stopped", "userId", userId, "allocationId", allocationId, "botId", running.BotId)
	return StopBotResp{
		BotId:  running.BotId,
		Symbol: running.Symbol,
	}, nil
}

func (o *Orchestrator) GetStatus(ctx context.Context, userId int64) (StatusResp, error) {
	allocations, err := o.allocationRepo.FindByUser(ctx, userId)
	if err != nil {
		return StatusResp{}, fmt.Errorf("failed to load allocations: %w", err)
	}

	active := lo.CountBy(allocations, func(a entity.CoinAllocation) bool {
		return a.Active
	})

	running := o.registry.ListForUser(userId)
	bots := lo.Map(running, func(b RunningBot, _ int) BotStatus {
		return BotStatus{
			AllocationId: b.AllocationId,
			BotId:        b.BotId,
			Symbol:       b.Symbol,
			StartedAt:    b.StartedAt,
		}
	})

	return StatusResp{
		TotalAllocations:  len(allocations),
		ActiveAllocations: active,
		RunningBots:       len(bots),
		Bots:              bots,
	}, nil
}

func quoteAsset(symbol string) (string, bool) {
	for _, quote := range quoteAssets {
		if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
			return quote, true
		}
	}
	return "", false
}
