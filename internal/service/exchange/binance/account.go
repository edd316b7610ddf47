package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/vatrade/orchestrator/internal/service/exchange"
)

var _ exchange.BalanceService = (*BalanceService)(nil)

const defaultTimeout = 10 * time.Second

type BalanceService struct {
	baseURL string
	timeout time.Duration
}

type Option func(s *BalanceService)

func WithBaseURL(baseURL string) Option {
	return func(s *BalanceService) {
		s.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *BalanceService) {
		s.timeout = timeout
	}
}

func NewBalanceService(opts ...Option) *BalanceService {
	svc := &BalanceService{
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *BalanceService) GetBalances(ctx context.Context, apiKey, apiSecret string) (map[string]exchange.Balance, error) {
	// 密钥属于具体用户, 客户端按请求创建, 不能复用
	cli := binance.NewClient(apiKey, apiSecret)
	if s.baseURL != "" {
		cli.BaseURL = s.baseURL
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	account, err := cli.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	balances := make(map[string]exchange.Balance)
	for _, item := range account.Balances {
		free, err := decimal.NewFromString(item.Free)
		if err != nil {
			return nil, fmt.Errorf("failed to parse free balance of %s: %w", item.Asset, err)
		}
		locked, err := decimal.NewFromString(item.Locked)
		if err != nil {
			return nil, fmt.Errorf("failed to parse locked balance of %s: %w", item.Asset, err)
		}

		total := free.Add(locked)
		if total.IsZero() {
			continue
		}
		balances[item.Asset] = exchange.Balance{
			Asset:  item.Asset,
			Free:   free,
			Locked: locked,
			Total:  total,
		}
	}
	return balances, nil
}
