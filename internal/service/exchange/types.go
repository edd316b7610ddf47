package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

type Balance struct {
	Asset  string
	Free   decimal.Decimal
	Locked decimal.Decimal
	Total  decimal.Decimal
}

// BalanceService 用用户自己的密钥查询交易所余额, 每次请求都是实时查询, 不做缓存
type BalanceService interface {
	GetBalances(ctx context.Context, apiKey, apiSecret string) (map[string]Balance, error)
}
