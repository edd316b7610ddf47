package ioc

import (
	"time"

	"github.com/spf13/viper"
	"github.com/vatrade/orchestrator/internal/service/exchange/binance"
)

func InitBalanceService() *binance.BalanceService {
	type Config struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("cex.binance", &cfg); err != nil {
		panic(err)
	}

	var opts []binance.Option
	if cfg.BaseURL != "" {
		opts = append(opts, binance.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, binance.WithTimeout(cfg.Timeout))
	}
	return binance.NewBalanceService(opts...)
}
