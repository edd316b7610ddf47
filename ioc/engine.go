package ioc

import (
	"time"

	"github.com/spf13/viper"
	"github.com/vatrade/orchestrator/internal/service/engine/vatrade"
)

func InitEngineCli() *vatrade.Client {
	type Config struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("engine", &cfg); err != nil {
		panic(err)
	}
	if cfg.BaseURL == "" {
		panic("no engine base_url set")
	}

	var opts []vatrade.Option
	if cfg.Timeout > 0 {
		opts = append(opts, vatrade.WithTimeout(cfg.Timeout))
	}
	return vatrade.NewClient(cfg.BaseURL, opts...)
}
