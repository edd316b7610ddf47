package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vatrade/orchestrator/internal/repo"
	"github.com/vatrade/orchestrator/internal/service/bot"
	"github.com/vatrade/orchestrator/internal/web"
	"github.com/vatrade/orchestrator/ioc"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}

}

func main() {
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	allocationRepo := repo.NewAllocationRepo(db)
	credentialRepo := repo.NewCredentialRepo(db)

	balanceSvc := ioc.InitBalanceService()
	engineCli := ioc.InitEngineCli()

	registry := bot.NewRegistry()
	var opts []bot.Option
	if strategy := viper.GetString("bot.default_strategy"); strategy != "" {
		opts = append(opts, bot.WithDefaultStrategy(strategy))
	}
	orchestrator := bot.NewOrchestrator(allocationRepo, credentialRepo, balanceSvc, engineCli, registry, opts...)

	reconcileInterval := viper.GetDuration("bot.reconcile_interval")
	if reconcileInterval <= 0 {
		reconcileInterval = time.Minute
	}
	task := bot.NewReconcileTask(engineCli, registry)
	go func() {
		ticker := time.NewTicker(reconcileInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), reconcileInterval)
			if err := task.Run(ctx); err != nil {
				slog.Error("reconcile task failed", "task", task.Name(), "error", err)
			}
			cancel()
		}
	}()

	r := gin.Default()
	web.NewBotHandler(orchestrator, registry).RegisterRoutes(r)

	addr := viper.GetString("web.addr")
	if addr == "" {
		addr = ":8080"
	}
	slog.Info("orchestrator listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		panic(err)
	}
}
