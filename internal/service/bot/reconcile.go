package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/vatrade/orchestrator/internal/schedule"
	"github.com/vatrade/orchestrator/internal/service/engine"
)

// ReconcileTask 定期对账: 引擎不再上报的 bot 从本地登记里清掉, 修复漂移
type ReconcileTask struct {
	engineCli engine.Client
	registry  Registry
}

func NewReconcileTask(engineCli engine.Client, registry Registry) schedule.Task {
	return &ReconcileTask{
		engineCli: engineCli,
		registry:  registry,
	}
}

func (t *ReconcileTask) Run(ctx context.Context) error {
	// 引擎上报的是请求发出之后的状态, 晚于 snapshotAt 注册的 bot 可能还没被它看到
	snapshotAt := time.Now()
	botIds, err := t.engineCli.RunningBots(ctx)
	if err != nil {
		// 引擎暂时联系不上时跳过这一轮, 绝不能因为一次失败清空登记
		slog.Warn("skip reconcile, engine unreachable", "error", err)
		return err
	}

	alive := lo.SliceToMap(botIds, func(id string) (string, struct{}) {
		return id, struct{}{}
	})

	for _, running := range t.registry.List() {
		if _, ok := alive[running.BotId]; ok {
			continue
		}
		if running.StartedAt.After(snapshotAt) {
			// 快照之后才启动的, 留给下一轮判断
			continue
		}
		if _, err = t.registry.UnregisterBot(running.AllocationId, running.BotId); err == nil {
			slog.Warn("removed stale bot from registry",
				"allocationId", running.AllocationId, "botId", running.BotId, "userId", running.UserId)
		}
	}
	return nil
}

func (t *ReconcileTask) Name() string {
	return "bot registry reconcile task"
}
