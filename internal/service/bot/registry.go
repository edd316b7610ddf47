package bot

import (
	"sync"
	"time"
)

// RunningBot 只由 Registry 创建和销毁, 其他组件只读
type RunningBot struct {
	AllocationId int64
	BotId        string
	Symbol       string
	UserId       int64
	StartedAt    time.Time
}

// Registry 进程内唯一的 "哪些配置正在跑 bot" 权威表, 按 allocation id 建键,
// 同一个 allocation 任何时刻最多一个 RunningBot
type Registry interface {
	IsRunning(allocationId int64) bool
	Get(allocationId int64) (RunningBot, bool)
	Register(allocationId int64, botId, symbol string, userId int64) (RunningBot, error)
	Unregister(allocationId int64) (RunningBot, error)
	UnregisterOwned(allocationId, userId int64) (RunningBot, error)
	UnregisterBot(allocationId int64, botId string) (RunningBot, error)
	ListForUser(userId int64) []RunningBot
	List() []RunningBot
	Count() int
}

type memoryRegistry struct {
	mu   sync.RWMutex
	bots map[int64]RunningBot
}

func NewRegistry() Registry {
	return &memoryRegistry{
		bots: make(map[int64]RunningBot),
	}
}

func (r *memoryRegistry) IsRunning(allocationId int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bots[allocationId]
	return ok
}

func (r *memoryRegistry) Get(allocationId int64) (RunningBot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	running, ok := r.bots[allocationId]
	return running, ok
}

func (r *memoryRegistry) Register(allocationId int64, botId, symbol string, userId int64) (RunningBot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bots[allocationId]; ok {
		return RunningBot{}, ErrAlreadyRunning
	}
	running := RunningBot{
		AllocationId: allocationId,
		BotId:        botId,
		Symbol:       symbol,
		UserId:       userId,
		StartedAt:    time.Now(),
	}
	r.bots[allocationId] = running
	return running, nil
}

func (r *memoryRegistry) Unregister(allocationId int64) (RunningBot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	running, ok := r.bots[allocationId]
	if !ok {
		return RunningBot{}, ErrNoRunningBot
	}
	delete(r.bots, allocationId)
	return running, nil
}

// UnregisterOwned 归属校验和删除在同一把锁里完成, 查和删之间不会被并发替换
func (r *memoryRegistry) UnregisterOwned(allocationId, userId int64) (RunningBot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	running, ok := r.bots[allocationId]
	if !ok || running.UserId != userId {
		return RunningBot{}, ErrNoRunningBot
	}
	delete(r.bots, allocationId)
	return running, nil
}

// UnregisterBot 只在登记的还是同一个 bot 时删除
func (r *memoryRegistry) UnregisterBot(allocationId int64, botId string) (RunningBot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	running, ok := r.bots[allocationId]
	if !ok || running.BotId != botId {
		return RunningBot{}, ErrNoRunningBot
	}
	delete(r.bots, allocationId)
	return running, nil
}

func (r *memoryRegistry) ListForUser(userId int64) []RunningBot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []RunningBot
	for _, running := range r.bots {
		if running.UserId == userId {
			result = append(result, running)
		}
	}
	return result
}

func (r *memoryRegistry) List() []RunningBot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]RunningBot, 0, len(r.bots))
	for _, running := range r.bots {
		result = append(result, running)
	}
	return result
}

func (r *memoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bots)
}
