package bot

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndUnregister(t *testing.T) {
	registry := NewRegistry()

	assert.False(t, registry.IsRunning(1))
	assert.Equal(t, 0, registry.Count())

	running, err := registry.Register(1, "bot_1_a", "BTCUSDT", 10)
	require.NoError(t, err)
	assert.Equal(t, "bot_1_a", running.BotId)
	assert.Equal(t, "BTCUSDT", running.Symbol)
	assert.Equal(t, int64(10), running.UserId)
	assert.False(t, running.StartedAt.IsZero())

	assert.True(t, registry.IsRunning(1))
	assert.Equal(t, 1, registry.Count())

	got, ok := registry.Get(1)
	require.True(t, ok)
	assert.Equal(t, running, got)

	// 同一个 allocation 不允许二次注册
	_, err = registry.Register(1, "bot_1_b", "BTCUSDT", 10)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	removed, err := registry.Unregister(1)
	require.NoError(t, err)
	assert.Equal(t, "bot_1_a", removed.BotId)
	assert.False(t, registry.IsRunning(1))

	_, err = registry.Unregister(1)
	assert.ErrorIs(t, err, ErrNoRunningBot)
}

func TestRegistry_UnregisterOwned(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(1, "bot_10_a", "BTCUSDT", 10)
	require.NoError(t, err)

	// 归属不对删不掉, 条目原样保留
	_, err = registry.UnregisterOwned(1, 99)
	assert.ErrorIs(t, err, ErrNoRunningBot)
	assert.True(t, registry.IsRunning(1))

	removed, err := registry.UnregisterOwned(1, 10)
	require.NoError(t, err)
	assert.Equal(t, "bot_10_a", removed.BotId)
	assert.False(t, registry.IsRunning(1))

	_, err = registry.UnregisterOwned(1, 10)
	assert.ErrorIs(t, err, ErrNoRunningBot)
}

func TestRegistry_UnregisterBot(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(1, "bot_10_old", "BTCUSDT", 10)
	require.NoError(t, err)

	// 登记的已经换成别的 bot 时不能删
	_, err = registry.UnregisterBot(1, "bot_10_other")
	assert.ErrorIs(t, err, ErrNoRunningBot)
	assert.True(t, registry.IsRunning(1))

	removed, err := registry.UnregisterBot(1, "bot_10_old")
	require.NoError(t, err)
	assert.Equal(t, "bot_10_old", removed.BotId)
	assert.False(t, registry.IsRunning(1))
}

func TestRegistry_ListForUser(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Register(1, "bot_1", "BTCUSDT", 10)
	require.NoError(t, err)
	_, err = registry.Register(2, "bot_2", "ETHUSDT", 10)
	require.NoError(t, err)
	_, err = registry.Register(3, "bot_3", "SOLUSDT", 20)
	require.NoError(t, err)

	assert.Len(t, registry.ListForUser(10), 2)
	assert.Len(t, registry.ListForUser(20), 1)
	assert.Empty(t, registry.ListForUser(30))
	assert.Len(t, registry.List(), 3)
	assert.Equal(t, 3, registry.Count())
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	registry := NewRegistry()

	const n = 50
	var success atomic.Int64
	var rejected atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := registry.Register(1, "bot_1", "BTCUSDT", 10)
			if err == nil {
				success.Add(1)
			} else {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	// 同一个键并发注册只能成功一次
	assert.Equal(t, int64(1), success.Load())
	assert.Equal(t, int64(n-1), rejected.Load())
	assert.Equal(t, 1, registry.Count())
}
