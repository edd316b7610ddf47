package vatrade

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vatrade/orchestrator/internal/service/engine"
)

func TestClient_StartExecution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot/start", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ETHUSDT", body["symbol"])
		assert.Equal(t, "simple_moving_average", body["strategy"])
		assert.Equal(t, float64(100), body["trade_amount"])
		assert.Equal(t, "user-key", body["api_key"])
		assert.Equal(t, "user-secret", body["secret_key"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "Bot started successfully", "data": {"bot_id": "bot_1_abc123", "status": "running"}}`))
	}))
	defer srv.Close()

	cli := NewClient(srv.URL)
	botId, err := cli.StartExecution(context.Background(), engine.StartExecutionReq{
		UserId:       1,
		CredentialId: 7,
		Symbol:       "ETHUSDT",
		Amount:       decimal.NewFromInt(100),
		Strategy:     "simple_moving_average",
		ApiKey:       "user-key",
		ApiSecret:    "user-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "bot_1_abc123", botId)
}

func TestClient_StartExecution_EngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "Unknown strategy: foo"}`))
	}))
	defer srv.Close()

	cli := NewClient(srv.URL)
	_, err := cli.StartExecution(context.Background(), engine.StartExecutionReq{Symbol: "BTCUSDT"})
	assert.Error(t, err)
}

func TestClient_StopExecution_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot/stop", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Bot not found or already stopped"}`))
	}))
	defer srv.Close()

	cli := NewClient(srv.URL)
	err := cli.StopExecution(context.Background(), engine.StopExecutionReq{UserId: 1, BotId: "bot_1_gone"})
	assert.ErrorIs(t, err, engine.ErrBotNotFound)
}

func TestClient_StopExecution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bot_1_abc123", body["bot_id"])
		_, _ = w.Write([]byte(`{"success": true, "message": "Bot stopped successfully", "data": {"bot_id": "bot_1_abc123", "status": "stopped"}}`))
	}))
	defer srv.Close()

	cli := NewClient(srv.URL)
	err := cli.StopExecution(context.Background(), engine.StopExecutionReq{UserId: 1, BotId: "bot_1_abc123"})
	assert.NoError(t, err)
}

func TestClient_RunningBots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bots/active", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "count": 2, "bots": [{"bot_id": "bot_1_a"}, {"bot_id": "bot_2_b"}]}`))
	}))
	defer srv.Close()

	cli := NewClient(srv.URL)
	botIds, err := cli.RunningBots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bot_1_a", "bot_2_b"}, botIds)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	cli := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := cli.RunningBots(context.Background())
	assert.Error(t, err)
}
