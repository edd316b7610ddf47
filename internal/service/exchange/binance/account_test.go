package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vatrade/orchestrator/pkg/decimalx"
)

func TestBalanceService_GetBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/account", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"balances": [
				{"asset": "USDT", "free": "120.5", "locked": "29.5"},
				{"asset": "ETH", "free": "0.00000000", "locked": "0.00000000"},
				{"asset": "BTC", "free": "0.5", "locked": "0"}
			]
		}`))
	}))
	defer srv.Close()

	svc := NewBalanceService(WithBaseURL(srv.URL))
	balances, err := svc.GetBalances(context.Background(), "test-key", "test-secret")
	require.NoError(t, err)

	// 零余额资产被过滤掉
	assert.Len(t, balances, 2)
	assert.True(t, decimalx.MustFromString("150").Equal(balances["USDT"].Total))
	assert.True(t, decimalx.MustFromString("120.5").Equal(balances["USDT"].Free))
	assert.True(t, decimalx.MustFromString("29.5").Equal(balances["USDT"].Locked))
	assert.True(t, decimalx.MustFromString("0.5").Equal(balances["BTC"].Total))
}

func TestBalanceService_GetBalances_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewBalanceService(WithBaseURL(srv.URL))
	_, err := svc.GetBalances(context.Background(), "test-key", "test-secret")
	assert.Error(t, err)
}

func TestBalanceService_GetBalances_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"balances": []}`))
	}))
	defer srv.Close()

	svc := NewBalanceService(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := svc.GetBalances(context.Background(), "test-key", "test-secret")
	assert.Error(t, err)
}
