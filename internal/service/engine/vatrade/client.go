package vatrade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vatrade/orchestrator/internal/service/engine"
)

var _ engine.Client = (*Client)(nil)

const defaultTimeout = 15 * time.Second

// Client 通过 HTTP 调用 vatrade 执行引擎进程
type Client struct {
	baseURL string
	cli     *http.Client
}

type Option func(c *Client)

func WithHTTPClient(cli *http.Client) Option {
	return func(c *Client) {
		c.cli = cli
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.cli.Timeout = timeout
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		cli:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type startReq struct {
	UserId       int64   `json:"user_id"`
	CredentialId int64   `json:"credential_id"`
	ApiKey       string  `json:"api_key"`
	SecretKey    string  `json:"secret_key"`
	Strategy     string  `json:"strategy"`
	Symbol       string  `json:"symbol"`
	TradeAmount  float64 `json:"trade_amount"`
}

type stopReq struct {
	UserId int64  `json:"user_id"`
	BotId  string `json:"bot_id"`
}

type botResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		BotId  string `json:"bot_id"`
		Status string `json:"status"`
	} `json:"data"`
}

type activeBotsResp struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Bots    []struct {
		BotId string `json:"bot_id"`
	} `json:"bots"`
}

func (c *Client) StartExecution(ctx context.Context, req engine.StartExecutionReq) (string, error) {
	body := startReq{
		UserId:       req.UserId,
		CredentialId: req.CredentialId,
		ApiKey:       req.ApiKey,
		SecretKey:    req.ApiSecret,
		Strategy:     req.Strategy,
		Symbol:       req.Symbol,
		TradeAmount:  req.Amount.InexactFloat64(),
	}

	var resp botResp
	if err := c.post(ctx, "/bot/start", body, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Data.BotId == "" {
		return "", fmt.Errorf("engine rejected start: %s", resp.Message)
	}
	return resp.Data.BotId, nil
}

func (c *Client) StopExecution(ctx context.Context, req engine.StopExecutionReq) error {
	body := stopReq{
		UserId: req.UserId,
		BotId:  req.BotId,
	}
	var resp botResp
	if err := c.post(ctx, "/bot/stop", body, &resp); err != nil {
		return err
	}
	return nil
}

func (c *Client) RunningBots(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bots/active", nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.cli.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine returned status %d", httpResp.StatusCode)
	}

	var resp activeBotsResp
	if err = json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}

	botIds := make([]string, 0, len(resp.Bots))
	for _, bot := range resp.Bots {
		botIds = append(botIds, bot.BotId)
	}
	return botIds, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out *botResp) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.cli.Do(httpReq)
	if err != nil {
		return fmt.Errorf("engine request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return engine.ErrBotNotFound
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine returned status %d", httpResp.StatusCode)
	}

	return json.NewDecoder(httpResp.Body).Decode(out)
}
