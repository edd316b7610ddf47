package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vatrade/orchestrator/internal/service/bot"
)

type BotHandler struct {
	botSvc   bot.Service
	registry bot.Registry
}

func NewBotHandler(botSvc bot.Service, registry bot.Registry) *BotHandler {
	return &BotHandler{
		botSvc:   botSvc,
		registry: registry,
	}
}

func (h *BotHandler) RegisterRoutes(r *gin.Engine) {
	r.Use(requestId())
	r.GET("/health", h.Health)

	api := r.Group("/api/bot")
	api.POST("/start", h.StartBot)
	api.POST("/stop", h.StopBot)
	api.GET("/status", h.GetStatus)
}

type startBotReq struct {
	UserId       int64  `json:"user_id" binding:"required"`
	AllocationId int64  `json:"allocation_id" binding:"required"`
	CredentialId int64  `json:"credential_id" binding:"required"`
	Strategy     string `json:"strategy"`
}

type stopBotReq struct {
	UserId       int64 `json:"user_id" binding:"required"`
	AllocationId int64 `json:"allocation_id" binding:"required"`
}

func (h *BotHandler) StartBot(c *gin.Context) {
	var req startBotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	resp, err := h.botSvc.StartBot(c.Request.Context(), bot.StartBotReq{
		UserId:       req.UserId,
		AllocationId: req.AllocationId,
		CredentialId: req.CredentialId,
		Strategy:     req.Strategy,
	})
	if err != nil {
		respondBotError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"bot_id":   resp.BotId,
			"symbol":   resp.Symbol,
			"strategy": resp.Strategy,
			"amount":   resp.Amount,
		},
	})
}

func (h *BotHandler) StopBot(c *gin.Context) {
	var req stopBotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	resp, err := h.botSvc.StopBot(c.Request.Context(), req.UserId, req.AllocationId)
	if err != nil {
		respondBotError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"bot_id": resp.BotId,
			"symbol": resp.Symbol,
		},
	})
}

func (h *BotHandler) GetStatus(c *gin.Context) {
	userId, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userId <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	status, err := h.botSvc.GetStatus(c.Request.Context(), userId)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}

func (h *BotHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "vatrade-orchestrator",
		"status":      "running",
		"active_bots": h.registry.Count(),
	})
}

// respondBotError 把编排层错误映射为 HTTP 状态码, 核心里不掺 HTTP 语义
func respondBotError(c *gin.Context, err error) {
	var insufficient *bot.InsufficientBalanceError
	switch {
	case errors.Is(err, bot.ErrAllocationNotFound):
		respondError(c, http.StatusNotFound, "allocation_not_found", err.Error())
	case errors.Is(err, bot.ErrCredentialNotFound):
		respondError(c, http.StatusNotFound, "credential_not_found", err.Error())
	case errors.Is(err, bot.ErrNoRunningBot):
		respondError(c, http.StatusNotFound, "no_running_bot", err.Error())
	case errors.Is(err, bot.ErrAllocationInactive):
		respondError(c, http.StatusBadRequest, "allocation_inactive", err.Error())
	case errors.Is(err, bot.ErrUnsupportedSymbol):
		respondError(c, http.StatusBadRequest, "unsupported_symbol", err.Error())
	case errors.Is(err, bot.ErrAlreadyRunning):
		respondError(c, http.StatusConflict, "already_running", err.Error())
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":      "insufficient_balance",
			"error":     insufficient.Error(),
			"asset":     insufficient.Asset,
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.Is(err, bot.ErrBalanceUnavailable):
		respondError(c, http.StatusServiceUnavailable, "balance_unavailable", err.Error())
	case errors.Is(err, bot.ErrEngineUnavailable):
		respondError(c, http.StatusServiceUnavailable, "engine_unavailable", err.Error())
	default:
		slog.Error("unhandled orchestration error", "requestId", c.GetString(requestIdKey), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", "internal error")
	}
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{
		"code":  code,
		"error": msg,
	})
}

const requestIdKey = "request_id"

func requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIdKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
