package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"energy-trading-platform/internal/market"
	"energy-trading-platform/internal/models"
	"energy-trading-platform/internal/store"
	"energy-trading-platform/internal/trade"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName    = "Energy Trading Platform API"
	serviceVersion = "1.0.0"
	pingTimeout    = 2 * time.Second
)

// Handler holds dependencies for the API endpoints.
type Handler struct {
	router *gin.Engine
	store  store.TradeStore
	feed   *market.Feed
	logger *zap.Logger
}

// TradeListResponse is the body of GET /trades.
type TradeListResponse struct {
	Trades []models.Trade `json:"trades"`
	Total  int64          `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	DatabaseConnected bool      `json:"database_connected"`
}

// NewHandler wires the router, middleware and routes.
func NewHandler(s store.TradeStore, feed *market.Feed, logger *zap.Logger) *Handler {
	router := gin.New()

	h := &Handler{
		router: router,
		store:  s,
		feed:   feed,
		logger: logger.Named("api"),
	}

	router.Use(requestID(), accessLog(h.logger), gin.Recovery())
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/", h.root)
	h.router.GET("/health", h.health)

	trades := h.router.Group("/trades")
	{
		trades.POST("", h.createTrade)
		trades.GET("", h.listTrades)
		trades.GET("/:id", h.getTrade)
		trades.GET("/commodity/:commodity", h.tradesByCommodity)
		trades.GET("/trader/:trader_id", h.tradesByTrader)
	}

	md := h.router.Group("/market-data")
	{
		md.GET("", h.marketSnapshot)
		md.GET("/:commodity", h.marketQuote)
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName,
		"version": serviceVersion,
		"health":  "/health",
		"trades":  "/trades",
	})
}

// health reports unhealthy, with 503, when the database does not answer.
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Timestamp: time.Now().UTC(), DatabaseConnected: true}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.DatabaseConnected = false
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *Handler) createTrade(c *gin.Context) {
	var candidate trade.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		h.writeError(c, "createTrade", bindError(err))
		return
	}

	normalized, err := trade.ValidateAndNormalize(candidate)
	if err != nil {
		h.writeError(c, "createTrade", err)
		return
	}

	stored, err := h.store.Create(c.Request.Context(), normalized)
	if err != nil {
		h.writeError(c, "createTrade", err)
		return
	}

	h.logger.Info("Trade created",
		zap.Uint("trade_id", stored.ID),
		zap.String("commodity", stored.Commodity),
		zap.String("side", stored.Side),
		zap.String("trader_id", stored.TraderID),
	)
	c.JSON(http.StatusCreated, stored)
}

func (h *Handler) listTrades(c *gin.Context) {
	limit, err := trade.ParseLimit(c.Query("limit"), trade.ListLimit)
	if err != nil {
		h.writeError(c, "listTrades", err)
		return
	}
	offset, err := trade.ParseOffset(c.Query("offset"))
	if err != nil {
		h.writeError(c, "listTrades", err)
		return
	}

	filter := trade.Filter{
		Commodity: c.Query("commodity"),
		TraderID:  c.Query("trader_id"),
		Side:      c.Query("side"),
	}

	trades, total, err := h.store.List(c.Request.Context(), filter, trade.Page{Limit: limit, Offset: offset})
	if err != nil {
		h.writeError(c, "listTrades", err)
		return
	}

	c.JSON(http.StatusOK, TradeListResponse{Trades: trades, Total: total})
}

func (h *Handler) getTrade(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.writeError(c, "getTrade", &trade.ValidationError{Field: "id", Reason: "must be a positive integer"})
		return
	}

	t, found, err := h.store.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		h.writeError(c, "getTrade", err)
		return
	}
	if !found {
		notFound(c, "Trade not found")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) tradesByCommodity(c *gin.Context) {
	limit, err := trade.ParseLimit(c.Query("limit"), trade.CommodityLimit)
	if err != nil {
		h.writeError(c, "tradesByCommodity", err)
		return
	}

	trades, err := h.store.ListByCommodity(c.Request.Context(), c.Param("commodity"), limit)
	if err != nil {
		h.writeError(c, "tradesByCommodity", err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

func (h *Handler) tradesByTrader(c *gin.Context) {
	limit, err := trade.ParseLimit(c.Query("limit"), trade.TraderLimit)
	if err != nil {
		h.writeError(c, "tradesByTrader", err)
		return
	}

	trades, err := h.store.ListByTrader(c.Request.Context(), c.Param("trader_id"), limit)
	if err != nil {
		h.writeError(c, "tradesByTrader", err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

func (h *Handler) marketSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.feed.Snapshot())
}

func (h *Handler) marketQuote(c *gin.Context) {
	commodity, ok := trade.ParseCommodity(c.Param("commodity"))
	if !ok {
		notFound(c, "Unknown commodity")
		return
	}
	q, _ := h.feed.Quote(commodity)
	c.JSON(http.StatusOK, q)
}
