package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/view"
)

// TradeHandler handles the portfolio, trading, quote and cash pages
type TradeHandler struct {
	tradeUseCase usecase.TradeUseCase
	logger       coreport.Logger
}

// NewTradeHandler creates a new trade handler instance
func NewTradeHandler(tradeUseCase usecase.TradeUseCase, logger coreport.Logger) *TradeHandler {
	return &TradeHandler{
		tradeUseCase: tradeUseCase,
		logger:       logger,
	}
}

// Index handles GET /
func (h *TradeHandler) Index(c *gin.Context) {
	portfolio, err := h.tradeUseCase.Portfolio(c.Request.Context(), userID(c))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}
	middleware.Render(c, http.StatusOK, view.Index, gin.H{"portfolio": portfolio})
}

// BuyForm handles GET /buy
func (h *TradeHandler) BuyForm(c *gin.Context) {
	middleware.Render(c, http.StatusOK, view.Buy, nil)
}

// Buy handles POST /buy
func (h *TradeHandler) Buy(c *gin.Context) {
	settlement, err := h.tradeUseCase.Buy(c.Request.Context(), userID(c), c.PostForm("symbol"), c.PostForm("shares"))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	tx := settlement.Transaction
	middleware.AddFlash(c, fmt.Sprintf("Bought %d shares of %s (%s) for %s",
		tx.AbsShares(), settlement.Quote.Name, tx.Symbol, entity.FormatUSD(tx.Total())))
	c.Redirect(http.StatusFound, "/")
}

// SellForm handles GET /sell; only held symbols are offered
func (h *TradeHandler) SellForm(c *gin.Context) {
	positions, err := h.tradeUseCase.Positions(c.Request.Context(), userID(c))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}
	middleware.Render(c, http.StatusOK, view.Sell, gin.H{"positions": positions})
}

// Sell handles POST /sell
func (h *TradeHandler) Sell(c *gin.Context) {
	settlement, err := h.tradeUseCase.Sell(c.Request.Context(), userID(c), c.PostForm("symbol"), c.PostForm("shares"))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	tx := settlement.Transaction
	middleware.AddFlash(c, fmt.Sprintf("%d shares of (%s) sold for %s",
		tx.AbsShares(), tx.Symbol, entity.FormatUSD(tx.Total())))
	c.Redirect(http.StatusFound, "/")
}

// History handles GET /history
func (h *TradeHandler) History(c *gin.Context) {
	transactions, err := h.tradeUseCase.History(c.Request.Context(), userID(c))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}
	middleware.Render(c, http.StatusOK, view.History, gin.H{"transactions": transactions})
}

// QuoteForm handles GET /quote
func (h *TradeHandler) QuoteForm(c *gin.Context) {
	middleware.Render(c, http.StatusOK, view.Quote, nil)
}

// Quote handles POST /quote. The field is "quote"; "symbol" is accepted too.
func (h *TradeHandler) Quote(c *gin.Context) {
	symbol := c.PostForm("quote")
	if strings.TrimSpace(symbol) == "" {
		symbol = c.PostForm("symbol")
	}

	q, err := h.tradeUseCase.Quote(c.Request.Context(), symbol)
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}
	middleware.Render(c, http.StatusOK, view.Quoted, gin.H{"quote": q})
}

// AddCashForm handles GET /add_cash
func (h *TradeHandler) AddCashForm(c *gin.Context) {
	middleware.Render(c, http.StatusOK, view.AddCash, nil)
}

// AddCash handles POST /add_cash
func (h *TradeHandler) AddCash(c *gin.Context) {
	cash, err := h.tradeUseCase.AddCash(c.Request.Context(), userID(c), c.PostForm("amount"))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	middleware.AddFlash(c, "Cash added. Your balance is now "+entity.FormatUSD(cash))
	c.Redirect(http.StatusFound, "/")
}
