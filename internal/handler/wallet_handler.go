package handler

import (
	"net/http"
	"strconv"

	"crave/internal/middleware"
	"crave/internal/models"
	"crave/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	balances *service.BalanceService
}

func NewWalletHandler(balances *service.BalanceService) *WalletHandler {
	return &WalletHandler{balances: balances}
}

// GetBalance returns the current user's balance in the requested currency,
// lazily opening a zero balance on first read.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	currency := c.DefaultQuery("currency", "USD")

	b, err := h.balances.GetOrCreateBalance(userID, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": b.Available,
		"pending":   b.Pending,
		"currency":  b.Currency,
	})
}

type TopUpRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,len=3"`
	Gateway  string          `json:"gateway" binding:"required"`
}

func (h *WalletHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	topup, err := h.balances.TopUp(middleware.GetUserID(c), req.Amount, req.Currency, req.Gateway)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topup)
}

type TransferRequest struct {
	RecipientID uint            `json:"recipient_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required,len=3"`
}

func (h *WalletHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sender, recipient, err := h.balances.Transfer(middleware.GetUserID(c), req.RecipientID, req.Amount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sender_balance":    sender.Available,
		"recipient_balance": recipient.Available,
		"currency":          req.Currency,
	})
}

type WithdrawRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,len=3"`
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.balances.Withdraw(middleware.GetUserID(c), req.Amount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

type PayoutRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
}

// Payout releases the user's pending earnings into available.
func (h *WalletHandler) Payout(c *gin.Context) {
	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.balances.PayoutToSeller(middleware.GetUserID(c), req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"amount":         t.Amount,
		"currency":       t.Currency,
		"transaction_id": t.ID,
	})
}

type ProcessTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,len=3"`
	Metadata models.Metadata `json:"metadata"`
}

// ProcessTransaction is the generic money-movement endpoint, fraud-gated.
func (h *WalletHandler) ProcessTransaction(c *gin.Context) {
	var req ProcessTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.balances.ProcessTransaction(middleware.GetUserID(c), req.Amount, req.Currency, req.Metadata)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *WalletHandler) GetTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.balances.ListTransactions(middleware.GetUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
