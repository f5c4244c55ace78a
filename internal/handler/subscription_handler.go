package handler

import (
	"net/http"
	"strconv"

	"crave/internal/middleware"
	"crave/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SubscriptionHandler struct {
	subs *service.SubscriptionService
}

func NewSubscriptionHandler(subs *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	sub, err := h.subs.GetActiveSubscription(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type CreateSubscriptionRequest struct {
	Plan         string          `json:"plan" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Currency     string          `json:"currency" binding:"required,len=3"`
	DurationDays int             `json:"duration_days" binding:"required,min=1"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := h.subs.CreateSubscription(middleware.GetUserID(c), req.Plan, req.Amount, req.Currency, req.DurationDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

type ExtendSubscriptionRequest struct {
	DurationDays int `json:"duration_days" binding:"required,min=1"`
}

func (h *SubscriptionHandler) Extend(c *gin.Context) {
	subID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}
	var req ExtendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := h.subs.ExtendSubscription(uint(subID), req.DurationDays)
	if err != nil {
		respondError(c, err)
		return
	}
	if sub == nil {
		// Lapsed subscriptions cannot be extended; a fresh one is needed.
		c.JSON(http.StatusConflict, gin.H{"error": "subscription is not active"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// RefreshStatus runs the expiry sweep for the caller's latest subscription.
func (h *SubscriptionHandler) RefreshStatus(c *gin.Context) {
	sub, err := h.subs.CheckAndUpdateSubscriptionStatus(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
