package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/statement_ledger_app/internal/apperrors"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/dto"
	"github.com/SscSPs/statement_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// subscriptionsHandler handles recurring-group management and detection.
type subscriptionsHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newSubscriptionsHandler(rs portssvc.RecurringSvcFacade) *subscriptionsHandler {
	return &subscriptionsHandler{recurringService: rs}
}

// registerSubscriptionRoutes registers recurring-group routes.
func registerSubscriptionRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newSubscriptionsHandler(recurringService)

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.GET("", h.listSubscriptions)
		subscriptions.GET("/summary", h.monthlySummary)
		subscriptions.POST("/detect", h.detect)
		subscriptions.GET("/:id", h.getSubscriptionByID)
		subscriptions.PATCH("/:id", h.updateSubscription)
		subscriptions.POST("/:id/dismiss", h.dismissSubscription)
	}
}

func (h *subscriptionsHandler) listSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	groups, err := h.recurringService.ListGroups(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list subscriptions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscriptions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponses(groups))
}

func (h *subscriptionsHandler) monthlySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	total, err := h.recurringService.MonthlyTotal(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to compute monthly total", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute monthly total"})
		return
	}

	c.JSON(http.StatusOK, dto.MonthlyTotalResponse{MonthlyTotal: total})
}

func (h *subscriptionsHandler) detect(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.DetectRequest
	// An empty body means a full-history scan.
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		logger.Warn("Failed to bind JSON for detect", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	groups, err := h.recurringService.DetectRecurring(c.Request.Context(), userID, req.TransactionIDs)
	if err != nil {
		logger.Error("Failed to run recurring detection", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run detection"})
		return
	}

	logger.Info("Recurring detection completed", slog.Int("new_groups", len(groups)))
	c.JSON(http.StatusOK, dto.ToSubscriptionResponses(groups))
}

func (h *subscriptionsHandler) getSubscriptionByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.recurringService.GetGroupByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		} else {
			logger.Error("Failed to get subscription", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subscription"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(group))
}

func (h *subscriptionsHandler) updateSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update subscription", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	group, err := h.recurringService.UpdateGroup(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update subscription", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(group))
}

func (h *subscriptionsHandler) dismissSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.recurringService.DismissGroup(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		} else {
			logger.Error("Failed to dismiss subscription", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dismiss subscription"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(group))
}
