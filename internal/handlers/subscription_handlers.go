package handlers

import (
	"errors"
	"net/http"

	"cloudpanel/internal/common"
	"cloudpanel/internal/repositories"
	"cloudpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers handles HTTP requests for the subscription lifecycle
type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandlers(subscriptionService services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptionService: subscriptionService}
}

// CreateSubscription handles POST /subscriptions
func (h *SubscriptionHandlers) CreateSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.PlanID == "" || req.DurationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "plan_id and duration_id are required")
	}

	result, err := h.subscriptionService.Create(ctx, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":      result.Message,
		"subscription": result.Subscription,
	})
}

// ExtendSubscription handles PUT /subscriptions/:id/extend
func (h *SubscriptionHandlers) ExtendSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req services.ExtendSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.SubscriptionID = subscriptionID

	subscription, err := h.subscriptionService.Extend(ctx, &req)
	if err != nil {
		if errors.Is(err, repositories.ErrConcurrentUpdate) {
			return echo.NewHTTPError(http.StatusConflict, "Subscription was modified concurrently, retry")
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Subscription")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":      "Subscription extended successfully",
		"subscription": subscription,
	})
}

// ListSubscriptions handles GET /instances/:id/subscriptions
func (h *SubscriptionHandlers) ListSubscriptions(c echo.Context) error {
	ctx := c.Request().Context()

	instanceID, err := common.ValidateUUID(c.Param("id"), "instance id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subscriptions, err := h.subscriptionService.ListByInstance(ctx, instanceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"subscriptions": subscriptions,
	})
}

// GetEntitlement handles GET /instances/:id/entitlement
func (h *SubscriptionHandlers) GetEntitlement(c echo.Context) error {
	ctx := c.Request().Context()

	instanceID, err := common.ValidateUUID(c.Param("id"), "instance id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snapshot, err := h.subscriptionService.Entitlement(ctx, instanceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, snapshot)
}

// GetSubscription handles GET /subscriptions/:id
func (h *SubscriptionHandlers) GetSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subscription, err := h.subscriptionService.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Subscription")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, subscription)
}

// DeleteSubscription handles DELETE /subscriptions/:id
func (h *SubscriptionHandlers) DeleteSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.subscriptionService.Delete(ctx, subscriptionID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Subscription deleted successfully",
	})
}

// UpdateStatusRequest is the body of POST /api/subscriptions/update-status.
type UpdateStatusRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	NewStatus      string `json:"newStatus"`
}

// UpdateStatus handles POST /api/subscriptions/update-status
func (h *SubscriptionHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	subscriptionID, err := common.ValidateUUID(req.SubscriptionID, "subscriptionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}
	if req.NewStatus == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "newStatus is required",
		})
	}

	subscription, err := h.subscriptionService.UpdateStatus(ctx, subscriptionID, req.NewStatus)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, services.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscription status updated",
		"data":    subscription,
	})
}
