package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cloudpanel/internal/common"
	"cloudpanel/internal/repositories"
	"cloudpanel/internal/services"

	"github.com/labstack/echo/v4"
)

type PoolHandlers struct {
	poolService services.PoolService
}

func NewPoolHandlers(poolService services.PoolService) *PoolHandlers {
	return &PoolHandlers{poolService: poolService}
}

// CreatePool handles POST /pools
func (h *PoolHandlers) CreatePool(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreatePoolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	pool, err := h.poolService.Create(ctx, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Pool created successfully",
		"pool":    pool,
	})
}

// GetPool handles GET /pools/:id
func (h *PoolHandlers) GetPool(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "pool id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pool, err := h.poolService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Pool")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, pool)
}

// ListPools handles GET /pools
func (h *PoolHandlers) ListPools(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	pools, err := h.poolService.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"pools":  pools,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdatePool handles PUT /pools/:id
func (h *PoolHandlers) UpdatePool(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "pool id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req services.UpdatePoolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.ID = id

	if err := h.poolService.Update(ctx, &req); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Pool")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Pool updated successfully",
	})
}

// DeletePool handles DELETE /pools/:id
func (h *PoolHandlers) DeletePool(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "pool id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.poolService.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Pool")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Pool deleted successfully",
	})
}

// GetPoolInstances handles GET /pools/:id/instances
func (h *PoolHandlers) GetPoolInstances(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "pool id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	instances, err := h.poolService.GetPoolInstances(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"instances": instances,
	})
}

// AssignInstance handles POST /pools/:id/instances
func (h *PoolHandlers) AssignInstance(c echo.Context) error {
	ctx := c.Request().Context()

	poolID, err := common.ValidateUUID(c.Param("id"), "pool id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		InstanceID string `json:"instance_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	instanceID, err := common.ValidateUUID(req.InstanceID, "instance_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.poolService.AssignInstance(ctx, instanceID, poolID); err != nil {
		if errors.Is(err, services.ErrPoolFull) {
			return echo.NewHTTPError(http.StatusConflict, "Pool is at capacity")
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Instance")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Instance assigned to pool",
	})
}

// UnassignInstance handles DELETE /pools/:id/instances/:instanceId
func (h *PoolHandlers) UnassignInstance(c echo.Context) error {
	ctx := c.Request().Context()

	poolID, err := common.ValidateUUID(c.Param("id"), "pool id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	instanceID, err := common.ValidateUUID(c.Param("instanceId"), "instance id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.poolService.UnassignInstance(ctx, instanceID, poolID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Instance")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Instance removed from pool",
	})
}
