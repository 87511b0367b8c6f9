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

type InstanceHandlers struct {
	instanceService services.InstanceService
}

func NewInstanceHandlers(instanceService services.InstanceService) *InstanceHandlers {
	return &InstanceHandlers{instanceService: instanceService}
}

// CreateInstance handles POST /instances
func (h *InstanceHandlers) CreateInstance(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreateInstanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	instance, err := h.instanceService.Create(ctx, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":  "Instance created successfully",
		"instance": instance,
	})
}

// GetInstance handles GET /instances/:id
func (h *InstanceHandlers) GetInstance(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "instance id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	instance, err := h.instanceService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Instance")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, instance)
}

// GetMyInstance handles GET /instances/me
func (h *InstanceHandlers) GetMyInstance(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	instance, err := h.instanceService.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{
				"code":     "NO_INSTANCE",
				"redirect": "/signup",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, instance)
}

// UpdateInstance handles PUT /instances/:id
func (h *InstanceHandlers) UpdateInstance(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "instance id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req services.UpdateInstanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.ID = id

	if err := h.instanceService.Update(ctx, &req); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Instance")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Instance updated successfully",
	})
}

// UploadLogo handles POST /instances/:id/logo
func (h *InstanceHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "instance id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "logo file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read logo file")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	url, err := h.instanceService.UploadLogo(ctx, id, src, file.Size, contentType)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Instance")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Logo uploaded successfully",
		"logo_url": url,
	})
}

// DeleteInstance handles DELETE /instances/:id
func (h *InstanceHandlers) DeleteInstance(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "instance id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.instanceService.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Instance deleted successfully",
	})
}

// ListInstances handles GET /instances
func (h *InstanceHandlers) ListInstances(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	instances, err := h.instanceService.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"instances": instances,
		"limit":     limit,
		"offset":    offset,
	})
}
