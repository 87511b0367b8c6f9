package handlers

import (
	"net/http"

	"cloudpanel/internal/plans"

	"github.com/labstack/echo/v4"
)

// PlanHandlers serves the static plan and duration catalog.
type PlanHandlers struct{}

func NewPlanHandlers() *PlanHandlers {
	return &PlanHandlers{}
}

// ListPlans handles GET /plans
func (h *PlanHandlers) ListPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"plans":     plans.All(),
		"durations": plans.AllDurations(),
	})
}

// GetPlan handles GET /plans/:id
func (h *PlanHandlers) GetPlan(c echo.Context) error {
	plan, ok := plans.GetPlanByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
	}
	return c.JSON(http.StatusOK, plan)
}
