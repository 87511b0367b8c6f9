package handlers

import (
	"errors"
	"net/http"

	"cloudpanel/internal/common"
	"cloudpanel/internal/repositories"
	"cloudpanel/internal/services"

	"github.com/labstack/echo/v4"
)

type AcademyHandlers struct {
	academyService services.AcademyService
}

func NewAcademyHandlers(academyService services.AcademyService) *AcademyHandlers {
	return &AcademyHandlers{academyService: academyService}
}

// ListCourses handles GET /academy/courses
func (h *AcademyHandlers) ListCourses(c echo.Context) error {
	ctx := c.Request().Context()

	courses, err := h.academyService.ListCourses(ctx, c.QueryParam("language"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"courses": courses,
	})
}

// GetCourse handles GET /academy/courses/:id
func (h *AcademyHandlers) GetCourse(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "course id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.academyService.GetCourseDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Course")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, detail)
}

// GetLesson handles GET /academy/lessons/:id
func (h *AcademyHandlers) GetLesson(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "lesson id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lesson, err := h.academyService.GetLesson(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Lesson")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, lesson)
}
