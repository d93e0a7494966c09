package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"workero/internal/common"
	"workero/internal/models"
	"workero/internal/services"
)

// ScheduleHandlers handles HTTP requests for the schedule
type ScheduleHandlers struct {
	scheduleService services.ScheduleServiceInterface
}

// NewScheduleHandlers creates a new schedule handlers instance
func NewScheduleHandlers(scheduleService services.ScheduleServiceInterface) *ScheduleHandlers {
	return &ScheduleHandlers{scheduleService: scheduleService}
}

// ListEvents handles GET /schedule/events
func (h *ScheduleHandlers) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter := &models.ScheduleEventFilter{}
	startStr, endStr := c.QueryParam("start"), c.QueryParam("end")
	if startStr != "" && endStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return common.SendClientError(c, "start must be an RFC3339 timestamp")
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return common.SendClientError(c, "end must be an RFC3339 timestamp")
		}
		filter.Start = &start
		filter.End = &end
	}
	if technicianStr := c.QueryParam("technician_id"); technicianStr != "" {
		technicianID, err := common.ValidateUUID(technicianStr, "technician_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		filter.TechnicianID = &technicianID
	}

	events, err := h.scheduleService.Events(ctx, companyID, filter)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusOK, events, "")
}

// Availability handles GET /schedule/availability
func (h *ScheduleHandlers) Availability(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return common.RespondError(c, h.scheduleService.Availability(ctx, companyID))
}

// Conflicts handles GET /schedule/conflicts
func (h *ScheduleHandlers) Conflicts(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return common.RespondError(c, h.scheduleService.Conflicts(ctx, companyID))
}
