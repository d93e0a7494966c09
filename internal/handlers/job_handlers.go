package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"workero/internal/common"
	"workero/internal/services"
)

// JobHandlers handles HTTP requests for jobs
type JobHandlers struct {
	jobService services.JobServiceInterface
}

// NewJobHandlers creates a new job handlers instance
func NewJobHandlers(jobService services.JobServiceInterface) *JobHandlers {
	return &JobHandlers{jobService: jobService}
}

// ListJobs handles GET /jobs
func (h *JobHandlers) ListJobs(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit = common.ValidatePaginationParams(page, limit)

	jobs, total, err := h.jobService.List(ctx, companyID, page, limit)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Paginated(c, jobs, common.NewPageMeta(page, limit, total))
}

// GetJob handles GET /jobs/:id
func (h *JobHandlers) GetJob(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	jobID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	job, err := h.jobService.Get(ctx, companyID, jobID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusOK, job, "")
}
