package handlers

import (
	"net/http"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/common"
	"invoptimizer/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobRunner is the part of the scheduler exposed over HTTP.
type JobRunner interface {
	GetJobStatus() []background.JobStatus
	RunNow(name string) error
}

type JobHandlers struct {
	jobs JobRunner
}

func NewJobHandlers(jobs JobRunner) *JobHandlers {
	return &JobHandlers{jobs: jobs}
}

func (h *JobHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/jobs", h.ListJobs)
	g.POST("/jobs/:name/run", h.RunJob)
}

func (h *JobHandlers) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"jobs": h.jobs.GetJobStatus()})
}

// RunJob queues an immediate run and answers 202; the job's own schedule is unchanged.
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	if !h.known(name) {
		return common.SendError(c, apperror.NewNotFound("job", name))
	}
	if err := h.jobs.RunNow(name); err != nil {
		return common.SendError(c, apperror.NewInternal(err))
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"job":     name,
		"message": "Job started",
	})
}

func (h *JobHandlers) known(name string) bool {
	for _, status := range h.jobs.GetJobStatus() {
		if status.Name == name {
			return true
		}
	}
	return false
}
