package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appjob "github.com/linskybing/gpuaas-go/internal/application/job"
	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/pkg/response"
	"github.com/linskybing/gpuaas-go/pkg/utils"
)

// AdminJobHandler exposes the admin side of the job lifecycle.
type AdminJobHandler struct {
	svc *appjob.Service
}

func NewAdminJobHandler(svc *appjob.Service) *AdminJobHandler {
	return &AdminJobHandler{svc: svc}
}

// ListAllJobs godoc
// @Summary List every user's jobs, newest first
// @Tags admin
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.SuccessResponse
// @Router /admin/jobs [get]
func (h *AdminJobHandler) ListAllJobs(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid status filter"})
		return
	}

	jobs, err := h.svc.ListAllJobs(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Code: 0, Message: "success", Data: jobs})
}

func (h *AdminJobHandler) transition(c *gin.Context, t job.Transition) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid id"})
		return
	}

	updated, err := h.svc.Transition(c.Request.Context(), id, t)
	if err != nil {
		var invalid *job.InvalidTransitionError
		switch {
		case errors.Is(err, job.ErrJobNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		case errors.As(err, &invalid):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: invalid.Error()})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Code: 0, Message: "success", Data: updated})
}

// Approve godoc
// @Summary Approve a pending job
// @Tags admin
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/jobs/{id}/approve [post]
func (h *AdminJobHandler) Approve(c *gin.Context) {
	h.transition(c, job.TransitionApprove)
}

// Reject godoc
// @Summary Reject a pending job
// @Tags admin
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.SuccessResponse
// @Router /admin/jobs/{id}/reject [post]
func (h *AdminJobHandler) Reject(c *gin.Context) {
	h.transition(c, job.TransitionReject)
}

// Start godoc
// @Summary Start an approved job on the simulated executor
// @Tags admin
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.SuccessResponse
// @Router /admin/jobs/{id}/start [post]
func (h *AdminJobHandler) Start(c *gin.Context) {
	h.transition(c, job.TransitionStart)
}

// Complete godoc
// @Summary Mark a running job completed
// @Tags admin
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.SuccessResponse
// @Router /admin/jobs/{id}/complete [post]
func (h *AdminJobHandler) Complete(c *gin.Context) {
	h.transition(c, job.TransitionComplete)
}

// Fail godoc
// @Summary Mark a running job failed
// @Tags admin
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.SuccessResponse
// @Router /admin/jobs/{id}/fail [post]
func (h *AdminJobHandler) Fail(c *gin.Context) {
	h.transition(c, job.TransitionFail)
}
