// Package routes wires handlers onto the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/linskybing/gpuaas-go/internal/api/handlers"
	"github.com/linskybing/gpuaas-go/internal/api/middleware"
)

// Register mounts all routes. Public endpoints come first, then the
// authenticated group, then the admin group layered on top of it.
func Register(r *gin.Engine, h *handlers.Handlers, jwt *middleware.JWT, auth *middleware.Auth) {
	r.GET("/health/ping", handlers.Ping)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)

	authed := r.Group("/", jwt.Middleware(), auth.Active())
	{
		authed.GET("/auth/me", h.Auth.Me)

		authed.POST("/jobs", h.Job.CreateJob)
		authed.GET("/jobs", h.Job.ListJobs)
		authed.GET("/jobs/:id", h.Job.GetJob)
		authed.POST("/jobs/:id/data-url", h.Job.JobDataUploadURL)
		authed.GET("/jobs/:id/data-url", h.Job.JobDataDownloadURL)

		authed.GET("/ws/jobs", h.Job.StreamJobs)

		admin := authed.Group("/admin", auth.Admin())
		{
			admin.GET("/jobs", h.AdminJob.ListAllJobs)
			admin.POST("/jobs/:id/approve", h.AdminJob.Approve)
			admin.POST("/jobs/:id/reject", h.AdminJob.Reject)
			admin.POST("/jobs/:id/start", h.AdminJob.Start)
			admin.POST("/jobs/:id/complete", h.AdminJob.Complete)
			admin.POST("/jobs/:id/fail", h.AdminJob.Fail)
		}
	}
}
