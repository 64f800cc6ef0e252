package handlers

import (
	"github.com/linskybing/gpuaas-go/internal/application"
	appjob "github.com/linskybing/gpuaas-go/internal/application/job"
	"github.com/linskybing/gpuaas-go/internal/storage"
)

// Handlers bundles the HTTP handler set for route registration.
type Handlers struct {
	Auth     *AuthHandler
	Job      *JobHandler
	AdminJob *AdminJobHandler
}

func New(users *application.UserService, jobs *appjob.Service, store *storage.Client) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(users),
		Job:      NewJobHandler(jobs, store),
		AdminJob: NewAdminJobHandler(jobs),
	}
}
