package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linskybing/gpuaas-go/internal/api/handlers"
	"github.com/linskybing/gpuaas-go/internal/api/middleware"
	"github.com/linskybing/gpuaas-go/internal/api/routes"
	"github.com/linskybing/gpuaas-go/internal/application"
	appjob "github.com/linskybing/gpuaas-go/internal/application/job"
	"github.com/linskybing/gpuaas-go/internal/application/runner"
	"github.com/linskybing/gpuaas-go/internal/config"
	"github.com/linskybing/gpuaas-go/internal/config/db"
	"github.com/linskybing/gpuaas-go/internal/repository"
	"github.com/linskybing/gpuaas-go/internal/storage"
)

// @title GPU Job Submission API
// @version 1.0
// @description Multi-tenant GPU job submission with quota accounting and an
// @description admin-gated job lifecycle.
// @BasePath /
func main() {
	cfg := config.Load()

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	repos := repository.New(gormDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := runner.New(repos, runner.NewRandomResolver(), cfg.RunnerWorkers)
	run.Start(ctx)

	store, err := storage.New(cfg)
	if err != nil {
		// Data staging is optional; the API degrades to 503 on those routes.
		log.Printf("object storage unavailable, data staging disabled: %v", err)
		store = nil
	}

	jwt := middleware.NewJWT(cfg)
	auth := middleware.NewAuth(repos)

	users := application.NewUserService(repos, jwt, cfg.DefaultQuotaHours)
	jobs := appjob.NewService(repos, run)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	h := handlers.New(users, jobs, store)
	routes.Register(router, h, jwt, auth)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// Drain the queue and wait for workers. Runs whose wait was cut short by
	// the cancelled context stay RUNNING.
	run.Stop()
	log.Println("server stopped")
}
