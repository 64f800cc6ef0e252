package db

import (
	"fmt"
	"log"

	"github.com/linskybing/gpuaas-go/internal/config"
	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"github.com/linskybing/gpuaas-go/internal/domain/quota"
	"github.com/linskybing/gpuaas-go/internal/domain/user"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to postgres. Callers run Migrate themselves.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DbHost,
		cfg.DbPort,
		cfg.DbUser,
		cfg.DbPassword,
		cfg.DbName,
	)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	log.Println("Database connected")
	return gormDB, nil
}

// Migrate applies the schema; also used by the integration test harness.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&user.User{},
		&quota.UserQuota{},
		&job.Job{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
