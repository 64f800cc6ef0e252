// Package testutils provisions throwaway infrastructure for integration tests.
package testutils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/linskybing/gpuaas-go/internal/config/db"
)

// SetupPostgresForIntegration returns a migrated gorm handle against either
// an external database (TEST_DB_DSN) or a disposable postgres container.
func SetupPostgresForIntegration() (*gorm.DB, func()) {
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		gormDB := openWithRetry(dsn)
		if err := db.Migrate(gormDB); err != nil {
			log.Fatal(err)
		}
		return gormDB, func() {}
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_USER":     "test",
			"POSTGRES_DB":       "gpuaas",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatal(err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		log.Fatal(err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatal(err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=gpuaas sslmode=disable", host, port.Port())
	gormDB := openWithRetry(dsn)
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal(err)
	}

	cleanup := func() {
		_ = pg.Terminate(ctx)
	}
	return gormDB, cleanup
}

func openWithRetry(dsn string) *gorm.DB {
	var gormDB *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			if sqlDB, pingErr := gormDB.DB(); pingErr == nil {
				if pingErr = sqlDB.Ping(); pingErr == nil {
					return gormDB
				}
			}
		}
		time.Sleep(1 * time.Second)
	}
	log.Fatalf("database did not come up: %v", err)
	return nil
}
