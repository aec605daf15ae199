// Health Check Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"tavara-care/internal/config"
	"tavara-care/internal/handlers"
	"tavara-care/internal/services/database"
	"tavara-care/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	// The health function still answers when the database is down.
	checks := map[string]handlers.HealthCheckFunc{}
	db, err := database.New(context.Background(), cfg)
	if err != nil {
		utils.GetLogger().Warn("Database unavailable at cold start", utils.Error(err))
		connErr := err
		checks["database"] = func(context.Context) error { return connErr }
	} else {
		defer db.Close()
		checks["database"] = db.HealthCheck
	}

	handler := handlers.NewHealthHandler(cfg.Stage, checks)

	lambda.Start(handler.Handle)
}
