// Auto-assign Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"tavara-care/internal/bootstrap"
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

	ctx := context.Background()

	db, err := database.New(ctx, cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	orchestrator := bootstrap.NewOrchestrator(ctx, cfg, database.NewStore(db))
	handler := handlers.NewAutoAssignHandler(orchestrator)

	lambda.Start(handler.Handle)
}
