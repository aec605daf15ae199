// Match list Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"tavara-care/internal/bootstrap"
	"tavara-care/internal/config"
	"tavara-care/internal/handlers"
	"tavara-care/internal/services/database"
	"tavara-care/internal/services/matcher"
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
	store := database.NewStore(db)

	cache, redisClient := bootstrap.MatchCache(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	handler := handlers.NewMatchesHandler(func() handlers.MatchLister {
		return matcher.NewPresenter(store, cache, cfg.CandidateLimit)
	})

	lambda.Start(handler.Handle)
}
