// Roster import Lambda entry point, triggered by S3 uploads under rosters/
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

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

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		panic("Failed to load AWS config: " + err.Error())
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	handler := handlers.NewRosterImportHandler(
		s3.NewFromConfig(awsCfg),
		database.NewCaregiverRepository(db),
	)

	lambda.Start(handler.Handle)
}
