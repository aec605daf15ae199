// Roster upload URL Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tavara-care/internal/config"
	"tavara-care/internal/handlers"
	"tavara-care/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		panic("Failed to load AWS config: " + err.Error())
	}

	presigner := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	handler := handlers.NewRosterUploadURLHandler(presigner, cfg.RosterBucket)

	lambda.Start(handler.Handle)
}
