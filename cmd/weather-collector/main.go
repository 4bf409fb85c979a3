package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/FlxBot001/weather-collector/collector"
	"github.com/FlxBot001/weather-collector/config"
	"github.com/FlxBot001/weather-collector/encoder"
	"github.com/FlxBot001/weather-collector/logging"
	"github.com/FlxBot001/weather-collector/sink"
	"github.com/FlxBot001/weather-collector/weather"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return 2
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error("load aws config", "err", err)
		return 2
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	fetcher := weather.NewFetcher(httpClient, cfg.OpenWeatherAPIKey)
	snk := sink.New(s3Client, cfg.BucketName, cfg.KeyPrefix, cfg.Region)

	var enc encoder.Encoder[weather.Record]
	switch cfg.Format {
	case config.FormatParquet:
		enc = encoder.ParquetEncoder[weather.Record]{Compression: cfg.ParquetCompression}
	default:
		enc = encoder.JSONEncoder[weather.Record]{}
	}

	col, err := collector.New(fetcher, enc, snk, logger)
	if err != nil {
		logger.Error("build collector", "err", err)
		return 2
	}
	if cfg.FetchRetries > 0 {
		col.SetRetryPolicy(collector.SimpleRetry{
			Attempts:  cfg.FetchRetries + 1,
			BaseDelay: 500 * time.Millisecond,
			MaxDelay:  5 * time.Second,
			Jitter:    true,
		})
	}

	sum := col.Run(ctx, cfg.Cities)
	logger.Info("run complete",
		"cities", len(cfg.Cities),
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
	)

	if sum.Failed > 0 {
		return 1
	}
	return 0
}
