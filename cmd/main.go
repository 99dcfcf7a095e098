package main

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/zefanja/podcast2Anki/internal/config"
	"github.com/zefanja/podcast2Anki/internal/llm"
	"github.com/zefanja/podcast2Anki/internal/service"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

func main() {
	// Initialize configuration
	cfg, err := config.New()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	if cfg.Pipeline.LogFile != "" {
		fileLogger, err := log.NewFileLogger(cfg.Pipeline.LogFile, log.LevelInfo)
		if err != nil {
			log.Fatal("Failed to open log file: %v", err)
		}
		defer fileLogger.Close()
		log.SetGlobalLogger(fileLogger.Logger)
	}

	client, err := llm.NewClient(&llm.Config{
		APIKey:  cfg.LLM.APIKey,
		APIURL:  cfg.LLM.APIURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create batch API client: %v", err)
	}

	ctx := context.Background()

	if cfg.Pipeline.CronExpr == "" {
		svc := service.NewPipelineService(*cfg, client)
		if err := svc.RunOnce(ctx); err != nil {
			log.Fatal("Pipeline run failed: %v", err)
		}
		return
	}

	c := cron.New()
	svc := service.NewRunnablePipelineService(*cfg, client, c)
	if err := svc.Schedule(ctx); err != nil {
		log.Fatal("Failed to schedule pipeline: %v", err)
	}
	c.Run()
}
