package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mediainsight/config"
	"mediainsight/core"
	"mediainsight/processors"
)

func main() {
	_ = godotenv.Load()

	var (
		filePath = flag.String("file", "", "path to a local audio/video/image file to analyze")
		url      = flag.String("url", "", "link to a remote video to analyze")
		query    = flag.String("query", "What is this media about?", "question to answer from the media")
	)
	flag.Parse()

	logger := newLogger()
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	pipeline, err := processors.NewPipeline(cfg, log)
	if err != nil {
		log.Fatalf("init pipeline: %v", err)
	}

	req := processors.Request{URL: *url, Query: *query}
	if *filePath != "" {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			log.Fatalf("read %s: %v", *filePath, err)
		}
		req.Filename = *filePath
		req.Data = data
	}
	if req.Filename == "" && req.URL == "" {
		fmt.Fprintln(os.Stderr, "usage: mediainsight -file <path> | -url <link> [-query <question>]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := pipeline.Dispatch(ctx, req)
	if err != nil {
		log.Errorf("analysis failed: %v", err)
		fmt.Println(core.UserMessage(err))
		os.Exit(1)
	}

	fmt.Printf("Source: %s\n\n%s\n", out.Source, out.Summary)
	if out.Truncated {
		fmt.Println("\n(answer was truncated)")
	}
}

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "development" {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}
