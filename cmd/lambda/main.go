package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/itsatony/irrigador/api/serverless"
	"github.com/itsatony/irrigador/internal/config"
	"github.com/itsatony/irrigador/internal/monitoring"
	"github.com/itsatony/irrigador/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

var handler *serverless.Handler

func init() {
	nuts.InitVersion()
	nuts.L.Infof("[Lambda] Cold start v%s", nuts.GetVersion())

	cfg, err := config.Load()
	if err != nil {
		nuts.L.Fatalf("[Lambda] Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, err := server.BuildBackend(ctx, cfg)
	if err != nil {
		nuts.L.Fatalf("[Lambda] Failed to initialize backend: %v", err)
	}
	if err := server.WireMonitoring(backend.Service, monitoring.NewService()); err != nil {
		nuts.L.Fatalf("[Lambda] Failed to wire monitoring: %v", err)
	}

	handler = &serverless.Handler{Service: backend.Service}
}

func main() {
	lambda.Start(handler.HandleRequest)
}
