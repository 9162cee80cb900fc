// Comando server publica o adapter como API REST, por HTTP ou como handler
// de Lambda atrás do API Gateway (server.runtime na configuração).
//
//	CONFIG_FILE_PATH=s3://bucket/dynadapter.yaml server
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/raywall/dynadapter/pkg/engine"
	"github.com/raywall/dynadapter/pkg/transport"
)

var (
	// Variáveis injetáveis para mocking
	serverStarter = transport.Serve
	lambdaStarter = lambda.Start
	sqsClient     = func(ctx context.Context) (transport.SQSClient, error) {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return sqs.NewFromConfig(cfg), nil
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv("CONFIG_FILE_PATH")); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, source string) error {
	cfg, err := engine.NewLoader().Load(ctx, source)
	if err != nil {
		return err
	}

	svc, err := engine.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.Source = source

	if queue := cfg.Server.ReloadQueue; queue != "" {
		client, err := sqsClient(ctx)
		if err != nil {
			return fmt.Errorf("reload queue: %w", err)
		}
		go transport.NewSQSReloader(client, queue, svc, svc.Logger).Start(ctx)
	}

	router := transport.NewAPI(svc.Items, svc.Logger, cfg.Server.Timeout).Router()

	switch cfg.Server.Runtime {
	case "http":
		return serverStarter(ctx, cfg.Server.Addr, router, svc.Logger)
	case "lambda":
		svc.Logger.Info().Msg("starting lambda handler")
		lambdaStarter(transport.NewLambdaHandler(router).Handle)
		return nil
	}
	return fmt.Errorf("unknown runtime %q", cfg.Server.Runtime)
}
