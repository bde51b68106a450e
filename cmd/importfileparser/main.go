package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"gocatalog/config"
	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/awsclient"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/objectstore"
	"gocatalog/internal/pkg/queue"
	"gocatalog/internal/service/importservice"
)

func main() {
	// 0. .env é opcional (execução local); na Lambda tudo vem do ambiente
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"service": "import-file-parser"})
	if err := cfg.Require(config.KeySQSQueueURL); err != nil {
		log.Fatal("Configuração incompleta.", err)
	}

	// 2. Clientes criados uma vez por processo
	clients, err := awsclient.New(context.Background(), cfg.AWSRegion)
	if err != nil {
		log.Fatal("Falha ao carregar configuração AWS.", err)
	}

	consumer := importservice.NewConsumer(
		objectstore.NewS3Store(clients.S3),
		queue.NewSQSQueue(clients.SQS, cfg.SQSQueueURL),
		importservice.ConsumerConfig{
			UploadFolder: cfg.UploadFolder,
			ParsedFolder: cfg.ParsedFolder,
			BatchSize:    cfg.ImportBatchSize,
		},
		log,
	)

	// 3. Handler: evento S3 -> ObjectCreated
	lambda.Start(func(ctx context.Context, ev events.S3Event) error {
		objects := make([]domain.ObjectCreated, 0, len(ev.Records))
		for _, rec := range ev.Records {
			objects = append(objects, domain.ObjectCreated{
				Bucket: rec.S3.Bucket.Name,
				Key:    rec.S3.Object.Key,
			})
		}

		summary, err := consumer.Handle(ctx, objects)
		log.Info("Invocação concluída.", map[string]interface{}{
			"objects": summary.Objects,
			"rows":    summary.Rows,
			"batches": summary.Batches,
		})
		return err
	})
}
