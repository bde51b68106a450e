package main

import (
	"context"
	"log"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"gocatalog/config"
	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/awsclient"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/notifier"
	"gocatalog/internal/pkg/queue"
	"gocatalog/internal/repository/catalogrepo"
	"gocatalog/internal/service/batchwriter"
)

// Nomes das tabelas criadas pela migração quando o backend é o PostgreSQL.
const (
	sqlProductsTable = "products"
	sqlStocksTable   = "stocks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"service": "catalog-batch-process"})

	// 2. Clientes e catálogo
	ctx := context.Background()
	clients, err := awsclient.New(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatal("Falha ao carregar configuração AWS.", err)
	}

	store, closeStore, err := catalogrepo.Open(cfg, clients.DynamoDB, log)
	if err != nil {
		log.Fatal("Falha ao abrir o catálogo.", err)
	}
	defer closeStore()

	products, stocks := cfg.ProductsTable, cfg.StocksTable
	if cfg.CatalogBackend == catalogrepo.BackendPostgres {
		products, stocks = sqlProductsTable, sqlStocksTable
	}

	// Tópico e fila ausentes são reportados pelo writer a cada invocação (ConfigError).
	writer := batchwriter.NewWriter(
		store,
		notifier.NewSNSPublisher(clients.SNS, cfg.SNSTopicARN),
		queue.NewSQSQueue(clients.SQS, cfg.SQSQueueURL),
		batchwriter.Config{
			ProductsTable: products,
			StocksTable:   stocks,
			TopicARN:      cfg.SNSTopicARN,
			QueueURL:      cfg.SQSQueueURL,
			MaxRetries:    cfg.WriteMaxRetries,
		},
		log,
	)

	// 3. Handler: evento SQS -> QueueMessage
	lambda.Start(func(ctx context.Context, ev events.SQSEvent) error {
		return writer.Handle(ctx, toMessages(ev.Records))
	})
}

func toMessages(records []events.SQSMessage) []domain.QueueMessage {
	msgs := make([]domain.QueueMessage, 0, len(records))
	for _, rec := range records {
		count, _ := strconv.Atoi(rec.Attributes["ApproximateReceiveCount"])
		msgs = append(msgs, domain.QueueMessage{
			MessageID:     rec.MessageId,
			Body:          rec.Body,
			ReceiptHandle: rec.ReceiptHandle,
			ReceiveCount:  count,
		})
	}
	return msgs
}
