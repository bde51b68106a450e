package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"gocatalog/config"
	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/awsclient"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/repository/catalogrepo"
	"gocatalog/internal/service/productservice"
)

// seedProducts é a carga inicial do catálogo.
var seedProducts = []domain.ProductInput{
	{ID: "7567ec4b-b10c-48c5-9345-fc73c48a80aa", Title: "Product One", Description: "Short Product Description 1", Price: domain.NewNumber(24), Count: domain.NewNumber(1)},
	{ID: "7567ec4b-b10c-48c5-9345-fc73c48a80a1", Title: "Product Two", Description: "Short Product Description 2", Price: domain.NewNumber(15), Count: domain.NewNumber(2)},
	{ID: "7567ec4b-b10c-48c5-9345-fc73c48a80a3", Title: "Product Three", Description: "Short Product Description 3", Price: domain.NewNumber(23), Count: domain.NewNumber(3)},
	{ID: "7567ec4b-b10c-48c5-9345-fc73348a80a1", Title: "Product Four", Description: "Short Product Description 4", Price: domain.NewNumber(15), Count: domain.NewNumber(4)},
	{ID: "7567ec4b-b10c-48c5-9445-fc73c48a80a2", Title: "Product Five", Description: "Short Product Description 5", Price: domain.NewNumber(23), Count: domain.NewNumber(5)},
	{ID: "7567ec4b-b10c-45c5-9345-fc73c48a80a1", Title: "Product Six", Description: "Short Product Description 6", Price: domain.NewNumber(15), Count: domain.NewNumber(6)},
	{ID: "3d3909c0-ba48-42d4-a791-c56754386514", Title: "Product Seven", Description: "Short Product Description 7", Price: domain.NewNumber(24), Count: domain.NewNumber(26)},
	{ID: "1b065af7-d6fb-44e5-9231-fcf5ec2b2bb6", Title: "Product Eight", Description: "Short Product Description 8", Price: domain.NewNumber(36), Count: domain.NewNumber(12)},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"service": "fill-tables"})

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

	// Sem cache: a carga escreve direto no catálogo
	svc := productservice.NewService(store, nil, cfg.CacheTTL, log)

	created, err := svc.Seed(ctx, seedProducts)
	if err != nil {
		log.Fatal("Falha na carga inicial.", err)
	}
	log.Info("Carga inicial concluída.", map[string]interface{}{"created": created, "total": len(seedProducts)})
}
