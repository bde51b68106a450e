package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"gocatalog/config"
	"gocatalog/internal/pkg/awsclient"
	"gocatalog/internal/pkg/basicauth"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/objectstore"

	// Camadas para Injeção de Dependências
	"gocatalog/internal/api/importfile"
	"gocatalog/internal/api/product"
	"gocatalog/internal/api/router"
	"gocatalog/internal/repository/catalogrepo"
	"gocatalog/internal/service/importservice"
	"gocatalog/internal/service/productservice"
)

func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"service": "api"})
	if err := cfg.Require(config.KeyBucketName); err != nil {
		log.Fatal("Configuração incompleta.", err)
	}
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "backend": cfg.CatalogBackend})

	ctx := context.Background()

	// 2. Conexão com Recursos de Infraestrutura

	// A. Clientes AWS (uma vez por processo)
	clients, err := awsclient.New(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatal("Falha ao carregar configuração AWS.", err)
	}

	// B. Catálogo (DynamoDB ou PostgreSQL)
	store, closeStore, err := catalogrepo.Open(cfg, clients.DynamoDB, log)
	if err != nil {
		log.Fatal("Falha ao abrir o catálogo.", err)
	}
	defer closeStore()

	// C. Cache (Redis), opcional
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis indisponível; cache e rate limiting desativados.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
			log.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	productSvc := productservice.NewService(store, cacheClient, cfg.CacheTTL, log)
	productHandler := product.NewHandler(productSvc, log)

	producer := importservice.NewProducer(objectstore.NewS3Store(clients.S3), importservice.ProducerConfig{
		Bucket:       cfg.BucketName,
		UploadFolder: cfg.UploadFolder,
		URLExpiry:    cfg.SignedURLExpiry,
	}, log)
	importHandler := importfile.NewHandler(producer, cfg.MaxUploadSizeBytes, log)

	if cfg.AuthLoginName == "" {
		log.Warn("AUTH_LOGIN_NAME vazio; /import sem autenticação.", nil)
	}

	// 4. Roteador/Servidor
	r := router.NewRouter(router.Options{
		Products:       productHandler,
		Import:         importHandler,
		Cache:          cacheClient,
		RateLimit:      cfg.RateLimitMaxRequests,
		RateLimitEvery: cfg.RateLimitPeriod,
		Auth:           basicauth.Credentials{Login: cfg.AuthLoginName, Password: cfg.AuthPassword},
		Logger:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
