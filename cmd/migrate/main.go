package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"gocatalog/config"
	"gocatalog/internal/pkg/database"
	"gocatalog/internal/pkg/logger"
)

// Executa as migrações do backend PostgreSQL do catálogo.
// Uso: migrate [-dir ./sql] [up|down|status|version|...] [args]
func main() {
	// 0. .env é opcional
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"service": "migrate"})
	if err := cfg.Require(config.KeyDatabaseURL); err != nil {
		log.Fatal("Configuração incompleta.", err)
	}

	migrationsDir := flag.String("dir", "./sql", "diretório com os arquivos de migração")
	flag.Parse()

	command, args := "up", []string(nil)
	if flag.NArg() > 0 {
		command, args = flag.Arg(0), flag.Args()[1:]
	}

	// 2. Conexão
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar no PostgreSQL.", err)
	}
	defer db.Close()

	// 3. goose registra pelo mesmo logger JSON
	goose.SetLogger(logger.PrintfLogger{Logger: log})
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Dialeto não suportado.", err)
	}

	if err := goose.Run(command, db, *migrationsDir, args...); err != nil {
		log.Fatal("Migração falhou.", err)
	}

	log.Info("Migração concluída.", map[string]interface{}{"command": command, "dir": *migrationsDir})
}
