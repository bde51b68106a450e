package catalogrepo

import (
	"fmt"

	"gocatalog/config"
	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/database"
	"gocatalog/internal/pkg/logger"
)

// BackendPostgres seleciona o PostgresStore; qualquer outro valor usa o DynamoDB.
const BackendPostgres = "postgres"

// Open cria o CatalogStore do backend configurado. A função close libera
// a conexão do PostgreSQL e é um no-op para o DynamoDB.
func Open(cfg *config.Config, dynamo DynamoAPI, log logger.Logger) (domain.CatalogStore, func() error, error) {
	if err := cfg.Require(cfg.CatalogKeys()...); err != nil {
		return nil, nil, err
	}

	if cfg.CatalogBackend == BackendPostgres {
		db, err := database.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog backend postgres: %w", err)
		}
		log.Info("Catálogo no PostgreSQL.", nil)
		return NewPostgresStore(db, cfg.DBTimeout, log), db.Close, nil
	}

	log.Info("Catálogo no DynamoDB.", map[string]interface{}{"products": cfg.ProductsTable, "stocks": cfg.StocksTable})
	return NewDynamoStore(dynamo, cfg.ProductsTable, cfg.StocksTable, log), func() error { return nil }, nil
}
