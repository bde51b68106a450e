package productservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/validation"
)

// Define a chave de cache para produtos.
const productCacheKey = "product:%s"

// Service implementa as operações de leitura e criação do catálogo expostas pela API.
type Service struct {
	store    domain.CatalogStore
	cache    cache.Client // nil desativa o cache
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(store domain.CatalogStore, cacheClient cache.Client, cacheTTL time.Duration, log logger.Logger) *Service {
	return &Service{
		store:    store,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// --- Implementação: CreateProduct ---
func (s *Service) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.ProductWithStock, error) {
	// 1. Validação do payload
	if err := validation.Struct(in, "Invalid product data"); err != nil {
		s.logger.Warn("Payload de produto inválido.", map[string]interface{}{"error": err.Error()})
		return domain.ProductWithStock{}, err
	}

	// 2. Preenchimento de ID e CreatedAt
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	product := in.Product(id, time.Now().UTC())
	stock := in.Stock(id)

	// 3. Produto e estoque na mesma transação
	if err := s.store.CreateProductWithStock(ctx, product, stock); err != nil {
		s.logger.Error("Falha ao criar produto.", err)
		return domain.ProductWithStock{}, err
	}

	s.logger.Info("Produto criado.", map[string]interface{}{"product_id": id})
	return domain.ProductWithStock{Product: product, Count: stock.Count}, nil
}

// --- Implementação: GetProductByID (Cache-Aside) ---
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.ProductWithStock, error) {
	key := fmt.Sprintf(productCacheKey, id)

	// 1. Tentar obter do Cache
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	// 2. Busca no catálogo
	product, found, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return domain.ProductWithStock{}, err
	}
	if !found {
		return domain.ProductWithStock{}, apperror.NewNotFoundError("Product not found")
	}

	// 3. Estoque ausente vale zero
	stock, _, err := s.store.GetStock(ctx, id)
	if err != nil {
		return domain.ProductWithStock{}, err
	}

	result := domain.ProductWithStock{Product: product, Count: stock.Count}

	// 4. Popular o cache para as próximas leituras
	s.toCache(ctx, key, result)
	return result, nil
}

// --- Implementação: ListProducts ---
func (s *Service) ListProducts(ctx context.Context) ([]domain.ProductWithStock, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(stocks))
	for _, st := range stocks {
		counts[st.ProductID] = st.Count
	}

	result := make([]domain.ProductWithStock, 0, len(products))
	for _, p := range products {
		result = append(result, domain.ProductWithStock{Product: p, Count: counts[p.ID]})
	}
	return result, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (domain.ProductWithStock, bool) {
	if s.cache == nil {
		return domain.ProductWithStock{}, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return domain.ProductWithStock{}, false
	}

	var p domain.ProductWithStock
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		s.logger.Warn("Entrada de cache inválida.", map[string]interface{}{"key": key})
		return domain.ProductWithStock{}, false
	}
	return p, true
}

func (s *Service) toCache(ctx context.Context, key string, p domain.ProductWithStock) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
