package domain

import (
	"context"
	"time"
)

// Product representa o item principal do catálogo (a Entidade).
// O ID é opaco e gerado quando ausente; CreatedAt é definido uma única vez.
type Product struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Price       float64   `json:"price" dynamodbav:"price"`
	CreatedAt   time.Time `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
}

// Stock guarda a quantidade disponível de um Produto (relação 1:1 via ProductID).
// Um Stock existe se e somente se o Produto referenciado existe.
type Stock struct {
	ProductID string `json:"product_id" dynamodbav:"product_id"`
	Count     int    `json:"count" dynamodbav:"count"`
}

// ProductWithStock é a visão de leitura exposta pela API (produto + count).
type ProductWithStock struct {
	Product
	Count int `json:"count"`
}

// ProductInput é o payload de criação de produto, usado tanto no POST /products
// quanto no corpo das mensagens da fila de importação.
type ProductInput struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       *Number `json:"price" validate:"required,gte=0,lte=9999999999.99"`
	Count       *Number `json:"count" validate:"required,gte=0,lte=2147483647,wholenum"`
}

// Product converte o payload na entidade, com o ID informado.
func (in ProductInput) Product(id string, createdAt time.Time) Product {
	return Product{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price.Float64(),
		CreatedAt:   createdAt,
	}
}

// Stock converte o payload no registro de estoque do produto id.
// Count já foi validado como inteiro dentro do intervalo de INTEGER.
func (in ProductInput) Stock(id string) Stock {
	return Stock{ProductID: id, Count: int(in.Count.Float64())}
}

// WriteBatch agrupa as escritas paralelas nas duas tabelas (products, stocks).
type WriteBatch struct {
	Products []Product
	Stocks   []Stock
}

// Len retorna o número total de entradas do lote (somando as duas tabelas).
func (b WriteBatch) Len() int {
	return len(b.Products) + len(b.Stocks)
}

// --- Interfaces de Contrato ---

// CatalogStore é o contrato da camada de persistência do catálogo (tabelas products e stocks).
// Cada operação é uma única ida ao armazenamento; os erros sobem sem retry interno.
type CatalogStore interface {
	GetProduct(ctx context.Context, id string) (Product, bool, error)
	GetStock(ctx context.Context, productID string) (Stock, bool, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListStocks(ctx context.Context) ([]Stock, error)
	// CreateProductWithStock grava produto e estoque atomicamente, falhando se o ID já existir.
	CreateProductWithStock(ctx context.Context, product Product, stock Stock) error
	// BatchPut grava o lote e retorna o subconjunto não processado.
	BatchPut(ctx context.Context, batch WriteBatch) (WriteBatch, error)
}
