package catalogrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// uniqueViolation é o código SQLSTATE de chave duplicada.
const uniqueViolation = "23505"

// PostgresStore implementa domain.CatalogStore sobre as tabelas products e stocks do PostgreSQL.
// Cada BatchPut é uma única transação, portanto nunca há entradas não processadas.
type PostgresStore struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPostgresStore cria o repositório SQL.
func NewPostgresStore(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *PostgresStore {
	return &PostgresStore{DB: db, DBTimeout: dbTimeout, logger: log}
}

func (r *PostgresStore) GetProduct(ctx context.Context, id string) (domain.Product, bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, title, description, price, created_at FROM products WHERE id = $1`

	var p domain.Product
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, apperror.NewDBError("failed to fetch product", err)
	}
	return p, true, nil
}

func (r *PostgresStore) GetStock(ctx context.Context, productID string) (domain.Stock, bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT product_id, count FROM stocks WHERE product_id = $1`

	var st domain.Stock
	err := r.DB.QueryRowContext(ctxTimeout, query, productID).Scan(&st.ProductID, &st.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Stock{}, false, nil
	}
	if err != nil {
		return domain.Stock{}, false, apperror.NewDBError("failed to fetch stock", err)
	}
	return st, true, nil
}

func (r *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT id, title, description, price, created_at FROM products ORDER BY created_at`)
	if err != nil {
		return nil, apperror.NewDBError("failed to list products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, apperror.NewDBError("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate products", err)
	}
	return products, nil
}

func (r *PostgresStore) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT product_id, count FROM stocks`)
	if err != nil {
		return nil, apperror.NewDBError("failed to list stocks", err)
	}
	defer rows.Close()

	stocks := []domain.Stock{}
	for rows.Next() {
		var st domain.Stock
		if err := rows.Scan(&st.ProductID, &st.Count); err != nil {
			return nil, apperror.NewDBError("failed to scan stock", err)
		}
		stocks = append(stocks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate stocks", err)
	}
	return stocks, nil
}

// CreateProductWithStock insere produto e estoque na mesma transação.
func (r *PostgresStore) CreateProductWithStock(ctx context.Context, product domain.Product, stock domain.Stock) (err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const productSQL = `INSERT INTO products (id, title, description, price, created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err = tx.ExecContext(ctxTimeout, productSQL, product.ID, product.Title, product.Description, product.Price, product.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.logger.Warn("Produto já existe.", map[string]interface{}{"product_id": product.ID})
			return apperror.NewConflictError(fmt.Sprintf("Product %s already exists", product.ID), err)
		}
		return apperror.NewDBError("failed to insert product", err)
	}

	const stockSQL = `INSERT INTO stocks (product_id, count) VALUES ($1,$2)`
	if _, err = tx.ExecContext(ctxTimeout, stockSQL, stock.ProductID, stock.Count); err != nil {
		return apperror.NewDBError("failed to insert stock", err)
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewDBError("failed to commit tx", err)
	}
	return nil
}

// BatchPut grava (upsert) todo o lote numa transação. Semântica de put: sobrescreve o registro existente.
func (r *PostgresStore) BatchPut(ctx context.Context, batch domain.WriteBatch) (_ domain.WriteBatch, err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.WriteBatch{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const productSQL = `INSERT INTO products (id, title, description, price, created_at) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
		price = EXCLUDED.price, created_at = EXCLUDED.created_at`
	for _, p := range batch.Products {
		if _, err = tx.ExecContext(ctxTimeout, productSQL, p.ID, p.Title, p.Description, p.Price, p.CreatedAt); err != nil {
			return domain.WriteBatch{}, apperror.NewDBError("failed to upsert product", err)
		}
	}

	const stockSQL = `INSERT INTO stocks (product_id, count) VALUES ($1,$2)
		ON CONFLICT (product_id) DO UPDATE SET count = EXCLUDED.count`
	for _, st := range batch.Stocks {
		if _, err = tx.ExecContext(ctxTimeout, stockSQL, st.ProductID, st.Count); err != nil {
			return domain.WriteBatch{}, apperror.NewDBError("failed to upsert stock", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.WriteBatch{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.logger.Debug("Lote gravado no PostgreSQL.", map[string]interface{}{"products": len(batch.Products), "stocks": len(batch.Stocks)})
	return domain.WriteBatch{}, nil
}
