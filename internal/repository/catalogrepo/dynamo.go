package catalogrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// maxBatchWriteRequests é o limite de requisições por BatchWriteItem.
const maxBatchWriteRequests = 25

// DynamoAPI é o subconjunto do *dynamodb.Client usado pelo repositório.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoStore implementa domain.CatalogStore sobre as tabelas products e stocks.
type DynamoStore struct {
	Client        DynamoAPI
	ProductsTable string
	StocksTable   string
	logger        logger.Logger
}

// NewDynamoStore cria o repositório DynamoDB.
func NewDynamoStore(client DynamoAPI, productsTable, stocksTable string, log logger.Logger) *DynamoStore {
	return &DynamoStore{
		Client:        client,
		ProductsTable: productsTable,
		StocksTable:   stocksTable,
		logger:        log,
	}
}

// GetProduct lê o produto pela chave "id".
func (s *DynamoStore) GetProduct(ctx context.Context, id string) (domain.Product, bool, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.ProductsTable),
		Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return domain.Product{}, false, apperror.NewUpstreamError("dynamodb GetItem", err)
	}
	if out == nil || out.Item == nil {
		return domain.Product{}, false, nil
	}

	var p domain.Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return domain.Product{}, false, apperror.NewInternalError("failed to decode product item", err)
	}
	return p, true, nil
}

// GetStock lê o estoque pela chave "product_id".
func (s *DynamoStore) GetStock(ctx context.Context, productID string) (domain.Stock, bool, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.StocksTable),
		Key:       map[string]types.AttributeValue{"product_id": &types.AttributeValueMemberS{Value: productID}},
	})
	if err != nil {
		return domain.Stock{}, false, apperror.NewUpstreamError("dynamodb GetItem", err)
	}
	if out == nil || out.Item == nil {
		return domain.Stock{}, false, nil
	}

	var st domain.Stock
	if err := attributevalue.UnmarshalMap(out.Item, &st); err != nil {
		return domain.Stock{}, false, apperror.NewInternalError("failed to decode stock item", err)
	}
	return st, true, nil
}

// ListProducts faz o scan completo da tabela de produtos.
func (s *DynamoStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	err := s.scan(ctx, s.ProductsTable, func(items []map[string]types.AttributeValue) error {
		var page []domain.Product
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return apperror.NewInternalError("failed to decode product items", err)
		}
		products = append(products, page...)
		return nil
	})
	return products, err
}

// ListStocks faz o scan completo da tabela de estoques.
func (s *DynamoStore) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	stocks := []domain.Stock{}
	err := s.scan(ctx, s.StocksTable, func(items []map[string]types.AttributeValue) error {
		var page []domain.Stock
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return apperror.NewInternalError("failed to decode stock items", err)
		}
		stocks = append(stocks, page...)
		return nil
	})
	return stocks, err
}

func (s *DynamoStore) scan(ctx context.Context, table string, fn func([]map[string]types.AttributeValue) error) error {
	paginator := dynamodb.NewScanPaginator(s.Client, &dynamodb.ScanInput{TableName: aws.String(table)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return apperror.NewUpstreamError("dynamodb Scan", err)
		}
		if err := fn(page.Items); err != nil {
			return err
		}
	}
	return nil
}

// CreateProductWithStock grava produto e estoque numa transação.
// O put do produto exige attribute_not_exists(id); um ID existente vira ConflictError.
func (s *DynamoStore) CreateProductWithStock(ctx context.Context, product domain.Product, stock domain.Stock) error {
	productItem, err := attributevalue.MarshalMap(product)
	if err != nil {
		return apperror.NewInternalError("failed to encode product", err)
	}
	stockItem, err := attributevalue.MarshalMap(stock)
	if err != nil {
		return apperror.NewInternalError("failed to encode stock", err)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(s.ProductsTable),
				Item:                productItem,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			}},
			{Put: &types.Put{
				TableName: aws.String(s.StocksTable),
				Item:      stockItem,
			}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && conditionFailed(canceled) {
			s.logger.Warn("Produto já existe, transação cancelada.", map[string]interface{}{"product_id": product.ID})
			return apperror.NewConflictError(fmt.Sprintf("Product %s already exists", product.ID), err)
		}
		return apperror.NewUpstreamError("dynamodb TransactWriteItems", err)
	}
	return nil
}

func conditionFailed(e *types.TransactionCanceledException) bool {
	for _, reason := range e.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// BatchPut grava produtos e estoques com BatchWriteItem, em blocos de até 25 requisições,
// e devolve as entradas que o DynamoDB reportou como não processadas.
// Um produto e o seu estoque sempre vão no mesmo bloco.
func (s *DynamoStore) BatchPut(ctx context.Context, batch domain.WriteBatch) (domain.WriteBatch, error) {
	// 1. Montar as requisições agrupadas por produto
	units, err := s.writeUnits(batch)
	if err != nil {
		return domain.WriteBatch{}, err
	}

	// 2. Enviar em blocos e acumular o que não foi processado
	var unprocessed domain.WriteBatch
	for _, chunk := range chunkUnits(units, maxBatchWriteRequests) {
		input := map[string][]types.WriteRequest{}
		for _, r := range chunk {
			input[r.table] = append(input[r.table], types.WriteRequest{PutRequest: &types.PutRequest{Item: r.item}})
		}

		out, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: input})
		if err != nil {
			return domain.WriteBatch{}, apperror.NewUpstreamError("dynamodb BatchWriteItem", err)
		}
		if out == nil {
			continue
		}

		// 3. Decodificar os itens não processados de volta para o domínio
		if err := s.collectUnprocessed(out.UnprocessedItems, &unprocessed); err != nil {
			return domain.WriteBatch{}, err
		}
	}

	if unprocessed.Len() > 0 {
		s.logger.Warn("Entradas não processadas no BatchWriteItem.", map[string]interface{}{
			"products": len(unprocessed.Products),
			"stocks":   len(unprocessed.Stocks),
		})
	}
	return unprocessed, nil
}

// writeUnits devolve, na ordem dos produtos, o par produto+estoque de cada ID.
// Estoques sem produto no lote (retry de sobra) viram unidades sozinhos.
func (s *DynamoStore) writeUnits(batch domain.WriteBatch) ([][]tableRequest, error) {
	stocks := make(map[string]domain.Stock, len(batch.Stocks))
	for _, st := range batch.Stocks {
		stocks[st.ProductID] = st
	}

	units := make([][]tableRequest, 0, len(batch.Products)+len(batch.Stocks))
	for _, p := range batch.Products {
		item, err := attributevalue.MarshalMap(p)
		if err != nil {
			return nil, apperror.NewInternalError("failed to encode product", err)
		}
		unit := []tableRequest{{table: s.ProductsTable, item: item}}

		if st, ok := stocks[p.ID]; ok {
			stockItem, err := attributevalue.MarshalMap(st)
			if err != nil {
				return nil, apperror.NewInternalError("failed to encode stock", err)
			}
			unit = append(unit, tableRequest{table: s.StocksTable, item: stockItem})
			delete(stocks, p.ID)
		}
		units = append(units, unit)
	}

	for _, st := range batch.Stocks {
		if _, ok := stocks[st.ProductID]; !ok {
			continue
		}
		item, err := attributevalue.MarshalMap(st)
		if err != nil {
			return nil, apperror.NewInternalError("failed to encode stock", err)
		}
		units = append(units, []tableRequest{{table: s.StocksTable, item: item}})
		delete(stocks, st.ProductID)
	}
	return units, nil
}

// chunkUnits junta unidades inteiras em blocos de no máximo limit requisições.
func chunkUnits(units [][]tableRequest, limit int) [][]tableRequest {
	var chunks [][]tableRequest
	var current []tableRequest
	for _, u := range units {
		if len(current)+len(u) > limit {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, u...)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

type tableRequest struct {
	table string
	item  map[string]types.AttributeValue
}

func (s *DynamoStore) collectUnprocessed(items map[string][]types.WriteRequest, into *domain.WriteBatch) error {
	for _, req := range items[s.ProductsTable] {
		if req.PutRequest == nil {
			continue
		}
		var p domain.Product
		if err := attributevalue.UnmarshalMap(req.PutRequest.Item, &p); err != nil {
			return apperror.NewInternalError("failed to decode unprocessed product", err)
		}
		into.Products = append(into.Products, p)
	}
	for _, req := range items[s.StocksTable] {
		if req.PutRequest == nil {
			continue
		}
		var st domain.Stock
		if err := attributevalue.UnmarshalMap(req.PutRequest.Item, &st); err != nil {
			return apperror.NewInternalError("failed to decode unprocessed stock", err)
		}
		into.Stocks = append(into.Stocks, st)
	}
	return nil
}
