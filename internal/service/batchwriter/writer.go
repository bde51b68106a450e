package batchwriter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gocatalog/config"
	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/notifier"
	"gocatalog/internal/pkg/queue"
	"gocatalog/internal/pkg/validation"
)

// DefaultMaxRetries é o número de novas tentativas para as entradas não processadas.
const DefaultMaxRetries = 3

// Config reúne os recursos exigidos pelo writer. Todos são obrigatórios.
type Config struct {
	ProductsTable string
	StocksTable   string
	TopicARN      string
	QueueURL      string
	MaxRetries    int
}

// Writer grava no catálogo os produtos recebidos da fila de importação.
type Writer struct {
	store     domain.CatalogStore
	publisher notifier.Publisher
	queue     queue.Queue
	cfg       Config
	logger    logger.Logger

	now   func() time.Time
	newID func() string
}

// NewWriter cria o writer. MaxRetries <= 0 usa DefaultMaxRetries.
func NewWriter(store domain.CatalogStore, publisher notifier.Publisher, q queue.Queue, cfg Config, log logger.Logger) *Writer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Writer{
		store:     store,
		publisher: publisher,
		queue:     q,
		cfg:       cfg,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// record é uma mensagem já decodificada com o ID definitivo.
type record struct {
	msg   domain.QueueMessage
	input domain.ProductInput
}

// Handle processa o lote inteiro ou nada: em caso de erro, publica falhas,
// não remove nenhuma mensagem e devolve o erro para que a fila reentregue o lote.
func (w *Writer) Handle(ctx context.Context, msgs []domain.QueueMessage) error {
	// 1. Lote vazio: nenhuma chamada externa
	if len(msgs) == 0 {
		return nil
	}

	// 2. Configuração obrigatória
	if err := w.checkConfig(); err != nil {
		w.logger.Error("Writer sem configuração obrigatória.", err)
		return err
	}

	w.logger.Info("Lote recebido.", map[string]interface{}{"messages": len(msgs)})

	records, written, err := w.process(ctx, msgs)
	if err != nil {
		w.publishFailures(ctx, msgs, err)
		return err
	}

	// 7. Apenas duplicados: confirma as mensagens sem notificar
	if written == 0 {
		w.logger.Info("Todas as mensagens já foram processadas; confirmando sem notificar.", map[string]interface{}{"messages": len(msgs)})
		return w.deleteAll(ctx, msgs)
	}

	// 10. Uma notificação de sucesso por mensagem original, em ordem
	for _, r := range records {
		n := domain.NewNotification(domain.StatusSuccess, r.input, "")
		if err := w.publisher.Publish(ctx, n); err != nil {
			w.publishFailures(ctx, msgs, err)
			return err
		}
	}

	// 11. Remover as mensagens só depois das notificações
	return w.deleteAll(ctx, msgs)
}

// process executa os passos 3 a 9 e devolve os registros (na ordem original)
// e quantas entradas foram gravadas.
func (w *Writer) process(ctx context.Context, msgs []domain.QueueMessage) ([]record, int, error) {
	// 3 e 4. Decodificar todas as mensagens antes de qualquer leitura no catálogo
	records := make([]record, len(msgs))
	for i, msg := range msgs {
		in, err := decodeInput(msg)
		if err != nil {
			return nil, 0, err
		}
		if in.ID == "" {
			in.ID = w.newID()
		}
		records[i] = record{msg: msg, input: in}
	}

	// 5 e 6. Checagem de idempotência e montagem do lote
	var batch domain.WriteBatch
	seen := make(map[string]bool, len(records))
	createdAt := w.now()
	for _, r := range records {
		id := r.input.ID
		if seen[id] {
			w.logger.Warn("ID repetido no mesmo lote ignorado.", map[string]interface{}{"product_id": id, "message_id": r.msg.MessageID})
			continue
		}
		seen[id] = true

		_, exists, err := w.store.GetProduct(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		if exists {
			// Entrega anterior pode ter gravado o produto sem o estoque
			_, hasStock, err := w.store.GetStock(ctx, id)
			if err != nil {
				return nil, 0, err
			}
			if !hasStock {
				w.logger.Warn("Produto sem estoque; regravando o estoque.", map[string]interface{}{"product_id": id, "message_id": r.msg.MessageID})
				batch.Stocks = append(batch.Stocks, r.input.Stock(id))
				continue
			}
			w.logger.Info("Produto já existe; mensagem duplicada ignorada.", map[string]interface{}{"product_id": id, "message_id": r.msg.MessageID})
			continue
		}

		batch.Products = append(batch.Products, r.input.Product(id, createdAt))
		batch.Stocks = append(batch.Stocks, r.input.Stock(id))
	}

	if batch.Len() == 0 {
		return records, 0, nil
	}

	// 8 e 9. Escrita em lote com retry das entradas não processadas
	if err := w.writeWithRetry(ctx, batch); err != nil {
		return nil, 0, err
	}

	w.logger.Info("Produtos gravados no catálogo.", map[string]interface{}{"products": len(batch.Products), "stocks": len(batch.Stocks)})
	return records, batch.Len(), nil
}

// writeWithRetry reenvia apenas o subconjunto não processado, até MaxRetries vezes.
func (w *Writer) writeWithRetry(ctx context.Context, batch domain.WriteBatch) error {
	pending := batch
	for attempt := 1; ; attempt++ {
		unprocessed, err := w.store.BatchPut(ctx, pending)
		if err != nil {
			return err
		}
		if unprocessed.Len() == 0 {
			return nil
		}
		if attempt > w.cfg.MaxRetries {
			return apperror.NewWriteExhaustedError(attempt, unprocessed.Len())
		}

		w.logger.Warn("Reenviando entradas não processadas.", map[string]interface{}{
			"attempt":     attempt + 1,
			"unprocessed": unprocessed.Len(),
		})
		pending = unprocessed
	}
}

// publishFailures notifica a falha para cada corpo que ainda pode ser decodificado.
// Erros de publicação são apenas registrados; o erro original prevalece.
func (w *Writer) publishFailures(ctx context.Context, msgs []domain.QueueMessage, cause error) {
	for _, msg := range msgs {
		var in domain.ProductInput
		if err := json.Unmarshal([]byte(msg.Body), &in); err != nil {
			w.logger.Warn("Corpo inválido; notificação de falha não publicada.", map[string]interface{}{"message_id": msg.MessageID})
			continue
		}

		n := domain.NewNotification(domain.StatusFailure, in, cause.Error())
		if err := w.publisher.Publish(ctx, n); err != nil {
			w.logger.Error(fmt.Sprintf("Falha ao publicar notificação de erro da mensagem %s.", msg.MessageID), err)
		}
	}
}

// deleteAll remove as mensagens em paralelo e espera todas terminarem.
func (w *Writer) deleteAll(ctx context.Context, msgs []domain.QueueMessage) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, msg := range msgs {
		handle := msg.ReceiptHandle
		g.Go(func() error {
			return w.queue.Delete(gctx, handle)
		})
	}
	if err := g.Wait(); err != nil {
		w.logger.Error("Falha ao remover mensagens da fila.", err)
		return err
	}

	w.logger.Info("Mensagens removidas da fila.", map[string]interface{}{"messages": len(msgs)})
	return nil
}

func (w *Writer) checkConfig() error {
	var missing []string
	if w.cfg.ProductsTable == "" {
		missing = append(missing, config.KeyProductsTable)
	}
	if w.cfg.StocksTable == "" {
		missing = append(missing, config.KeyStocksTable)
	}
	if w.cfg.TopicARN == "" {
		missing = append(missing, config.KeySNSTopicARN)
	}
	if w.cfg.QueueURL == "" {
		missing = append(missing, config.KeySQSQueueURL)
	}
	if len(missing) > 0 {
		return apperror.NewConfigError(missing...)
	}
	return nil
}

func decodeInput(msg domain.QueueMessage) (domain.ProductInput, error) {
	var in domain.ProductInput
	if err := json.Unmarshal([]byte(msg.Body), &in); err != nil {
		return in, apperror.NewValidationError(fmt.Sprintf("message %s has an invalid body: %v", msg.MessageID, err))
	}
	if err := validation.Struct(in, fmt.Sprintf("message %s has invalid product data", msg.MessageID)); err != nil {
		return in, err
	}
	return in, nil
}
