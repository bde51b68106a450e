package importservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/csvrows"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/objectstore"
	"gocatalog/internal/pkg/queue"
)

// ConsumerConfig define as pastas e o tamanho dos lotes enviados à fila.
type ConsumerConfig struct {
	UploadFolder string
	ParsedFolder string
	BatchSize    int // 1..queue.MaxBatchSize
}

// ImportSummary resume o que foi enfileirado numa invocação.
type ImportSummary struct {
	Objects int
	Rows    int
	Batches int
}

// Consumer transforma cada CSV enviado em mensagens na fila e arquiva o arquivo.
type Consumer struct {
	store  objectstore.Store
	queue  queue.Queue
	cfg    ConsumerConfig
	logger logger.Logger
}

// NewConsumer cria o consumidor de eventos de objeto criado.
func NewConsumer(store objectstore.Store, q queue.Queue, cfg ConsumerConfig, log logger.Logger) *Consumer {
	if cfg.BatchSize <= 0 || cfg.BatchSize > queue.MaxBatchSize {
		cfg.BatchSize = queue.MaxBatchSize
	}
	return &Consumer{store: store, queue: q, cfg: cfg, logger: log}
}

// Handle processa os eventos na ordem recebida. A primeira falha interrompe os
// eventos restantes e é devolvida sem alteração, para que o gatilho reentregue.
func (c *Consumer) Handle(ctx context.Context, events []domain.ObjectCreated) (ImportSummary, error) {
	var summary ImportSummary

	for _, ev := range events {
		// 1. Decodificar a chave (percent-encoding e '+' como espaço)
		key, err := url.QueryUnescape(ev.Key)
		if err != nil {
			return summary, apperror.NewValidationError(fmt.Sprintf("invalid object key %q", ev.Key))
		}

		if !strings.HasPrefix(key, c.uploadPrefix()) {
			c.logger.Warn("Objeto fora da pasta de upload ignorado.", map[string]interface{}{"bucket": ev.Bucket, "key": key})
			continue
		}

		rows, batches, err := c.processObject(ctx, ev.Bucket, key)
		if err != nil {
			c.logger.Error(fmt.Sprintf("Falha ao importar %s/%s.", ev.Bucket, key), err)
			return summary, err
		}

		summary.Objects++
		summary.Rows += rows
		summary.Batches += batches
	}

	c.logger.Info("Importação concluída.", map[string]interface{}{
		"objects": summary.Objects,
		"rows":    summary.Rows,
		"batches": summary.Batches,
	})
	return summary, nil
}

// processObject enfileira todas as linhas do objeto e só então o arquiva.
func (c *Consumer) processObject(ctx context.Context, bucket, key string) (int, int, error) {
	// 2. Ler o objeto como stream
	body, err := c.store.Get(ctx, bucket, key)
	if err != nil {
		return 0, 0, err
	}
	defer body.Close()

	// 3 e 4. Decodificar e agrupar em lotes
	dec := csvrows.NewDecoder(body)
	pending := make([]string, 0, c.cfg.BatchSize)
	rows, batches := 0, 0

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		// 5. Um SendBatch por lote; falha interrompe o objeto
		if err := c.queue.SendBatch(ctx, pending); err != nil {
			return err
		}
		batches++
		c.logger.Debug("Lote enviado para a fila.", map[string]interface{}{"key": key, "size": len(pending)})
		pending = make([]string, 0, c.cfg.BatchSize)
		return nil
	}

	for {
		row, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, batches, err
		}

		msg, err := json.Marshal(row)
		if err != nil {
			return rows, batches, apperror.NewInternalError("failed to encode row", err)
		}
		pending = append(pending, string(msg))
		rows++

		if len(pending) == c.cfg.BatchSize {
			if err := flush(); err != nil {
				return rows, batches, err
			}
		}
	}
	if err := flush(); err != nil {
		return rows, batches, err
	}

	// 6. Arquivar: copiar para parsed/ e só depois remover o original
	dst := c.parsedKey(key)
	if err := c.store.Copy(ctx, bucket, key, dst); err != nil {
		return rows, batches, err
	}
	if err := c.store.Delete(ctx, bucket, key); err != nil {
		return rows, batches, err
	}

	c.logger.Info("Arquivo importado e arquivado.", map[string]interface{}{
		"bucket":  bucket,
		"key":     key,
		"parsed":  dst,
		"rows":    rows,
		"batches": batches,
	})
	return rows, batches, nil
}

func (c *Consumer) uploadPrefix() string {
	return c.cfg.UploadFolder + "/"
}

func (c *Consumer) parsedKey(key string) string {
	return c.cfg.ParsedFolder + "/" + strings.TrimPrefix(key, c.uploadPrefix())
}
