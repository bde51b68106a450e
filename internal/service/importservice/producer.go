package importservice

import (
	"context"
	"io"
	"strings"
	"time"

	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/objectstore"
)

// CSVContentType é o content type exigido no upload do arquivo.
const CSVContentType = "text/csv"

// ProducerConfig reúne o destino dos uploads.
type ProducerConfig struct {
	Bucket       string
	UploadFolder string
	URLExpiry    time.Duration
}

// Producer emite URLs de upload para a pasta monitorada pelo Consumer.
type Producer struct {
	store  objectstore.Store
	cfg    ProducerConfig
	logger logger.Logger
}

// NewProducer cria o serviço de upload.
func NewProducer(store objectstore.Store, cfg ProducerConfig, log logger.Logger) *Producer {
	return &Producer{store: store, cfg: cfg, logger: log}
}

// SignedUploadURL valida o nome e retorna a URL assinada (PUT, text/csv) para <upload>/<name>.
func (p *Producer) SignedUploadURL(ctx context.Context, name string) (string, error) {
	key, err := p.uploadKey(name)
	if err != nil {
		return "", err
	}

	url, err := p.store.PresignPut(ctx, p.cfg.Bucket, key, CSVContentType, p.cfg.URLExpiry)
	if err != nil {
		p.logger.Error("Falha ao gerar URL assinada.", err)
		return "", err
	}

	p.logger.Info("URL de upload emitida.", map[string]interface{}{"key": key, "expires_in": p.cfg.URLExpiry.String()})
	return url, nil
}

// Upload grava o arquivo diretamente em <upload>/<name>, disparando o mesmo fluxo de importação.
func (p *Producer) Upload(ctx context.Context, name string, body io.Reader) (string, error) {
	key, err := p.uploadKey(name)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", apperror.NewValidationError("Missing request body")
	}

	if err := p.store.Put(ctx, p.cfg.Bucket, key, CSVContentType, body); err != nil {
		p.logger.Error("Falha ao gravar arquivo de importação.", err)
		return "", err
	}

	p.logger.Info("Arquivo de importação recebido.", map[string]interface{}{"key": key})
	return key, nil
}

func (p *Producer) uploadKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidationError("File name is required")
	}
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", apperror.NewValidationError("Invalid file name")
	}
	return p.cfg.UploadFolder + "/" + name, nil
}
