package importfile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// ImportService define o contrato de emissão de URLs e upload direto.
type ImportService interface {
	SignedUploadURL(ctx context.Context, name string) (string, error)
	Upload(ctx context.Context, name string, body io.Reader) (string, error)
}

// UploadResponse é a resposta do upload direto.
type UploadResponse struct {
	Key string `json:"key" example:"uploaded/products.csv"`
}

// Handler agrupa os handlers de importação.
type Handler struct {
	Service       ImportService
	Logger        logger.Logger
	MaxUploadSize int64
}

// NewHandler cria o Handler de importação.
func NewHandler(svc ImportService, maxUploadSize int64, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log, MaxUploadSize: maxUploadSize}
}

// writeJSON envia o corpo com o status informado.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("Falha ao codificar JSON de resposta", err)
	}
}

// writeError usa o formato {error, details} deste endpoint. Erros 4xx expõem a
// mensagem da validação; erros 5xx expõem a mensagem fixa e o erro em details.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, serverMessage string) {
	status, category, message := apperror.MapToHTTPStatus(err)
	if status < 500 {
		h.Logger.Debug("Requisição de importação rejeitada.", map[string]interface{}{"path": r.URL.Path, "category": category})
		h.writeJSON(w, status, domain.ImportErrorResponse{Error: message})
		return
	}

	h.Logger.Error(serverMessage, err)
	h.writeJSON(w, status, domain.ImportErrorResponse{Error: serverMessage, Details: err.Error()})
}

// SignedURLHandler lida com a requisição GET /import?name=<arquivo>.
// @Summary Emite URL assinada para upload do CSV
// @Tags import
// @Produce json
// @Param name query string true "Nome do arquivo CSV"
// @Success 200 {object} domain.SignedURLResponse
// @Failure 400 {object} domain.ImportErrorResponse "File name is required"
// @Failure 401 {object} domain.ErrorResponse "Credenciais ausentes"
// @Failure 403 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ImportErrorResponse "Could not generate signed URL"
// @Security BasicAuth
// @Router /import [get]
func (h *Handler) SignedURLHandler(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.SignedUploadURL(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.writeError(w, r, err, "Could not generate signed URL")
		return
	}
	h.writeJSON(w, http.StatusOK, domain.SignedURLResponse{SignedURL: url})
}

// UploadHandler lida com a requisição POST /import?name=<arquivo> (corpo = CSV).
// @Summary Envia o CSV diretamente para a pasta de importação
// @Tags import
// @Accept text/csv
// @Produce json
// @Param name query string true "Nome do arquivo CSV"
// @Success 202 {object} UploadResponse
// @Failure 400 {object} domain.ImportErrorResponse "File name is required"
// @Failure 413 {object} domain.ImportErrorResponse "File too large"
// @Failure 500 {object} domain.ImportErrorResponse "Could not upload file"
// @Security BasicAuth
// @Router /import [post]
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.MaxUploadSize {
		h.writeJSON(w, http.StatusRequestEntityTooLarge, domain.ImportErrorResponse{Error: "File too large"})
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	key, err := h.Service.Upload(r.Context(), r.URL.Query().Get("name"), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, domain.ImportErrorResponse{Error: "File too large"})
			return
		}
		h.writeError(w, r, err, "Could not upload file")
		return
	}
	h.writeJSON(w, http.StatusAccepted, UploadResponse{Key: key})
}
