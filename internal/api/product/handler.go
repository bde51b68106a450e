package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, in domain.ProductInput) (domain.ProductWithStock, error)
	GetProductByID(ctx context.Context, id string) (domain.ProductWithStock, error)
	ListProducts(ctx context.Context) ([]domain.ProductWithStock, error)
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		h.Logger.Info("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// ListProductsHandler lida com a requisição GET /products.
// @Summary Lista os produtos
// @Description Retorna todos os produtos com a quantidade em estoque (0 quando não há estoque).
// @Tags products
// @Produce json
// @Success 200 {array} domain.ProductWithStock
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	h.handleServiceResponse(w, r, products, err, http.StatusOK)
}

// GetProductByIDHandler lida com a requisição GET /products/{productId}.
// @Summary Busca um produto pelo ID
// @Tags products
// @Produce json
// @Param productId path string true "ID do produto"
// @Success 200 {object} domain.ProductWithStock
// @Failure 404 {object} domain.ErrorResponse "Product not found"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /products/{productId} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	// 1. ID vem do path, já validado pelo roteador
	productID := mux.Vars(r)["productId"]
	if productID == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Product ID is required"), http.StatusOK)
		return
	}

	// 2. Chamar o Serviço
	product, err := h.Service.GetProductByID(r.Context(), productID)
	h.handleServiceResponse(w, r, product, err, http.StatusOK)
}

// CreateProductHandler lida com a requisição POST /products.
// @Summary Cria um produto
// @Description Cria o produto e o estoque na mesma transação.
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.ProductInput true "Dados do produto"
// @Success 201 {object} domain.ProductWithStock
// @Failure 400 {object} domain.ErrorResponse "Missing request body ou Invalid product data"
// @Failure 409 {object} domain.ErrorResponse "Produto já existe"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	// 1. Decodificação do Payload
	var in domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Missing request body"), http.StatusCreated)
			return
		}
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Invalid product data"), http.StatusCreated)
		return
	}

	// 2. Chamar o Serviço (validação e persistência)
	created, err := h.Service.CreateProduct(r.Context(), in)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}
