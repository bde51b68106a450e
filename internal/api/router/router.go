package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "gocatalog/docs" // Registra o documento Swagger
	"gocatalog/internal/api/importfile"
	"gocatalog/internal/api/product"
	"gocatalog/internal/pkg/basicauth"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/middleware"
)

// Options reúne os handlers e a infraestrutura opcional do roteador.
type Options struct {
	Products *product.Handler
	Import   *importfile.Handler

	// Cache nil desativa o rate limiting.
	Cache          cache.Client
	RateLimit      int
	RateLimitEvery time.Duration

	// Login vazio deixa /import sem autenticação.
	Auth basicauth.Credentials

	Logger logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(opts Options) http.Handler {
	r := mux.NewRouter()

	// --- 1. Health Check e Documentação ---
	r.HandleFunc("/ping", PingHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// --- 2. Rotas de Produtos ---
	r.HandleFunc("/products", opts.Products.ListProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products", opts.Products.CreateProductHandler).Methods(http.MethodPost)
	r.HandleFunc("/products/{productId}", opts.Products.GetProductByIDHandler).Methods(http.MethodGet)

	// --- 3. Rotas de Importação (Basic Auth quando configurado) ---
	imp := r.PathPrefix("/import").Subrouter()
	if opts.Auth.Login != "" {
		imp.Use(middleware.NewBasicAuthMiddleware(opts.Auth, opts.Logger))
	}
	imp.HandleFunc("", opts.Import.SignedURLHandler).Methods(http.MethodGet)
	imp.HandleFunc("", opts.Import.UploadHandler).Methods(http.MethodPost)

	// --- 4. Middlewares Globais ---
	var h http.Handler = r
	if opts.Cache != nil && opts.RateLimit > 0 {
		h = middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RateLimitEvery, opts.Logger)(h)
	}
	return middleware.CORS(h)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
