package router_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocatalog/internal/api/importfile"
	"gocatalog/internal/api/product"
	"gocatalog/internal/api/router"
	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/basicauth"
	"gocatalog/internal/pkg/logger"
)

// MockProductService é uma implementação mock de product.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.ProductWithStock, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.ProductWithStock), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, id string) (domain.ProductWithStock, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ProductWithStock), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context) ([]domain.ProductWithStock, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProductWithStock), args.Error(1)
}

// MockImportService é uma implementação mock de importfile.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) SignedUploadURL(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockImportService) Upload(ctx context.Context, name string, body io.Reader) (string, error) {
	args := m.Called(ctx, name, body)
	return args.String(0), args.Error(1)
}

func newTestRouter(auth basicauth.Credentials) (http.Handler, *MockProductService, *MockImportService) {
	log := logger.NewNop()
	products := new(MockProductService)
	imports := new(MockImportService)
	h := router.NewRouter(router.Options{
		Products: product.NewHandler(products, log),
		Import:   importfile.NewHandler(imports, 1<<20, log),
		Auth:     auth,
		Logger:   log,
	})
	return h, products, imports
}

func serve(h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestPing(t *testing.T) {
	h, _, _ := newTestRouter(basicauth.Credentials{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestImport_MissingNameIs400(t *testing.T) {
	h, _, imports := newTestRouter(basicauth.Credentials{})
	imports.On("SignedUploadURL", mock.Anything, "").Return("", apperror.NewValidationError("File name is required"))

	rec, body := serve(h, httptest.NewRequest(http.MethodGet, "/import", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"error": "File name is required"}, body)
}

func TestImport_ReturnsSignedURL(t *testing.T) {
	h, _, imports := newTestRouter(basicauth.Credentials{})
	imports.On("SignedUploadURL", mock.Anything, "products.csv").Return("https://signed", nil)

	rec, body := serve(h, httptest.NewRequest(http.MethodGet, "/import?name=products.csv", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://signed", body["signedUrl"])
}

func TestImport_UpstreamFailureIs500WithDetails(t *testing.T) {
	h, _, imports := newTestRouter(basicauth.Credentials{})
	imports.On("SignedUploadURL", mock.Anything, "a.csv").
		Return("", apperror.NewUpstreamError("s3 PresignPutObject", errors.New("no credentials")))

	rec, body := serve(h, httptest.NewRequest(http.MethodGet, "/import?name=a.csv", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Could not generate signed URL", body["error"])
	assert.Contains(t, body["details"], "no credentials")
}

func TestImport_RequiresBasicAuthWhenConfigured(t *testing.T) {
	h, _, imports := newTestRouter(basicauth.Credentials{Login: "admin", Password: "TEST_PASSWORD"})
	imports.On("SignedUploadURL", mock.Anything, "a.csv").Return("https://signed", nil)

	rec, _ := serve(h, httptest.NewRequest(http.MethodGet, "/import?name=a.csv", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/import?name=a.csv", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin=TEST_PASSWORD")))
	rec, _ = serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestImport_DirectUpload(t *testing.T) {
	h, _, imports := newTestRouter(basicauth.Credentials{})
	imports.On("Upload", mock.Anything, "a.csv", mock.Anything).Return("uploaded/a.csv", nil)

	rec, body := serve(h, httptest.NewRequest(http.MethodPost, "/import?name=a.csv", strings.NewReader("title\nA\n")))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "uploaded/a.csv", body["key"])
}

func TestGetProduct_NotFound(t *testing.T) {
	h, products, _ := newTestRouter(basicauth.Credentials{})
	products.On("GetProductByID", mock.Anything, "missing").
		Return(domain.ProductWithStock{}, apperror.NewNotFoundError("Product not found"))

	rec, body := serve(h, httptest.NewRequest(http.MethodGet, "/products/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", body["message"])
}

func TestGetProduct_Success(t *testing.T) {
	h, products, _ := newTestRouter(basicauth.Credentials{})
	products.On("GetProductByID", mock.Anything, "p1").
		Return(domain.ProductWithStock{Product: domain.Product{ID: "p1", Title: "Lamp", Price: 10}, Count: 4}, nil)

	rec, body := serve(h, httptest.NewRequest(http.MethodGet, "/products/p1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lamp", body["title"])
	assert.Equal(t, 4.0, body["count"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListProducts(t *testing.T) {
	h, products, _ := newTestRouter(basicauth.Credentials{})
	products.On("ListProducts", mock.Anything).Return([]domain.ProductWithStock{{Product: domain.Product{ID: "a"}}}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.ProductWithStock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestCreateProduct_MissingBody(t *testing.T) {
	h, products, _ := newTestRouter(basicauth.Credentials{})

	rec, body := serve(h, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing request body", body["message"])
	products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_MalformedJSON(t *testing.T) {
	h, _, _ := newTestRouter(basicauth.Credentials{})

	rec, body := serve(h, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("{bad")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product data", body["message"])
}

func TestCreateProduct_Created(t *testing.T) {
	h, products, _ := newTestRouter(basicauth.Credentials{})
	products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in domain.ProductInput) bool {
		return in.Title == "Lamp" && in.Price.Float64() == 10 && in.Count.Float64() == 2
	})).Return(domain.ProductWithStock{Product: domain.Product{ID: "new", Title: "Lamp", Price: 10}, Count: 2}, nil)

	rec, body := serve(h, httptest.NewRequest(http.MethodPost, "/products",
		strings.NewReader(`{"title":"Lamp","description":"d","price":10,"count":2}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "new", body["id"])
}

func TestCreateProduct_NonFinitePriceIsRejected(t *testing.T) {
	h, products, _ := newTestRouter(basicauth.Credentials{})

	rec, body := serve(h, httptest.NewRequest(http.MethodPost, "/products",
		strings.NewReader(`{"title":"Lamp","price":"Infinity","count":1}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product data", body["message"])
	products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}
