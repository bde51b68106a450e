package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	apperror "gocatalog/internal/errors"
)

// Config armazena todas as configurações das funções do catálogo (API, importação, escrita em lote).
// Cada entrada (cmd/*) valida apenas as chaves de que precisa, via Require.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// AWS
	AWSRegion string

	// Importação (S3)
	BucketName         string
	UploadFolder       string
	ParsedFolder       string
	SignedURLExpiry    time.Duration
	ImportBatchSize    int
	MaxUploadSizeBytes int64

	// Fila e Tópico
	SQSQueueURL string
	SNSTopicARN string

	// Catálogo
	CatalogBackend  string // "dynamodb" ou "postgres"
	ProductsTable   string
	StocksTable     string
	WriteMaxRetries int

	// Banco de Dados (PostgreSQL, backend alternativo)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis); vazio desativa cache e rate limiting
	RedisAddr string
	CacheTTL  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Autorização Basic
	AuthLoginName string
	AuthPassword  string
}

// Chaves de ambiente exigidas por alguma das entradas.
const (
	KeyBucketName    = "BUCKET_NAME"
	KeySQSQueueURL   = "SQS_QUEUE_URL"
	KeySNSTopicARN   = "SNS_TOPIC_ARN"
	KeyProductsTable = "PRODUCTS_TABLE"
	KeyStocksTable   = "STOCKS_TABLE"
	KeyDatabaseURL   = "DATABASE_URL"
)

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. AWS
		AWSRegion: getEnv("AWS_REGION", ""),

		// 3. Importação
		BucketName:         getEnv(KeyBucketName, ""),
		UploadFolder:       strings.Trim(getEnv("UPLOAD_FOLDER", "uploaded"), "/"),
		ParsedFolder:       strings.Trim(getEnv("PARSED_FOLDER", "parsed"), "/"),
		SignedURLExpiry:    getDurationEnv("SIGNED_URL_EXPIRY_SEC", 3600) * time.Second, // 1h padrão
		ImportBatchSize:    clamp(getIntEnv("IMPORT_BATCH_SIZE", 10), 1, 10),
		MaxUploadSizeBytes: int64(getIntEnv("MAX_UPLOAD_SIZE_BYTES", 10<<20)),

		// 4. Fila e Tópico
		SQSQueueURL: getEnv(KeySQSQueueURL, ""),
		SNSTopicARN: getEnv(KeySNSTopicARN, ""),

		// 5. Catálogo
		CatalogBackend:  strings.ToLower(getEnv("CATALOG_BACKEND", "dynamodb")),
		ProductsTable:   getEnv(KeyProductsTable, ""),
		StocksTable:     getEnv(KeyStocksTable, ""),
		WriteMaxRetries: getIntEnv("WRITE_MAX_RETRIES", 3),

		// 6. Banco de Dados
		DatabaseURL: getEnv(KeyDatabaseURL, ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second, // 5s padrão

		// 7. Cache
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 300) * time.Second, // 5 min padrão

		// 8. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute, // 1 min padrão

		// 9. Autorização
		AuthLoginName: getEnv("AUTH_LOGIN_NAME", ""),
		AuthPassword:  getEnv("AUTH_PASSWORD", ""),
	}

	return cfg
}

// Require retorna um ConfigError listando as chaves obrigatórias que estão vazias.
func (c *Config) Require(keys ...string) error {
	values := map[string]string{
		KeyBucketName:    c.BucketName,
		KeySQSQueueURL:   c.SQSQueueURL,
		KeySNSTopicARN:   c.SNSTopicARN,
		KeyProductsTable: c.ProductsTable,
		KeyStocksTable:   c.StocksTable,
		KeyDatabaseURL:   c.DatabaseURL,
	}

	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return apperror.NewConfigError(missing...)
	}
	return nil
}

// CatalogKeys retorna as chaves exigidas pelo backend de catálogo selecionado.
func (c *Config) CatalogKeys() []string {
	if c.CatalogBackend == "postgres" {
		return []string{KeyDatabaseURL}
	}
	return []string{KeyProductsTable, KeyStocksTable}
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
