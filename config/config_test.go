package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocatalog/config"
	apperror "gocatalog/internal/errors"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("UPLOAD_FOLDER", "/uploaded/")
	t.Setenv("IMPORT_BATCH_SIZE", "")

	cfg := config.LoadConfig()

	assert.Equal(t, "uploaded", cfg.UploadFolder)
	assert.Equal(t, "parsed", cfg.ParsedFolder)
	assert.Equal(t, time.Hour, cfg.SignedURLExpiry)
	assert.Equal(t, 10, cfg.ImportBatchSize)
	assert.Equal(t, 3, cfg.WriteMaxRetries)
}

func TestLoadConfig_BatchSizeIsClamped(t *testing.T) {
	t.Setenv("IMPORT_BATCH_SIZE", "25")
	assert.Equal(t, 10, config.LoadConfig().ImportBatchSize)

	t.Setenv("IMPORT_BATCH_SIZE", "0")
	assert.Equal(t, 1, config.LoadConfig().ImportBatchSize)

	t.Setenv("IMPORT_BATCH_SIZE", "abc")
	assert.Equal(t, 10, config.LoadConfig().ImportBatchSize)
}

func TestRequire_ReportsMissingKeys(t *testing.T) {
	t.Setenv(config.KeyProductsTable, "products")
	t.Setenv(config.KeyStocksTable, "")
	t.Setenv(config.KeySNSTopicARN, "")

	cfg := config.LoadConfig()
	err := cfg.Require(config.KeyProductsTable, config.KeyStocksTable, config.KeySNSTopicARN)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConfig))

	var cfgErr *apperror.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{config.KeyStocksTable, config.KeySNSTopicARN}, cfgErr.Missing)
}

func TestCatalogKeys_DependsOnBackend(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "POSTGRES")
	assert.Equal(t, []string{config.KeyDatabaseURL}, config.LoadConfig().CatalogKeys())

	t.Setenv("CATALOG_BACKEND", "dynamodb")
	assert.Equal(t, []string{config.KeyProductsTable, config.KeyStocksTable}, config.LoadConfig().CatalogKeys())
}
