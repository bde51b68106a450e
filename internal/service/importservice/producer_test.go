package importservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/service/importservice"
)

func newProducer() (*importservice.Producer, *MockStore) {
	store := &MockStore{calls: &[]string{}}
	p := importservice.NewProducer(store, importservice.ProducerConfig{
		Bucket:       "bucket",
		UploadFolder: "uploaded",
		URLExpiry:    time.Hour,
	}, logger.NewNop())
	return p, store
}

func TestSignedUploadURL_Success(t *testing.T) {
	ctx := context.Background()
	p, store := newProducer()

	store.On("PresignPut", ctx, "bucket", "uploaded/products.csv", "text/csv", time.Hour).Return("https://signed", nil)

	url, err := p.SignedUploadURL(ctx, "products.csv")

	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
}

func TestSignedUploadURL_RequiresName(t *testing.T) {
	p, store := newProducer()

	for _, name := range []string{"", "   "} {
		_, err := p.SignedUploadURL(context.Background(), name)

		var verr *apperror.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "File name is required", verr.Message())
	}
	store.AssertNotCalled(t, "PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignedUploadURL_RejectsPathTraversal(t *testing.T) {
	p, _ := newProducer()

	for _, name := range []string{"../etc.csv", "a/b.csv"} {
		_, err := p.SignedUploadURL(context.Background(), name)

		var verr *apperror.ValidationError
		assert.True(t, errors.As(err, &verr), name)
	}
}

func TestUpload_PutsUnderUploadFolder(t *testing.T) {
	ctx := context.Background()
	p, store := newProducer()
	body := strings.NewReader("title\nA\n")

	store.On("Put", ctx, "bucket", "uploaded/a.csv", "text/csv", body).Return(nil)

	key, err := p.Upload(ctx, "a.csv", body)

	require.NoError(t, err)
	assert.Equal(t, "uploaded/a.csv", key)
	store.AssertExpectations(t)
}
