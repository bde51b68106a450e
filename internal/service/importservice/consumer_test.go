package importservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/service/importservice"
)

// MockStore é uma implementação mock de objectstore.Store que registra a ordem das chamadas.
type MockStore struct {
	mock.Mock
	calls *[]string
}

func (m *MockStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	*m.calls = append(*m.calls, "get:"+key)
	args := m.Called(ctx, bucket, key)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

func (m *MockStore) Copy(ctx context.Context, bucket, src, dst string) error {
	*m.calls = append(*m.calls, "copy:"+src+"->"+dst)
	return m.Called(ctx, bucket, src, dst).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, bucket, key string) error {
	*m.calls = append(*m.calls, "delete:"+key)
	return m.Called(ctx, bucket, key).Error(0)
}

func (m *MockStore) Put(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	*m.calls = append(*m.calls, "put:"+key)
	return m.Called(ctx, bucket, key, contentType, body).Error(0)
}

func (m *MockStore) PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, contentType, expires)
	return args.String(0), args.Error(1)
}

// MockQueue é uma implementação mock de queue.Queue.
type MockQueue struct {
	mock.Mock
	calls *[]string
	sent  [][]string
}

func (m *MockQueue) SendBatch(ctx context.Context, bodies []string) error {
	*m.calls = append(*m.calls, fmt.Sprintf("send:%d", len(bodies)))
	m.sent = append(m.sent, append([]string(nil), bodies...))
	return m.Called(ctx, bodies).Error(0)
}

func (m *MockQueue) Delete(ctx context.Context, receiptHandle string) error {
	return m.Called(ctx, receiptHandle).Error(0)
}

func newConsumer() (*importservice.Consumer, *MockStore, *MockQueue, *[]string) {
	calls := &[]string{}
	store := &MockStore{calls: calls}
	q := &MockQueue{calls: calls}
	c := importservice.NewConsumer(store, q, importservice.ConsumerConfig{
		UploadFolder: "uploaded",
		ParsedFolder: "parsed",
		BatchSize:    10,
	}, logger.NewNop())
	return c, store, q, calls
}

func csvBody(rows int) io.ReadCloser {
	var b strings.Builder
	b.WriteString("id,title,description,price,count\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, ",Product %d,d%d,%d,%d\n", i, i, i+1, i)
	}
	return io.NopCloser(strings.NewReader(b.String()))
}

func TestHandle_BatchesRowsInOrderAndArchivesLast(t *testing.T) {
	ctx := context.Background()
	c, store, q, calls := newConsumer()

	store.On("Get", ctx, "bucket", "uploaded/products.csv").Return(csvBody(23), nil)
	q.On("SendBatch", ctx, mock.Anything).Return(nil)
	store.On("Copy", ctx, "bucket", "uploaded/products.csv", "parsed/products.csv").Return(nil)
	store.On("Delete", ctx, "bucket", "uploaded/products.csv").Return(nil)

	summary, err := c.Handle(ctx, []domain.ObjectCreated{{Bucket: "bucket", Key: "uploaded/products.csv"}})

	require.NoError(t, err)
	assert.Equal(t, importservice.ImportSummary{Objects: 1, Rows: 23, Batches: 3}, summary)
	assert.Equal(t, []string{
		"get:uploaded/products.csv",
		"send:10", "send:10", "send:3",
		"copy:uploaded/products.csv->parsed/products.csv",
		"delete:uploaded/products.csv",
	}, *calls)

	// ordem das linhas preservada entre os lotes
	var titles []string
	for _, batch := range q.sent {
		for _, body := range batch {
			var msg map[string]string
			require.NoError(t, json.Unmarshal([]byte(body), &msg))
			titles = append(titles, msg["title"])
		}
	}
	require.Len(t, titles, 23)
	for i, title := range titles {
		assert.Equal(t, fmt.Sprintf("Product %d", i), title)
	}
}

func TestHandle_TwoRowScenario(t *testing.T) {
	ctx := context.Background()
	c, store, q, _ := newConsumer()

	input := "id,title,description,price,count\n,Product One,d1,24,1\n,Product Two,d2,15,2\n"
	store.On("Get", ctx, "bucket", "uploaded/test.csv").Return(io.NopCloser(strings.NewReader(input)), nil)
	q.On("SendBatch", ctx, []string{
		`{"title":"Product One","description":"d1","price":"24","count":"1"}`,
		`{"title":"Product Two","description":"d2","price":"15","count":"2"}`,
	}).Return(nil).Once()
	store.On("Copy", ctx, "bucket", "uploaded/test.csv", "parsed/test.csv").Return(nil)
	store.On("Delete", ctx, "bucket", "uploaded/test.csv").Return(nil)

	_, err := c.Handle(ctx, []domain.ObjectCreated{{Bucket: "bucket", Key: "uploaded/test.csv"}})

	require.NoError(t, err)
	q.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestHandle_DecodesNotificationKey(t *testing.T) {
	ctx := context.Background()
	c, store, q, _ := newConsumer()

	store.On("Get", ctx, "bucket", "uploaded/my file (1).csv").Return(csvBody(1), nil)
	q.On("SendBatch", ctx, mock.Anything).Return(nil)
	store.On("Copy", ctx, "bucket", "uploaded/my file (1).csv", "parsed/my file (1).csv").Return(nil)
	store.On("Delete", ctx, "bucket", "uploaded/my file (1).csv").Return(nil)

	_, err := c.Handle(ctx, []domain.ObjectCreated{{Bucket: "bucket", Key: "uploaded/my+file+%281%29.csv"}})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestHandle_EmptyBodyAbortsWithoutArchive(t *testing.T) {
	ctx := context.Background()
	c, store, q, _ := newConsumer()

	store.On("Get", ctx, "bucket", "uploaded/a.csv").Return(nil, apperror.NewEmptyBodyError("bucket", "uploaded/a.csv"))

	_, err := c.Handle(ctx, []domain.ObjectCreated{
		{Bucket: "bucket", Key: "uploaded/a.csv"},
		{Bucket: "bucket", Key: "uploaded/b.csv"},
	})

	assert.True(t, errors.Is(err, apperror.ErrEmptyBody))
	store.AssertNotCalled(t, "Get", ctx, "bucket", "uploaded/b.csv")
	store.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	q.AssertNotCalled(t, "SendBatch", mock.Anything, mock.Anything)
}

func TestHandle_ParseErrorKeepsSourceObject(t *testing.T) {
	ctx := context.Background()
	c, store, q, _ := newConsumer()

	input := "title,price\nA,1\nB\n"
	store.On("Get", ctx, "bucket", "uploaded/bad.csv").Return(io.NopCloser(strings.NewReader(input)), nil)

	_, err := c.Handle(ctx, []domain.ObjectCreated{{Bucket: "bucket", Key: "uploaded/bad.csv"}})

	var perr *apperror.ParseError
	require.True(t, errors.As(err, &perr))
	q.AssertNotCalled(t, "SendBatch", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_SendFailureStopsBeforeArchive(t *testing.T) {
	ctx := context.Background()
	c, store, q, calls := newConsumer()

	sendErr := apperror.NewUpstreamError("sqs SendMessageBatch", errors.New("throttled"))
	store.On("Get", ctx, "bucket", "uploaded/a.csv").Return(csvBody(15), nil)
	q.On("SendBatch", ctx, mock.Anything).Return(sendErr).Once()

	_, err := c.Handle(ctx, []domain.ObjectCreated{{Bucket: "bucket", Key: "uploaded/a.csv"}})

	assert.Equal(t, sendErr, err)
	assert.Equal(t, []string{"get:uploaded/a.csv", "send:10"}, *calls)
}

func TestHandle_CopyFailureDoesNotDelete(t *testing.T) {
	ctx := context.Background()
	c, store, q, _ := newConsumer()

	store.On("Get", ctx, "bucket", "uploaded/a.csv").Return(csvBody(2), nil)
	q.On("SendBatch", ctx, mock.Anything).Return(nil)
	store.On("Copy", ctx, "bucket", "uploaded/a.csv", "parsed/a.csv").Return(errors.New("copy failed"))

	_, err := c.Handle(ctx, []domain.ObjectCreated{{Bucket: "bucket", Key: "uploaded/a.csv"}})

	assert.EqualError(t, err, "copy failed")
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_SkipsKeysOutsideUploadFolder(t *testing.T) {
	ctx := context.Background()
	c, store, _, calls := newConsumer()

	summary, err := c.Handle(ctx, []domain.ObjectCreated{{Bucket: "bucket", Key: "parsed/a.csv"}})

	require.NoError(t, err)
	assert.Zero(t, summary.Objects)
	assert.Empty(t, *calls)
	store.AssertExpectations(t)
}
