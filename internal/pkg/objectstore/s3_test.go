package objectstore_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/objectstore"
)

// MockS3 simula o cliente S3.
type MockS3 struct {
	mock.Mock
}

func (m *MockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3) CopyObject(ctx context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.CopyObjectOutput{}, args.Error(0)
}

func (m *MockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func (m *MockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

// MockPresigner simula o PresignClient.
type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	args := m.Called(ctx, in, opts.Expires)
	req, _ := args.Get(0).(*v4.PresignedHTTPRequest)
	return req, args.Error(1)
}

func TestGet_ReturnsBody(t *testing.T) {
	ctx := context.Background()
	client := new(MockS3)
	store := &objectstore.S3Store{Client: client}

	client.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Bucket == "bucket" && *in.Key == "uploaded/a.csv"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("title\nA\n"))}, nil)

	body, err := store.Get(ctx, "bucket", "uploaded/a.csv")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "title\nA\n", string(data))
}

func TestGet_NilBodyIsEmptyBody(t *testing.T) {
	ctx := context.Background()
	client := new(MockS3)
	store := &objectstore.S3Store{Client: client}

	client.On("GetObject", ctx, mock.Anything).Return(&s3.GetObjectOutput{}, nil)

	_, err := store.Get(ctx, "bucket", "uploaded/a.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrEmptyBody))
}

func TestCopy_EscapesSourceKey(t *testing.T) {
	ctx := context.Background()
	client := new(MockS3)
	store := &objectstore.S3Store{Client: client}

	client.On("CopyObject", ctx, mock.MatchedBy(func(in *s3.CopyObjectInput) bool {
		return *in.CopySource == "bucket/uploaded/my%20file.csv" && *in.Key == "parsed/my file.csv"
	})).Return(nil)

	require.NoError(t, store.Copy(ctx, "bucket", "uploaded/my file.csv", "parsed/my file.csv"))
	client.AssertExpectations(t)
}

func TestDelete_WrapsUpstreamError(t *testing.T) {
	ctx := context.Background()
	client := new(MockS3)
	store := &objectstore.S3Store{Client: client}
	sdkErr := errors.New("AccessDenied")

	client.On("DeleteObject", ctx, mock.Anything).Return(sdkErr)

	err := store.Delete(ctx, "bucket", "uploaded/a.csv")

	var upstream *apperror.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "s3 DeleteObject", upstream.Op)
	assert.True(t, errors.Is(err, sdkErr))
}

func TestPresignPut_UsesContentTypeAndExpiry(t *testing.T) {
	ctx := context.Background()
	presigner := new(MockPresigner)
	store := &objectstore.S3Store{Client: new(MockS3), Presigner: presigner}

	presigner.On("PresignPutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Key == "uploaded/a.csv" && *in.ContentType == "text/csv"
	}), time.Hour).Return(&v4.PresignedHTTPRequest{URL: "https://signed"}, nil)

	url, err := store.PresignPut(ctx, "bucket", "uploaded/a.csv", "text/csv", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
}
