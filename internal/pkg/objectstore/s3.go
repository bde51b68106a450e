package objectstore

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	apperror "gocatalog/internal/errors"
)

// Store define o contrato do armazenamento de objetos usado pelos serviços de importação.
type Store interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Copy(ctx context.Context, bucket, srcKey, dstKey string) error
	Delete(ctx context.Context, bucket, key string) error
	Put(ctx context.Context, bucket, key, contentType string, body io.Reader) error
	PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error)
}

// S3API é o subconjunto do *s3.Client usado pelo adaptador.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PresignAPI é o subconjunto do *s3.PresignClient usado para URLs de upload.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store implementa Store sobre o S3.
type S3Store struct {
	Client    S3API
	Presigner PresignAPI
}

// NewS3Store cria o adaptador a partir do cliente do SDK.
func NewS3Store(client *s3.Client) *S3Store {
	return &S3Store{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
	}
}

// Get retorna o conteúdo do objeto como stream. O chamador fecha o Body.
func (s *S3Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, apperror.NewUpstreamError("s3 GetObject", err)
	}
	if out == nil || out.Body == nil {
		return nil, apperror.NewEmptyBodyError(bucket, key)
	}
	return out.Body, nil
}

// Copy copia srcKey para dstKey dentro do mesmo bucket.
func (s *S3Store) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	_, err := s.Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(copySource(bucket, srcKey)),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return apperror.NewUpstreamError("s3 CopyObject", err)
	}
	return nil
}

// Delete remove o objeto.
func (s *S3Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperror.NewUpstreamError("s3 DeleteObject", err)
	}
	return nil
}

// Put grava o objeto com o content type informado.
func (s *S3Store) Put(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return apperror.NewUpstreamError("s3 PutObject", err)
	}
	return nil
}

// PresignPut emite uma URL temporária para upload direto (PUT) do objeto.
func (s *S3Store) PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error) {
	req, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", apperror.NewUpstreamError("s3 PresignPutObject", err)
	}
	return req.URL, nil
}

// copySource monta "bucket/key" com cada segmento da chave codificado para URL.
func copySource(bucket, key string) string {
	segments := strings.Split(strings.TrimPrefix(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segments, "/")
}
