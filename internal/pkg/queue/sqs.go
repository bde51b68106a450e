package queue

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	apperror "gocatalog/internal/errors"
)

// MaxBatchSize é o limite de entradas do SendMessageBatch.
const MaxBatchSize = 10

// Queue define o contrato da fila de importação.
type Queue interface {
	SendBatch(ctx context.Context, bodies []string) error
	Delete(ctx context.Context, receiptHandle string) error
}

// SQSAPI é o subconjunto do *sqs.Client usado pelo adaptador.
type SQSAPI interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSQueue implementa Queue sobre uma fila SQS.
type SQSQueue struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSQueue cria o adaptador para a fila informada.
func NewSQSQueue(client SQSAPI, queueURL string) *SQSQueue {
	return &SQSQueue{Client: client, QueueURL: queueURL}
}

// SendBatch envia de 1 a MaxBatchSize mensagens numa única chamada.
// Os ids das entradas são as posições ("0".."n-1"); entradas recusadas viram UpstreamError.
func (q *SQSQueue) SendBatch(ctx context.Context, bodies []string) error {
	if len(bodies) == 0 {
		return nil
	}
	if len(bodies) > MaxBatchSize {
		return apperror.NewValidationError(fmt.Sprintf("batch of %d messages exceeds the limit of %d", len(bodies), MaxBatchSize))
	}

	entries := make([]types.SendMessageBatchRequestEntry, len(bodies))
	for i, body := range bodies {
		entries[i] = types.SendMessageBatchRequestEntry{
			Id:          aws.String(strconv.Itoa(i)),
			MessageBody: aws.String(body),
		}
	}

	out, err := q.Client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(q.QueueURL),
		Entries:  entries,
	})
	if err != nil {
		return apperror.NewUpstreamError("sqs SendMessageBatch", err)
	}

	if out != nil && len(out.Failed) > 0 {
		failed := make([]string, 0, len(out.Failed))
		for _, f := range out.Failed {
			failed = append(failed, fmt.Sprintf("%s(%s)", aws.ToString(f.Id), aws.ToString(f.Code)))
		}
		return apperror.NewUpstreamError("sqs SendMessageBatch",
			fmt.Errorf("%d entries failed: %s", len(out.Failed), strings.Join(failed, ", ")))
	}
	return nil
}

// Delete confirma (remove) a mensagem pelo receipt handle.
func (q *SQSQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.QueueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return apperror.NewUpstreamError("sqs DeleteMessage", err)
	}
	return nil
}
