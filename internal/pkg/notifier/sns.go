package notifier

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
)

// Assuntos publicados por status.
const (
	SubjectSuccess = "Product Creation Succeeded"
	SubjectFailure = "Product Creation Failed"
)

// Publisher publica o resultado da criação de um produto.
type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// SNSAPI é o subconjunto do *sns.Client usado pelo publisher.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher implementa Publisher sobre um tópico SNS.
type SNSPublisher struct {
	Client   SNSAPI
	TopicARN string
}

// NewSNSPublisher cria o publisher para o tópico informado.
func NewSNSPublisher(client SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{Client: client, TopicARN: topicARN}
}

// Publish envia a notificação. O atributo "price" carrega o preço arredondado
// para filtros de assinatura; o corpo mantém o preço exato.
func (p *SNSPublisher) Publish(ctx context.Context, n domain.Notification) error {
	body, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return apperror.NewInternalError("failed to encode notification", err)
	}

	_, err = p.Client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.TopicARN),
		Subject:  aws.String(Subject(n.Status)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"price": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(PriceAttribute(n.Product.Price)),
			},
		},
	})
	if err != nil {
		return apperror.NewUpstreamError("sns Publish", err)
	}
	return nil
}

// Subject retorna o assunto da mensagem para o status.
func Subject(status domain.NotificationStatus) string {
	if status == domain.StatusSuccess {
		return SubjectSuccess
	}
	return SubjectFailure
}

// PriceAttribute arredonda o preço para o inteiro mais próximo (meio para longe do zero).
func PriceAttribute(price float64) string {
	return strconv.FormatFloat(math.Round(price), 'f', -1, 64)
}
