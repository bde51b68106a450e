package notifier_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/notifier"
)

type MockSNS struct {
	mock.Mock
}

func (m *MockSNS) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	return &sns.PublishOutput{}, args.Error(0)
}

func TestPublish_SuccessCarriesRoundedPriceAttribute(t *testing.T) {
	ctx := context.Background()
	client := new(MockSNS)
	pub := notifier.NewSNSPublisher(client, "arn:topic")

	n := domain.NewNotification(domain.StatusSuccess, domain.ProductInput{
		ID:    "p1",
		Title: "Product One",
		Price: domain.NewNumber(24.5),
		Count: domain.NewNumber(1),
	}, "")

	var captured *sns.PublishInput
	client.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*sns.PublishInput)
	}).Return(nil)

	require.NoError(t, pub.Publish(ctx, n))
	require.NotNil(t, captured)

	assert.Equal(t, "arn:topic", aws.ToString(captured.TopicArn))
	assert.Equal(t, notifier.SubjectSuccess, aws.ToString(captured.Subject))
	attr := captured.MessageAttributes["price"]
	assert.Equal(t, "Number", aws.ToString(attr.DataType))
	assert.Equal(t, "25", aws.ToString(attr.StringValue))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(captured.Message)), &body))
	assert.Equal(t, "success", body["status"])
	assert.NotContains(t, body, "error")
	product := body["product"].(map[string]interface{})
	assert.Equal(t, 24.5, product["price"])
	assert.Equal(t, 1.0, product["count"])
}

func TestPublish_FailureSubjectAndError(t *testing.T) {
	ctx := context.Background()
	client := new(MockSNS)
	pub := notifier.NewSNSPublisher(client, "arn:topic")

	client.On("Publish", ctx, mock.MatchedBy(func(in *sns.PublishInput) bool {
		var body domain.Notification
		if err := json.Unmarshal([]byte(aws.ToString(in.Message)), &body); err != nil {
			return false
		}
		return aws.ToString(in.Subject) == notifier.SubjectFailure && body.Error == "boom"
	})).Return(nil)

	n := domain.NewNotification(domain.StatusFailure, domain.ProductInput{Title: "X", Price: domain.NewNumber(1)}, "boom")
	require.NoError(t, pub.Publish(ctx, n))
	client.AssertExpectations(t)
}

func TestPriceAttribute_Rounding(t *testing.T) {
	assert.Equal(t, "24", notifier.PriceAttribute(24.4))
	assert.Equal(t, "3", notifier.PriceAttribute(2.5))
	assert.Equal(t, "0", notifier.PriceAttribute(0))
	assert.Equal(t, "10000000000", notifier.PriceAttribute(9999999999.99))
}
