package repository

import (
	"context"
	"errors"
	"time"

	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentEventsTableName = "payment_events"
	paymentEventsQuoteIndexName   = "quote_id-index"
)

type paymentEventItem struct {
	ID         string `dynamodbav:"id"`
	Provider   string `dynamodbav:"provider"`
	QuoteID    string `dynamodbav:"quote_id"`
	SessionID  string `dynamodbav:"session_id"`
	Status     string `dynamodbav:"status"`
	PayloadRaw string `dynamodbav:"payload_raw,omitempty"`
	ReceivedAt string `dynamodbav:"received_at"`
}

// PaymentEventDynamoRepository persists provider notifications in DynamoDB.
//
// Table requirements:
//   - PK: id (provider event id)
//   - GSI quote_id-index: quote_id (string)

type PaymentEventDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentEventRepository = (*PaymentEventDynamoRepository)(nil)

func NewPaymentEventDynamoRepository(ddb *dynamodb.Client) *PaymentEventDynamoRepository {
	return &PaymentEventDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PAYMENT_EVENTS_TABLE", defaultPaymentEventsTableName),
	}
}

// Create stores the event keyed by the provider's event id. A redelivered
// event hits the attribute_not_exists condition and is kept as-is; the
// audit log records each notification once.
func (r *PaymentEventDynamoRepository) Create(ctx context.Context, e entities.PaymentEvent) (entities.PaymentEvent, error) {
	av, err := attributevalue.MarshalMap(paymentEventItem{
		ID:         e.ID,
		Provider:   e.Provider,
		QuoteID:    e.QuoteID,
		SessionID:  e.SessionID,
		Status:     e.Status,
		PayloadRaw: string(e.PayloadRaw),
		ReceivedAt: e.ReceivedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return entities.PaymentEvent{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return e, nil
		}
		return entities.PaymentEvent{}, err
	}
	return e, nil
}

func (r *PaymentEventDynamoRepository) ListByQuoteID(ctx context.Context, quoteID string) ([]entities.PaymentEvent, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentEventsQuoteIndexName),
		KeyConditionExpression: aws.String("#quote_id = :quote_id"),
		ExpressionAttributeNames: map[string]string{
			"#quote_id": "quote_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":quote_id": &types.AttributeValueMemberS{Value: quoteID},
		},
	})
	if err != nil {
		return nil, err
	}

	var items []paymentEventItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	events := make([]entities.PaymentEvent, 0, len(items))
	for _, it := range items {
		receivedAt, _ := time.Parse(time.RFC3339Nano, it.ReceivedAt)
		events = append(events, entities.PaymentEvent{
			ID:         it.ID,
			Provider:   it.Provider,
			QuoteID:    it.QuoteID,
			SessionID:  it.SessionID,
			Status:     it.Status,
			PayloadRaw: []byte(it.PayloadRaw),
			ReceivedAt: receivedAt,
		})
	}
	return events, nil
}
