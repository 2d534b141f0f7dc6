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
	defaultQuotesTableName = "quotes"
	quotesOwnerIndexName   = "user_id-index"
)

type lineItemItem struct {
	ID             string `dynamodbav:"id"`
	Description    string `dynamodbav:"description"`
	Quantity       int64  `dynamodbav:"quantity"`
	UnitPriceCents int64  `dynamodbav:"unit_price_cents"`
	TotalCents     int64  `dynamodbav:"total_cents"`
}

type quoteItem struct {
	ID                string         `dynamodbav:"id"`
	UserID            string         `dynamodbav:"user_id"`
	ClientName        string         `dynamodbav:"client_name"`
	ClientEmail       string         `dynamodbav:"client_email,omitempty"`
	JobDescription    string         `dynamodbav:"job_description"`
	LineItems         []lineItemItem `dynamodbav:"line_items"`
	TotalCents        int64          `dynamodbav:"total_cents"`
	Status            string         `dynamodbav:"status"`
	CheckoutSessionID string         `dynamodbav:"checkout_session_id,omitempty"`
	CreatedAt         string         `dynamodbav:"created_at"`
	UpdatedAt         string         `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI user_id-index: user_id (string)
//
// Every lifecycle transition is a conditional write, so the table row is
// the single point of serialization: two racing confirmations (or a
// confirmation racing a re-send) resolve without read-then-write.

type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTES_TABLE", defaultQuotesTableName),
	}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
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
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) ListByUserID(ctx context.Context, userID string) ([]entities.Quote, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(quotesOwnerIndexName),
		KeyConditionExpression: aws.String("#user_id = :user_id"),
		ExpressionAttributeNames: map[string]string{
			"#user_id": "user_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}

	var items []quoteItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	quotes := make([]entities.Quote, 0, len(items))
	for _, it := range items {
		quotes = append(quotes, fromQuoteItem(it))
	}
	return quotes, nil
}

func (r *QuoteDynamoRepository) UpdateDraft(ctx context.Context, userID string, q entities.Quote) (entities.Quote, error) {
	lineItems, err := attributevalue.Marshal(toLineItemItems(q.LineItems))
	if err != nil {
		return entities.Quote{}, err
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: q.ID},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #user_id = :user_id AND #status = :draft"),
		UpdateExpression:    aws.String("SET #client_name = :client_name, #client_email = :client_email, #job_description = :job_description, #line_items = :line_items, #total_cents = :total_cents, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":              "id",
			"#user_id":         "user_id",
			"#status":          "status",
			"#client_name":     "client_name",
			"#client_email":    "client_email",
			"#job_description": "job_description",
			"#line_items":      "line_items",
			"#total_cents":     "total_cents",
			"#updated_at":      "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id":         &types.AttributeValueMemberS{Value: userID},
			":draft":           &types.AttributeValueMemberS{Value: string(entities.QuoteStatusDraft)},
			":client_name":     &types.AttributeValueMemberS{Value: q.ClientName},
			":client_email":    &types.AttributeValueMemberS{Value: q.ClientEmail},
			":job_description": &types.AttributeValueMemberS{Value: q.JobDescription},
			":line_items":      lineItems,
			":total_cents":     &types.AttributeValueMemberN{Value: formatInt(q.TotalCents)},
			":updated_at":      &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	return r.unmarshalUpdate(out, err)
}

func (r *QuoteDynamoRepository) MarkSent(ctx context.Context, userID, id string) (entities.Quote, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #user_id = :user_id AND #status <> :paid"),
		UpdateExpression:    aws.String("SET #status = :sent, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#user_id":    "user_id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id":    &types.AttributeValueMemberS{Value: userID},
			":paid":       &types.AttributeValueMemberS{Value: string(entities.QuoteStatusPaid)},
			":sent":       &types.AttributeValueMemberS{Value: string(entities.QuoteStatusSent)},
			":updated_at": &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	return r.unmarshalUpdate(out, err)
}

// MarkPaid is the idempotency mechanism for webhook redelivery: the write
// matches only while status is exactly sent, so a second delivery (or a
// confirmation for a draft) changes nothing and reports changed=false.
func (r *QuoteDynamoRepository) MarkPaid(ctx context.Context, id, checkoutSessionID string) (bool, error) {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :sent"),
		UpdateExpression:    aws.String("SET #status = :paid, #checkout_session_id = :session_id, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":                  "id",
			"#status":              "status",
			"#checkout_session_id": "checkout_session_id",
			"#updated_at":          "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sent":       &types.AttributeValueMemberS{Value: string(entities.QuoteStatusSent)},
			":paid":       &types.AttributeValueMemberS{Value: string(entities.QuoteStatusPaid)},
			":session_id": &types.AttributeValueMemberS{Value: checkoutSessionID},
			":updated_at": &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *QuoteDynamoRepository) SetCheckoutSession(ctx context.Context, id, checkoutSessionID string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #checkout_session_id = :session_id, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":                  "id",
			"#checkout_session_id": "checkout_session_id",
			"#updated_at":          "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":session_id": &types.AttributeValueMemberS{Value: checkoutSessionID},
			":updated_at": &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
	})
	return err
}

func (r *QuoteDynamoRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #user_id = :user_id AND #status <> :paid"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#user_id": "user_id",
			"#status":  "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
			":paid":    &types.AttributeValueMemberS{Value: string(entities.QuoteStatusPaid)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *QuoteDynamoRepository) unmarshalUpdate(out *dynamodb.UpdateItemOutput, err error) (entities.Quote, error) {
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quote{}, nil
		}
		return entities.Quote{}, err
	}
	if out == nil || len(out.Attributes) == 0 {
		return entities.Quote{}, nil
	}
	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	return quoteItem{
		ID:                q.ID,
		UserID:            q.UserID,
		ClientName:        q.ClientName,
		ClientEmail:       q.ClientEmail,
		JobDescription:    q.JobDescription,
		LineItems:         toLineItemItems(q.LineItems),
		TotalCents:        q.TotalCents,
		Status:            string(q.Status),
		CheckoutSessionID: q.CheckoutSessionID,
		CreatedAt:         q.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:         q.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	items := make([]entities.LineItem, 0, len(it.LineItems))
	for _, li := range it.LineItems {
		items = append(items, entities.LineItem{
			ID:             li.ID,
			Description:    li.Description,
			Quantity:       li.Quantity,
			UnitPriceCents: li.UnitPriceCents,
			TotalCents:     li.TotalCents,
		})
	}
	return entities.Quote{
		ID:                it.ID,
		UserID:            it.UserID,
		ClientName:        it.ClientName,
		ClientEmail:       it.ClientEmail,
		JobDescription:    it.JobDescription,
		LineItems:         items,
		TotalCents:        it.TotalCents,
		Status:            entities.QuoteStatus(it.Status),
		CheckoutSessionID: it.CheckoutSessionID,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
}

func toLineItemItems(items []entities.LineItem) []lineItemItem {
	out := make([]lineItemItem, 0, len(items))
	for _, li := range items {
		out = append(out, lineItemItem{
			ID:             li.ID,
			Description:    li.Description,
			Quantity:       li.Quantity,
			UnitPriceCents: li.UnitPriceCents,
			TotalCents:     li.TotalCents,
		})
	}
	return out
}
