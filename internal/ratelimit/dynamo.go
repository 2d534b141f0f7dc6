package ratelimit

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultRateLimitsTableName = "rate_limits"

// DynamoStore keeps counters in DynamoDB via atomic ADD, so the quota is
// shared across instances. The window start is folded into the row key;
// stale windows become dead rows reaped by the table's TTL attribute.
//
// Table requirements:
//   - PK: id (string)
//   - TTL attribute: expires_at (epoch seconds)

type DynamoStore struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ Store = (*DynamoStore)(nil)

func NewDynamoStore(ddb *dynamodb.Client) *DynamoStore {
	tableName := os.Getenv("RATE_LIMITS_TABLE")
	if tableName == "" {
		tableName = defaultRateLimitsTableName
	}
	return &DynamoStore{ddb: ddb, tableName: tableName}
}

func (s *DynamoStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if key == "" {
		return false, nil
	}

	windowStart := time.Now().UTC().Truncate(window)
	rowKey := fmt.Sprintf("%s#%d", key, windowStart.Unix())
	expiresAt := windowStart.Add(2 * window).Unix()

	out, err := s.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: rowKey},
		},
		UpdateExpression: aws.String("ADD #hits :one SET #expires_at = if_not_exists(#expires_at, :expires_at)"),
		ExpressionAttributeNames: map[string]string{
			"#hits":       "hits",
			"#expires_at": "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":        &types.AttributeValueMemberN{Value: "1"},
			":expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return false, err
	}

	hitsAttr, ok := out.Attributes["hits"].(*types.AttributeValueMemberN)
	if !ok {
		return false, fmt.Errorf("unexpected hits attribute type for %s", rowKey)
	}
	hits, err := strconv.ParseInt(hitsAttr.Value, 10, 64)
	if err != nil {
		return false, err
	}
	return hits <= int64(limit), nil
}
