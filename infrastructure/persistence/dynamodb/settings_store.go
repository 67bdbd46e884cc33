package dynamodb

import (
	"context"
	"fmt"
	"time"

	"caseboard/application/ports"
	pkgerrors "caseboard/pkg/errors"
	"caseboard/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// SettingsStore implements ports.SettingsStore on DynamoDB. Each field value
// is its own item so the debounced per-field writes never race on a shared
// document: the last write for a field wins without read-modify-write.
type SettingsStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSettingsStore creates a settings store
func NewSettingsStore(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.SettingsStore {
	return &SettingsStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type settingItem struct {
	PK        string      `dynamodbav:"PK"`
	SK        string      `dynamodbav:"SK"`
	SketchID  string      `dynamodbav:"SketchID"`
	Category  string      `dynamodbav:"Category"`
	FieldKey  string      `dynamodbav:"FieldKey"`
	Value     interface{} `dynamodbav:"Value"`
	UpdatedAt string      `dynamodbav:"UpdatedAt"`
}

func settingsPK(sketchID string) string { return fmt.Sprintf("SETTINGS#%s", sketchID) }

func settingSK(category, key string) string {
	return fmt.Sprintf("FIELD#%s#%s", category, key)
}

// SaveValue writes one field value
func (s *SettingsStore) SaveValue(ctx context.Context, sketchID, category, key string, value interface{}) error {
	av, err := attributevalue.MarshalMap(settingItem{
		PK:        settingsPK(sketchID),
		SK:        settingSK(category, key),
		SketchID:  sketchID,
		Category:  category,
		FieldKey:  key,
		Value:     value,
		UpdatedAt: utils.FormatRFC3339(time.Now()),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal setting", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save setting", err)
	}
	return nil
}

// LoadValues reads every stored field of a sketch into the
// category -> key -> value shape the registry overlays
func (s *SettingsStore) LoadValues(ctx context.Context, sketchID string) (map[string]map[string]interface{}, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(settingsPK(sketchID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build settings query")
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query settings", err)
	}

	values := make(map[string]map[string]interface{})
	for _, item := range out.Items {
		var si settingItem
		if err := attributevalue.UnmarshalMap(item, &si); err != nil {
			s.logger.Warn("skipping malformed setting item",
				zap.String("sketchID", sketchID),
				zap.Error(err),
			)
			continue
		}
		if values[si.Category] == nil {
			values[si.Category] = make(map[string]interface{})
		}
		values[si.Category][si.FieldKey] = si.Value
	}
	return values, nil
}

// Delete removes all stored settings for a sketch
func (s *SettingsStore) Delete(ctx context.Context, sketchID string) error {
	keyCond := expression.Key("PK").Equal(expression.Value(settingsPK(sketchID)))
	proj := expression.NamesList(expression.Name("PK"), expression.Name("SK"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return pkgerrors.Wrap(err, "build settings delete query")
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("query settings for delete", err)
	}

	for _, item := range out.Items {
		if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": item["PK"],
				"SK": item["SK"],
			},
		}); err != nil {
			return pkgerrors.NewDatabaseError("delete setting", err)
		}
	}
	return nil
}
