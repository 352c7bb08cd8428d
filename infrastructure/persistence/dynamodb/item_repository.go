// Package dynamodb persists item records in a single DynamoDB table, the
// production storage driver.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"studyforge/application/ports"
	"studyforge/domain/core/entities"
	"studyforge/domain/core/valueobjects"
	pkgerrors "studyforge/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const entityTypeItem = "ITEM"

// ItemRepository implements ports.ItemRepository using DynamoDB
type ItemRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

// storedItem is the DynamoDB representation of an item record
type storedItem struct {
	PK           string  `dynamodbav:"PK"`
	SK           string  `dynamodbav:"SK"`
	EntityType   string  `dynamodbav:"EntityType"`
	ItemID       string  `dynamodbav:"ItemID"`
	Stability    float64 `dynamodbav:"Stability"`
	Difficulty   float64 `dynamodbav:"Difficulty"`
	LastReviewed string  `dynamodbav:"LastReviewed"`
	NextReview   string  `dynamodbav:"NextReview"`
}

// FindByID loads a single item
func (r *ItemRepository) FindByID(ctx context.Context, id valueobjects.ItemID) (*entities.Item, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: itemPK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get item", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("item " + id.String())
	}

	var stored storedItem
	if err := attributevalue.UnmarshalMap(out.Item, &stored); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal item", err)
	}
	return toEntity(stored)
}

// FindAll loads every persisted item
func (r *ItemRepository) FindAll(ctx context.Context) ([]*entities.Item, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityTypeItem))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build scan expression", err)
	}

	var items []*entities.Item
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan items", err)
		}

		var stored []storedItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &stored); err != nil {
			return nil, pkgerrors.NewDatabaseError("unmarshal items", err)
		}
		for _, s := range stored {
			item, err := toEntity(s)
			if err != nil {
				r.logger.Warn("Skipping corrupt item record",
					zap.String("itemID", s.ItemID),
					zap.Error(err),
				)
				continue
			}
			items = append(items, item)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return items, nil
}

// Save persists one item
func (r *ItemRepository) Save(ctx context.Context, item *entities.Item) error {
	av, err := attributevalue.MarshalMap(fromEntity(item))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal item", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("put item", err)
	}

	r.logger.Debug("Saved item",
		zap.String("itemID", item.ID().String()),
		zap.Float64("stability", item.Stability()),
	)
	return nil
}

// SaveAll persists the full pool
func (r *ItemRepository) SaveAll(ctx context.Context, items []*entities.Item) error {
	for _, item := range items {
		if err := r.Save(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func itemPK(id string) string {
	return fmt.Sprintf("ITEM#%s", id)
}

func fromEntity(item *entities.Item) storedItem {
	rec := item.ToRecord()
	return storedItem{
		PK:           itemPK(rec.ID),
		SK:           "METADATA",
		EntityType:   entityTypeItem,
		ItemID:       rec.ID,
		Stability:    rec.Stability,
		Difficulty:   rec.Difficulty,
		LastReviewed: rec.LastReviewed.Format(time.RFC3339Nano),
		NextReview:   rec.NextReview.Format(time.RFC3339Nano),
	}
}

func toEntity(stored storedItem) (*entities.Item, error) {
	lastReviewed, err := time.Parse(time.RFC3339Nano, stored.LastReviewed)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse LastReviewed", err)
	}
	nextReview, err := time.Parse(time.RFC3339Nano, stored.NextReview)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse NextReview", err)
	}

	return entities.ReconstructItem(entities.Record{
		ID:           stored.ItemID,
		Stability:    stored.Stability,
		Difficulty:   stored.Difficulty,
		LastReviewed: lastReviewed,
		NextReview:   nextReview,
	})
}
