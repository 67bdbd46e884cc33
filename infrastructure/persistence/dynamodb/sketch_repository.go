// Package dynamodb persists sketches and their settings in a single
// DynamoDB table. One sketch maps to a METADATA item plus one item per node
// and per edge under the same partition key, so a full sketch loads with
// one Query.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"caseboard/application/ports"
	"caseboard/domain/core/aggregates"
	"caseboard/domain/core/entities"
	"caseboard/domain/core/valueobjects"
	pkgerrors "caseboard/pkg/errors"
	"caseboard/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	entityTypeSketch = "SKETCH"
	entityTypeNode   = "NODE"
	entityTypeEdge   = "EDGE"

	metadataSK = "METADATA"

	batchWriteLimit = 25
)

// SketchRepository implements ports.SketchRepository on DynamoDB
type SketchRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewSketchRepository creates a sketch repository
func NewSketchRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.SketchRepository {
	return &SketchRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

type sketchItem struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	GSI1PK          string `dynamodbav:"GSI1PK"`
	GSI1SK          string `dynamodbav:"GSI1SK"`
	EntityType      string `dynamodbav:"EntityType"`
	SketchID        string `dynamodbav:"SketchID"`
	InvestigationID string `dynamodbav:"InvestigationID"`
	Name            string `dynamodbav:"Name"`
	NodeCount       int    `dynamodbav:"NodeCount"`
	EdgeCount       int    `dynamodbav:"EdgeCount"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
	UpdatedAt       string `dynamodbav:"UpdatedAt"`
	Version         int    `dynamodbav:"Version"`
}

type nodeItem struct {
	PK         string                 `dynamodbav:"PK"`
	SK         string                 `dynamodbav:"SK"`
	EntityType string                 `dynamodbav:"EntityType"`
	NodeID     string                 `dynamodbav:"NodeID"`
	Attrs      map[string]interface{} `dynamodbav:"Attrs"`
	PositionX  float64                `dynamodbav:"PositionX"`
	PositionY  float64                `dynamodbav:"PositionY"`
	Size       float64                `dynamodbav:"Size"`
	Color      string                 `dynamodbav:"Color"`
	SortOrder  int                    `dynamodbav:"SortOrder"`
	CreatedAt  string                 `dynamodbav:"CreatedAt"`
	UpdatedAt  string                 `dynamodbav:"UpdatedAt"`
}

type edgeItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	EdgeID     string `dynamodbav:"EdgeID"`
	SourceID   string `dynamodbav:"SourceID"`
	TargetID   string `dynamodbav:"TargetID"`
	Label      string `dynamodbav:"Label"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func sketchPK(id string) string { return fmt.Sprintf("SKETCH#%s", id) }
func nodeSK(id string) string   { return fmt.Sprintf("NODE#%s", id) }
func edgeSK(id string) string   { return fmt.Sprintf("EDGE#%s", id) }

// Save persists the sketch metadata plus every node and edge. Items are
// written in batches; the metadata item carries the counts and version.
func (r *SketchRepository) Save(ctx context.Context, sketch *aggregates.Sketch) error {
	pk := sketchPK(sketch.ID().String())

	meta := sketchItem{
		PK:              pk,
		SK:              metadataSK,
		GSI1PK:          fmt.Sprintf("INVESTIGATION#%s", sketch.InvestigationID()),
		GSI1SK:          pk,
		EntityType:      entityTypeSketch,
		SketchID:        sketch.ID().String(),
		InvestigationID: sketch.InvestigationID(),
		Name:            sketch.Name(),
		NodeCount:       sketch.NodeCount(),
		EdgeCount:       sketch.EdgeCount(),
		CreatedAt:       utils.FormatRFC3339(sketch.CreatedAt()),
		UpdatedAt:       utils.FormatRFC3339(sketch.UpdatedAt()),
		Version:         sketch.Version(),
	}

	items := make([]map[string]types.AttributeValue, 0, 1+sketch.NodeCount()+sketch.EdgeCount())

	av, err := attributevalue.MarshalMap(meta)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal sketch metadata", err)
	}
	items = append(items, av)

	for i, node := range sketch.Nodes() {
		av, err := attributevalue.MarshalMap(r.toNodeItem(pk, node, i))
		if err != nil {
			return pkgerrors.NewDatabaseError("marshal node", err)
		}
		items = append(items, av)
	}

	for _, edge := range sketch.Edges() {
		av, err := attributevalue.MarshalMap(edgeItem{
			PK:         pk,
			SK:         edgeSK(edge.ID),
			EntityType: entityTypeEdge,
			EdgeID:     edge.ID,
			SourceID:   edge.SourceID.String(),
			TargetID:   edge.TargetID.String(),
			Label:      edge.Label,
			CreatedAt:  utils.FormatRFC3339(edge.CreatedAt),
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("marshal edge", err)
		}
		items = append(items, av)
	}

	if err := r.batchPut(ctx, items); err != nil {
		return err
	}

	r.logger.Info("sketch saved",
		zap.String("sketchID", sketch.ID().String()),
		zap.Int("nodes", sketch.NodeCount()),
		zap.Int("edges", sketch.EdgeCount()),
	)
	return nil
}

// FindByID loads the metadata item and all node/edge items of one sketch.
// Node items carry a SortOrder so insertion order survives the round trip.
func (r *SketchRepository) FindByID(ctx context.Context, id aggregates.SketchID) (*aggregates.Sketch, error) {
	pk := sketchPK(id.String())

	keyCond := expression.Key("PK").Equal(expression.Value(pk))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build sketch query")
	}

	var items []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query sketch", err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	return r.assembleSketch(id, items)
}

func (r *SketchRepository) assembleSketch(id aggregates.SketchID, items []map[string]types.AttributeValue) (*aggregates.Sketch, error) {
	var meta *sketchItem
	type orderedNode struct {
		node *entities.Node
		sort int
	}
	var nodes []orderedNode
	var edges []*aggregates.Edge

	for _, item := range items {
		entityType := ""
		if av, ok := item["EntityType"]; ok {
			_ = attributevalue.Unmarshal(av, &entityType)
		}

		switch entityType {
		case entityTypeSketch:
			var si sketchItem
			if err := attributevalue.UnmarshalMap(item, &si); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal sketch metadata", err)
			}
			meta = &si

		case entityTypeNode:
			var ni nodeItem
			if err := attributevalue.UnmarshalMap(item, &ni); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal node", err)
			}
			node, err := r.fromNodeItem(ni)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, orderedNode{node: node, sort: ni.SortOrder})

		case entityTypeEdge:
			var ei edgeItem
			if err := attributevalue.UnmarshalMap(item, &ei); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal edge", err)
			}
			sourceID, err := valueobjects.NewNodeIDFromString(ei.SourceID)
			if err != nil {
				continue
			}
			targetID, err := valueobjects.NewNodeIDFromString(ei.TargetID)
			if err != nil {
				continue
			}
			edges = append(edges, &aggregates.Edge{
				ID:        ei.EdgeID,
				SourceID:  sourceID,
				TargetID:  targetID,
				Label:     ei.Label,
				CreatedAt: utils.ParseRFC3339(ei.CreatedAt),
			})
		}
	}

	if meta == nil {
		return nil, pkgerrors.NewNotFoundError("sketch")
	}

	sketch, err := aggregates.ReconstructSketch(meta.SketchID, meta.InvestigationID, meta.Name,
		utils.ParseRFC3339(meta.CreatedAt), utils.ParseRFC3339(meta.UpdatedAt))
	if err != nil {
		return nil, err
	}

	// Insertion-sort by the persisted order; sets are small per partition
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && nodes[j-1].sort > nodes[j].sort; j-- {
			nodes[j-1], nodes[j] = nodes[j], nodes[j-1]
		}
	}

	loadNodes := make([]*entities.Node, len(nodes))
	for i, n := range nodes {
		loadNodes[i] = n.node
	}

	if err := sketch.Load(loadNodes, edges); err != nil {
		return nil, err
	}
	return sketch, nil
}

// FindByInvestigation lists the sketches of one investigation via GSI1,
// then loads each one concurrently.
func (r *SketchRepository) FindByInvestigation(ctx context.Context, investigationID string) ([]*aggregates.Sketch, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("INVESTIGATION#%s", investigationID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build investigation query")
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query investigation sketches", err)
	}

	ids := make([]aggregates.SketchID, 0, len(out.Items))
	for _, item := range out.Items {
		var si sketchItem
		if err := attributevalue.UnmarshalMap(item, &si); err != nil {
			continue
		}
		ids = append(ids, aggregates.SketchID(si.SketchID))
	}

	sketches := make([]*aggregates.Sketch, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, sketchID := range ids {
		i, sketchID := i, sketchID
		g.Go(func() error {
			sketch, err := r.FindByID(gctx, sketchID)
			if err != nil {
				return err
			}
			sketches[i] = sketch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sketches, nil
}

// SaveNode writes one node item without rewriting the rest of the sketch
func (r *SketchRepository) SaveNode(ctx context.Context, sketchID aggregates.SketchID, node *entities.Node) error {
	// SortOrder is unknown for a single-node write; a large value appends
	// after existing nodes, and full saves rewrite the real order.
	av, err := attributevalue.MarshalMap(r.toNodeItem(sketchPK(sketchID.String()), node, int(time.Now().UnixMilli())))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal node", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save node", err)
	}
	return nil
}

// DeleteNode removes one node item and every edge item touching it
func (r *SketchRepository) DeleteNode(ctx context.Context, sketchID aggregates.SketchID, nodeID string) error {
	pk := sketchPK(sketchID.String())

	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: nodeSK(nodeID)},
		},
	}); err != nil {
		return pkgerrors.NewDatabaseError("delete node", err)
	}

	// Edge cleanup mirrors the aggregate's cascade
	keyCond := expression.Key("PK").Equal(expression.Value(pk)).
		And(expression.Key("SK").BeginsWith("EDGE#"))
	filter := expression.Name("SourceID").Equal(expression.Value(nodeID)).
		Or(expression.Name("TargetID").Equal(expression.Value(nodeID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return pkgerrors.Wrap(err, "build edge cascade query")
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("query edges for cascade", err)
	}

	keys := make([]map[string]types.AttributeValue, 0, len(out.Items))
	for _, item := range out.Items {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": item["PK"],
			"SK": item["SK"],
		})
	}
	return r.batchDelete(ctx, keys)
}

// Delete removes the sketch and all of its items
func (r *SketchRepository) Delete(ctx context.Context, id aggregates.SketchID) error {
	pk := sketchPK(id.String())

	keyCond := expression.Key("PK").Equal(expression.Value(pk))
	proj := expression.NamesList(expression.Name("PK"), expression.Name("SK"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return pkgerrors.Wrap(err, "build sketch delete query")
	}

	var keys []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("query sketch for delete", err)
		}
		for _, item := range out.Items {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": item["PK"],
				"SK": item["SK"],
			})
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	if len(keys) == 0 {
		return pkgerrors.NewNotFoundError("sketch")
	}

	if err := r.batchDelete(ctx, keys); err != nil {
		return err
	}

	r.logger.Info("sketch deleted",
		zap.String("sketchID", id.String()),
		zap.Int("items", len(keys)),
	)
	return nil
}

func (r *SketchRepository) toNodeItem(pk string, node *entities.Node, sortOrder int) nodeItem {
	return nodeItem{
		PK:         pk,
		SK:         nodeSK(node.ID().String()),
		EntityType: entityTypeNode,
		NodeID:     node.ID().String(),
		Attrs:      node.Attributes(),
		PositionX:  node.Position().X,
		PositionY:  node.Position().Y,
		Size:       node.Size(),
		Color:      node.Color(),
		SortOrder:  sortOrder,
		CreatedAt:  utils.FormatRFC3339(node.CreatedAt()),
		UpdatedAt:  utils.FormatRFC3339(node.UpdatedAt()),
	}
}

func (r *SketchRepository) fromNodeItem(ni nodeItem) (*entities.Node, error) {
	id, err := valueobjects.NewNodeIDFromString(ni.NodeID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("invalid stored node ID", err)
	}
	return entities.ReconstructNode(
		id,
		ni.Attrs,
		valueobjects.NewPosition(ni.PositionX, ni.PositionY),
		ni.Size,
		ni.Color,
		utils.ParseRFC3339(ni.CreatedAt),
		utils.ParseRFC3339(ni.UpdatedAt),
	)
}

func (r *SketchRepository) batchPut(ctx context.Context, items []map[string]types.AttributeValue) error {
	for start := 0; start < len(items); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(items) {
			end = len(items)
		}
		writes := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		if err := r.batchWrite(ctx, writes); err != nil {
			return err
		}
	}
	return nil
}

func (r *SketchRepository) batchDelete(ctx context.Context, keys []map[string]types.AttributeValue) error {
	for start := 0; start < len(keys); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(keys) {
			end = len(keys)
		}
		writes := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			writes = append(writes, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}
		if err := r.batchWrite(ctx, writes); err != nil {
			return err
		}
	}
	return nil
}

// batchWrite issues one BatchWriteItem call, retrying unprocessed items
func (r *SketchRepository) batchWrite(ctx context.Context, writes []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.tableName: writes}
	for attempt := 0; len(pending[r.tableName]) > 0; attempt++ {
		if attempt > 3 {
			return pkgerrors.NewDatabaseError("batch write exhausted retries", nil)
		}
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("batch write", err)
		}
		pending = out.UnprocessedItems
		if len(pending[r.tableName]) > 0 {
			time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
		}
	}
	return nil
}
