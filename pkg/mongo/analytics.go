package mongo

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/pkg/models"
)

type StockBucket struct {
	Status     string          `json:"status" bson:"_id"`
	ItemCount  int             `json:"item_count" bson:"count"`
	Units      int             `json:"units" bson:"units"`
	StockValue decimal.Decimal `json:"stock_value" bson:"stock_value"`
	Items      []string        `json:"items" bson:"items"`
}

type StockSummary struct {
	Buckets    []StockBucket   `json:"buckets"`
	TotalItems int             `json:"total_items"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// StockSummary groups inventory by stock label, using the same thresholds as
// models.StockLabel.
func (s *InventoryStore) StockSummary(ctx context.Context) (*StockSummary, error) {
	pipeline := bson.A{
		bson.D{
			{Key: "$bucket", Value: bson.D{
				{Key: "groupBy", Value: "$quantity"},
				{Key: "boundaries", Value: bson.A{math.MinInt32, 1, models.LowStockThreshold + 1}},
				{Key: "default", Value: "in_stock"},
				{Key: "output", Value: bson.D{
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
					{Key: "units", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
					{Key: "stock_value", Value: bson.D{{Key: "$sum", Value: bson.D{
						{Key: "$multiply", Value: bson.A{"$price", "$quantity"}},
					}}}},
					{Key: "items", Value: bson.D{{Key: "$push", Value: "$name"}}},
				}},
			}},
		},
		bson.D{
			{Key: "$addFields", Value: bson.D{
				{Key: "status", Value: bson.D{
					{Key: "$switch", Value: bson.D{
						{Key: "branches", Value: bson.A{
							bson.D{
								{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", math.MinInt32}}}},
								{Key: "then", Value: "Out of Stock"},
							},
							bson.D{
								{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", 1}}}},
								{Key: "then", Value: "Low Stock"},
							},
						}},
						{Key: "default", Value: "In Stock"},
					}},
				}},
			}},
		},
		bson.D{
			{Key: "$project", Value: bson.D{
				{Key: "_id", Value: "$status"},
				{Key: "count", Value: 1},
				{Key: "units", Value: 1},
				{Key: "stock_value", Value: 1},
				{Key: "items", Value: 1},
			}},
		},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []StockBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode inventory summary: %w", err)
	}

	summary := &StockSummary{Buckets: buckets, TotalValue: decimal.Zero}
	for _, b := range buckets {
		summary.TotalItems += b.ItemCount
		summary.TotalValue = summary.TotalValue.Add(b.StockValue)
	}
	return summary, nil
}
