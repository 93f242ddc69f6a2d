package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

var requiredIndexes = []IndexConfig{
	// Menu item names are the cart's line identity, so they must be unique.
	{
		CollectionName: MenuCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_menu_name_unique"),
		},
	},
	{
		CollectionName: InventoryCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_inventory_name_unique"),
		},
	},
	// Low stock board
	{
		CollectionName: InventoryCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "quantity", Value: 1}},
			Options: options.Index().SetName("idx_inventory_quantity"),
		},
	},
}

func (d *Database) EnsureIndexes(ctx context.Context, log *slog.Logger) error {
	for _, idx := range requiredIndexes {
		name, err := d.Collection(idx.CollectionName).Indexes().CreateOne(ctx, idx.IndexModel)
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.CollectionName, err)
		}
		log.Debug("index ready", "index", name, "collection", idx.CollectionName)
	}
	return nil
}
