package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

type InventoryStore struct {
	collection *mongo.Collection
}

func NewInventoryStore(db *Database) *InventoryStore {
	return &InventoryStore{collection: db.Collection(InventoryCollection)}
}

func (s *InventoryStore) List(ctx context.Context) ([]models.InventoryItem, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.InventoryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	for i := range items {
		items[i].StockStatus = models.StockLabel(items[i].Quantity)
	}
	return items, nil
}

func (s *InventoryStore) Create(ctx context.Context, item *models.InventoryItem) error {
	item.ID = bson.NewObjectID()
	item.SetTimestamps()

	if _, err := s.collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("inventory item %q: %w", item.Name, ErrDuplicateName)
		}
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	item.StockStatus = models.StockLabel(item.Quantity)
	return nil
}

// Update applies the non-nil fields of req and always bumps updated_at.
func (s *InventoryStore) Update(ctx context.Context, id bson.ObjectID, req models.UpdateInventoryRequest) (*models.InventoryItem, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if req.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *req.Name})
	}
	if req.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *req.Price})
	}
	if req.Quantity != nil {
		set = append(set, bson.E{Key: "quantity", Value: *req.Quantity})
	}

	var item models.InventoryItem
	err := s.collection.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("inventory item %s: %w", id.Hex(), global.ErrNotFound)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("inventory item %s: %w", id.Hex(), ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to update inventory item %s: %w", id.Hex(), err)
	}
	item.StockStatus = models.StockLabel(item.Quantity)
	return &item, nil
}

func (s *InventoryStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete inventory item %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("inventory item %s: %w", id.Hex(), global.ErrNotFound)
	}
	return nil
}
