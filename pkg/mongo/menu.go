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

// ErrDuplicateName is returned when a unique name index rejects a write.
var ErrDuplicateName = errors.New("name already exists")

type MenuStore struct {
	collection *mongo.Collection
}

func NewMenuStore(db *Database) *MenuStore {
	return &MenuStore{collection: db.Collection(MenuCollection)}
}

// List returns the catalog in insertion order.
func (s *MenuStore) List(ctx context.Context) ([]models.MenuItem, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

func (s *MenuStore) Get(ctx context.Context, id bson.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("menu item %s: %w", id.Hex(), global.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu item %s: %w", id.Hex(), err)
	}
	return &item, nil
}

func (s *MenuStore) Create(ctx context.Context, item *models.MenuItem) error {
	item.ID = bson.NewObjectID()
	item.SetTimestamps()

	if _, err := s.collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("menu item %q: %w", item.Name, ErrDuplicateName)
		}
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// Update overwrites name, price and image of an existing item.
func (s *MenuStore) Update(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now()

	result, err := s.collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: item.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: item.Name},
			{Key: "price", Value: item.Price},
			{Key: "image", Value: item.Image},
			{Key: "updated_at", Value: item.UpdatedAt},
		}}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("menu item %q: %w", item.Name, ErrDuplicateName)
		}
		return fmt.Errorf("failed to update menu item %s: %w", item.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("menu item %s: %w", item.ID.Hex(), global.ErrNotFound)
	}
	return nil
}

func (s *MenuStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete menu item %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("menu item %s: %w", id.Hex(), global.ErrNotFound)
	}
	return nil
}
