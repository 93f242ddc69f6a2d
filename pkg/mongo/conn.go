package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	MenuCollection      = "menu_items"
	InventoryCollection = "inventory"
)

// Database holds the catalog connection shared by the menu and inventory stores.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, databaseName string) (*Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetRegistry(newRegistry())
	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Database{client: client, db: client.Database(databaseName)}, nil
}

func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *Database) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
