package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/savoria/tavola/domain/entities"
	"github.com/savoria/tavola/domain/repositories"
)

// MenuRepository is the store-backed menu variant.
type MenuRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMenuRepository creates a new MongoDB menu repository
func NewMenuRepository(db *mongo.Database, logger *zap.Logger) repositories.MenuRepository {
	return &MenuRepository{
		collection: db.Collection("menu"),
		logger:     logger,
	}
}

// List implements repositories.MenuRepository. Items come back in
// natural (insertion) order; sorting happens in the query rules.
func (r *MenuRepository) List(ctx context.Context) ([]entities.MenuItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer cursor.Close(ctx)

	var items []entities.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

// Seed implements repositories.MenuRepository. The reseed is
// destructive: existing documents are dropped and the sample set is
// re-inserted on every process start, discarding any external edits.
func (r *MenuRepository) Seed(ctx context.Context, items []entities.MenuItem) error {
	deleted, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to clear menu collection: %w", err)
	}
	r.logger.Info("Cleared existing menu items", zap.Int64("deleted", deleted.DeletedCount))

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert menu items: %w", err)
	}
	r.logger.Info("Inserted menu items", zap.Int("count", len(result.InsertedIDs)))

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "is_special", Value: 1}, {Key: "special_date", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create menu indexes: %w", err)
	}
	r.logger.Info("Created indexes on price, category, and special fields")

	return nil
}
