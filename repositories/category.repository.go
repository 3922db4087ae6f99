package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"handmade-backend/apperrors"
	"handmade-backend/models"
)

// CategoryRepository menyimpan kategori produk dengan slug unik.
type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection("categories")}
}

// List mengembalikan kategori terurut menurut sort_order.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug mengembalikan kategori berdasarkan slug, atau nil.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create menyimpan kategori baru; slug duplikat dilaporkan sebagai konflik.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.col.InsertOne(ctx, category)
	if mongo.IsDuplicateKeyError(err) {
		return nil, apperrors.ErrCategorySlugExists
	}
	if err != nil {
		return nil, err
	}
	category.ID = result.InsertedID.(primitive.ObjectID)
	return category, nil
}

// Update menimpa data kategori. Mengembalikan false bila tidak ditemukan.
func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, category *models.Category) (bool, error) {
	category.ID = id
	category.UpdatedAt = time.Now()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, category)
	if mongo.IsDuplicateKeyError(err) {
		return false, apperrors.ErrCategorySlugExists
	}
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Delete menghapus kategori. Mengembalikan false bila tidak ditemukan.
func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
