package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"handmade-backend/models"
)

const productCacheTTL = 10 * time.Minute

// ProductRepository adalah buku besar produk: harga dan stok.
// Pembacaan per-id melewati cache Redis opsional; setiap penulisan
// (termasuk pengurangan stok) menghapus entri cache-nya.
type ProductRepository struct {
	col   *mongo.Collection
	cache *Cache
}

func NewProductRepository(db *mongo.Database, cache *Cache) *ProductRepository {
	return &ProductRepository{col: db.Collection("products"), cache: cache}
}

func productCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("product:%s", id.Hex())
}

// GetByID mengembalikan produk berdasarkan id, atau nil bila tidak ada.
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var cached models.Product
	if hit, err := r.cache.GetJSON(ctx, productCacheKey(id), &cached); err == nil && hit {
		return &cached, nil
	}

	var product models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_ = r.cache.SetJSON(ctx, productCacheKey(id), &product, productCacheTTL)
	return &product, nil
}

// List mengembalikan produk, opsional hanya yang aktif.
func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create menyimpan produk baru dan menjaga invarian in_stock.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	now := time.Now()
	product.InStock = product.StockQuantity > 0
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := r.col.InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = result.InsertedID.(primitive.ObjectID)
	return product, nil
}

// Update menimpa data produk dan menjaga invarian in_stock.
// Mengembalikan false bila produk tidak ditemukan.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, product *models.Product) (bool, error) {
	product.ID = id
	product.InStock = product.StockQuantity > 0
	product.UpdatedAt = time.Now()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, product)
	if err != nil {
		return false, err
	}
	if result.MatchedCount == 0 {
		return false, nil
	}

	_ = r.cache.Del(ctx, productCacheKey(id))
	return true, nil
}

// Delete menghapus produk. Mengembalikan false bila tidak ditemukan.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if result.DeletedCount == 0 {
		return false, nil
	}

	_ = r.cache.Del(ctx, productCacheKey(id))
	return true, nil
}

// DecrementStock mengurangi stok secara atomik dengan syarat
// stock_quantity >= qty, lalu menghitung ulang in_stock dalam update
// pipeline yang sama. Mengembalikan false bila stok tidak mencukupi
// (termasuk kalah balapan dengan pesanan lain).
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}

	filter := bson.M{"_id": id, "stock_quantity": bson.M{"$gte": qty}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"stock_quantity": bson.M{"$subtract": bson.A{"$stock_quantity", qty}},
			"updated_at":     time.Now(),
		}}},
		{{Key: "$set", Value: bson.M{
			"in_stock": bson.M{"$gt": bson.A{"$stock_quantity", 0}},
		}}},
	}

	result, err := r.col.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return false, err
	}
	if result.MatchedCount == 0 {
		return false, nil
	}

	_ = r.cache.Del(ctx, productCacheKey(id))
	return true, nil
}
