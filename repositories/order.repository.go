package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"handmade-backend/models"
)

// OrderRepository menyimpan pesanan di "orders" dan barisnya di
// "order_items". Pesanan dan baris ditulis dalam satu transaksi.
type OrderRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		orders: db.Collection("orders"),
		items:  db.Collection("order_items"),
	}
}

// WithTransaction menjalankan fn di dalam satu transaksi MongoDB.
// Error apa pun dari fn membatalkan seluruh penulisan di dalamnya.
func (r *OrderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.orders.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// CreateWithItems menyimpan pesanan beserta baris-barisnya.
// Dipanggil dari dalam WithTransaction oleh workflow pesanan.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	result, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	docs := make([]interface{}, len(items))
	for i := range items {
		items[i].OrderID = order.ID
		docs[i] = items[i]
	}

	inserted, err := r.items.InsertMany(ctx, docs)
	if err != nil {
		return err
	}
	for i, id := range inserted.InsertedIDs {
		items[i].ID = id.(primitive.ObjectID)
	}
	return nil
}

// GetByID mengembalikan pesanan dengan baris-barisnya, atau nil.
func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.OrderWithItems, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cursor, err := r.items.Find(ctx, bson.M{"order_id": id})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	return &models.OrderWithItems{Order: order, Items: items}, nil
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := r.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// List mengembalikan semua pesanan, terbaru lebih dulu.
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

// ListByStatus mengembalikan pesanan dengan status tertentu.
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return r.find(ctx, bson.M{"status": status})
}

// ListByCustomerEmail mengembalikan pesanan milik satu pelanggan.
func (r *OrderRepository) ListByCustomerEmail(ctx context.Context, email string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"customer_email": email})
}

// UpdateStatus memindahkan status pesanan dari from ke to secara CAS:
// update hanya terjadi bila status saat ini masih from. Mengembalikan
// false bila pesanan tidak ada atau statusnya sudah berubah.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (bool, error) {
	result, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": nowUTC()}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// UpdatePaymentStatus memperbarui status pembayaran; payment_id hanya
// ditulis bila diisi (partial update non-destruktif).
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, paymentID string) (bool, error) {
	set := bson.M{"payment_status": status, "updated_at": nowUTC()}
	if paymentID != "" {
		set["payment_id"] = paymentID
	}

	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Stats menghitung statistik pesanan. TotalRevenue dijumlahkan hanya
// dari pesanan dengan payment_status = paid.
func (r *OrderRepository) Stats(ctx context.Context) (*models.OrderStats, error) {
	total, err := r.orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	pending, err := r.orders.CountDocuments(ctx, bson.M{"status": models.OrderStatusPending})
	if err != nil {
		return nil, err
	}
	completed, err := r.orders.CountDocuments(ctx, bson.M{"status": models.OrderStatusDelivered})
	if err != nil {
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": bson.M{"payment_status": models.PaymentStatusPaid}},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total_amount"},
		}},
	}
	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var revenue int64
	var result []bson.M
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	if len(result) > 0 {
		switch v := result[0]["total"].(type) {
		case int64:
			revenue = v
		case int32:
			revenue = int64(v)
		}
	}

	return &models.OrderStats{
		TotalOrders:     total,
		PendingOrders:   pending,
		CompletedOrders: completed,
		TotalRevenue:    revenue,
	}, nil
}
