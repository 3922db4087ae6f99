package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"handmade-backend/apperrors"
	"handmade-backend/models"
)

// AdminRepository adalah penyimpanan kredensial admin di koleksi "admins".
// Indeks unik pada email adalah penjaga duplikasi yang sebenarnya;
// pengecekan di service hanya optimasi.
type AdminRepository struct {
	col *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{col: db.Collection("admins")}
}

// GetByEmail mengembalikan admin berdasarkan email, atau nil bila tidak ada.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByID mengembalikan admin berdasarkan id, atau nil bila tidak ada.
func (r *AdminRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var admin models.Admin
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create menyimpan admin baru. Pelanggaran indeks unik email
// dilaporkan sebagai AdminAlreadyExists.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	result, err := r.col.InsertOne(ctx, admin)
	if mongo.IsDuplicateKeyError(err) {
		return nil, apperrors.ErrAdminAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	admin.ID = result.InsertedID.(primitive.ObjectID)
	return admin, nil
}

// UpdateLastLogin mencatat waktu login terakhir.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_login": at, "updated_at": at},
	})
	return err
}

// UpdatePassword mengganti hash password admin.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string, at time.Time) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password_hash": hash, "updated_at": at},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// List mengembalikan semua admin.
func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var admins []models.Admin
	if err = cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}
