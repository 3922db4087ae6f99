package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product mendefinisikan struktur untuk produk.
// Price disimpan dalam satuan minor (sen), bukan float.
// InStock selalu dijaga konsisten dengan StockQuantity > 0.
type Product struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	ShortDescription string             `json:"short_description,omitempty" bson:"short_description,omitempty"`
	Price            int64              `json:"price" bson:"price"`
	CompareAtPrice   *int64             `json:"compare_at_price,omitempty" bson:"compare_at_price,omitempty"`
	StockQuantity    int                `json:"stock_quantity" bson:"stock_quantity"`
	InStock          bool               `json:"in_stock" bson:"in_stock"`
	IsActive         bool               `json:"is_active" bson:"is_active"`

	Material  string `json:"material,omitempty" bson:"material,omitempty"`
	Color     string `json:"color,omitempty" bson:"color,omitempty"`
	Width     int    `json:"width,omitempty" bson:"width,omitempty"`
	Length    string `json:"length,omitempty" bson:"length,omitempty"`
	ClaspType string `json:"clasp_type,omitempty" bson:"clasp_type,omitempty"`

	IsCustomizable      bool     `json:"is_customizable" bson:"is_customizable"`
	CustomizableOptions []string `json:"customizable_options,omitempty" bson:"customizable_options,omitempty"`

	CategoryID primitive.ObjectID `json:"category_id,omitempty" bson:"category_id,omitempty"`
	Images     []ProductImage     `json:"images,omitempty" bson:"images,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ProductImage mendefinisikan struktur untuk gambar produk.
// Hanya URL yang disimpan; penyimpanan file berada di luar backend ini.
type ProductImage struct {
	ImageURL  string `json:"image_url" bson:"image_url"`
	AltText   string `json:"alt_text,omitempty" bson:"alt_text,omitempty"`
	IsMain    bool   `json:"is_main" bson:"is_main"`
	SortOrder int    `json:"sort_order" bson:"sort_order"`
}
