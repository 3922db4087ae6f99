package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus mendefinisikan status pemrosesan pesanan.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid melaporkan apakah s termasuk status yang dikenal.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// orderTransitions: delivered dan cancelled bersifat terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionTo melaporkan apakah perpindahan status s -> next diizinkan.
// Pembaruan ke status yang sama diperlakukan sebagai no-op yang sah.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// PaymentStatus mendefinisikan status pembayaran pesanan.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid melaporkan apakah s termasuk status pembayaran yang dikenal.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ShippingAddress mendefinisikan struktur alamat pengiriman.
type ShippingAddress struct {
	Line1      string `json:"line1" bson:"line1" binding:"required"`
	Line2      string `json:"line2,omitempty" bson:"line2,omitempty"`
	City       string `json:"city" bson:"city" binding:"required"`
	Region     string `json:"region,omitempty" bson:"region,omitempty"`
	PostalCode string `json:"postal_code" bson:"postal_code" binding:"required"`
	Country    string `json:"country" bson:"country" binding:"required"`
}

// Order mendefinisikan struktur untuk pesanan.
// Subtotal, ShippingCost dan TotalAmount dalam satuan minor;
// TotalAmount = Subtotal + ShippingCost saat pembuatan.
type Order struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrderNumber string             `json:"order_number" bson:"order_number"`
	Status      OrderStatus        `json:"status" bson:"status"`

	CustomerName  string `json:"customer_name" bson:"customer_name"`
	CustomerEmail string `json:"customer_email" bson:"customer_email"`
	CustomerPhone string `json:"customer_phone" bson:"customer_phone"`

	Subtotal     int64 `json:"subtotal" bson:"subtotal"`
	ShippingCost int64 `json:"shipping_cost" bson:"shipping_cost"`
	TotalAmount  int64 `json:"total_amount" bson:"total_amount"`

	ShippingMethod  string          `json:"shipping_method,omitempty" bson:"shipping_method,omitempty"`
	ShippingAddress ShippingAddress `json:"shipping_address" bson:"shipping_address"`

	PaymentMethod string        `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	PaymentID     string        `json:"payment_id,omitempty" bson:"payment_id,omitempty"`

	CustomerComment string `json:"customer_comment,omitempty" bson:"customer_comment,omitempty"`
	AdminNotes      string `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// OrderItem mendefinisikan satu baris pesanan.
// ProductName dan ProductPrice adalah snapshot saat pemesanan dan
// tidak ikut berubah ketika produk diedit kemudian.
type OrderItem struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrderID           primitive.ObjectID `json:"order_id" bson:"order_id"`
	ProductID         primitive.ObjectID `json:"product_id" bson:"product_id"`
	ProductName       string             `json:"product_name" bson:"product_name"`
	ProductPrice      int64              `json:"product_price" bson:"product_price"`
	Quantity          int                `json:"quantity" bson:"quantity"`
	CustomizationData []string           `json:"customization_data,omitempty" bson:"customization_data,omitempty"`
}

// OrderWithItems menggabungkan pesanan dengan baris-barisnya.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items" bson:"-"`
}

// OrderItemRequest mendefinisikan satu baris pada permintaan pesanan baru.
type OrderItemRequest struct {
	ProductID         string   `json:"product_id" binding:"required"`
	Quantity          int      `json:"quantity" binding:"required,min=1"`
	CustomizationData []string `json:"customization_data"`
}

// CreateOrderRequest mendefinisikan struktur untuk permintaan pesanan baru.
type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerEmail   string             `json:"customer_email" binding:"required,email"`
	CustomerPhone   string             `json:"customer_phone" binding:"required"`
	ShippingMethod  string             `json:"shipping_method"`
	ShippingAddress ShippingAddress    `json:"shipping_address" binding:"required"`
	PaymentMethod   string             `json:"payment_method"`
	CustomerComment string             `json:"customer_comment"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateStatusRequest mendefinisikan struktur untuk pembaruan status pesanan.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest mendefinisikan struktur untuk pembaruan
// status pembayaran. PaymentID hanya ditulis bila diisi.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
	PaymentID     string `json:"payment_id"`
}

// OrderStats mendefinisikan struktur untuk statistik pesanan.
// TotalRevenue hanya menjumlahkan pesanan dengan payment_status = paid.
type OrderStats struct {
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	CompletedOrders int64 `json:"completed_orders"`
	TotalRevenue    int64 `json:"total_revenue"`
}
