package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"handmade-backend/apperrors"
	"handmade-backend/models"
)

// statusUpdateRetries membatasi pengulangan CAS saat dua pembaruan
// status berlomba pada pesanan yang sama.
const statusUpdateRetries = 3

// ProductLedger adalah kontrak buku besar produk yang dipakai workflow
// pesanan: baca per-id dan pengurangan stok yang atomik per panggilan.
type ProductLedger interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
}

// OrderStore adalah penyimpanan pesanan yang dipakai OrderService.
type OrderStore interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.OrderWithItems, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, paymentID string) (bool, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
}

// OrderService menjalankan workflow pesanan: validasi, kalkulasi,
// persistensi, dan pengurangan stok.
type OrderService struct {
	orders   OrderStore
	ledger   ProductLedger
	shipping ShippingRule
	log      *zap.Logger

	// Now dapat diganti pada pengujian untuk mengontrol waktu.
	Now func() time.Time
}

func NewOrderService(orders OrderStore, ledger ProductLedger, shipping ShippingRule, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		ledger:   ledger,
		shipping: shipping,
		log:      log,
		Now:      time.Now,
	}
}

// newOrderNumber menurunkan nomor pesanan dari timestamp pembuatan,
// ditambah sufiks acak agar tidak bertabrakan di bawah satu detik.
func (s *OrderService) newOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102-150405"), suffix)
}

// CreateOrder membuat pesanan dengan pola validate-then-commit:
// seluruh baris divalidasi dan di-snapshot dulu, baru setelah itu
// pesanan ditulis dan stok dikurangi dalam satu transaksi. Kegagalan
// apa pun membatalkan seluruhnya; tidak pernah ada pengurangan stok
// parsial yang tersisa.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.OrderWithItems, error) {
	var subtotal int64
	items := make([]models.OrderItem, 0, len(req.Items))

	// Fase 1: validasi semua baris tanpa menulis apa pun.
	for _, line := range req.Items {
		productID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, apperrors.ProductNotFound(line.ProductID)
		}

		product, err := s.ledger.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, apperrors.ProductNotFound(line.ProductID)
		}
		if !product.InStock {
			return nil, apperrors.ProductOutOfStock(product.Name)
		}
		if line.Quantity > product.StockQuantity {
			return nil, apperrors.InsufficientStock(product.Name, product.StockQuantity)
		}

		// Snapshot nama dan harga: nilai historis pesanan tidak ikut
		// berubah saat produk diedit kemudian.
		items = append(items, models.OrderItem{
			ProductID:         product.ID,
			ProductName:       product.Name,
			ProductPrice:      product.Price,
			Quantity:          line.Quantity,
			CustomizationData: line.CustomizationData,
		})
		subtotal += product.Price * int64(line.Quantity)
	}

	now := s.Now()
	shippingCost := s.shipping.Cost(subtotal, req)

	order := &models.Order{
		OrderNumber:     s.newOrderNumber(now),
		Status:          models.OrderStatusPending,
		CustomerName:    req.CustomerName,
		CustomerEmail:   NormalizeEmail(req.CustomerEmail),
		CustomerPhone:   req.CustomerPhone,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		TotalAmount:     subtotal + shippingCost,
		ShippingMethod:  req.ShippingMethod,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		CustomerComment: req.CustomerComment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Fase 2: tulis pesanan + baris dan kurangi stok dalam satu
	// transaksi. Pengurangan stok bersyarat (stock_quantity >= qty)
	// memastikan dua pesanan yang berebut unit terakhir tidak pernah
	// sama-sama lolos; yang kalah membatalkan seluruh transaksinya.
	err := s.orders.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orders.CreateWithItems(txCtx, order, items); err != nil {
			return err
		}
		for i := range items {
			ok, err := s.ledger.DecrementStock(txCtx, items[i].ProductID, items[i].Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.InsufficientStock(items[i].ProductName, 0)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Int("items", len(items)),
	)
	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

// GetOrder mengembalikan pesanan beserta baris-barisnya.
func (s *OrderService) GetOrder(ctx context.Context, idHex string) (*models.OrderWithItems, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperrors.ErrOrderNotFound
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders mengembalikan semua pesanan.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

// ListByStatus mengembalikan pesanan dengan status tertentu.
func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	st := models.OrderStatus(status)
	if !st.Valid() {
		return nil, apperrors.InvalidStatus(status)
	}
	return s.orders.ListByStatus(ctx, st)
}

// ListByCustomerEmail mengembalikan pesanan milik satu pelanggan.
func (s *OrderService) ListByCustomerEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.orders.ListByCustomerEmail(ctx, NormalizeEmail(email))
}

// UpdateStatus memindahkan status pesanan mengikuti graf transisi:
// pending -> processing|cancelled, processing -> shipped|cancelled,
// shipped -> delivered; delivered dan cancelled terminal. Mengembalikan
// false bila pesanan tidak dikenal.
func (s *OrderService) UpdateStatus(ctx context.Context, idHex, status string) (bool, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return false, apperrors.InvalidStatus(status)
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return false, nil
	}

	for attempt := 0; attempt < statusUpdateRetries; attempt++ {
		order, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return false, err
		}
		if order == nil {
			return false, nil
		}
		if !order.Status.CanTransitionTo(next) {
			return false, apperrors.InvalidStatusTransition(string(order.Status), string(next))
		}
		if order.Status == next {
			return true, nil
		}

		ok, err := s.orders.UpdateStatus(ctx, id, order.Status, next)
		if err != nil {
			return false, err
		}
		if ok {
			s.log.Info("order status updated",
				zap.String("order_id", idHex),
				zap.String("from", string(order.Status)),
				zap.String("to", string(next)),
			)
			return true, nil
		}
		// CAS meleset: status berubah di bawah kita, baca ulang.
	}
	return false, apperrors.InvalidStatusTransition("unknown", string(next))
}

// UpdatePaymentStatus memperbarui status pembayaran; payment_id hanya
// ditulis bila diisi. Mengembalikan false bila pesanan tidak dikenal.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, idHex, status, paymentID string) (bool, error) {
	st := models.PaymentStatus(status)
	if !st.Valid() {
		return false, apperrors.InvalidPaymentStatus(status)
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return false, nil
	}

	ok, err := s.orders.UpdatePaymentStatus(ctx, id, st, paymentID)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("order payment status updated",
			zap.String("order_id", idHex),
			zap.String("payment_status", status),
		)
	}
	return ok, nil
}

// GetOrderStats mengembalikan statistik agregat pesanan.
func (s *OrderService) GetOrderStats(ctx context.Context) (*models.OrderStats, error) {
	return s.orders.Stats(ctx)
}
