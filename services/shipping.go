package services

import "handmade-backend/models"

// ShippingRule menghitung ongkos kirim untuk pesanan yang sedang dibuat.
type ShippingRule interface {
	Cost(subtotal int64, req *models.CreateOrderRequest) int64
}

// FlatShipping mengenakan tarif tetap tanpa melihat tujuan.
// Amount nol berarti gratis ongkir.
type FlatShipping struct {
	Amount int64
}

func (f FlatShipping) Cost(int64, *models.CreateOrderRequest) int64 {
	return f.Amount
}
