package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"handmade-backend/apperrors"
	"handmade-backend/metrics"
	"handmade-backend/models"
)

// CreateOrder menangani pembuatan pesanan baru oleh pelanggan.
// Validasi stok, snapshot harga, dan pengurangan stok berjalan
// all-or-nothing di dalam service.
func (ctrl *Controller) CreateOrder(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := ctrl.Orders.CreateOrder(ctx, &req)
	if err != nil {
		metrics.OrderFailures.WithLabelValues(failureCode(err)).Inc()
		ctrl.respondError(c, err)
		return
	}

	metrics.OrdersCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

func failureCode(err error) string {
	if code := apperrors.CodeOf(err); code != "" {
		return code
	}
	return "internal"
}

// GetOrders menangani pengambilan daftar pesanan untuk admin.
// Mendukung filter ?status= dan ?email=.
func (ctrl *Controller) GetOrders(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var (
		orderList []models.Order
		err       error
	)
	switch {
	case c.Query("status") != "":
		orderList, err = ctrl.Orders.ListByStatus(ctx, c.Query("status"))
	case c.Query("email") != "":
		orderList, err = ctrl.Orders.ListByCustomerEmail(ctx, c.Query("email"))
	default:
		orderList, err = ctrl.Orders.ListOrders(ctx)
	}
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orderList})
}

// GetOrder menangani pengambilan satu pesanan beserta barisnya.
func (ctrl *Controller) GetOrder(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	order, err := ctrl.Orders.GetOrder(ctx, c.Param("id"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus menangani perpindahan status pesanan mengikuti
// graf transisi yang diizinkan.
func (ctrl *Controller) UpdateOrderStatus(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := ctrl.Orders.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if !ok {
		ctrl.respondError(c, apperrors.ErrOrderNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
}

// UpdateOrderPaymentStatus menangani pembaruan status pembayaran;
// payment_id hanya ditulis bila diisi.
func (ctrl *Controller) UpdateOrderPaymentStatus(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := ctrl.Orders.UpdatePaymentStatus(ctx, c.Param("id"), req.PaymentStatus, req.PaymentID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if !ok {
		ctrl.respondError(c, apperrors.ErrOrderNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
}
