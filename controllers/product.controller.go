package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"handmade-backend/apperrors"
	"handmade-backend/models"
)

// GetProducts menangani pengambilan semua produk.
// Query ?active=true membatasi ke produk aktif saja.
func (ctrl *Controller) GetProducts(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	activeOnly := c.Query("active") == "true"
	productList, err := ctrl.Products.List(ctx, activeOnly)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": productList})
}

// GetProduct menangani pengambilan satu produk berdasarkan ID.
func (ctrl *Controller) GetProduct(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, apperrors.Validation("Invalid product ID"))
		return
	}

	product, err := ctrl.Products.GetByID(ctx, objectID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if product == nil {
		ctrl.respondError(c, apperrors.ProductNotFound(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct menangani pembuatan produk baru.
func (ctrl *Controller) CreateProduct(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if product.Name == "" || product.Price < 0 || product.StockQuantity < 0 {
		ctrl.respondError(c, apperrors.Validation("Product needs a name, and price/stock cannot be negative"))
		return
	}

	created, err := ctrl.Products.Create(ctx, &product)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": created})
}

// UpdateProduct menangani pembaruan data produk.
func (ctrl *Controller) UpdateProduct(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, apperrors.Validation("Invalid product ID"))
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if product.Name == "" || product.Price < 0 || product.StockQuantity < 0 {
		ctrl.respondError(c, apperrors.Validation("Product needs a name, and price/stock cannot be negative"))
		return
	}

	ok, err := ctrl.Products.Update(ctx, objectID, &product)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if !ok {
		ctrl.respondError(c, apperrors.ProductNotFound(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct menangani penghapusan produk.
func (ctrl *Controller) DeleteProduct(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, apperrors.Validation("Invalid product ID"))
		return
	}

	ok, err := ctrl.Products.Delete(ctx, objectID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if !ok {
		ctrl.respondError(c, apperrors.ProductNotFound(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
