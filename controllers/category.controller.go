package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"handmade-backend/apperrors"
	"handmade-backend/models"
)

func categoryFromRequest(req *models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return nil, apperrors.Validation("Invalid parent category ID")
		}
		category.ParentID = &parentID
	}
	return category, nil
}

// GetCategories menangani pengambilan semua kategori.
func (ctrl *Controller) GetCategories(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	categoryList, err := ctrl.Categories.List(ctx)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categoryList})
}

// GetCategory menangani pengambilan satu kategori berdasarkan slug.
func (ctrl *Controller) GetCategory(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	category, err := ctrl.Categories.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if category == nil {
		ctrl.respondError(c, apperrors.ErrCategoryNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// CreateCategory menangani pembuatan kategori baru.
func (ctrl *Controller) CreateCategory(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryFromRequest(&req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	created, err := ctrl.Categories.Create(ctx, category)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": created})
}

// UpdateCategory menangani pembaruan data kategori.
func (ctrl *Controller) UpdateCategory(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, apperrors.Validation("Invalid category ID"))
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryFromRequest(&req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	ok, err := ctrl.Categories.Update(ctx, objectID, category)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if !ok {
		ctrl.respondError(c, apperrors.ErrCategoryNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": category})
}

// DeleteCategory menangani penghapusan kategori.
func (ctrl *Controller) DeleteCategory(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, apperrors.Validation("Invalid category ID"))
		return
	}

	ok, err := ctrl.Categories.Delete(ctx, objectID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if !ok {
		ctrl.respondError(c, apperrors.ErrCategoryNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
