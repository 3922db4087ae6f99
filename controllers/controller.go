package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"handmade-backend/apperrors"
	"handmade-backend/repositories"
	"handmade-backend/services"
)

// Controller menampung dependensi yang akan digunakan oleh semua handler.
type Controller struct {
	DB         *mongo.Database
	Auth       *services.AuthService
	Orders     *services.OrderService
	Products   *repositories.ProductRepository
	Categories *repositories.CategoryRepository
	Admins     *repositories.AdminRepository
	TokenTTL   time.Duration
	Log        *zap.Logger
}

const requestTimeout = 10 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// respondError menerjemahkan error domain menjadi respons HTTP.
// Error tak terklasifikasi dilaporkan sebagai server fault generik
// tanpa membocorkan detail internal.
func (ctrl *Controller) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		ctrl.Log.Error("internal error",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
		)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.CodeOf(err)})
}
