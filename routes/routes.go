package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"handmade-backend/controllers"
	"handmade-backend/metrics"
	"handmade-backend/middleware"
)

// Setup mengonfigurasi dan mengembalikan Gin engine.
func Setup(ctrl *controllers.Controller, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8000"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	r.Use(metrics.Middleware())
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		// Rute utilitas
		api.GET("/health", ctrl.HealthCheck)

		// Rute otentikasi: login/register ditolak selama token yang
		// disodorkan masih sah
		api.POST("/login", middleware.RejectAuthenticated(ctrl.Auth), ctrl.Login)
		api.POST("/register", middleware.RejectAuthenticated(ctrl.Auth), ctrl.Register)
		api.POST("/logout", ctrl.Logout)

		// Rute katalog publik
		api.GET("/products", ctrl.GetProducts)
		api.GET("/products/:id", ctrl.GetProduct)
		api.GET("/categories", ctrl.GetCategories)
		api.GET("/categories/:slug", ctrl.GetCategory)

		// Pemesanan oleh pelanggan
		api.POST("/orders", ctrl.CreateOrder)

		// Rute admin, dijaga token
		admin := api.Group("", middleware.RequireAdmin(ctrl.Auth))
		{
			admin.GET("/me", ctrl.Me)
			admin.PUT("/me/password", ctrl.ChangePassword)
			admin.GET("/admins", ctrl.GetAdmins)

			admin.POST("/products", ctrl.CreateProduct)
			admin.PUT("/products/:id", ctrl.UpdateProduct)
			admin.DELETE("/products/:id", ctrl.DeleteProduct)

			admin.POST("/categories", ctrl.CreateCategory)
			admin.PUT("/categories/:id", ctrl.UpdateCategory)
			admin.DELETE("/categories/:id", ctrl.DeleteCategory)

			admin.GET("/orders", ctrl.GetOrders)
			admin.GET("/orders/:id", ctrl.GetOrder)
			admin.PUT("/orders/:id/status", ctrl.UpdateOrderStatus)
			admin.PUT("/orders/:id/payment", ctrl.UpdateOrderPaymentStatus)

			admin.GET("/stats", ctrl.GetStats)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
	return r
}
