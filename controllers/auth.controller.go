package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"handmade-backend/apperrors"
	"handmade-backend/metrics"
	"handmade-backend/middleware"
	"handmade-backend/models"
)

// Login menangani proses login admin. Token juga dipasang sebagai
// cookie access_token supaya frontend admin cukup pakai cookie.
func (ctrl *Controller) Login(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, admin, err := ctrl.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		ctrl.respondError(c, err)
		return
	}
	metrics.Logins.WithLabelValues("success").Inc()

	c.SetCookie(middleware.CookieName, token, int(ctrl.TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "admin": admin, "token": token})
}

// Register menangani registrasi admin baru. Registrasi dijaga
// superadmin secret, bukan terbuka untuk umum.
func (ctrl *Controller) Register(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := ctrl.Auth.Register(ctx, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "admin": admin})
}

// Logout menangani logout admin: cookie dibersihkan dan token basi
// ditelan sebagai no-op.
func (ctrl *Controller) Logout(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	if err := ctrl.Auth.Logout(token); err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Me menangani pengambilan data admin yang sedang login.
func (ctrl *Controller) Me(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	adminID, ok := middleware.AdminID(c)
	if !ok {
		ctrl.respondError(c, apperrors.ErrNotAuthenticated)
		return
	}

	admin, err := ctrl.Auth.GetAdmin(ctx, adminID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// ChangePassword menangani penggantian password admin yang sedang login.
func (ctrl *Controller) ChangePassword(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	adminID, ok := middleware.AdminID(c)
	if !ok {
		ctrl.respondError(c, apperrors.ErrNotAuthenticated)
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctrl.Auth.ChangePassword(ctx, adminID, req.NewPassword); err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// GetAdmins menangani pengambilan semua data admin.
// Hash password tidak pernah ikut ter-serialisasi.
func (ctrl *Controller) GetAdmins(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	adminList, err := ctrl.Admins.List(ctx)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": adminList})
}
