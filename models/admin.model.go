package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin mendefinisikan struktur untuk pengguna admin.
// Hash password tidak pernah diekspos lewat JSON.
type Admin struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	LastLogin    *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// LoginRequest mendefinisikan struktur untuk permintaan login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest mendefinisikan struktur untuk permintaan registrasi.
// Registrasi hanya berhasil jika superadmin_secret cocok dengan konfigurasi.
type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	SuperadminSecret string `json:"superadmin_secret" binding:"required"`
}

// ChangePasswordRequest mendefinisikan struktur untuk penggantian password.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
