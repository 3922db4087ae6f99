package services

import (
	"context"
	"crypto/ed25519"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"handmade-backend/apperrors"
	"handmade-backend/config"
	"handmade-backend/models"
)

// tokenFooter ikut ditandatangani bersama payload token.
const tokenFooter = "handmade-admin"

// CredentialStore adalah penyimpanan kredensial yang dibutuhkan AuthService.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string, at time.Time) error
}

// AuthService menangani registrasi, login, dan siklus hidup token admin.
// Token PASETO v2.public ditandatangani kunci privat Ed25519 dan
// diverifikasi dengan kunci publiknya, jadi pihak yang memverifikasi
// tidak bisa memalsukan token.
type AuthService struct {
	store            CredentialStore
	paseto           *paseto.V2
	privateKey       ed25519.PrivateKey
	publicKey        ed25519.PublicKey
	ttl              time.Duration
	superadminSecret string
	bcryptCost       int
	log              *zap.Logger

	// Now dapat diganti pada pengujian untuk mengontrol waktu.
	Now func() time.Time
}

func NewAuthService(store CredentialStore, cfg *config.AppConfig, log *zap.Logger) *AuthService {
	return &AuthService{
		store:            store,
		paseto:           paseto.NewV2(),
		privateKey:       cfg.TokenPrivateKey,
		publicKey:        cfg.TokenPublicKey,
		ttl:              cfg.TokenTTL,
		superadminSecret: cfg.SuperadminSecret,
		bcryptCost:       cfg.BcryptCost,
		log:              log,
		Now:              time.Now,
	}
}

// NormalizeEmail menyeragamkan email: trim dan huruf kecil.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword menghasilkan hash bcrypt dari password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword mencocokkan password dengan hash bcrypt.
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register membuat admin baru. Registrasi dijaga superadmin secret;
// perbandingan memakai waktu konstan. Indeks unik di penyimpanan tetap
// penjaga terakhir terhadap email duplikat.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.Admin, error) {
	if subtle.ConstantTimeCompare([]byte(req.SuperadminSecret), []byte(s.superadminSecret)) != 1 {
		return nil, apperrors.ErrSuperadminSecretInvalid
	}

	email := NormalizeEmail(req.Email)
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrAdminAlreadyExists
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	admin, err := s.store.Create(ctx, &models.Admin{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("admin registered", zap.String("email", email))
	return admin, nil
}

// Login memverifikasi kredensial, mencatat last_login, dan menerbitkan
// token bertanda tangan dengan klaim admin_id, subject=email, dan expiry.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Admin, error) {
	email = NormalizeEmail(email)

	admin, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, apperrors.ErrEmailNotRegistered
	}
	if !s.VerifyPassword(password, admin.PasswordHash) {
		return "", nil, apperrors.ErrIncorrectPassword
	}

	now := s.Now()
	if err := s.store.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return "", nil, err
	}
	admin.LastLogin = &now

	jsonToken := paseto.JSONToken{
		Subject:    admin.Email,
		IssuedAt:   now,
		Expiration: now.Add(s.ttl),
	}
	jsonToken.Set("admin_id", admin.ID.Hex())

	token, err := s.paseto.Sign(s.privateKey, jsonToken, tokenFooter)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("admin logged in", zap.String("email", email))
	return token, admin, nil
}

// VerifyToken memvalidasi tanda tangan dan masa berlaku token, lalu
// mengembalikan id admin dari klaim admin_id.
func (s *AuthService) VerifyToken(token string) (primitive.ObjectID, error) {
	var jsonToken paseto.JSONToken
	var footer string
	if err := s.paseto.Verify(token, s.publicKey, &jsonToken, &footer); err != nil {
		return primitive.NilObjectID, apperrors.ErrTokenInvalid
	}

	if s.Now().After(jsonToken.Expiration) {
		return primitive.NilObjectID, apperrors.ErrTokenExpired
	}

	id, err := primitive.ObjectIDFromHex(jsonToken.Get("admin_id"))
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrTokenInvalid
	}
	return id, nil
}

// Logout bersifat idempoten: token kedaluwarsa atau rusak ditelan
// sebagai no-op. Hanya token yang sama sekali absen yang ditolak.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return apperrors.ErrNotAuthenticated
	}
	if _, err := s.VerifyToken(token); err != nil {
		s.log.Debug("logout with stale token", zap.String("reason", err.Error()))
	}
	return nil
}

// GetAdmin mengembalikan data admin untuk tampilan /me.
func (s *AuthService) GetAdmin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	admin, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, apperrors.ErrAdminNotFound
	}
	return admin, nil
}

// ChangePassword mengganti password admin yang sedang login.
func (s *AuthService) ChangePassword(ctx context.Context, id primitive.ObjectID, newPassword string) error {
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, hash, s.Now())
}
