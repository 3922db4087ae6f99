package config

import (
	"crypto/ed25519"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// AppConfig menampung semua variabel konfigurasi aplikasi.
type AppConfig struct {
	Port      string
	Env       string
	MongoMode string
	MongoURI  string
	MongoDB   string

	// Pasangan kunci Ed25519 untuk token PASETO v2.public.
	// Kunci privat hanya dipakai server untuk menandatangani;
	// verifikasi cukup dengan kunci publik.
	TokenPrivateKey ed25519.PrivateKey
	TokenPublicKey  ed25519.PublicKey
	TokenTTL        time.Duration

	SuperadminSecret string
	BcryptCost       int

	FlatShippingCost int64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load memuat konfigurasi dari file .env atau environment variables.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &AppConfig{
		Port:          getEnv("PORT", "5000"),
		Env:           getEnv("ENVIRONMENT", "development"),
		MongoMode:     getEnv("MONGO_MODE", "local"),
		MongoDB:       getEnv("MONGO_DB", "handmade"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}

	// Atur URI MongoDB berdasarkan mode
	if cfg.MongoMode == "atlas" {
		cfg.MongoURI = getEnv("MONGO_URI_ATLAS", "")
		if cfg.MongoURI == "" {
			log.Fatal("MONGO_MODE 'atlas' but MONGO_URI_ATLAS is not set")
		}
	} else {
		cfg.MongoURI = getEnv("MONGO_URI_LOCAL", "mongodb://localhost:27017/handmade")
	}

	// Atur pasangan kunci token
	priv, err := base64.StdEncoding.DecodeString(getEnv("TOKEN_PRIVATE_KEY", ""))
	if err != nil || len(priv) != ed25519.PrivateKeySize {
		log.Fatal("TOKEN_PRIVATE_KEY must be a base64-encoded Ed25519 private key!")
	}
	cfg.TokenPrivateKey = ed25519.PrivateKey(priv)

	if pubEnv := getEnv("TOKEN_PUBLIC_KEY", ""); pubEnv != "" {
		pub, err := base64.StdEncoding.DecodeString(pubEnv)
		if err != nil || len(pub) != ed25519.PublicKeySize {
			log.Fatal("TOKEN_PUBLIC_KEY must be a base64-encoded Ed25519 public key!")
		}
		cfg.TokenPublicKey = ed25519.PublicKey(pub)
	} else {
		cfg.TokenPublicKey = cfg.TokenPrivateKey.Public().(ed25519.PublicKey)
	}

	cfg.TokenTTL = time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)) * time.Minute

	cfg.SuperadminSecret = getEnv("SUPERADMIN_SECRET", "")
	if cfg.SuperadminSecret == "" {
		log.Fatal("SUPERADMIN_SECRET is not set")
	}

	cfg.BcryptCost = getEnvInt("BCRYPT_COST", bcrypt.DefaultCost)
	cfg.FlatShippingCost = int64(getEnvInt("SHIPPING_FLAT_COST", 0))
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("%s must be an integer, got %q", key, value)
		}
		return n
	}
	return defaultValue
}
