package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string
	Env                    string
	MongoURL               string
	MongoDB                string
	ProductsCollection     string
	UsersCollection        string
	RedisURL               string
	CartTTL                time.Duration
	JWTSecret              string
	GoogleClientID         string
	AllowedOrigins         []string
	CloudinaryUploadPreset string
	CloudinaryFolder       string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:                   getEnv("PORT", "8080"),
		Env:                    getEnv("APP_ENV", "development"),
		MongoURL:               getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:                getEnv("MONGO_DB", "sparkpos"),
		ProductsCollection:     getEnv("PRODUCTS_COLLECTION", "products"),
		UsersCollection:        getEnv("USERS_COLLECTION", "users"),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:                time.Hour * 12, // one terminal shift
		JWTSecret:              getEnv("JWT_SECRET", "dev-secret-change-me"),
		GoogleClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
		AllowedOrigins:         strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "unsigned_upload"),
		CloudinaryFolder:       getEnv("CLOUDINARY_FOLDER", "sparkpos/products"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
