package config

import "os"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// Blob storage. Backend is "gcs" or "memory" (local development).
	BlobBackend string
	GCSBucket   string

	// Vertex AI project/location for the assistant service.
	GenAIProject  string
	GenAILocation string
}

func LoadConfig() Config {
	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		BlobBackend: os.Getenv("BLOB_BACKEND"),
		GCSBucket:   os.Getenv("GCS_BUCKET"),

		GenAIProject:  os.Getenv("GENAI_PROJECT"),
		GenAILocation: os.Getenv("GENAI_LOCATION"),
	}
}
