package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	OllamaBaseURL    string
	OllamaModel      string
	ChromaURL        string
	ChromaCollection string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=chatzwa port=5432 sslmode=disable"),
		OllamaBaseURL:    getEnv("OLLAMA_EMBEDDING_BASE_URL", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		ChromaURL:        getEnv("CHROMA_URL", "http://localhost:8000"),
		ChromaCollection: getEnv("CHROMA_COLLECTION", "knowledge_base"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
