package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Local file store for uploaded track files and the public URL they are
	// served under.
	StorageDir string
	BaseURL    string

	// Base URL of the external route-optimization solver.
	SolverURL string

	// Archive extraction limits.
	MaxZipEntries int
	MaxZipBytes   int64

	// Commit payload chunking.
	ChunkMaxItems        int
	ChunkMaxPayloadBytes int
}

// Load reads configuration from environment variables
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/flights/flights.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./data/files"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	solverURL := os.Getenv("SOLVER_URL")
	if solverURL == "" {
		solverURL = "http://localhost:9090"
	}

	return &Config{
		Port:                 port,
		DBPath:               dbPath,
		JWTSecret:            jwtSecret,
		StorageDir:           storageDir,
		BaseURL:              baseURL,
		SolverURL:            solverURL,
		MaxZipEntries:        envInt("MAX_ZIP_ENTRIES", 2000),
		MaxZipBytes:          int64(envInt("MAX_ZIP_BYTES", 250*1024*1024)),
		ChunkMaxItems:        envInt("CHUNK_MAX_ITEMS", 25),
		ChunkMaxPayloadBytes: envInt("CHUNK_MAX_PAYLOAD_BYTES", 4*1024*1024),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
