package config

import (
	"log"
	"os"

	"github.com/subosito/gotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins string
}

func Load() *Config {
	// .env ist optional; gesetzte Umgebungsvariablen haben Vorrang
	_ = gotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=lager port=5432 sslmode=disable"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=lager port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN nutzt den Standardwert, für Produktion unbedingt eigene Postgres-Verbindung setzen.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS nutzt den Standardwert, für Produktion eigene Domain eintragen.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
