package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	LogFile   string
	JWTSecret string
	JWTTTL    time.Duration

	// LegacyCityMatch lets eligibility also match a zip code as a substring
	// of zone city names. Off means strict zip matching only.
	LegacyCityMatch bool
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "reliefmarket.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./reliefmarket.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "fallback-secret-key"
		log.Println("[config] JWT_SECRET not set, using insecure fallback")
	}
	ttl := 7 * 24 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		} else {
			log.Printf("[config] bad JWT_TTL %q: %v", v, err)
		}
	}
	legacy := os.Getenv("ELIGIBILITY_LEGACY_CITY_MATCH") != "false"

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, JWTSecret: secret, JWTTTL: ttl, LegacyCityMatch: legacy}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s JWT_TTL=%s LEGACY_CITY_MATCH=%v",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.JWTTTL, cfg.LegacyCityMatch)
	return cfg
}
