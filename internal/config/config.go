package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	defaultJWTExpirationHours = 168 // 7 days
	defaultServerPort         = "8080"
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// Config holds everything the server reads from the environment
type Config struct {
	DB                 *DBConfig
	JWTSecret          string
	JWTExpirationHours int64
	ServerPort         string
	CORSOrigins        []string
	InitialAdminEmail  string
	StaticDir          string
}

// Load reads the server configuration from environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	jwtExpHours := int64(defaultJWTExpirationHours)
	if raw := os.Getenv("JWT_EXPIRATION_HOURS"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			log.Printf("Invalid JWT_EXPIRATION_HOURS %q, defaulting to %d", raw, defaultJWTExpirationHours)
		} else {
			jwtExpHours = parsed
		}
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = defaultServerPort
	}

	origins := defaultCORSOrigins
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = splitList(raw)
	}

	return &Config{
		DB:                 dbCfg,
		JWTSecret:          jwtSecret,
		JWTExpirationHours: jwtExpHours,
		ServerPort:         serverPort,
		CORSOrigins:        origins,
		InitialAdminEmail:  strings.ToLower(strings.TrimSpace(os.Getenv("INITIAL_ADMIN_EMAIL"))),
		StaticDir:          os.Getenv("STATIC_DIR"),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
