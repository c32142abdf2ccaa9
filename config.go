package frameflow

import (
	"fmt"
	"os"
	"strconv"
)

// Settings holds the application configuration. It is loaded once from
// the environment at startup and treated as immutable afterwards.
type Settings struct {
	// Database
	DatabaseDSN string

	// Auth
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	HashCost        int

	// Uploads
	UploadDir     string
	UploadBaseURL string

	// Server
	ListenAddr string
}

// LoadSettings reads Settings from the environment. JWT_SIGNING_KEY is
// required; everything else has a default.
func LoadSettings() (*Settings, error) {
	cfg := &Settings{}

	cfg.SigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("required environment variable is not set: JWT_SIGNING_KEY")
	}

	cfg.DatabaseDSN = getEnvString("DATABASE_DSN", "file:frameflow.db?cache=shared&mode=rwc")
	cfg.TokenExpiration = getEnvInt("TOKEN_TTL_HOURS", 0)
	cfg.Issuer = getEnvString("JWT_ISSUER", "frameflow")
	cfg.Audience = []string{getEnvString("JWT_AUDIENCE", "frameflow")}
	cfg.HashCost = getEnvInt("BCRYPT_COST", DefaultHashCost)
	cfg.UploadDir = getEnvString("UPLOAD_DIR", "./uploads")
	cfg.UploadBaseURL = getEnvString("UPLOAD_BASE_URL", "/uploads")
	cfg.ListenAddr = getEnvString("LISTEN_ADDR", ":8080")

	return cfg, nil
}

func (s *Settings) GetSigningKey() string { return s.SigningKey }

// GetTokenExpiration returns the token lifetime in hours. Zero means the
// issued tokens never expire.
func (s *Settings) GetTokenExpiration() int { return s.TokenExpiration }

func (s *Settings) GetIssuer() string { return s.Issuer }

func (s *Settings) GetAudience() []string { return s.Audience }

func (s *Settings) GetHashCost() int { return s.HashCost }

var _ Config = (*Settings)(nil)

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
