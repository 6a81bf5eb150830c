package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Firebase FirebaseConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	GitHub   GitHubConfig
	Build    BuildConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	// AuthMode is "firebase" (verify ID tokens) or "header" (trust X-User-Id, development only).
	AuthMode string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
}

type StoreConfig struct {
	// Backend is one of "firestore", "postgres" or "redis".
	Backend    string
	Collection string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GitHubConfig struct {
	APIURL        string
	Token         string
	TokenSecretID string
	AWSRegion     string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// BuildConfig is the fixed dispatch target. It is never derived from caller input.
type BuildConfig struct {
	RepoOwner  string
	RepoName   string
	WorkflowID string
	Ref        string
}

const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreRedis     = "redis"

	AuthModeFirebase = "firebase"
	AuthModeHeader   = "header"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			AuthMode:    getEnv("AUTH_MODE", AuthModeFirebase),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		},
		Store: StoreConfig{
			Backend:    getEnv("PROJECT_STORE", StoreFirestore),
			Collection: getEnv("FIRESTORE_COLLECTION", "projects"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		GitHub: GitHubConfig{
			APIURL:        getEnv("GITHUB_API_URL", "https://api.github.com"),
			Token:         getEnv("GITHUB_TOKEN", ""),
			TokenSecretID: getEnv("GITHUB_TOKEN_SECRET_ID", ""),
			AWSRegion:     getEnv("AWS_REGION", ""),
			Timeout:       getEnvAsDuration("DISPATCH_TIMEOUT", 30*time.Second),
			RatePerSecond: getEnvAsFloat("DISPATCH_RATE_PER_SEC", 5),
			Burst:         getEnvAsInt("DISPATCH_BURST", 10),
		},
		Build: BuildConfig{
			RepoOwner:  getEnv("BUILD_REPO_OWNER", "WillRich89"),
			RepoName:   getEnv("BUILD_REPO_NAME", "publisher-worker"),
			WorkflowID: getEnv("BUILD_WORKFLOW_ID", "build.yml"),
			Ref:        getEnv("BUILD_REF", "main"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.App.AuthMode {
	case AuthModeFirebase:
	case AuthModeHeader:
		if c.App.Environment == "production" {
			return fmt.Errorf("AUTH_MODE=header is not allowed in production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeFirebase, AuthModeHeader, c.App.AuthMode)
	}

	switch c.Store.Backend {
	case StoreFirestore:
		if c.Store.Collection == "" {
			return fmt.Errorf("FIRESTORE_COLLECTION is required")
		}
	case StorePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when PROJECT_STORE=postgres")
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when PROJECT_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown PROJECT_STORE %q", c.Store.Backend)
	}

	if c.GitHub.Token == "" && c.GitHub.TokenSecretID == "" {
		return fmt.Errorf("GITHUB_TOKEN or GITHUB_TOKEN_SECRET_ID is required")
	}

	if c.Build.RepoOwner == "" || c.Build.RepoName == "" || c.Build.WorkflowID == "" || c.Build.Ref == "" {
		return fmt.Errorf("BUILD_REPO_OWNER, BUILD_REPO_NAME, BUILD_WORKFLOW_ID and BUILD_REF are required")
	}

	return nil
}

// NeedsFirebase reports whether the Firebase Admin SDK has to be initialised.
func (c *Config) NeedsFirebase() bool {
	return c.App.AuthMode == AuthModeFirebase || c.Store.Backend == StoreFirestore
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
