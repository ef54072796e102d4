// Package config provides centralized default values for Harbor
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	AllowedOrigins     []string

	// Database
	DBDriver                 string
	DBPath                   string
	DBURL                    string
	DBAuthToken              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration

	// Auth
	JWTSecret      string
	AESKey         string
	AdminPassword  string
	JWTExpiryHours int

	// Analytics
	CollaboratorTimeout time.Duration
	DemandWindowDays    int
	DemandMinSearches   int
	DemandMinGrowthPct  float64

	// TTL Configuration
	ReportCacheTTL  time.Duration
	DashboardTTL    time.Duration
	InventoryTTL    time.Duration
	CleanupInterval time.Duration

	// Email
	ResendAPIKey    string
	DigestFrom      string
	DigestRecipient string
	DigestEnabled   bool

	// Media
	MediaDirectory string
	WebPQuality    float64
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	AllowedOrigins = strings.Split(getEnvString("ALLOWED_ORIGINS", "*"), ",")

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "harbor.db")
	DBURL = getEnvString("DB_URL", "")
	DBAuthToken = getEnvString("DB_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	JWTExpiryHours = getEnvInt("JWT_EXPIRY_HOURS", 24)

	// Analytics
	CollaboratorTimeout = getEnvDuration("COLLABORATOR_TIMEOUT", 8*time.Second)
	DemandWindowDays = getEnvInt("DEMAND_WINDOW_DAYS", 7)
	DemandMinSearches = getEnvInt("DEMAND_MIN_SEARCHES", 10)
	DemandMinGrowthPct = getEnvFloat("DEMAND_MIN_GROWTH_PCT", 50)

	// TTL Configuration
	ReportCacheTTL = time.Duration(getEnvInt("REPORT_CACHE_TTL_MINUTES", 10)) * time.Minute
	DashboardTTL = time.Duration(getEnvInt("DASHBOARD_TTL_MINUTES", 10)) * time.Minute
	InventoryTTL = time.Duration(getEnvInt("INVENTORY_TTL_MINUTES", 5)) * time.Minute
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	DigestFrom = getEnvString("DIGEST_FROM", "Harbor <digest@harborcommerce.dev>")
	DigestRecipient = getEnvString("DIGEST_RECIPIENT", "")
	DigestEnabled = getEnvBool("DIGEST_ENABLED", false)

	// Media
	MediaDirectory = getEnvString("MEDIA_DIRECTORY", "media")
	WebPQuality = getEnvFloat("WEBP_QUALITY", 85)
}
