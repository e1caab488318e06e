package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EmailTransport is the notification transport state, decided once at startup.
type EmailTransport string

const (
	// TransportUnconfigured means no usable credentials or recipient were supplied.
	TransportUnconfigured EmailTransport = "unconfigured"
	// TransportDisabled means the operator explicitly turned email off.
	TransportDisabled EmailTransport = "disabled"
	TransportSMTP     EmailTransport = "smtp"
	TransportGmail    EmailTransport = "gmail"
)

// DurabilityPolicy decides what the caller sees when neither the database
// nor the backup log accepted a submission.
type DurabilityPolicy string

const (
	// PolicyLenient reports success whenever validation passed.
	PolicyLenient DurabilityPolicy = "lenient"
	// PolicyStrict reports failure when no store accepted the submission.
	PolicyStrict DurabilityPolicy = "strict"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	DBUrl       string
	AutoMigrate bool
	FrontendURL string
	// Contact pipeline
	BackupPath       string
	DurabilityPolicy DurabilityPolicy
	// Email configuration
	EmailBackend          string // raw EMAIL_BACKEND value
	EmailTransport        EmailTransport
	EmailHost             string
	EmailPort             string
	EmailUser             string
	EmailPassword         string
	EmailFrom             string
	OAuthClientID         string
	OAuthClientSecret     string
	OAuthRefreshToken     string
	NotificationRecipient string
	AutoReply             bool
	NotifyTimezone        string
	NotifyTimeout         time.Duration
	// Admin auth
	JWTSecret     string
	JWTTTL        time.Duration
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	ContactRateLimit         int
	ContactRateWindowSeconds int
	// Backup mirror (S3 / Wasabi)
	MirrorBucket   string
	MirrorPrefix   string
	MirrorSchedule string
	S3Provider     string
	S3Region       string
	S3AccessKeyID  string
	S3SecretKey    string
	WasabiEndpoint string
}

func LoadConfig() (*Config, error) {
	// Local development only; production sets real environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),

		BackupPath:       getEnv("CONTACT_BACKUP_PATH", "contact_backups/contact_messages.json"),
		DurabilityPolicy: ParseDurabilityPolicy(getEnv("CONTACT_DURABILITY_POLICY", "lenient")),

		EmailBackend:      strings.ToLower(strings.TrimSpace(getEnv("EMAIL_BACKEND", "smtp"))),
		EmailHost:         getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort:         getEnv("EMAIL_PORT", "587"),
		EmailUser:         getEnv("EMAIL_HOST_USER", ""),
		EmailPassword:     getEnv("EMAIL_HOST_PASSWORD", ""),
		OAuthClientID:     getEnv("EMAIL_OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: getEnv("EMAIL_OAUTH_CLIENT_SECRET", ""),
		OAuthRefreshToken: getEnv("EMAIL_OAUTH_REFRESH_TOKEN", ""),
		AutoReply:         getEnvBool("CONTACT_AUTO_REPLY", false),
		NotifyTimezone:    getEnv("NOTIFY_TIMEZONE", "Asia/Kolkata"),
		NotifyTimeout:     getEnvDuration("NOTIFY_TIMEOUT", 30*time.Second),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTTTL:        getEnvDuration("JWT_TTL", 24*time.Hour),
		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		ContactRateLimit:         getEnvInt("CONTACT_RATE_LIMIT", 5),
		ContactRateWindowSeconds: getEnvInt("CONTACT_RATE_WINDOW_SECONDS", 600),

		MirrorBucket:   getEnv("BACKUP_MIRROR_BUCKET", ""),
		MirrorPrefix:   getEnv("BACKUP_MIRROR_PREFIX", "contact-backups/"),
		MirrorSchedule: getEnv("BACKUP_MIRROR_SCHEDULE", "@hourly"),
		S3Provider:     getEnv("S3_PROVIDER", "aws"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3AccessKeyID:  getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
		WasabiEndpoint: getEnv("WASABI_ENDPOINT", ""),
	}

	cfg.EmailFrom = getEnv("EMAIL_FROM", cfg.EmailUser)
	cfg.NotificationRecipient = getEnv("CONTACT_NOTIFICATION_EMAIL", cfg.EmailUser)
	cfg.EmailTransport = cfg.resolveEmailTransport()

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Submissions will only reach the backup log.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Admin endpoints will reject every token.")
	}

	return cfg, nil
}

// resolveEmailTransport maps EMAIL_BACKEND plus the supplied credentials to
// one explicit transport state.
func (c *Config) resolveEmailTransport() EmailTransport {
	switch c.EmailBackend {
	case "disabled", "none", "off":
		return TransportDisabled
	case "smtp", "":
		if c.EmailHost == "" || c.EmailUser == "" || c.EmailPassword == "" || c.NotificationRecipient == "" {
			return TransportUnconfigured
		}
		return TransportSMTP
	case "gmail":
		if c.OAuthClientID == "" || c.OAuthClientSecret == "" || c.OAuthRefreshToken == "" ||
			c.EmailUser == "" || c.NotificationRecipient == "" {
			return TransportUnconfigured
		}
		return TransportGmail
	default:
		log.Printf("WARNING: unknown EMAIL_BACKEND %q, email notifications are off", c.EmailBackend)
		return TransportUnconfigured
	}
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// ParseDurabilityPolicy returns PolicyStrict for "strict" and PolicyLenient otherwise.
func ParseDurabilityPolicy(s string) DurabilityPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(PolicyStrict)) {
		return PolicyStrict
	}
	return PolicyLenient
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
