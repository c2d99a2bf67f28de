package app

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/applytrack-backend/internal/data/db"
	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/agent"
	"github.com/yungbote/applytrack-backend/internal/platform/envutil"
	"github.com/yungbote/applytrack-backend/internal/platform/gcp"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type Config struct {
	Port    string
	LogMode string

	DB db.Config

	DefaultUserID    uint
	DefaultUserEmail string
	DefaultUserName  string

	CORSOrigins       []string
	TemplatesSeedFile string
	ShutdownTimeout   time.Duration

	Agent agent.Config

	RedisAddr     string
	RedisPassword string

	Bucket         gcp.BucketConfig
	Document       gcp.DocumentConfig
	UploadMaxBytes int64

	MetricsEnabled bool
	MetricsAddr    string
	Otel           observability.OtelConfig
}

// LoadDotEnv seeds the environment from a .env file when one exists.
// Variables already set win.
func LoadDotEnv(log *logger.Logger, paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil && log != nil {
			log.Info("Loaded environment file", "path", p)
		}
	}
}

func LoadConfig(log *logger.Logger) Config {
	gcsCreds := envutil.String("GCS_CREDENTIALS_FILE", "")
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres"),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "applytrack"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", "applytrack.db"),
		},
		DefaultUserID:     uint(envutil.Int("DEFAULT_USER_ID", 1)),
		DefaultUserEmail:  envutil.String("DEFAULT_USER_EMAIL", "me@applytrack.local"),
		DefaultUserName:   envutil.String("DEFAULT_USER_NAME", "Me"),
		CORSOrigins:       envutil.CSV("CORS_ALLOWED_ORIGINS", nil),
		TemplatesSeedFile: envutil.String("TEMPLATES_SEED_FILE", "configs/templates.yaml"),
		ShutdownTimeout:   envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		Agent: agent.Config{
			Mode:         envutil.String("AGENT_MODE", "off"),
			BaseURL:      envutil.String("AGENT_BASE_URL", ""),
			APIKey:       envutil.String("AGENT_API_KEY", ""),
			Timeout:      envutil.Seconds("AGENT_TIMEOUT_SECONDS", 60*time.Second),
			MaxRetries:   envutil.Int("AGENT_MAX_RETRIES", 0),
			GeminiAPIKey: envutil.String("GEMINI_API_KEY", ""),
			GeminiModel:  envutil.String("GEMINI_MODEL", "gemini-1.5-flash"),
			CacheTTL:     envutil.Seconds("AGENT_CACHE_TTL_SECONDS", 24*time.Hour),
		},
		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		Bucket: gcp.BucketConfig{
			Name:         envutil.String("GCS_BUCKET_NAME", ""),
			Credentials:  gcsCreds,
			EmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
		},
		Document: gcp.DocumentConfig{
			ProjectID:   envutil.String("DOCUMENTAI_PROJECT_ID", ""),
			Location:    envutil.String("DOCUMENTAI_LOCATION", "us"),
			ProcessorID: envutil.String("DOCUMENTAI_PROCESSOR_ID", ""),
			Credentials: gcsCreds,
			MaxRetries:  envutil.Int("DOCUMENTAI_MAX_RETRIES", 2),
		},
		UploadMaxBytes: envutil.Int64("UPLOAD_MAX_BYTES", 10<<20),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:    envutil.String("METRICS_ADDR", ":9090"),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "applytrack-api"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", "dev"),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}
	if cfg.DefaultUserID == 0 {
		cfg.DefaultUserID = 1
	}
	if log != nil {
		log.Info("Config loaded",
			"port", cfg.Port,
			"db_driver", cfg.DB.Driver,
			"agent_mode", cfg.Agent.Mode,
			"uploads", cfg.Bucket.Name != "",
			"redis", cfg.RedisAddr != "",
			"metrics", cfg.MetricsEnabled,
			"otel", cfg.Otel.Enabled,
		)
	}
	return cfg
}
