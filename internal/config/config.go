package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverS3         = "s3"
	StorageDriverCloudinary = "cloudinary"
	StorageDriverLocal      = "local"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
		Name string `mapstructure:"name"`
	} `mapstructure:"app"`
	DB struct {
		DSN         string `mapstructure:"dsn"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"db"`
	Redis struct {
		Addr        string        `mapstructure:"addr"`
		Password    string        `mapstructure:"password"`
		URLCacheTTL time.Duration `mapstructure:"url_cache_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret        string        `mapstructure:"jwt_secret"`
		TokenLifespan    time.Duration `mapstructure:"token_lifespan"`
		EnforceOwnership bool          `mapstructure:"enforce_ownership"`
	} `mapstructure:"auth"`
	Storage struct {
		Driver       string        `mapstructure:"driver"`
		SignedURLTTL time.Duration `mapstructure:"signed_url_ttl"`
		S3           struct {
			ProjectID       string `mapstructure:"project_id"`
			Bucket          string `mapstructure:"bucket"`
			Region          string `mapstructure:"region"`
			Endpoint        string `mapstructure:"endpoint"`
			AccessKeyID     string `mapstructure:"access_key_id"`
			SecretAccessKey string `mapstructure:"secret_access_key"`
			UsePathStyle    bool   `mapstructure:"use_path_style"`
		} `mapstructure:"s3"`
		Cloudinary struct {
			CloudName string `mapstructure:"cloud_name"`
			ApiKey    string `mapstructure:"api_key"`
			ApiSecret string `mapstructure:"api_secret"`
		} `mapstructure:"cloudinary"`
		Local struct {
			Dir           string `mapstructure:"dir"`
			BaseURL       string `mapstructure:"base_url"`
			SigningSecret string `mapstructure:"signing_secret"`
		} `mapstructure:"local"`
	} `mapstructure:"storage"`
	Media struct {
		PublicRead     bool  `mapstructure:"public_read"`
		MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
	} `mapstructure:"media"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.name", "itww-admin-api")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("redis.url_cache_ttl", 12*time.Hour)
	v.SetDefault("kafka.topic", "admin.events")
	v.SetDefault("kafka.group_id", "admin-audit-group")
	v.SetDefault("auth.token_lifespan", 7*24*time.Hour)
	v.SetDefault("auth.enforce_ownership", false)
	v.SetDefault("storage.driver", StorageDriverLocal)
	v.SetDefault("storage.signed_url_ttl", 365*24*time.Hour)
	v.SetDefault("storage.s3.region", "auto")
	v.SetDefault("storage.s3.endpoint", "https://storage.googleapis.com")
	v.SetDefault("storage.s3.use_path_style", true)
	v.SetDefault("storage.local.dir", "./data/objects")
	v.SetDefault("storage.local.base_url", "http://localhost:8080")
	v.SetDefault("media.public_read", true)
	v.SetDefault("media.max_upload_bytes", int64(20<<20))
}

func bindEnv(v *viper.Viper) {
	bindings := map[string][]string{
		"app.port":                      {"APP_PORT"},
		"app.env":                       {"APP_ENV"},
		"db.dsn":                        {"DB_DSN", "DATABASE_URL"},
		"db.auto_migrate":               {"DB_AUTO_MIGRATE"},
		"redis.addr":                    {"REDIS_ADDR"},
		"redis.password":                {"REDIS_PASSWORD"},
		"redis.url_cache_ttl":           {"REDIS_URL_CACHE_TTL"},
		"kafka.brokers":                 {"KAFKA_BROKERS"},
		"kafka.topic":                   {"KAFKA_TOPIC"},
		"kafka.group_id":                {"KAFKA_GROUP_ID"},
		"auth.jwt_secret":               {"JWT_ACCESS_SECRET", "JWT_SECRET"},
		"auth.token_lifespan":           {"TOKEN_LIFESPAN"},
		"auth.enforce_ownership":        {"AUTH_ENFORCE_OWNERSHIP"},
		"storage.driver":                {"STORAGE_DRIVER"},
		"storage.signed_url_ttl":        {"STORAGE_SIGNED_URL_TTL"},
		"storage.s3.project_id":         {"GCP_PROJECT_ID"},
		"storage.s3.bucket":             {"GCP_BUCKET_NAME", "S3_BUCKET"},
		"storage.s3.region":             {"S3_REGION"},
		"storage.s3.endpoint":           {"S3_ENDPOINT"},
		"storage.s3.access_key_id":      {"GCP_CLIENT_EMAIL", "S3_ACCESS_KEY_ID"},
		"storage.s3.secret_access_key":  {"GCP_PRIVATE_KEY", "S3_SECRET_ACCESS_KEY"},
		"storage.s3.use_path_style":     {"S3_USE_PATH_STYLE"},
		"storage.cloudinary.cloud_name": {"CLOUDINARY_CLOUD_NAME"},
		"storage.cloudinary.api_key":    {"CLOUDINARY_API_KEY"},
		"storage.cloudinary.api_secret": {"CLOUDINARY_API_SECRET"},
		"storage.local.dir":             {"LOCAL_STORAGE_DIR"},
		"storage.local.base_url":        {"LOCAL_STORAGE_BASE_URL"},
		"storage.local.signing_secret":  {"LOCAL_STORAGE_SIGNING_SECRET"},
		"media.public_read":             {"MEDIA_PUBLIC_READ"},
		"media.max_upload_bytes":        {"MEDIA_MAX_UPLOAD_BYTES"},
		"jaeger.otlp_endpoint":          {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	}
	for key, envs := range bindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// LoadConfig reads .env, then <path>/config.yaml, then the environment. Later sources win.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use environment only.")
	}

	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	// GCP exports keep literal "\n" sequences in private keys.
	cfg.Storage.S3.SecretAccessKey = strings.ReplaceAll(cfg.Storage.S3.SecretAccessKey, `\n`, "\n")

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.DB.DSN == "" {
		return errors.New("db.dsn (DB_DSN) is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_ACCESS_SECRET) is required")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return errors.New("media.max_upload_bytes must be positive")
	}
	switch c.Storage.Driver {
	case StorageDriverS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 driver")
		}
	case StorageDriverCloudinary:
		if c.Storage.Cloudinary.CloudName == "" {
			return errors.New("storage.cloudinary.cloud_name is required for the cloudinary driver")
		}
	case StorageDriverLocal:
		if c.Storage.Local.SigningSecret == "" {
			return errors.New("storage.local.signing_secret is required for the local driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
