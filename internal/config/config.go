package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	AI        AIConfig
	Essay     EssayConfig
	App       AppConfig
	Admin     AdminConfig
	Log       LogConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"`
	// ConfigFile 实际读取的配置文件路径，未找到文件时为空
	ConfigFile string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"` // mysql 或 sqlite
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string `mapstructure:"dbname"`
	Charset   string
	ParseTime bool   `mapstructure:"parse_time"`
	Path      string `mapstructure:"path"` // sqlite 文件路径
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled 未配置 host 时退化为进程内缓存
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioSecure   bool   `mapstructure:"minio_secure"`
	OSSRegion     string `mapstructure:"oss_region"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
	GCSBucket     string `mapstructure:"gcs_bucket"`
}

type AIConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	NERModel string `mapstructure:"ner_model"`
}

// NERModelOrDefault 未单独配置实体识别模型时沿用对话模型
func (a AIConfig) NERModelOrDefault() string {
	if a.NERModel != "" {
		return a.NERModel
	}
	return a.Model
}

type EssayConfig struct {
	TargetScore int `mapstructure:"target_score"`
	MaxRounds   int `mapstructure:"max_rounds"`
}

type AppConfig struct {
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	MaxUploadSize     int64         `mapstructure:"max_upload_size"`
	AllowedExtensions []string      `mapstructure:"allowed_extensions"`
}

type AdminConfig struct {
	Password     string        `mapstructure:"password"`
	PasswordHash string        `mapstructure:"password_hash"` // bcrypt，优先于明文密码
	JWTSecret    string        `mapstructure:"jwt_secret"`
	ExpireTime   time.Duration `mapstructure:"expire_hours"`
}

// LogConfig File 为空时只输出到控制台
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.path", "civilpass.db")

	v.SetDefault("storage.type", "oss")
	v.SetDefault("storage.local_path", "uploads")

	v.SetDefault("ai.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	v.SetDefault("ai.model", "qwen-vl-plus")
	v.SetDefault("ai.ner_model", "qwen-plus")

	v.SetDefault("essay.target_score", 90)
	v.SetDefault("essay.max_rounds", 5)

	v.SetDefault("app.cache_ttl", 3600)
	v.SetDefault("app.max_upload_size", 50*1024*1024)
	v.SetDefault("app.allowed_extensions", []string{".pdf", ".doc", ".docx", ".txt", ".csv", ".json", ".jpg", ".jpeg", ".png", ".mp4", ".webm"})

	v.SetDefault("admin.expire_hours", 12)

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CIVILPASS")
	v.AutomaticEnv()
	setDefaults(v)

	// 沿用历史部署使用的环境变量名
	v.BindEnv("storage.oss_access_key", "ACCESS_KEY_ID")
	v.BindEnv("storage.oss_secret_key", "ACCESS_KEY_SECRET")
	v.BindEnv("storage.oss_bucket", "BUCKET_NAME")
	v.BindEnv("storage.oss_region", "REGION")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.gcs_bucket", "GCS_BUCKET")

	// AI
	v.BindEnv("ai.api_key", "API_KEY")
	v.BindEnv("ai.model", "MODEL_NAME")
	v.BindEnv("ai.base_url", "BASE_URL")

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Admin
	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("admin.jwt_secret", "JWT_SECRET")

	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.App.CacheTTL = cfg.App.CacheTTL * time.Second
	cfg.Admin.ExpireTime = cfg.Admin.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// Validate 校验配置完整性
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "oss":
		if c.Storage.OSSAccessKey == "" || c.Storage.OSSSecretKey == "" || c.Storage.OSSBucket == "" || c.Storage.OSSRegion == "" {
			return fmt.Errorf("OSS配置不完整，请检查 ACCESS_KEY_ID / ACCESS_KEY_SECRET / BUCKET_NAME / REGION")
		}
	case "minio":
		if c.Storage.MinioEndpoint == "" || c.Storage.MinioBucket == "" {
			return fmt.Errorf("MinIO配置不完整，请检查 minio_endpoint / minio_bucket")
		}
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("GCS配置不完整，请检查 gcs_bucket")
		}
	case "local":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if c.AI.APIKey == "" {
		return fmt.Errorf("API密钥未配置，请检查环境变量 API_KEY")
	}

	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("管理员密码未配置，请检查 ADMIN_PASSWORD")
	}

	if c.Server.Mode == "release" && len(c.Admin.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Admin.JWTSecret))
	}

	if c.Essay.MaxRounds < 1 {
		c.Essay.MaxRounds = 1
	}

	return nil
}
