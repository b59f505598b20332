package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Assets      AssetsConfig      `mapstructure:"assets"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Elicitation ElicitationConfig `mapstructure:"elicitation"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	History     HistoryConfig     `mapstructure:"history"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
	LogLevel    string            `mapstructure:"log_level"`
	LogDir      string            `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// CatalogConfig 菜單資料來源
type CatalogConfig struct {
	Source    string        `mapstructure:"source"` // dir | http
	Dir       string        `mapstructure:"dir"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheSize int           `mapstructure:"cache_size"`
}

// AssetsConfig 圖片路徑設定
type AssetsConfig struct {
	Base string `mapstructure:"base"`
}

// StorageConfig KV 儲存設定
type StorageConfig struct {
	Backend    string       `mapstructure:"backend"` // memory | redis | badger
	HistoryKey string       `mapstructure:"history_key"`
	ModeKey    string       `mapstructure:"mode_key"`
	Redis      RedisConfig  `mapstructure:"redis"`
	Badger     BadgerConfig `mapstructure:"badger"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BadgerConfig Badger 嵌入式資料庫設定
type BadgerConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// ElicitationConfig 問答流程參數
type ElicitationConfig struct {
	PairedTarget   int   `mapstructure:"paired_target"`
	MultiCap       int   `mapstructure:"multi_cap"`
	MultiRoundSize int   `mapstructure:"multi_round_size"`
	Seed           int64 `mapstructure:"seed"` // 0 表示以時間為種子
}

// MatchingConfig 配對評分參數
type MatchingConfig struct {
	PenaltyWeight float64 `mapstructure:"penalty_weight"`
}

// HistoryConfig 歷史紀錄設定
type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定；.env 不存在時只使用環境變數與預設值
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("catalog.source", "CATALOG_SOURCE")
	_ = v.BindEnv("catalog.dir", "CATALOG_DIR")
	_ = v.BindEnv("catalog.base_url", "CATALOG_BASE_URL")
	_ = v.BindEnv("storage.backend", "STORAGE_BACKEND")
	_ = v.BindEnv("storage.redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("storage.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("storage.badger.path", "BADGER_PATH")
	_ = v.BindEnv("elicitation.seed", "ELICITATION_SEED")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "dish-recommender")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 64*1024)

	// 菜單設定
	v.SetDefault("catalog.source", "dir")
	v.SetDefault("catalog.dir", "./data")
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.cache_size", 4)

	v.SetDefault("assets.base", "./data")

	// 儲存設定
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.history_key", "dish-recommender:history")
	v.SetDefault("storage.mode_key", "dish-recommender:mode")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.badger.path", "./state")
	v.SetDefault("storage.badger.in_memory", false)

	// 問答與評分
	v.SetDefault("elicitation.paired_target", 3)
	v.SetDefault("elicitation.multi_cap", 5)
	v.SetDefault("elicitation.multi_round_size", 3)
	v.SetDefault("elicitation.seed", 0)
	v.SetDefault("matching.penalty_weight", 0.1)
	v.SetDefault("history.capacity", 50)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "300ms")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Catalog.Source {
	case "dir":
		if config.Catalog.Dir == "" {
			return fmt.Errorf("catalog dir is required")
		}
	case "http":
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base_url is required for http source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", config.Catalog.Source)
	}
	if config.Catalog.CacheSize <= 0 {
		return fmt.Errorf("invalid catalog cache size")
	}

	switch config.Storage.Backend {
	case "memory", "redis", "badger":
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
	if config.Storage.HistoryKey == "" || config.Storage.ModeKey == "" {
		return fmt.Errorf("storage keys are required")
	}
	if config.Storage.HistoryKey == config.Storage.ModeKey {
		return fmt.Errorf("history key and mode key must differ")
	}

	if config.Elicitation.PairedTarget <= 0 {
		return fmt.Errorf("invalid paired target")
	}
	if config.Elicitation.MultiCap <= 0 || config.Elicitation.MultiRoundSize <= 0 {
		return fmt.Errorf("invalid multi-select settings")
	}
	if config.Matching.PenaltyWeight < 0 || config.Matching.PenaltyWeight >= 1 {
		return fmt.Errorf("penalty weight must be in [0, 1)")
	}
	if config.History.Capacity <= 0 {
		return fmt.Errorf("invalid history capacity")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}

	return nil
}
