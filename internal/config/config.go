package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string
}

type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	BucketAssets string
	UseSSL       bool
	Region       string
	PublicBase   string
}

type SecurityConfig struct {
	JWTSecret   string
	JWTTTL      time.Duration
	BcryptCost  int
	MaxSessions int
}

type RateLimitConfig struct {
	Enabled bool
	Window  time.Duration
	Max     int
}

type QueueConfig struct {
	ClaimInterval time.Duration
	CleanupGrace  time.Duration
}

// ProviderConfig describes one upstream AI vendor. Models lists the model
// identifiers routed to this provider.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Models  []string
}

type AIConfig struct {
	RequestTimeout time.Duration
	ModelCacheTTL  time.Duration
	Providers      map[string]ProviderConfig
}

type AppConfig struct {
	Environment      string
	Version          string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	RateLimit        RateLimitConfig
	Queue            QueueConfig
	AI               AIConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("XUEKE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("version", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 5000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "60s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "xueke:jobs")
	v.SetDefault("redis.group", "xueke-workers")
	v.SetDefault("redis.consumer", "worker-1")

	v.SetDefault("storage.bucketassets", "xueke-assets")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.jwtttl", "24h")
	v.SetDefault("security.bcryptcost", 10)
	v.SetDefault("security.maxsessions", 10)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("ratelimit.max", 300)

	v.SetDefault("queue.claiminterval", "10s")
	v.SetDefault("queue.cleanupgrace", "720h") // 30 days

	v.SetDefault("ai.requesttimeout", "120s")
	v.SetDefault("ai.modelcachettl", "5m")
}
