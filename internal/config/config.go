package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Log         LogConfig
	Index       IndexConfig
	ObjectStore ObjectStoreConfig
	Worker      WorkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ReverseGeocodeTTL time.Duration
	ServiceAreaTTL    time.Duration
}

type LogConfig struct {
	Level string
}

// IndexConfig - snapshot source and matching parameters
type IndexConfig struct {
	// Source - postgres, file or objectstore
	Source       string
	Dir          string
	MaxRadius    float64
	PageSize     int
	GeocodeTypes string
	Envelope     [4]float64
}

type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

type WorkerConfig struct {
	Enabled           bool
	RefreshInterval   time.Duration
	RefreshStream     string
	ConsumerGroup     string
	ConsumerName      string
	StreamReadTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_READ_TIMEOUT", 10)
	v.SetDefault("API_WRITE_TIMEOUT", 10)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "ais")
	v.SetDefault("DB_NAME", "ais_engine")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 1800)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("REVERSE_GEOCODE_CACHE_TTL", 300)
	v.SetDefault("SERVICE_AREA_CACHE_TTL", 300)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("INDEX_SOURCE", "file")
	v.SetDefault("INDEX_DIR", "./data")
	v.SetDefault("REVERSE_GEOCODE_MAX_RADIUS_FT", 300)
	v.SetDefault("PAGE_SIZE", 100)
	v.SetDefault("REVERSE_GEOCODE_TYPES", "pwd_curb,dor_curb,true_range,full_range")
	v.SetDefault("INDEX_ENVELOPE", "2500000,160000,2900000,360000")

	v.SetDefault("OBJECTSTORE_USE_SSL", false)
	v.SetDefault("OBJECTSTORE_BUCKET", "ais-snapshots")
	v.SetDefault("OBJECTSTORE_PREFIX", "current/")

	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("INDEX_REFRESH_INTERVAL", 0)
	v.SetDefault("INDEX_REFRESH_STREAM", "stream:ais:index:refresh")
	v.SetDefault("WORKER_CONSUMER_GROUP", "ais-index-refresh")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_SHUTDOWN_TIMEOUT", 30)
}

// Load reads .env (if present) and the environment. Environment variables win over the file.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	envelope, err := parseEnvelope(v.GetString("INDEX_ENVELOPE"))
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			ReadTimeout:  time.Duration(v.GetInt("API_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("API_WRITE_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ReverseGeocodeTTL: time.Duration(v.GetInt("REVERSE_GEOCODE_CACHE_TTL")) * time.Second,
			ServiceAreaTTL:    time.Duration(v.GetInt("SERVICE_AREA_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Index: IndexConfig{
			Source:       strings.ToLower(v.GetString("INDEX_SOURCE")),
			Dir:          v.GetString("INDEX_DIR"),
			MaxRadius:    v.GetFloat64("REVERSE_GEOCODE_MAX_RADIUS_FT"),
			PageSize:     v.GetInt("PAGE_SIZE"),
			GeocodeTypes: v.GetString("REVERSE_GEOCODE_TYPES"),
			Envelope:     envelope,
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:  v.GetString("OBJECTSTORE_ENDPOINT"),
			AccessKey: v.GetString("OBJECTSTORE_ACCESS_KEY"),
			SecretKey: v.GetString("OBJECTSTORE_SECRET_KEY"),
			Bucket:    v.GetString("OBJECTSTORE_BUCKET"),
			Prefix:    v.GetString("OBJECTSTORE_PREFIX"),
			UseSSL:    v.GetBool("OBJECTSTORE_USE_SSL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			RefreshInterval:   time.Duration(v.GetInt("INDEX_REFRESH_INTERVAL")) * time.Second,
			RefreshStream:     v.GetString("INDEX_REFRESH_STREAM"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			ConsumerName:      v.GetString("WORKER_CONSUMER_NAME"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			ShutdownTimeout:   time.Duration(v.GetInt("WORKER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
	}

	if cfg.Worker.ConsumerName == "" {
		cfg.Worker.ConsumerName = "ais-" + hostname
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Index.Source {
	case "postgres", "file", "objectstore":
	default:
		return fmt.Errorf("unknown INDEX_SOURCE %q", c.Index.Source)
	}
	if c.Index.MaxRadius <= 0 {
		return fmt.Errorf("REVERSE_GEOCODE_MAX_RADIUS_FT must be positive, got %g", c.Index.MaxRadius)
	}
	if c.Index.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.Index.PageSize)
	}
	if c.Index.Source == "objectstore" && c.ObjectStore.Endpoint == "" {
		return fmt.Errorf("OBJECTSTORE_ENDPOINT is required for the objectstore source")
	}
	return nil
}

func parseEnvelope(s string) ([4]float64, error) {
	var env [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return env, fmt.Errorf("INDEX_ENVELOPE must be minx,miny,maxx,maxy, got %q", s)
	}
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &env[i]); err != nil {
			return env, fmt.Errorf("INDEX_ENVELOPE: bad value %q: %w", p, err)
		}
	}
	if env[0] >= env[2] || env[1] >= env[3] {
		return env, fmt.Errorf("INDEX_ENVELOPE is empty: %q", s)
	}
	return env, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Addr - host:port of the Redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
