package main

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	mysqldriver "github.com/go-sql-driver/mysql"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	defaultStorage      = storageMySQL
	defaultRateLimitRPS = 50
	defaultRateBurst    = 100

	storageMySQL  = "mysql"
	storageMemory = "memory"
)

type config struct {
	ServerAddress  string        `validate:"required"`
	ContextTimeout time.Duration `validate:"gt=0"`
	StorageDriver  string        `validate:"oneof=mysql memory"`
	LogLevel       string        `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat      string        `validate:"oneof=json text"`
	BloomBitSize   uint64        `validate:"gt=0"`
	RateLimitRPS   float64       `validate:"gte=0"` // 0 disables rate limiting
	RateLimitBurst int           `validate:"gte=1"`

	Database databaseConfig `validate:"-"`
	Cache    cacheConfig    `validate:"-"`
}

type databaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	User     string `validate:"required"`
	Password string
	Name     string `validate:"required"`
	Location string `validate:"required"`
}

type cacheConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	Password string
	DB       int `validate:"gte=0"`
}

// loadConfig reads the environment, falling back to defaults for optional settings.
func loadConfig() (config, error) {
	cfg := config{
		ServerAddress:  getEnv("SERVER_ADDRESS", defaultAddress),
		ContextTimeout: time.Duration(getEnvInt("CONTEXT_TIMEOUT", defaultTimeout)) * time.Second,
		StorageDriver:  getEnv("STORAGE_DRIVER", defaultStorage),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		BloomBitSize:   uint64(getEnvInt("BLOOM_FILTER_SIZE", defaultBloomBitSize)),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", defaultRateBurst),
		Database: databaseConfig{
			Host:     os.Getenv("DATABASE_HOST"),
			Port:     getEnv("DATABASE_PORT", "3306"),
			User:     os.Getenv("DATABASE_USER"),
			Password: os.Getenv("DATABASE_PASS"),
			Name:     os.Getenv("DATABASE_NAME"),
			Location: getEnv("DATABASE_LOC", "UTC"),
		},
		Cache: cacheConfig{
			Host:     getEnv("CACHE_HOST", "localhost"),
			Port:     getEnv("CACHE_PORT", "6379"),
			Password: os.Getenv("CACHE_PASS"),
			DB:       getEnvInt("CACHE_DB", defaultCacheDB),
		},
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return config{}, err
	}
	if cfg.StorageDriver == storageMySQL {
		if err := validate.Struct(cfg.Database); err != nil {
			return config{}, err
		}
		if err := validate.Struct(cfg.Cache); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

// DSN builds the MySQL data source name
func (d databaseConfig) DSN() (string, error) {
	loc, err := time.LoadLocation(d.Location)
	if err != nil {
		return "", err
	}
	c := mysqldriver.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, d.Port)
	c.DBName = d.Name
	c.ParseTime = true
	c.Loc = loc
	return c.FormatDSN(), nil
}

func (c cacheConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
