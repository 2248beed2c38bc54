package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	redisAddrENV      = "REDIS_ADDR"
	binanceKeyENV     = "BINANCE_API_KEY"
	binanceSecretENV  = "BINANCE_SECRET_KEY"
)

// Config ...
type Config struct {
	Telegram struct {
		Token string `yaml:"token"`
	} `yaml:"telegram"`
	DB    string `yaml:"db_dsn"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Service struct {
		Host       string `yaml:"host"`
		HealthPort int    `yaml:"health_port"`
	} `yaml:"service"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Биржевые ключи. Пустые ключи — не ошибка: venue работает в public-режиме,
	// просто без приватных вызовов.
	Binance struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"binance"`

	// Канал брокера, в который публикуются сигналы.
	SignalChannel string `yaml:"signal_channel"`

	// Раннер стратегий. Интервалы задаются только через env
	// (POLL_INTERVAL и т.п.), yaml.v2 строки вида "1m" не понимает.
	DefaultPollInterval time.Duration
	ReconcileInterval   time.Duration
	CandleLimit         int `yaml:"candle_limit"`
	CacheTTL            time.Duration

	// Подписки
	SubscriptionDays int `yaml:"subscription_days"`
	SweepInterval    time.Duration

	// Дефолты стратегий (если config_json записи неполный)
	DefaultRSIPeriod     int
	DefaultRSIOverbought float64
	DefaultRSIOSold      float64
	DefaultDownCount     int
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		SignalChannel:       "strategy_signals",
		DefaultPollInterval: durationFromEnv("POLL_INTERVAL", "1m"),
		ReconcileInterval:   durationFromEnv("RECONCILE_INTERVAL", "30s"),
		CandleLimit:         intFromEnv("CANDLE_LIMIT", 100),
		CacheTTL:            durationFromEnv("CACHE_TTL", "50s"),

		SubscriptionDays: intFromEnv("SUBSCRIPTION_DAYS", 30),
		SweepInterval:    durationFromEnv("SWEEP_INTERVAL", "1h"),

		DefaultRSIPeriod:     intFromEnv("RSI_PERIOD", 14),
		DefaultRSIOverbought: floatFromEnv("RSI_OVERBOUGHT", 70),
		DefaultRSIOSold:      floatFromEnv("RSI_OVERSOLD", 30),
		DefaultDownCount:     intFromEnv("DOWN_COUNT", 5),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if addr := os.Getenv(redisAddrENV); addr != "" {
		config.Redis.Addr = addr
	}
	if key := os.Getenv(binanceKeyENV); key != "" {
		config.Binance.APIKey = key
	}
	if secret := os.Getenv(binanceSecretENV); secret != "" {
		config.Binance.APISecret = secret
	}

	return &config, nil
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
