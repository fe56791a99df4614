package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Holibob API configuration. The credential set (URL, key, secret,
	// partner id) is normally resolved per tenant by the auth layer; these
	// values are the defaults used by the CLI and the background worker.
	HolibobAPIURL       string `mapstructure:"HOLIBOB_API_URL"`
	HolibobAPIKey       string `mapstructure:"HOLIBOB_API_KEY"`
	HolibobAPISecret    string `mapstructure:"HOLIBOB_API_SECRET"`
	HolibobPartnerID    string `mapstructure:"HOLIBOB_PARTNER_ID"`
	HolibobTimeoutMs    int    `mapstructure:"HOLIBOB_TIMEOUT_MS"`
	HolibobRetries      int    `mapstructure:"HOLIBOB_RETRIES"`
	HolibobRateLimitRPS int    `mapstructure:"HOLIBOB_RATE_LIMIT_RPS"`

	// Redis configuration (catalog cache and confirmation-watch queue).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HOLIBOB_API_URL", "https://api.holibob.tech/graphql")
	viper.SetDefault("HOLIBOB_API_KEY", "")
	viper.SetDefault("HOLIBOB_API_SECRET", "")
	viper.SetDefault("HOLIBOB_PARTNER_ID", "")
	viper.SetDefault("HOLIBOB_TIMEOUT_MS", 30000)
	viper.SetDefault("HOLIBOB_RETRIES", 3)
	viper.SetDefault("HOLIBOB_RATE_LIMIT_RPS", 0)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
