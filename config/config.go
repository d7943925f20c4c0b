package config

import (
	"sync"
	"time"

	"seeu_cafe_server/structs"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "SeeU_Cafe_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8080"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIMEOUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			},
			Cors: &structs.CorsConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"localhost", "http://localhost:3000"}),
				AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
				AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "Authorization"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Database: &structs.DatabaseConfig{
				Host:         getEnvAsString("DB_HOST", "localhost"),
				Port:         getEnvAsInt("DB_PORT", 5432),
				User:         getEnvAsString("DB_USER", "postgres"),
				Password:     getEnvAsString("DB_PASSWORD", "password"),
				Name:         getEnvAsString("DB_NAME", "seeu_cafe_db"),
				MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
				ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
				WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			},
			Cache: &structs.CacheConfig{
				Address:      getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
				Username:     getEnvAsString("REDIS_USERNAME", ""),
				Password:     getEnvAsString("REDIS_PASSWORD", ""),
				DB:           getEnvAsInt("REDIS_DB", 0),
				PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
				MaxIdleConns: getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
				PoolTimeout:  getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 30*time.Second),
				IdleTimeout:  getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
				DialTimeout:  getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:  getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
				WriteTimeout: getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
				MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			},
			Auth: &structs.AuthConfig{
				AccessTokenSecret: getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
				AccessTokenExpiry: getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled:          getEnvAsBool("RATE_LIMIT_ENABLED", true),
				GeneralLimit:     getEnvAsInt("RATE_LIMIT_GENERAL", 120),
				GeneralWindow:    getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
				SettlementLimit:  getEnvAsInt("RATE_LIMIT_SETTLEMENT", 30),
				SettlementWindow: getEnvAsTimeDuration("RATE_LIMIT_SETTLEMENT_WINDOW", time.Minute),
			},
			Billing: &structs.BillingConfig{
				ServiceChargeRate: getEnvAsFloat("BILLING_SERVICE_CHARGE_RATE", 0.10),
				SnowflakeNode:     int64(getEnvAsInt("BILLING_SNOWFLAKE_NODE", 1)),
				StatisticsTTL:     getEnvAsTimeDuration("BILLING_STATISTICS_TTL", 30*time.Second),
			},
			Notifications: &structs.NotificationConfig{
				ResendAPIKey:     getEnvAsString("RESEND_API_KEY", ""),
				SenderAddress:    getEnvAsString("NOTIFY_SENDER_ADDRESS", "billing@seeucafe.example"),
				BackofficeEmail:  getEnvAsString("NOTIFY_BACKOFFICE_EMAIL", ""),
				SettledChannel:   getEnvAsString("NOTIFY_SETTLED_CHANNEL", "billing:bill.settled"),
				ReleasedChannel:  getEnvAsString("NOTIFY_RELEASED_CHANNEL", "billing:tables.released"),
				DispatchTimeout:  getEnvAsTimeDuration("NOTIFY_DISPATCH_TIMEOUT", 10*time.Second),
				EmailsEnabled:    getEnvAsBool("NOTIFY_EMAILS_ENABLED", true),
				PublishesEnabled: getEnvAsBool("NOTIFY_PUBLISHES_ENABLED", true),
			},
		}
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
