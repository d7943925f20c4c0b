package structs

import "time"

type Config struct {
	Server        *ServerConfig
	Cors          *CorsConfig
	Database      *DatabaseConfig
	Cache         *CacheConfig
	Auth          *AuthConfig
	RateLimit     *RateLimitConfig
	Billing       *BillingConfig
	Notifications *NotificationConfig
}

type ServerConfig struct {
	AppName        string
	Environment    string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CacheConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxIdleConns int
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
}

type RateLimitConfig struct {
	Enabled          bool
	GeneralLimit     int
	GeneralWindow    time.Duration
	SettlementLimit  int
	SettlementWindow time.Duration
}

type BillingConfig struct {
	// ServiceChargeRate is the flat surcharge applied to a combined
	// bill's subtotal, e.g. 0.10 for 10%.
	ServiceChargeRate float64
	// SnowflakeNode distinguishes identifier generators across
	// replicas; collisions are structurally impossible per node.
	SnowflakeNode int64
	StatisticsTTL time.Duration
}

type NotificationConfig struct {
	ResendAPIKey     string
	SenderAddress    string
	BackofficeEmail  string
	SettledChannel   string
	ReleasedChannel  string
	DispatchTimeout  time.Duration
	EmailsEnabled    bool
	PublishesEnabled bool
}
