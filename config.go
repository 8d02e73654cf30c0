package lottery

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration
type Config struct {
	// Game rules
	Game *GameConfig `mapstructure:"game"`

	// Redis connection for the optional result store
	Redis *RedisConfig `mapstructure:"redis"`

	// Circuit breaker guarding the result store
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

func (c *Config) Validate() error {
	if c.Game == nil {
		return ErrConfigInvalid.WithDetails("game section is missing")
	}
	if err := c.Game.Validate(); err != nil {
		return err
	}

	if c.Redis == nil {
		return ErrConfigInvalid.WithDetails("redis section is missing")
	}
	if c.Redis.Addr == "" {
		return ErrConfigInvalid.WithDetails("redis address is required")
	}
	if c.Redis.PoolSize <= 0 {
		return ErrConfigInvalid.WithDetails("redis pool size must be positive")
	}

	return nil
}

// GameConfig holds the rules of a single round.
//
// InitialBalance is denominated in ticket units: one unit of balance buys
// exactly one ticket. TicketPrice only enters revenue accounting.
type GameConfig struct {
	TicketPrice         float64 `mapstructure:"ticket_price"`
	InitialBalance      int     `mapstructure:"initial_balance"`
	MinPlayers          int     `mapstructure:"min_players"`
	MaxPlayers          int     `mapstructure:"max_players"`
	MinTicketsPerPlayer int     `mapstructure:"min_tickets_per_player"`
	MaxTicketsPerPlayer int     `mapstructure:"max_tickets_per_player"`
}

func (gc *GameConfig) Validate() error {
	if gc.TicketPrice <= 0 {
		return ErrConfigInvalid.WithDetails("ticket price must be positive")
	}
	if gc.InitialBalance <= 0 {
		return ErrConfigInvalid.WithDetails("initial balance must be positive")
	}
	if gc.MinPlayers < 1 || gc.MinPlayers > gc.MaxPlayers {
		return ErrConfigInvalid.WithDetails("player count range is invalid")
	}
	if gc.MinTicketsPerPlayer < 1 || gc.MinTicketsPerPlayer > gc.MaxTicketsPerPlayer {
		return ErrConfigInvalid.WithDetails("tickets-per-player range is invalid")
	}
	return nil
}

// DefaultGameConfig returns the default round rules
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		TicketPrice:         DefaultTicketPrice,
		InitialBalance:      DefaultInitialBalance,
		MinPlayers:          DefaultMinPlayers,
		MaxPlayers:          DefaultMaxPlayers,
		MinTicketsPerPlayer: DefaultMinTicketsPerPlayer,
		MaxTicketsPerPlayer: DefaultMaxTicketsPerPlayer,
	}
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// CircuitBreakerConfig configures the result store breaker
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig returns the default breaker settings
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// ConfigManager loads and watches configuration
type ConfigManager struct {
	viper  *viper.Viper
	config *Config
}

// NewConfigManager creates a config manager with file discovery and env overrides
func NewConfigManager() *ConfigManager {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lottoround")
	v.AddConfigPath("$HOME/.lottoround")

	v.SetEnvPrefix("LOTTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigManager{
		viper: v,
	}
}

// LoadConfig reads the config file (falling back to defaults when absent),
// unmarshals and validates it
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	cm.setDefaults()

	if err := cm.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, defaults apply
	}

	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cm.config = config
	return config, nil
}

// setDefaults registers default values for every key
func (cm *ConfigManager) setDefaults() {
	cm.viper.SetDefault("game.ticket_price", DefaultTicketPrice)
	cm.viper.SetDefault("game.initial_balance", DefaultInitialBalance)
	cm.viper.SetDefault("game.min_players", DefaultMinPlayers)
	cm.viper.SetDefault("game.max_players", DefaultMaxPlayers)
	cm.viper.SetDefault("game.min_tickets_per_player", DefaultMinTicketsPerPlayer)
	cm.viper.SetDefault("game.max_tickets_per_player", DefaultMaxTicketsPerPlayer)

	cm.viper.SetDefault("redis.addr", DefaultRedisAddr)
	cm.viper.SetDefault("redis.password", DefaultRedisPassword)
	cm.viper.SetDefault("redis.db", DefaultRedisDB)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.min_idle_conns", DefaultRedisMinIdleConns)
	cm.viper.SetDefault("redis.max_retries", DefaultRedisMaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")
	cm.viper.SetDefault("redis.pool_timeout", "4s")

	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", DefaultCircuitBreakerOnStateChange)
}

// WatchConfig watches for config file changes and reloads on change
func (cm *ConfigManager) WatchConfig(callback func(*Config)) error {
	cm.viper.WatchConfig()
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config := &Config{}
		if err := cm.viper.Unmarshal(config); err != nil {
			// Keep the previous config on unmarshal failure
			return
		}

		if err := config.Validate(); err != nil {
			// Keep the previous config on validation failure
			return
		}

		cm.config = config
		if callback != nil {
			callback(config)
		}
	})

	return nil
}

// GetConfig returns the currently loaded configuration
func (cm *ConfigManager) GetConfig() *Config { return cm.config }

// ReloadConfig re-reads the configuration from disk
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }

// NewDefaultConfigManager creates a config manager pre-populated with defaults
func NewDefaultConfigManager() *ConfigManager {
	cm := NewConfigManager()
	cm.setDefaults()

	cm.config = &Config{
		Game:           DefaultGameConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
	return cm
}

// DefaultRedisConfig returns the default Redis settings
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MinIdleConns: DefaultRedisMinIdleConns,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		PoolTimeout:  DefaultRedisPoolTimeout,
	}
}

// NewRedisClientFromConfig creates a Redis client from config
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	})
}
