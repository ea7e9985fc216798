package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	Storage StorageConfig `mapstructure:"storage"`
	Wizard  WizardConfig  `mapstructure:"wizard"`
	Flow    FlowConfig    `mapstructure:"flow"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type BotConfig struct {
	Token string `mapstructure:"token" env:"DISCORD_TOKEN"`
	// GuildID scopes slash command registration to one guild for fast iteration.
	GuildID string `mapstructure:"guild_id" env:"GUILD_ID"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" env:"AEGIS_STORAGE_DRIVER"`
	Path   string `mapstructure:"path" env:"AEGIS_DATABASE_PATH"`
	Dir    string `mapstructure:"dir" env:"AEGIS_CONFIG_DIR"`

	RedisAddr     string `mapstructure:"redis_addr" env:"AEGIS_REDIS_ADDR"`
	RedisPassword string `mapstructure:"redis_password" env:"AEGIS_REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"redis_db" env:"AEGIS_REDIS_DB"`
}

type WizardConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout" env:"AEGIS_WIZARD_IDLE_TIMEOUT"`
}

type FlowConfig struct {
	ResponseTimeout time.Duration `mapstructure:"response_timeout" env:"AEGIS_FLOW_RESPONSE_TIMEOUT"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level" env:"AEGIS_LOG_LEVEL"`
	Format   string `mapstructure:"format" env:"AEGIS_LOG_FORMAT"`
	Output   string `mapstructure:"output" env:"AEGIS_LOG_OUTPUT"`
	FilePath string `mapstructure:"file_path" env:"AEGIS_LOG_FILE"`
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverFile   = "file"
)

var ErrMissingToken = errors.New("bot token is not set (config bot.token or DISCORD_TOKEN)")

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:    DriverSQLite,
			Path:      "aegis.db",
			Dir:       "config",
			RedisAddr: "127.0.0.1:6379",
		},
		Wizard: WizardConfig{
			IdleTimeout: 10 * time.Minute,
		},
		Flow: FlowConfig{
			ResponseTimeout: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Output:   "stdout",
			FilePath: "aegis.log",
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("wizard.idle_timeout", d.Wizard.IdleTimeout)
	v.SetDefault("flow.response_timeout", d.Flow.ResponseTimeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.file_path", d.Logging.FilePath)
}

// Load reads the config file at path (any format viper understands) over the
// defaults, then applies environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Override with environment variables if present
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	return &cfg, nil
}

// Validate checks the settings needed to run the bot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return ErrMissingToken
	}
	return c.ValidateStorage()
}

// ValidateStorage checks only the storage section; offline tooling needs no token.
func (c *Config) ValidateStorage() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for the redis driver")
		}
	case DriverFile:
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the file driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Wizard.IdleTimeout <= 0 {
		return errors.New("wizard.idle_timeout must be positive")
	}
	if c.Flow.ResponseTimeout <= 0 {
		return errors.New("flow.response_timeout must be positive")
	}
	return nil
}
