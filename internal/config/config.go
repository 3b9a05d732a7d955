package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/noahxzhu/homework-notify/internal/practicum"
	"github.com/noahxzhu/homework-notify/internal/worker"
)

const EnvPrefix = "HOMEWORK"

type Config struct {
	Credentials Credentials     `mapstructure:"-"`
	Practicum   PracticumConfig `mapstructure:"practicum"`
	Telegram    TelegramConfig  `mapstructure:"telegram"`
	Poll        PollConfig      `mapstructure:"poll"`
	Log         LogConfig       `mapstructure:"log"`
	Server      ServerConfig    `mapstructure:"server"`
}

// Credentials always come from the environment (or the .env file), never from
// the YAML config.
type Credentials struct {
	PracticumToken string `env:"PRACTICUM_TOKEN"`
	TelegramToken  string `env:"TELEGRAM_TOKEN"`
	TelegramChatID string `env:"TELEGRAM_CHAT_ID"`
	PushoverToken  string `env:"PUSHOVER_TOKEN"`
	PushoverUser   string `env:"PUSHOVER_USER"`
}

// PushoverEnabled reports whether the optional Pushover mirror is configured.
func (c Credentials) PushoverEnabled() bool {
	return c.PushoverToken != "" && c.PushoverUser != ""
}

type PracticumConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type TelegramConfig struct {
	APIServer string        `mapstructure:"api_server"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type PollConfig struct {
	Schedule      string `mapstructure:"schedule"`
	MaxCycles     int    `mapstructure:"max_cycles"`
	OnSendFailure string `mapstructure:"on_send_failure"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	NoColor bool   `mapstructure:"no_color"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ConfigurationError lists required settings that are absent.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Missing, ", ")
}

// NewFlagSet declares the command line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config", "config.yaml", "Path to config file")
	flags.String("env-file", ".env", "Path to .env file with credentials")
	flags.Bool("once", false, "Poll once and exit")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("addr", "", "Listen address for the status API, empty to disable")
	return flags
}

// Load reads the .env file, the optional YAML config, HOMEWORK_* overrides and
// the credentials, in that order. flags must come from NewFlagSet and be parsed.
func Load(flags *pflag.FlagSet) (*Config, error) {
	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("server.addr", flags.Lookup("addr")); err != nil {
		return nil, err
	}

	configPath, _ := flags.GetString("config")
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if once, _ := flags.GetBool("once"); once {
		cfg.Poll.MaxCycles = 1
	}

	if err := env.Parse(&cfg.Credentials); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("practicum.endpoint", practicum.DefaultEndpoint)
	v.SetDefault("practicum.timeout", "30s")
	v.SetDefault("telegram.api_server", "")
	v.SetDefault("telegram.timeout", "30s")
	v.SetDefault("poll.schedule", worker.DefaultSchedule)
	v.SetDefault("poll.max_cycles", 0)
	v.SetDefault("poll.on_send_failure", string(worker.SendFailureLog))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "homework-bot.log")
	v.SetDefault("log.no_color", false)
	v.SetDefault("server.addr", "")
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func validate(cfg *Config) error {
	var missing []string
	if cfg.Credentials.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if cfg.Credentials.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if cfg.Credentials.TelegramChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	if cfg.Poll.MaxCycles < 0 {
		return fmt.Errorf("invalid configuration: poll.max_cycles must be non-negative")
	}
	if cfg.Practicum.Timeout < 0 || cfg.Telegram.Timeout < 0 {
		return fmt.Errorf("invalid configuration: timeouts must be non-negative")
	}
	return nil
}
