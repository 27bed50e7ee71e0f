package webchat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	// ServerURL is the base URL of the chat backend.
	ServerURL string `mapstructure:"server_url" validate:"required,url"`
	// StateFile is the SQLite file holding the persisted session.
	StateFile string `mapstructure:"state_file" validate:"required"`
	// HTTPTimeout bounds every single request round trip.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	// PollInterval is the cadence of the message sync loop. Zero disables
	// the recurring timer; ticks can still be driven explicitly.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// ReconcileDelay is how long after an optimistic room insert the
	// authoritative refresh is scheduled.
	ReconcileDelay time.Duration `mapstructure:"reconcile_delay"`
	// StatusTTL is how long a status notice stays visible.
	StatusTTL time.Duration `mapstructure:"status_ttl"`

	Stub StubConfig `mapstructure:"stub"`
}

// StubConfig configures the bundled development server.
type StubConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// Secret signs the stub's session tokens. Empty means a random secret
	// per process, which is fine for development.
	Secret         string        `mapstructure:"secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

var configValidate = validator.New()

// LoadConfig loads configuration from webchat.yaml, a .env file, and
// WEBCHAT_* environment variables, in increasing priority.
func LoadConfig() (*Config, error) {
	// optional; ignore a missing .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("webchat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("webchat")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("state_file", defaultStateFile())
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("poll_interval", 2*time.Second)
	v.SetDefault("reconcile_delay", 500*time.Millisecond)
	v.SetDefault("status_ttl", 5*time.Second)
	v.SetDefault("stub.addr", ":8080")
	v.SetDefault("stub.token_ttl", 24*time.Hour)
	v.SetDefault("stub.allowed_origins", []string{"*"})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)),
	); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultConfig returns the built-in defaults without reading any config
// source.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://localhost:8080",
		StateFile:      "webchat.db",
		HTTPTimeout:    10 * time.Second,
		PollInterval:   2 * time.Second,
		ReconcileDelay: 500 * time.Millisecond,
		StatusTTL:      5 * time.Second,
		Stub: StubConfig{
			Addr:           ":8080",
			TokenTTL:       24 * time.Hour,
			AllowedOrigins: []string{"*"},
		},
	}
}

func defaultStateFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "webchat.db"
	}
	dir = filepath.Join(dir, "webchat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "webchat.db"
	}
	return filepath.Join(dir, "state.db")
}
