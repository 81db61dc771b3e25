// Package config holds run and server settings unmarshalled from Viper.
//
// Values are layered: built-in defaults, then an optional YAML settings
// file, then TRIMMER_ environment variables (TRIMMER_SCORING_MIN_SCORE,
// TRIMMER_SERVER_PORT, ...), then any command line flags bound by the
// caller.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aria-lang/barcode-trimmer/internal/alignment"
	"github.com/aria-lang/barcode-trimmer/internal/classify"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TRIMMER"

// ServerConfig is for settings of the HTTP front end.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// upper bound on a multipart upload, in megabytes
	MaxUploadMB int `mapstructure:"max_upload_mb"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Config is the root-level settings struct.
type Config struct {
	Scoring alignment.Scoring `mapstructure:"scoring"`

	// "alignment" or "substring"
	Mode string `mapstructure:"mode"`

	// number of classification workers, 0 means one per CPU
	Workers int `mapstructure:"workers"`

	// reads between progress updates
	ProgressEvery int `mapstructure:"progress_every"`

	// debug, info, warn or error
	LogLevel string `mapstructure:"log_level"`

	Server ServerConfig `mapstructure:"server"`
}

// ClassifyMode parses Mode.
func (c Config) ClassifyMode() (classify.Mode, error) {
	return classify.ParseMode(c.Mode)
}

// Validate checks the settings that cannot be caught later by the packages
// consuming them.
func (c Config) Validate() error {
	if _, err := c.ClassifyMode(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must not be negative, got %d", c.ProgressEvery)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	return nil
}

// New returns a Viper instance carrying the defaults and the environment
// binding. Callers may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every known key. AutomaticEnv only resolves keys
// Viper already knows about, so each setting needs a default here.
func SetDefaults(v *viper.Viper) {
	d := alignment.Default()
	v.SetDefault("scoring.match", d.Match)
	v.SetDefault("scoring.mismatch", d.Mismatch)
	v.SetDefault("scoring.gap_open", d.GapOpen)
	v.SetDefault("scoring.gap_extend", d.GapExtend)
	v.SetDefault("scoring.min_score", d.MinScore)

	v.SetDefault("mode", classify.Alignment.String())
	v.SetDefault("workers", 0)
	v.SetDefault("progress_every", classify.DefaultProgressEvery)
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 512)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Minute)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
}

// Load reads the optional settings file and decodes v into a Config. An
// empty path skips the file.
func Load(v *viper.Viper, path string) (Config, error) {
	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read settings %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode settings: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid settings: %w", err)
	}
	return c, nil
}
