package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys.
const (
	keyHost           = "host"
	keyPort           = "port"
	keyStore          = "store"
	keySeedFile       = "seed_file"
	keyAllowedOrigins = "allowed_origins"
	keySessionTTL     = "session_ttl"
	keySweepInterval  = "sweep_interval"
	keyLogLevel       = "log_level"
)

// envPrefix namespaces environment overrides, e.g. USERTABLE_PORT.
const envPrefix = "USERTABLE"

// Config is the resolved runtime configuration.
type Config struct {
	Host           string
	Port           int
	Store          string
	SeedFile       string
	AllowedOrigins []string
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	LogLevel       slog.Level
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyHost, "0.0.0.0")
	v.SetDefault(keyPort, 8080)
	v.SetDefault(keyStore, "memory")
	v.SetDefault(keySeedFile, "")
	v.SetDefault(keyAllowedOrigins, "*")
	v.SetDefault(keySessionTTL, 30*time.Minute)
	v.SetDefault(keySweepInterval, time.Minute)
	v.SetDefault(keyLogLevel, "info")
}

// loadConfig layers defaults, the optional config file, USERTABLE_*
// environment variables and explicitly set flags, in increasing priority.
// A missing config file is not an error unless it was named explicitly.
func loadConfig(configFile string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("usertable")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	cfg := Config{
		Host:          v.GetString(keyHost),
		Port:          v.GetInt(keyPort),
		Store:         v.GetString(keyStore),
		SeedFile:      v.GetString(keySeedFile),
		SessionTTL:    v.GetDuration(keySessionTTL),
		SweepInterval: v.GetDuration(keySweepInterval),
	}
	for _, o := range strings.Split(v.GetString(keyAllowedOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", keyLogLevel, err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("%s: %d out of range", keyPort, cfg.Port)
	}
	return cfg, nil
}
