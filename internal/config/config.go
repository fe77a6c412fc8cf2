// Package config loads the settings of the pav service binaries.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/light-bringer/pav-service/internal/pkg/logger"
)

// ServiceName names the config file and prefixes the environment overrides,
// e.g. PAV_SERVICE_HTTP_PORT.
const ServiceName = "pav-service"

const configDir = "configs"

// Backend selects the storage of the repositories.
type Backend string

const (
	BackendSpanner Backend = "spanner"
	BackendMemory  Backend = "memory"
)

// Config holds the settings of every binary.
type Config struct {
	Backend         Backend
	SpannerDatabase string
	HTTPPort        string

	Log logger.Config

	Inheritance Inheritance
	Runner      Runner

	// CompletenessEnabled turns off the required value check.
	CompletenessEnabled bool

	// JobRetention is how long done and canceled jobs are kept.
	JobRetention time.Duration
}

// Inheritance holds the cascade policy.
type Inheritance struct {
	RelationInheritance  bool
	UninheritedRelations []string
}

// Runner holds the job runner pacing.
type Runner struct {
	BatchSize     int
	PollInterval  time.Duration
	RatePerSecond float64
	Burst         int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", string(BackendSpanner))
	v.SetDefault("spanner.database", "projects/test-project/instances/dev-instance/databases/pav-db")
	v.SetDefault("http.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("inheritance.relation_inheritance", true)
	v.SetDefault("inheritance.uninherited_relations", []string{})
	v.SetDefault("completeness_enabled", false)
	v.SetDefault("runner.batch_size", 100)
	v.SetDefault("runner.poll_interval", "2s")
	v.SetDefault("runner.rate_per_second", 0)
	v.SetDefault("runner.burst", 1)
	v.SetDefault("jobs.retention", "168h")
}

// Load reads configs/<APP_ENV>/pav-service.yaml, or the directory named by
// CONFIG_PATH, and applies PAV_SERVICE_* environment overrides. A missing
// file leaves the defaults in place.
func Load() (*Config, error) {
	dir := os.Getenv("CONFIG_PATH")
	if dir == "" {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		dir = filepath.Join(configDir, env)
	}
	return LoadFrom(dir)
}

// LoadFrom reads pav-service.yaml from dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(ServiceName)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(strings.ReplaceAll(strings.ToUpper(ServiceName), "-", "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Backend:         Backend(v.GetString("backend")),
		SpannerDatabase: v.GetString("spanner.database"),
		HTTPPort:        v.GetString("http.port"),
		Log: logger.Config{
			Level:       v.GetString("log.level"),
			Format:      v.GetString("log.format"),
			Output:      v.GetString("log.output"),
			FilePath:    v.GetString("log.file_path"),
			Development: v.GetBool("log.development"),
		},
		Inheritance: Inheritance{
			RelationInheritance:  v.GetBool("inheritance.relation_inheritance"),
			UninheritedRelations: v.GetStringSlice("inheritance.uninherited_relations"),
		},
		Runner: Runner{
			BatchSize:     v.GetInt("runner.batch_size"),
			PollInterval:  v.GetDuration("runner.poll_interval"),
			RatePerSecond: v.GetFloat64("runner.rate_per_second"),
			Burst:         v.GetInt("runner.burst"),
		},
		CompletenessEnabled: v.GetBool("completeness_enabled"),
		JobRetention:        v.GetDuration("jobs.retention"),
	}

	switch cfg.Backend {
	case BackendSpanner, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}
