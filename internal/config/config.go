package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs    InputsConfig    `yaml:"inputs"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Auth      AuthConfig      `yaml:"auth"`
}

// InputsConfig locates the two source exports and the local run cache.
type InputsConfig struct {
	WorkoutCSV   string `yaml:"workout_csv"`
	HealthExport string `yaml:"health_export"`
	CacheDir     string `yaml:"cache_dir"`
}

// AnalysisConfig tunes the metrics transformer.
type AnalysisConfig struct {
	RunAvgWindow    int     `yaml:"runavg_window"`
	MaxDailySleepHr float64 `yaml:"max_daily_sleep_hr"`
	AssistedMarker  string  `yaml:"assisted_marker"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Configured reports whether a database is set up at all. The batch runner
// works without one; the server requires it.
func (d DatabaseConfig) Configured() bool {
	return d.Host != "" || d.Name != ""
}

// Load reads config from a YAML file, applies environment variable overrides
// and fills analysis defaults. Env vars use the prefix REPSIGHT_ and
// underscore-separated paths:
//
//	REPSIGHT_WORKOUT_CSV, REPSIGHT_HEALTH_EXPORT, REPSIGHT_CACHE_DIR,
//	REPSIGHT_SERVER_HOST, REPSIGHT_SERVER_PORT,
//	REPSIGHT_DB_HOST, REPSIGHT_DB_PORT, REPSIGHT_DB_NAME,
//	REPSIGHT_DB_USER, REPSIGHT_DB_PASSWORD, REPSIGHT_DB_SSLMODE,
//	REPSIGHT_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPSIGHT_WORKOUT_CSV"); v != "" {
		cfg.Inputs.WorkoutCSV = v
	}
	if v := os.Getenv("REPSIGHT_HEALTH_EXPORT"); v != "" {
		cfg.Inputs.HealthExport = v
	}
	if v := os.Getenv("REPSIGHT_CACHE_DIR"); v != "" {
		cfg.Inputs.CacheDir = v
	}
	if v := os.Getenv("REPSIGHT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPSIGHT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPSIGHT_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPSIGHT_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPSIGHT_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPSIGHT_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPSIGHT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPSIGHT_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPSIGHT_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Analysis.RunAvgWindow == 0 {
		c.Analysis.RunAvgWindow = 5
	}
	if c.Analysis.MaxDailySleepHr == 0 {
		c.Analysis.MaxDailySleepHr = 15
	}
	if c.Analysis.AssistedMarker == "" {
		c.Analysis.AssistedMarker = "assisted"
	}
}

// ValidateServer checks the fields the API server cannot run without.
func (c *Config) ValidateServer() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
