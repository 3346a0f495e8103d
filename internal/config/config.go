package config

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    int    `yaml:"httpPort"`
	Environment string `yaml:"environment"`
	TemplateDir string `yaml:"templateDir"`
	StaticDir   string `yaml:"staticDir"`

	Secrets struct {
		AccessToken string `yaml:"accessToken"`
		Session     string `yaml:"session"`
	} `yaml:"secrets"`

	Database struct {
		Type            string `yaml:"type"`
		Host            string `yaml:"host"`
		Port            string `yaml:"port"`
		Name            string `yaml:"name"`
		User            string `yaml:"user"`
		Password        string `yaml:"password"`
		SSLMode         string `yaml:"sslMode"`
		Path            string `yaml:"path"`
		MaxConns        int    `yaml:"maxConns"`
		MaxIdle         int    `yaml:"maxIdle"`
		ConnMaxLifetime string `yaml:"connMaxLifetime"`
	} `yaml:"database"`

	Storage struct {
		Enabled         bool   `yaml:"enabled"`
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		AccessKeyID     string `yaml:"accessKeyId"`
		SecretAccessKey string `yaml:"secretAccessKey"`
	} `yaml:"storage"`
}

// SecureCookies reports whether session cookies should carry the Secure
// flag. Local development is the only environment served over plain HTTP.
func (c *Config) SecureCookies() bool {
	return c.Environment != "development"
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// SetConfigFile surfaces a missing file as *fs.PathError, not as
		// viper's ConfigFileNotFoundError, so check both.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 5500
		log.Println("httpPort not specified, using default 5500")
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
		log.Println("environment not specified, defaulting to development")
	}

	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "templates"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "static"
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
		log.Println("database type not specified, using sqlite")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/motors.db"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	log.Printf("Configuration loaded for environment %q", cfg.Environment)
	return &cfg, nil
}
