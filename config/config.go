package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // file, postgres, redis
	Path    string `yaml:"path"`    // file backend only
}

type AuthConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	JWTSecret    string `yaml:"jwt_secret"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	MQ      MQConfig      `yaml:"mq"`
	DB      DBConfig      `yaml:"db"`
	Redis   RedisConfig   `yaml:"redis"`
}

func defaults() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080"},
		Storage: StorageConfig{Backend: "file", Path: "habits.json"},
		DB:      DBConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "habits"},
		Redis:   RedisConfig{Addr: "localhost:6379"},
	}
}

// Load reads the config file named by CONFIG_PATH (default config.yaml).
// A missing default file is not an error; the built-in defaults apply.
// Environment variables override file values either way.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if path == "" {
		path = "config.yaml"
	}

	cfg := defaults()

	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			overrideFromEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	overrideFromEnv(cfg)
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if path := os.Getenv("STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}

	if username := os.Getenv("AUTH_USERNAME"); username != "" {
		cfg.Auth.Username = username
	}
	if hash := os.Getenv("AUTH_PASSWORD_HASH"); hash != "" {
		cfg.Auth.PasswordHash = hash
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
}
