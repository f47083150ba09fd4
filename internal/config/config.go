package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const minJWTSecretLen = 32

const (
	StorageKindFile = "file"
	StorageKindS3   = "s3"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	DB          DB          `yaml:"db"`
	Cache       Cache       `yaml:"cache"`
	FileStorage FileStorage `yaml:"file_storage"`
	JWT         JWT         `yaml:"jwt"`
	Jobs        Jobs        `yaml:"jobs"`
	Tags        Tags        `yaml:"tags"`
	AdminToken  string      `yaml:"admin_token" env:"ADMIN_TOKEN"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DB       string `yaml:"db" env:"DB_NAME" env-default:"docmanager"`
}

type Cache struct {
	Addr         string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DocumentsTTL time.Duration `yaml:"documents_ttl" env-default:"5m"`
}

type FileStorage struct {
	Kind         string `yaml:"kind" env:"STORAGE_KIND" env-default:"file"`
	Path         string `yaml:"path" env:"STORAGE_PATH" env-default:"./uploads"`
	MaxSizeBytes int64  `yaml:"max_size_bytes" env-default:"10485760"`
	S3           S3     `yaml:"s3"`
}

type S3 struct {
	Bucket       string `yaml:"bucket" env:"S3_BUCKET"`
	Region       string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint     string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey    string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey    string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	UsePathStyle bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
}

type JWT struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer   string        `yaml:"issuer" env:"JWT_ISSUER"`
	Audience string        `yaml:"audience" env:"JWT_AUDIENCE"`
	TTL      time.Duration `yaml:"ttl" env-default:"8h"`
}

type Jobs struct {
	BlobSweepSpec  string        `yaml:"blob_sweep_spec" env-default:"*/30 * * * *"`
	BlobSweepGrace time.Duration `yaml:"blob_sweep_grace" env-default:"10m"`
}

type Tags struct {
	PopularCacheSize int           `yaml:"popular_cache_size" env-default:"64"`
	PopularCacheTTL  time.Duration `yaml:"popular_cache_ttl" env-default:"1m"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects security and storage settings the service cannot run with.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < minJWTSecretLen {
		return fmt.Errorf("jwt secret must be at least %d characters", minJWTSecretLen)
	}
	if c.JWT.Issuer == "" || c.JWT.Audience == "" {
		return errors.New("jwt issuer and audience are required")
	}

	switch c.FileStorage.Kind {
	case StorageKindFile:
		if c.FileStorage.Path == "" {
			return errors.New("file storage path is required")
		}
	case StorageKindS3:
		if c.FileStorage.S3.Bucket == "" {
			return errors.New("s3 bucket is required")
		}
	default:
		return fmt.Errorf("unknown storage kind %q", c.FileStorage.Kind)
	}

	if c.FileStorage.MaxSizeBytes <= 0 {
		return errors.New("max upload size must be positive")
	}

	return nil
}
