package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultStorageDir  = "/app/data/images"
	DefaultMaxUploadMB = 15
	DefaultBaseURL     = "https://kisscam.fzdomain.cloud"

	// PlaceholderToken is the value shipped in sample env files; clients treat
	// it the same as an unset token.
	PlaceholderToken = "CHANGE_ME"
)

type Config struct {
	Env         string  `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	UploadToken string  `yaml:"upload_token" env:"UPLOAD_TOKEN"`
	Storage     Storage `yaml:"storage"`
	Frames      Frames  `yaml:"frames"`
	HTTPServer  `yaml:"http_server"`
	Kafka       Kafka `yaml:"kafka"`
}

type Storage struct {
	Dir string `yaml:"dir" env:"STORAGE_DIR"`
	// MaxUploadMB is kept as text so that a malformed value falls back to the
	// default instead of failing startup.
	MaxUploadMB string `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
}

type Frames struct {
	Dir string `yaml:"dir" env:"FRAMES_DIR"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"0.0.0.0:8082" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"kisscam.images" validate:"required"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID"`
}

// Enabled reports whether image events should be exchanged through Kafka.
func (k Kafka) Enabled() bool {
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

type Client struct {
	BaseURL      string        `yaml:"base_url" env:"KISSCAM_BASE_URL"`
	UploadToken  string        `yaml:"upload_token" env:"UPLOAD_TOKEN"`
	PollInterval time.Duration `yaml:"poll_interval" env:"GALLERY_POLL_INTERVAL" env-default:"3s" validate:"gte=1s"`
	Timeout      time.Duration `yaml:"timeout" env:"CLIENT_TIMEOUT" env-default:"15s"`
	Kafka        Kafka         `yaml:"kafka"`
}

// ResolvedDir returns the absolute storage directory. A blank value selects
// DefaultStorageDir; relative paths are resolved against the working directory.
func (s Storage) ResolvedDir() (string, error) {
	dir := strings.TrimSpace(s.Dir)
	if dir == "" {
		dir = DefaultStorageDir
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	return filepath.Abs(dir)
}

// MaxUploadMegabytes parses MaxUploadMB, falling back to DefaultMaxUploadMB
// when the value is missing, not a finite number or not positive.
func (s Storage) MaxUploadMegabytes() float64 {
	mb, err := strconv.ParseFloat(strings.TrimSpace(s.MaxUploadMB), 64)
	if err != nil || math.IsNaN(mb) || math.IsInf(mb, 0) || mb <= 0 {
		return DefaultMaxUploadMB
	}
	return mb
}

func (s Storage) MaxUploadBytes() int64 {
	return int64(math.Floor(s.MaxUploadMegabytes() * 1024 * 1024))
}

// TokenConfigured reports whether the client holds a usable shared secret.
func (c Client) TokenConfigured() bool {
	return c.UploadToken != "" && c.UploadToken != PlaceholderToken
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load reads the server configuration from the YAML file named by CONFIG_PATH,
// if any, and from the environment.
func Load() (*Config, error) {
	var cfg Config

	if err := read(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func MustLoadClient() *Client {
	cfg, err := LoadClient()
	if err != nil {
		log.Fatalf("cannot read client config: %s", err)
	}
	return cfg
}

func LoadClient() (*Client, error) {
	var cfg Client

	if err := read(&cfg); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	return &cfg, nil
}

func read(cfg interface{}) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load .env file: %w", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("cannot read env: %w", err)
		}
		return nil
	}

	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("config file %s: %w", configPath, err)
	}

	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		return fmt.Errorf("cannot read config file %s: %w", configPath, err)
	}

	return nil
}
