package config

import (
	"flag"
	"os"
	"time"

	"agri_trade/internal/services/localgallery"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageBackendS3    = "s3"
	StorageBackendLocal = "local"
)

type Config struct {
	Env          string             `yaml:"env" env:"APP_ENV" env-default:"local"`
	DSN          string             `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	HTTP         HTTPConfig         `yaml:"http"`
	Storage      StorageConfig      `yaml:"storage"`
	FileStorage  FileStorageConfig  `yaml:"file_storage"`
	Redis        RedisConf          `yaml:"redis"`
	Session      SessionConfig      `yaml:"session"`
	CDN          CDNConfig          `yaml:"cdn"`
	LocalGallery LocalGalleryConfig `yaml:"local_gallery"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
	// AllowOrigins пустой список = любой origin
	AllowOrigins []string `yaml:"allow_origins"`
	// LoginRateLimit запросов в секунду на IP
	LoginRateLimit float64 `yaml:"login_rate_limit" env-default:"1"`
}

type StorageConfig struct {
	Backend         string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"s3"`
	Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"images"`
	Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	Region          string `yaml:"region" env:"STORAGE_REGION" env-default:"auto"`
	AccessKeyID     string `yaml:"access_key_id" env:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"STORAGE_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
	EmulatorURL     string `yaml:"emulator_url" env-default:"http://localhost:8000"`
	MaxUploadSize   string `yaml:"max_upload_size" env-default:"50M"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	TTL        time.Duration `yaml:"ttl" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env-default:"agri_session"`
	Secure     bool          `yaml:"secure"`
}

type CDNConfig struct {
	BaseURL   string            `yaml:"base_url" env:"CDN_BASE_URL"`
	Providers map[string]string `yaml:"providers"`
	CacheTTL  time.Duration     `yaml:"cache_ttl" env-default:"30s"`
}

type LocalGalleryConfig struct {
	PublicDir   string                    `yaml:"public_dir" env-default:"./public"`
	Collections []localgallery.Collection `yaml:"collections"`
}

var defaultProviders = map[string]string{
	"default": "https://066e9a4f-a.b-cdn.net",
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	// .env опционален, нужен только локально
	_ = godotenv.Load()

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	if len(cfg.CDN.Providers) == 0 {
		cfg.CDN.Providers = defaultProviders
	}

	switch cfg.Storage.Backend {
	case StorageBackendS3, StorageBackendLocal:
	default:
		panic("unknown storage backend: " + cfg.Storage.Backend)
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
