package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderMinIO      = "minio"
)

type Config struct {
	Env         string     `yaml:"env" env:"ENV" env-default:"production"`
	PGSQL       PQSQL      `yaml:"pgsql"`
	DatabaseURL string     `yaml:"database_url" env:"DATABASE_URL"`
	HTTPServer  HTTPServer `yaml:"http_server"`
	JWTSecret   string     `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key" validate:"required"`
	Redis       Redis      `yaml:"redis"`
	Remote      Remote     `yaml:"remote"`
	Upload      Upload     `yaml:"upload"`
	Log         Log        `yaml:"log"`
}

type HTTPServer struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080" validate:"required"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"media_db"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

// Redis is optional. An empty address disables rate limiting, the listing
// cache and the orphan ledger.
type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Remote struct {
	Provider  string `yaml:"provider" env:"REMOTE_PROVIDER" env-default:"cloudinary" validate:"oneof=cloudinary minio"`
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME,NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
	MinIO     MinIO  `yaml:"minio"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"media"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type Upload struct {
	Timeout        time.Duration `yaml:"timeout" env:"UPLOAD_TIMEOUT" env-default:"60s" validate:"gt=0"`
	MaxFileSize    int64         `yaml:"max_file_size" env:"UPLOAD_MAX_FILE_SIZE" env-default:"104857600" validate:"gt=0"`
	MaxMemory      int64         `yaml:"max_memory" env:"UPLOAD_MAX_MEMORY" env-default:"33554432" validate:"gt=0"`
	CleanupOrphans bool          `yaml:"cleanup_orphans" env:"UPLOAD_CLEANUP_ORPHANS" env-default:"false"`
	PersistTimeout time.Duration `yaml:"persist_timeout" env:"UPLOAD_PERSIST_TIMEOUT" env-default:"10s" validate:"gt=0"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json" validate:"oneof=json text"`
}

// CredentialsConfigured reports whether the selected remote provider has
// everything it needs to authenticate.
func (r Remote) CredentialsConfigured() bool {
	switch r.Provider {
	case ProviderMinIO:
		return r.MinIO.Endpoint != "" && r.MinIO.AccessKeyID != "" && r.MinIO.SecretAccessKey != ""
	default:
		return r.CloudName != "" && r.APIKey != "" && r.APISecret != ""
	}
}

// DSN returns DatabaseURL when set, otherwise a key/value connection string
// built from the pgsql section.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PGSQL.Host, c.PGSQL.Port, c.PGSQL.User, c.PGSQL.Password, c.PGSQL.DBName, c.PGSQL.SSLMode)
}

// Validate checks static constraints. It does not check remote credentials;
// callers decide whether missing credentials are fatal.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Load reads the config file at path (if any) and applies env overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("config file does not exist at path: %s", configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	return cfg
}
