package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Cache     CacheConfig
	Purchase  PurchaseConfig
	Reports   ReportsConfig
	Infoserve InfoserveConfig
	Informes  InformesConfig
	Storage   StorageConfig
	Drive     DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	MaxUploadMB    int64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	AdjustmentFile      string
	SessionTTLMinutes   int
	SessionSweepMinutes int
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ResultTTLSeconds int
}

// PurchaseConfig carries the business constants of the purchase recommendations.
type PurchaseConfig struct {
	ReorderFactor          float64
	ReverseTaxFactor       float64
	BranchCode             int
	ExcludedCustomerFilter string
}

// ReportsConfig identifies the ERP records behind the freight and
// controlled-substance reports.
type ReportsConfig struct {
	FreightFieldCode    int
	ControlledGroupCode int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsFile string
	InfoserveFolder string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_MAX_UPLOAD_MB", 20)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "saudmed")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_ADJUSTMENT_FILE", "./data/ajuste.txt")
		viper.SetDefault("APP_SESSION_TTL_MINUTES", 720)
		viper.SetDefault("APP_SESSION_SWEEP_MINUTES", 15)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_RESULT_TTL_SECONDS", 600)
		viper.SetDefault("PURCHASE_REORDER_FACTOR", 1.1)
		viper.SetDefault("PURCHASE_REVERSE_TAX_FACTOR", 1.14)
		viper.SetDefault("PURCHASE_BRANCH_CODE", 1)
		viper.SetDefault("PURCHASE_EXCLUDED_CUSTOMER_PATTERN", "STANLEY%HAIR%")
		viper.SetDefault("REPORTS_FREIGHT_FIELD_CODE", 13)
		viper.SetDefault("REPORTS_CONTROLLED_GROUP_CODE", 2)
		viper.SetDefault("INFOSERVE_DIR", "./infoserve")
		viper.SetDefault("INFOSERVE_ENCODING", "latin1")
		viper.SetDefault("INFOSERVE_SKIP_ROWS", 7)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("MINIO_ENDPOINT", "")
		viper.SetDefault("MINIO_ACCESS_KEY", "")
		viper.SetDefault("MINIO_SECRET_KEY", "")
		viper.SetDefault("MINIO_BUCKET", "saudmed-uploads")
		viper.SetDefault("MINIO_REGION", "us-east-1")
		viper.SetDefault("MINIO_USE_SSL", true)
		viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
		viper.SetDefault("DRIVE_INFOSERVE_FOLDER", "")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				LogLevel:       viper.GetString("LOG_LEVEL"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				MaxUploadMB:    viper.GetInt64("SERVER_MAX_UPLOAD_MB"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				AdjustmentFile:      viper.GetString("APP_ADJUSTMENT_FILE"),
				SessionTTLMinutes:   viper.GetInt("APP_SESSION_TTL_MINUTES"),
				SessionSweepMinutes: viper.GetInt("APP_SESSION_SWEEP_MINUTES"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ResultTTLSeconds: viper.GetInt("CACHE_RESULT_TTL_SECONDS"),
			},
			Purchase: PurchaseConfig{
				ReorderFactor:          viper.GetFloat64("PURCHASE_REORDER_FACTOR"),
				ReverseTaxFactor:       viper.GetFloat64("PURCHASE_REVERSE_TAX_FACTOR"),
				BranchCode:             viper.GetInt("PURCHASE_BRANCH_CODE"),
				ExcludedCustomerFilter: strings.TrimSpace(viper.GetString("PURCHASE_EXCLUDED_CUSTOMER_PATTERN")),
			},
			Reports: ReportsConfig{
				FreightFieldCode:    viper.GetInt("REPORTS_FREIGHT_FIELD_CODE"),
				ControlledGroupCode: viper.GetInt("REPORTS_CONTROLLED_GROUP_CODE"),
			},
			Infoserve: DefaultInfoserveConfig(
				viper.GetString("INFOSERVE_DIR"),
				viper.GetString("INFOSERVE_ENCODING"),
				viper.GetInt("INFOSERVE_SKIP_ROWS"),
			),
			Informes: DefaultInformesConfig(),
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("MINIO_ENDPOINT"),
				AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey: viper.GetString("MINIO_SECRET_KEY"),
				Bucket:    viper.GetString("MINIO_BUCKET"),
				Region:    viper.GetString("MINIO_REGION"),
				UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			},
			Drive: DriveConfig{
				CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
				InfoserveFolder: viper.GetString("DRIVE_INFOSERVE_FOLDER"),
			},
		}
	})

	return instance
}
