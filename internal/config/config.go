package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Режимы хранения бэкенда.
const (
	ModeDatabase = "database"
	ModeFile     = "file"
	ModeMemory   = "in-memory"
)

// Config хранит конфигурацию консоли и бэкенда
type Config struct {
	ServerAddress    string        `json:"server_address"`
	BackendURL       string        `json:"backend_url"`
	BackendTimeout   time.Duration `json:"backend_timeout"`
	SessionSecret    string        `json:"session_secret"`
	APIAddress       string        `json:"api_address"`
	GRPCAddress      string        `json:"grpc_address"`
	FileStoragePath  string        `json:"file_storage_path"`
	DatabaseDSN      string        `json:"database_dsn"`
	MachineSharePath string        `json:"machine_share_path"`
	ImageBaseURL     string        `json:"image_base_url"`
	Mode             string        `json:"-"`
}

var keys = []string{
	"SERVER_ADDRESS",
	"BACKEND_URL",
	"BACKEND_TIMEOUT",
	"SESSION_SECRET",
	"API_ADDRESS",
	"GRPC_ADDRESS",
	"FILE_STORAGE_PATH",
	"DATABASE_DSN",
	"MACHINE_SHARE_PATH",
	"IMAGE_BASE_URL",
}

// NewConfig собирает конфигурацию из аргументов командной строки процесса.
func NewConfig(logger *zap.Logger) (*Config, error) {
	return Load(os.Args[0], os.Args[1:], logger)
}

// Load собирает конфигурацию. Приоритет по возрастанию: значения по умолчанию,
// JSON-файл (-c/-config или CONFIG), .env, переменные окружения, флаги.
func Load(name string, args []string, logger *zap.Logger) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_ADDRESS", "localhost:8080") // Значения по умолчанию
	v.SetDefault("BACKEND_URL", "http://localhost:5001")
	v.SetDefault("BACKEND_TIMEOUT", 10*time.Second)
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("API_ADDRESS", "localhost:5001")
	v.SetDefault("GRPC_ADDRESS", "localhost:3200")
	v.SetDefault("FILE_STORAGE_PATH", "batches.json")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("MACHINE_SHARE_PATH", "")
	v.SetDefault("IMAGE_BASE_URL", "/media")

	// Определяем флаги, но НЕ задаем в них значения по умолчанию
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	serverAddress := fs.String("a", "", "console address")
	backendURL := fs.String("b", "", "backend base URL")
	backendTimeout := fs.Duration("timeout", 0, "backend request timeout")
	apiAddress := fs.String("api", "", "backend REST address")
	grpcAddress := fs.String("grpc", "", "backend gRPC address")
	fileStoragePath := fs.String("f", "", "file storage path (JSON file)")
	databaseDSN := fs.String("d", "", "PostgreSQL DSN")
	sharePath := fs.String("m", "", "machine share directory")
	imageBaseURL := fs.String("i", "", "preview image base URL")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", *configPath, err)
		}
	}

	// Читаем .env, если есть (не переопределяет переменные окружения)
	dotenv := viper.New()
	dotenv.SetConfigFile(".env")
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err == nil {
		for _, key := range keys {
			if dotenv.IsSet(key) {
				v.Set(key, dotenv.Get(key))
			}
		}
	}

	for _, key := range keys {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			v.Set(key, val)
		}
	}

	// Флаг, переданный явно, главнее всего
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			v.Set("SERVER_ADDRESS", *serverAddress)
		case "b":
			v.Set("BACKEND_URL", *backendURL)
		case "timeout":
			v.Set("BACKEND_TIMEOUT", *backendTimeout)
		case "api":
			v.Set("API_ADDRESS", *apiAddress)
		case "grpc":
			v.Set("GRPC_ADDRESS", *grpcAddress)
		case "f":
			v.Set("FILE_STORAGE_PATH", *fileStoragePath)
		case "d":
			v.Set("DATABASE_DSN", *databaseDSN)
		case "m":
			v.Set("MACHINE_SHARE_PATH", *sharePath)
		case "i":
			v.Set("IMAGE_BASE_URL", *imageBaseURL)
		}
	})

	cfg := &Config{
		ServerAddress:    v.GetString("SERVER_ADDRESS"),
		BackendURL:       v.GetString("BACKEND_URL"),
		BackendTimeout:   v.GetDuration("BACKEND_TIMEOUT"),
		SessionSecret:    v.GetString("SESSION_SECRET"),
		APIAddress:       v.GetString("API_ADDRESS"),
		GRPCAddress:      v.GetString("GRPC_ADDRESS"),
		FileStoragePath:  v.GetString("FILE_STORAGE_PATH"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		MachineSharePath: v.GetString("MACHINE_SHARE_PATH"),
		ImageBaseURL:     v.GetString("IMAGE_BASE_URL"),
	}

	// Определяем режим работы
	switch {
	case cfg.DatabaseDSN != "":
		cfg.Mode = ModeDatabase
	case cfg.FileStoragePath != "":
		cfg.Mode = ModeFile
	default:
		cfg.Mode = ModeMemory
	}

	logger.Info("Инициализация конфигурации",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("backend_url", cfg.BackendURL),
		zap.Duration("backend_timeout", cfg.BackendTimeout),
		zap.String("api_address", cfg.APIAddress),
		zap.String("grpc_address", cfg.GRPCAddress),
		zap.String("file_storage_path", cfg.FileStoragePath),
		zap.Bool("database", cfg.DatabaseDSN != ""),
		zap.String("machine_share_path", cfg.MachineSharePath),
		zap.String("mode", cfg.Mode),
	)

	// Проверка корректности конфигурации
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.ServerAddress, validation.Required),
		validation.Field(&cfg.BackendURL, validation.Required, is.RequestURL),
		validation.Field(&cfg.BackendTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&cfg.APIAddress, validation.Required),
		validation.Field(&cfg.GRPCAddress, validation.Required),
	)
}
